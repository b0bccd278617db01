package main

import "github.com/JeffreyYAJ/Habit-tracker/cmd"

func main() {
	cmd.Execute()
}
