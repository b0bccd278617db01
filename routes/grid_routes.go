package routes

import (
	"github.com/JeffreyYAJ/Habit-tracker/handlers"
	"github.com/JeffreyYAJ/Habit-tracker/services"
	"github.com/JeffreyYAJ/Habit-tracker/utils"
	"github.com/gin-gonic/gin"
)

func registerGridRoutes(api *gin.RouterGroup, d Deps, metrics *utils.Metrics, cached []gin.HandlerFunc) {
	strict := d.Config.StrictReferences

	habitHandler := handlers.NewHabitHandler(services.NewHabitService(d.DB, d.Log), d.Log, metrics)
	completionHandler := handlers.NewCompletionHandler(services.NewCompletionService(d.DB, d.Log, strict), d.Log, metrics)
	statsHandler := handlers.NewStatsHandler(services.NewStatsService(d.DB, d.Log), d.Log, metrics)

	api.GET("/habits", with(cached, habitHandler.GetHabits)...)
	api.POST("/habits", habitHandler.CreateHabit)
	api.DELETE("/habits/:habit_id", habitHandler.DeleteHabit)

	api.GET("/completions", with(cached, completionHandler.GetCompletions)...)
	api.POST("/completions", completionHandler.CreateCompletion)
	api.PUT("/completions", completionHandler.UpdateCompletionByDay)
	api.PUT("/completions/:completion_id", completionHandler.UpdateCompletion)

	api.GET("/stats", with(cached, statsHandler.GetMonthlyStats)...)
}
