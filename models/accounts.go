package models

import "time"

type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Email     string         `gorm:"size:120;uniqueIndex;not null" json:"email"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	Habits    []AccountHabit `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// AccountHabit is a habit owned by a User. It shares the "habits" table name
// with the grid Habit; the two variants never run against the same database.
type AccountHabit struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	Name        string     `gorm:"size:100;not null" json:"name"`
	Description *string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	Logs        []HabitLog `gorm:"foreignKey:HabitID;constraint:OnDelete:CASCADE" json:"-"`
}

func (AccountHabit) TableName() string {
	return "habits"
}

type HabitLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	HabitID    uint      `gorm:"not null;index" json:"habit_id"`
	LoggedDate time.Time `gorm:"not null" json:"logged_date"`
	Completed  *bool     `gorm:"not null;default:true" json:"completed"`
}

type HabitStats struct {
	HabitID        uint    `json:"habit_id"`
	TotalLogs      int     `json:"total_logs"`
	CompletedLogs  int     `json:"completed_logs"`
	CompletionRate float64 `json:"completion_rate"`
	CurrentStreak  int     `json:"current_streak"`
	LongestStreak  int     `json:"longest_streak"`
}

type UserHabitStats struct {
	UserID      uint         `json:"user_id"`
	TotalHabits int          `json:"total_habits"`
	OverallRate float64      `json:"overall_completion_rate"`
	HabitStats  []HabitStats `json:"habit_stats"`
}
