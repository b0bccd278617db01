package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Habit is a named habit tracked on a single month/year grid.
type Habit struct {
	ID          string            `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string            `gorm:"size:100;not null" json:"name"`
	Month       int               `gorm:"not null;index:idx_habits_period" json:"month"`
	Year        int               `gorm:"not null;index:idx_habits_period" json:"year"`
	CreatedAt   time.Time         `gorm:"autoCreateTime;index" json:"created_at"`
	Completions []HabitCompletion `gorm:"foreignKey:HabitID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Habit) TableName() string {
	return "habits"
}

func (h *Habit) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}

// HabitCompletion marks one day of a habit's month. Several rows may exist for
// the same (habit_id, day_number); nothing enforces uniqueness.
// Completed is a pointer so that an explicit false is written instead of
// being replaced by the column default.
type HabitCompletion struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	HabitID   string    `gorm:"type:varchar(36);not null;index;index:idx_completion_day" json:"habit_id"`
	DayNumber int       `gorm:"not null;index:idx_completion_day" json:"day_number"`
	Completed *bool     `gorm:"not null;default:true" json:"completed"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (HabitCompletion) TableName() string {
	return "habit_completions"
}

func (c *HabitCompletion) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// HabitProgress summarises one habit over its month.
type HabitProgress struct {
	HabitID        string  `json:"habit_id"`
	Name           string  `json:"name"`
	DaysInMonth    int     `json:"days_in_month"`
	CompletedDays  int     `json:"completed_days"`
	CompletionRate float64 `json:"completion_rate"`
	CurrentStreak  int     `json:"current_streak"`
	LongestStreak  int     `json:"longest_streak"`
}

type MonthlyProgress struct {
	Month  int             `json:"month"`
	Year   int             `json:"year"`
	Habits []HabitProgress `json:"habits"`
}
