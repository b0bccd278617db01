package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/JeffreyYAJ/Habit-tracker/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HabitFilter restricts List to an exact month and/or year. Zero means no filter.
type HabitFilter struct {
	Month int
	Year  int
}

// HabitService manages month/year grid habits.
type HabitService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewHabitService(db *gorm.DB, log *zap.Logger) *HabitService {
	return &HabitService{db: db, log: log}
}

// List returns habits matching f, oldest first.
func (s *HabitService) List(ctx context.Context, f HabitFilter) ([]models.Habit, error) {
	query := s.db.WithContext(ctx).Model(&models.Habit{})
	if f.Month != 0 {
		query = query.Where("month = ?", f.Month)
	}
	if f.Year != 0 {
		query = query.Where("year = ?", f.Year)
	}

	habits := []models.Habit{}
	if err := query.Order("created_at ASC").Order("id ASC").Find(&habits).Error; err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return habits, nil
}

func (s *HabitService) Create(ctx context.Context, name string, month, year int) (*models.Habit, error) {
	habit := models.Habit{Name: name, Month: month, Year: year}
	if err := s.db.WithContext(ctx).Create(&habit).Error; err != nil {
		return nil, fmt.Errorf("create habit: %w", err)
	}

	s.log.Info("habit_created",
		zap.String("habit_id", habit.ID),
		zap.Int("month", month),
		zap.Int("year", year),
	)
	return &habit, nil
}

// Exists reports whether a habit with id is stored.
func (s *HabitService) Exists(ctx context.Context, id string) (bool, error) {
	return exists(ctx, s.db, &models.Habit{}, id)
}

// Delete removes the habit and all of its completions in one transaction.
func (s *HabitService) Delete(ctx context.Context, id string) error {
	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var habit models.Habit
		if err := tx.Where("id = ?", id).Take(&habit).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHabitNotFound
			}
			return err
		}

		res := tx.Where("habit_id = ?", habit.ID).Delete(&models.HabitCompletion{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected

		return tx.Delete(&habit).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete habit %s: %w", id, err)
	}

	s.log.Info("habit_deleted",
		zap.String("habit_id", id),
		zap.Int64("completions_removed", removed),
	)
	return nil
}

func exists(ctx context.Context, db *gorm.DB, model interface{}, id interface{}) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
