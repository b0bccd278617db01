package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/JeffreyYAJ/Habit-tracker/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CompletionService records per-day completion flags for grid habits.
// With strict set, Create refuses completions for unknown habits instead of
// leaving the check to the storage layer.
type CompletionService struct {
	db     *gorm.DB
	log    *zap.Logger
	strict bool
}

func NewCompletionService(db *gorm.DB, log *zap.Logger, strict bool) *CompletionService {
	return &CompletionService{db: db, log: log, strict: strict}
}

// List returns all completions, or only those of habitIDs when any are given.
func (s *CompletionService) List(ctx context.Context, habitIDs []string) ([]models.HabitCompletion, error) {
	query := s.db.WithContext(ctx).Model(&models.HabitCompletion{})
	if len(habitIDs) > 0 {
		query = query.Where("habit_id IN ?", habitIDs)
	}

	completions := []models.HabitCompletion{}
	if err := query.Order("created_at ASC").Order("id ASC").Find(&completions).Error; err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	return completions, nil
}

func (s *CompletionService) Create(ctx context.Context, habitID string, dayNumber int, completed bool) (*models.HabitCompletion, error) {
	if s.strict {
		ok, err := exists(ctx, s.db, &models.Habit{}, habitID)
		if err != nil {
			return nil, fmt.Errorf("check habit %s: %w", habitID, err)
		}
		if !ok {
			return nil, ErrHabitNotFound
		}
	}

	completion := models.HabitCompletion{
		HabitID:   habitID,
		DayNumber: dayNumber,
		Completed: &completed,
	}
	if err := s.db.WithContext(ctx).Create(&completion).Error; err != nil {
		return nil, fmt.Errorf("create completion: %w", err)
	}

	s.log.Info("completion_created",
		zap.String("completion_id", completion.ID),
		zap.String("habit_id", habitID),
		zap.Int("day_number", dayNumber),
	)
	return &completion, nil
}

// Get returns the completion with id, or ErrCompletionNotFound.
func (s *CompletionService) Get(ctx context.Context, id string) (*models.HabitCompletion, error) {
	var completion models.HabitCompletion
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&completion).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompletionNotFound
		}
		return nil, fmt.Errorf("get completion %s: %w", id, err)
	}
	return &completion, nil
}

// UpdateByID sets the completed flag; a nil completed leaves the row unchanged.
func (s *CompletionService) UpdateByID(ctx context.Context, id string, completed *bool) (*models.HabitCompletion, error) {
	return s.update(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("id = ?", id)
	}, completed)
}

// UpdateByHabitAndDay updates the earliest completion recorded for the
// (habitID, dayNumber) pair.
func (s *CompletionService) UpdateByHabitAndDay(ctx context.Context, habitID string, dayNumber int, completed *bool) (*models.HabitCompletion, error) {
	return s.update(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("habit_id = ? AND day_number = ?", habitID, dayNumber).
			Order("created_at ASC").
			Order("id ASC")
	}, completed)
}

func (s *CompletionService) update(ctx context.Context, find func(*gorm.DB) *gorm.DB, completed *bool) (*models.HabitCompletion, error) {
	var completion models.HabitCompletion
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := find(tx).Take(&completion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCompletionNotFound
			}
			return err
		}

		if completed == nil || *completed == models.BoolOr(completion.Completed, true) {
			return nil
		}
		value := *completed
		if err := tx.Model(&completion).Update("completed", value).Error; err != nil {
			return err
		}
		completion.Completed = &value
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update completion: %w", err)
	}

	s.log.Info("completion_updated",
		zap.String("completion_id", completion.ID),
		zap.Boolp("completed", completion.Completed),
	)
	return &completion, nil
}
