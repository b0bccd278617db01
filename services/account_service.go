package services

import (
	"context"
	"fmt"
	"time"

	"github.com/JeffreyYAJ/Habit-tracker/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AccountService manages users, their habits and the append-only habit logs.
type AccountService struct {
	db     *gorm.DB
	log    *zap.Logger
	strict bool
}

func NewAccountService(db *gorm.DB, log *zap.Logger, strict bool) *AccountService {
	return &AccountService{db: db, log: log, strict: strict}
}

func (s *AccountService) CreateUser(ctx context.Context, username, email string) (*models.User, error) {
	user := models.User{Username: username, Email: email}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("user_created", zap.Uint("user_id", user.ID), zap.String("username", username))
	return &user, nil
}

func (s *AccountService) CreateHabit(ctx context.Context, userID uint, name string, description *string) (*models.AccountHabit, error) {
	if s.strict {
		ok, err := exists(ctx, s.db, &models.User{}, userID)
		if err != nil {
			return nil, fmt.Errorf("check user %d: %w", userID, err)
		}
		if !ok {
			return nil, ErrUserNotFound
		}
	}

	habit := models.AccountHabit{UserID: userID, Name: name, Description: description}
	if err := s.db.WithContext(ctx).Create(&habit).Error; err != nil {
		return nil, fmt.Errorf("create habit: %w", err)
	}

	s.log.Info("habit_created", zap.Uint("habit_id", habit.ID), zap.Uint("user_id", userID))
	return &habit, nil
}

// ListHabits returns the user's habits. An unknown user yields an empty list.
func (s *AccountService) ListHabits(ctx context.Context, userID uint) ([]models.AccountHabit, error) {
	habits := []models.AccountHabit{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&habits).Error
	if err != nil {
		return nil, fmt.Errorf("list habits for user %d: %w", userID, err)
	}
	return habits, nil
}

// Log appends a log row for habitID dated now.
func (s *AccountService) Log(ctx context.Context, habitID uint, completed bool) (*models.HabitLog, error) {
	if s.strict {
		ok, err := exists(ctx, s.db, &models.AccountHabit{}, habitID)
		if err != nil {
			return nil, fmt.Errorf("check habit %d: %w", habitID, err)
		}
		if !ok {
			return nil, ErrHabitNotFound
		}
	}

	entry := models.HabitLog{
		HabitID:    habitID,
		LoggedDate: time.Now().UTC(),
		Completed:  &completed,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("create habit log: %w", err)
	}

	s.log.Info("habit_logged",
		zap.Uint("log_id", entry.ID),
		zap.Uint("habit_id", habitID),
		zap.Bool("completed", completed),
	)
	return &entry, nil
}
