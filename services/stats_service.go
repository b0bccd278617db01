package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/JeffreyYAJ/Habit-tracker/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StatsService computes progress summaries. Each habit's figures are
// independent, so they are computed in one goroutine per habit and gathered
// over a channel. A summary is all or nothing: one failed habit fails the call.
type StatsService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewStatsService(db *gorm.DB, log *zap.Logger) *StatsService {
	return &StatsService{db: db, log: log}
}

type progressResult struct {
	index    int
	progress models.HabitProgress
	err      error
}

// MonthlyProgress summarises every grid habit of month/year.
func (s *StatsService) MonthlyProgress(ctx context.Context, month, year int) (*models.MonthlyProgress, error) {
	startTime := time.Now()

	habits := []models.Habit{}
	err := s.db.WithContext(ctx).
		Where("month = ? AND year = ?", month, year).
		Order("created_at ASC").
		Order("id ASC").
		Find(&habits).Error
	if err != nil {
		return nil, fmt.Errorf("list habits for %d/%d: %w", month, year, err)
	}

	result := &models.MonthlyProgress{Month: month, Year: year, Habits: []models.HabitProgress{}}
	if len(habits) == 0 {
		return result, nil
	}

	days := DaysInMonth(year, month)
	resultChan := make(chan progressResult, len(habits))
	var wg sync.WaitGroup

	for i, habit := range habits {
		wg.Add(1)
		go func(i int, h models.Habit) {
			defer wg.Done()
			p, err := s.habitProgress(ctx, h, days)
			resultChan <- progressResult{index: i, progress: p, err: err}
		}(i, habit)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	ordered := make([]models.HabitProgress, len(habits))
	var firstErr error
	for r := range resultChan {
		if r.err != nil {
			s.log.Warn("habit_progress_error",
				zap.String("habit_id", habits[r.index].ID),
				zap.Error(r.err),
			)
			if firstErr == nil {
				firstErr = fmt.Errorf("progress of habit %s: %w", habits[r.index].ID, r.err)
			}
			continue
		}
		ordered[r.index] = r.progress
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.Habits = append(result.Habits, ordered...)

	s.log.Info("monthly_progress_calculated",
		zap.Int("month", month),
		zap.Int("year", year),
		zap.Int("habits_count", len(habits)),
		zap.Duration("duration", time.Since(startTime)),
	)
	return result, nil
}

func (s *StatsService) habitProgress(ctx context.Context, h models.Habit, daysInMonth int) (models.HabitProgress, error) {
	p := models.HabitProgress{HabitID: h.ID, Name: h.Name, DaysInMonth: daysInMonth}

	var dayNumbers []int
	err := s.db.WithContext(ctx).
		Model(&models.HabitCompletion{}).
		Where("habit_id = ? AND completed = ?", h.ID, true).
		Pluck("day_number", &dayNumbers).Error
	if err != nil {
		return p, err
	}

	days := CompletedDays(dayNumbers, daysInMonth)
	p.CompletedDays = len(days)
	if daysInMonth > 0 {
		p.CompletionRate = float64(len(days)) / float64(daysInMonth) * 100
	}
	p.CurrentStreak, p.LongestStreak = DayStreaks(days)
	return p, nil
}

type habitStatsResult struct {
	index int
	stats models.HabitStats
	err   error
}

// UserProgress summarises the logs of every habit owned by userID.
func (s *StatsService) UserProgress(ctx context.Context, userID uint) (*models.UserHabitStats, error) {
	startTime := time.Now()

	habits := []models.AccountHabit{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&habits).Error; err != nil {
		return nil, fmt.Errorf("list habits for user %d: %w", userID, err)
	}

	result := &models.UserHabitStats{UserID: userID, TotalHabits: len(habits), HabitStats: []models.HabitStats{}}
	if len(habits) == 0 {
		return result, nil
	}

	statsChan := make(chan habitStatsResult, len(habits))
	var wg sync.WaitGroup

	for i, habit := range habits {
		wg.Add(1)
		go func(i int, h models.AccountHabit) {
			defer wg.Done()
			stats, err := s.singleHabitStats(ctx, h.ID)
			statsChan <- habitStatsResult{index: i, stats: stats, err: err}
		}(i, habit)
	}

	go func() {
		wg.Wait()
		close(statsChan)
	}()

	ordered := make([]models.HabitStats, len(habits))
	var firstErr error
	for r := range statsChan {
		if r.err != nil {
			s.log.Warn("habit_stats_error",
				zap.Uint("habit_id", habits[r.index].ID),
				zap.Error(r.err),
			)
			if firstErr == nil {
				firstErr = fmt.Errorf("stats of habit %d: %w", habits[r.index].ID, r.err)
			}
			continue
		}
		ordered[r.index] = r.stats
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var totalRate float64
	for _, st := range ordered {
		result.HabitStats = append(result.HabitStats, st)
		totalRate += st.CompletionRate
	}
	if len(result.HabitStats) > 0 {
		result.OverallRate = totalRate / float64(len(result.HabitStats))
	}

	s.log.Info("stats_calculated_concurrently",
		zap.Uint("user_id", userID),
		zap.Int("habits_count", len(habits)),
		zap.Duration("duration", time.Since(startTime)),
	)
	return result, nil
}

func (s *StatsService) singleHabitStats(ctx context.Context, habitID uint) (models.HabitStats, error) {
	stats := models.HabitStats{HabitID: habitID}

	var logs []models.HabitLog
	err := s.db.WithContext(ctx).
		Where("habit_id = ?", habitID).
		Order("logged_date DESC").
		Order("id DESC").
		Find(&logs).Error
	if err != nil {
		return stats, err
	}

	flags := make([]bool, len(logs))
	for i, l := range logs {
		flags[i] = models.BoolOr(l.Completed, true)
	}

	stats.TotalLogs = len(logs)
	stats.CompletedLogs, stats.CurrentStreak, stats.LongestStreak = LogStreaks(flags)
	if stats.TotalLogs > 0 {
		stats.CompletionRate = float64(stats.CompletedLogs) / float64(stats.TotalLogs) * 100
	}
	return stats, nil
}

// DaysInMonth returns the number of days of month in year.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// CompletedDays returns the distinct day numbers within 1..daysInMonth, sorted.
func CompletedDays(dayNumbers []int, daysInMonth int) []int {
	seen := make(map[int]struct{}, len(dayNumbers))
	days := make([]int, 0, len(dayNumbers))
	for _, d := range dayNumbers {
		if d < 1 || d > daysInMonth {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}

// DayStreaks takes sorted distinct days. current is the run of consecutive
// days ending at the last completed day; longest is the longest such run.
func DayStreaks(days []int) (current, longest int) {
	run := 0
	for i, d := range days {
		if i > 0 && d == days[i-1]+1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return run, longest
}

// LogStreaks takes completion flags newest first. current counts the leading
// completed entries.
func LogStreaks(flags []bool) (completed, current, longest int) {
	run := 0
	counting := true
	for _, done := range flags {
		if !done {
			counting = false
			run = 0
			continue
		}
		completed++
		run++
		if counting {
			current = run
		}
		if run > longest {
			longest = run
		}
	}
	return completed, current, longest
}
