package services

import (
	"context"
	"testing"

	"github.com/JeffreyYAJ/Habit-tracker/config"
	"github.com/JeffreyYAJ/Habit-tracker/models"
	"github.com/JeffreyYAJ/Habit-tracker/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHabitService_CreateAndList(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.SetupTestDB(t, config.VariantGrid)
	svc := NewHabitService(gdb, zap.NewNop())

	read, err := svc.Create(ctx, "Read", 3, 2024)
	require.NoError(t, err)
	assert.NotEmpty(t, read.ID)
	assert.False(t, read.CreatedAt.IsZero())

	_, err = svc.Create(ctx, "Run", 4, 2024)
	require.NoError(t, err)
	water, err := svc.Create(ctx, "Water", 3, 2024)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Stretch", 3, 2023)
	require.NoError(t, err)

	all, err := svc.List(ctx, HabitFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	march, err := svc.List(ctx, HabitFilter{Month: 3, Year: 2024})
	require.NoError(t, err)
	require.Len(t, march, 2)
	assert.Equal(t, read.ID, march[0].ID)
	assert.Equal(t, water.ID, march[1].ID)

	byYear, err := svc.List(ctx, HabitFilter{Year: 2023})
	require.NoError(t, err)
	require.Len(t, byYear, 1)
	assert.Equal(t, "Stretch", byYear[0].Name)

	none, err := svc.List(ctx, HabitFilter{Month: 12, Year: 1999})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestHabitService_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.SetupTestDB(t, config.VariantGrid)
	habits := NewHabitService(gdb, zap.NewNop())
	completions := NewCompletionService(gdb, zap.NewNop(), false)

	habit, err := habits.Create(ctx, "Read", 5, 2024)
	require.NoError(t, err)
	other, err := habits.Create(ctx, "Run", 5, 2024)
	require.NoError(t, err)

	for day := 1; day <= 3; day++ {
		_, err := completions.Create(ctx, habit.ID, day, true)
		require.NoError(t, err)
	}
	_, err = completions.Create(ctx, other.ID, 1, true)
	require.NoError(t, err)

	require.NoError(t, habits.Delete(ctx, habit.ID))

	ok, err := habits.Exists(ctx, habit.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	left, err := completions.List(ctx, []string{habit.ID})
	require.NoError(t, err)
	assert.Empty(t, left)

	kept, err := completions.List(ctx, []string{other.ID})
	require.NoError(t, err)
	assert.Len(t, kept, 1)

	var total int64
	require.NoError(t, gdb.Model(&models.HabitCompletion{}).Count(&total).Error)
	assert.Equal(t, int64(1), total)
}

func TestHabitService_DeleteMissing(t *testing.T) {
	gdb := testutil.SetupTestDB(t, config.VariantGrid)
	svc := NewHabitService(gdb, zap.NewNop())

	err := svc.Delete(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, ErrHabitNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}
