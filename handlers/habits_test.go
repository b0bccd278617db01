package handlers_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/JeffreyYAJ/Habit-tracker/config"
	"github.com/JeffreyYAJ/Habit-tracker/db"
	"github.com/JeffreyYAJ/Habit-tracker/models"
	"github.com/JeffreyYAJ/Habit-tracker/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
)

func createHabit(t *testing.T, r *gin.Engine, name string, month, year int) models.Habit {
	t.Helper()
	w := testutil.Do(r, testutil.MakeRequest(http.MethodPost, "/api/habits", gin.H{
		"name": name, "month": month, "year": year,
	}))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var habit models.Habit
	testutil.DecodeJSON(t, w, &habit)
	return habit
}

func TestCreateHabit(t *testing.T) {
	r, _ := newRouter(t, config.VariantGrid, false)

	w := testutil.Do(r, testutil.MakeRequest(http.MethodPost, "/api/habits", `{"name":"Read","month":5,"year":2024}`))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var body map[string]interface{}
	testutil.DecodeJSON(t, w, &body)
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "Read", body["name"])
	assert.Equal(t, 5.0, body["month"])
	assert.Equal(t, 2024.0, body["year"])
	assert.NotEmpty(t, body["created_at"])
	assert.NotContains(t, body, "completions")
}

func TestCreateHabit_Invalid(t *testing.T) {
	r, _ := newRouter(t, config.VariantGrid, false)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing month", `{"name":"Read","year":2024}`, "month is required"},
		{"missing year", `{"name":"Read","month":5}`, "year is required"},
		{"missing name", `{"month":5,"year":2024}`, "name is required"},
		{"null name", `{"name":null,"month":5,"year":2024}`, "name is required"},
		{"wrong type", `{"name":"Read","month":"may","year":2024}`, "month is invalid"},
		{"malformed", `{"name":"Read",`, "invalid JSON body"},
		{"empty body", ``, "request body is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testutil.Do(r, testutil.MakeRequest(http.MethodPost, "/api/habits", tt.body))
			testutil.AssertStatus(t, w, http.StatusBadRequest)
			assert.JSONEq(t, `{"error":"`+tt.want+`"}`, w.Body.String())
		})
	}
}

func TestCreateHabit_EmptyName(t *testing.T) {
	r, _ := newRouter(t, config.VariantGrid, false)

	habit := createHabit(t, r, "", 5, 2024)
	assert.NotEmpty(t, habit.ID)
	assert.Equal(t, "", habit.Name)
}

func TestGetHabits_Filter(t *testing.T) {
	r, _ := newRouter(t, config.VariantGrid, false)

	first := createHabit(t, r, "Read", 3, 2024)
	createHabit(t, r, "Run", 4, 2024)
	createHabit(t, r, "Swim", 3, 2023)
	second := createHabit(t, r, "Write", 3, 2024)

	w := testutil.Do(r, testutil.MakeRequest(http.MethodGet, "/api/habits?month=3&year=2024", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var habits []models.Habit
	testutil.DecodeJSON(t, w, &habits)
	require.Len(t, habits, 2)
	assert.Equal(t, first.ID, habits[0].ID)
	assert.Equal(t, second.ID, habits[1].ID)

	w = testutil.Do(r, testutil.MakeRequest(http.MethodGet, "/api/habits?year=2024", nil))
	testutil.DecodeJSON(t, w, &habits)
	assert.Len(t, habits, 3)

	// unparsable filters are ignored
	w = testutil.Do(r, testutil.MakeRequest(http.MethodGet, "/api/habits?month=march", nil))
	testutil.DecodeJSON(t, w, &habits)
	assert.Len(t, habits, 4)
}

func TestGetHabits_Empty(t *testing.T) {
	r, _ := newRouter(t, config.VariantGrid, false)

	w := testutil.Do(r, testutil.MakeRequest(http.MethodGet, "/api/habits", nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestDeleteHabit(t *testing.T) {
	r, _ := newRouter(t, config.VariantGrid, false)
	habit := createHabit(t, r, "Read", 5, 2024)

	w := testutil.Do(r, testutil.MakeRequest(http.MethodDelete, "/api/habits/"+habit.ID, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = testutil.Do(r, testutil.MakeRequest(http.MethodDelete, "/api/habits/"+habit.ID, nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)
	assert.JSONEq(t, `{"error":"Habit not found"}`, w.Body.String())
}

func TestDeleteHabit_RemovesCompletions(t *testing.T) {
	r, gdb := newRouter(t, config.VariantGrid, false)
	habit := createHabit(t, r, "Read", 5, 2024)
	other := createHabit(t, r, "Run", 5, 2024)

	for _, body := range []gin.H{
		{"habit_id": habit.ID, "day_number": 1},
		{"habit_id": habit.ID, "day_number": 2},
		{"habit_id": other.ID, "day_number": 1},
	} {
		w := testutil.Do(r, testutil.MakeRequest(http.MethodPost, "/api/completions", body))
		testutil.AssertStatus(t, w, http.StatusCreated)
	}

	w := testutil.Do(r, testutil.MakeRequest(http.MethodDelete, "/api/habits/"+habit.ID, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = testutil.Do(r, testutil.MakeRequest(http.MethodGet, "/api/completions?habit_id="+habit.ID, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	assert.JSONEq(t, `[]`, w.Body.String())

	var remaining int64
	require.NoError(t, gdb.Model(&models.HabitCompletion{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
}

func TestGetHabits_StorageFailure(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	gdb, err := db.Open(postgres.New(postgres.Config{Conn: mockDB}), zap.NewNop())
	require.NoError(t, err)
	r := newRouterWithDB(t, gdb, config.VariantGrid, false)

	mock.ExpectQuery(`SELECT .* FROM "habits"`).WillReturnError(errors.New("connection reset by peer"))

	w := testutil.Do(r, testutil.MakeRequest(http.MethodGet, "/api/habits", nil))
	testutil.AssertStatus(t, w, http.StatusInternalServerError)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "connection reset")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMonthlyStats_PartialFailure(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	mock.MatchExpectationsInOrder(false)

	gdb, err := db.Open(postgres.New(postgres.Config{Conn: mockDB}), zap.NewNop())
	require.NoError(t, err)
	r := newRouterWithDB(t, gdb, config.VariantGrid, false)

	mock.ExpectQuery(`SELECT .* FROM "habits"`).WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "month", "year"}).
			AddRow("h1", "Read", 5, 2024).
			AddRow("h2", "Run", 5, 2024),
	)
	mock.ExpectQuery(`SELECT "day_number" FROM "habit_completions"`).
		WillReturnRows(sqlmock.NewRows([]string{"day_number"}).AddRow(3))
	mock.ExpectQuery(`SELECT "day_number" FROM "habit_completions"`).
		WillReturnError(errors.New("connection reset by peer"))

	w := testutil.Do(r, testutil.MakeRequest(http.MethodGet, "/api/stats?month=5&year=2024", nil))
	testutil.AssertStatus(t, w, http.StatusInternalServerError)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}
