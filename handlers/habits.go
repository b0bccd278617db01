package handlers

import (
	"net/http"
	"strconv"

	"github.com/JeffreyYAJ/Habit-tracker/models"
	"github.com/JeffreyYAJ/Habit-tracker/services"
	"github.com/JeffreyYAJ/Habit-tracker/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HabitHandler struct {
	responder
	habits *services.HabitService
}

func NewHabitHandler(habits *services.HabitService, log *zap.Logger, metrics *utils.Metrics) *HabitHandler {
	return &HabitHandler{responder: responder{log: log, metrics: metrics}, habits: habits}
}

// GetHabits handles GET /api/habits?month=&year=
func (h *HabitHandler) GetHabits(c *gin.Context) {
	filter := services.HabitFilter{
		Month: queryInt(c, "month"),
		Year:  queryInt(c, "year"),
	}

	habits, err := h.habits.List(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, "get_habits", err)
		return
	}
	c.JSON(http.StatusOK, habits)
}

// CreateHabit handles POST /api/habits
func (h *HabitHandler) CreateHabit(c *gin.Context) {
	var req models.CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "create_habit", err)
		return
	}

	habit, err := h.habits.Create(c.Request.Context(), *req.Name, *req.Month, *req.Year)
	if err != nil {
		h.fail(c, "create_habit", err)
		return
	}
	c.JSON(http.StatusCreated, habit)
}

// DeleteHabit handles DELETE /api/habits/:habit_id
func (h *HabitHandler) DeleteHabit(c *gin.Context) {
	if err := h.habits.Delete(c.Request.Context(), c.Param("habit_id")); err != nil {
		h.fail(c, "delete_habit", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// queryInt reads an optional integer filter. Unparsable values read as 0,
// which disables the filter.
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}
