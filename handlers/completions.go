package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/JeffreyYAJ/Habit-tracker/models"
	"github.com/JeffreyYAJ/Habit-tracker/services"
	"github.com/JeffreyYAJ/Habit-tracker/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CompletionHandler struct {
	responder
	completions *services.CompletionService
}

func NewCompletionHandler(completions *services.CompletionService, log *zap.Logger, metrics *utils.Metrics) *CompletionHandler {
	return &CompletionHandler{responder: responder{log: log, metrics: metrics}, completions: completions}
}

// GetCompletions handles GET /api/completions?habit_id=a&habit_id=b
func (h *CompletionHandler) GetCompletions(c *gin.Context) {
	completions, err := h.completions.List(c.Request.Context(), c.QueryArray("habit_id"))
	if err != nil {
		h.fail(c, "get_completions", err)
		return
	}
	c.JSON(http.StatusOK, completions)
}

// CreateCompletion handles POST /api/completions
func (h *CompletionHandler) CreateCompletion(c *gin.Context) {
	var req models.CreateCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "create_completion", err)
		return
	}

	completion, err := h.completions.Create(
		c.Request.Context(),
		*req.HabitID,
		*req.DayNumber,
		models.BoolOr(req.Completed, true),
	)
	if err != nil {
		h.fail(c, "create_completion", err)
		return
	}
	c.JSON(http.StatusCreated, completion)
}

// UpdateCompletion handles PUT /api/completions/:completion_id. An unknown id
// is reported before the body is looked at. An empty body is accepted and
// changes nothing.
func (h *CompletionHandler) UpdateCompletion(c *gin.Context) {
	id := c.Param("completion_id")
	if _, err := h.completions.Get(c.Request.Context(), id); err != nil {
		h.fail(c, "update_completion", err)
		return
	}

	var req models.UpdateCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.badRequest(c, "update_completion", err)
		return
	}

	completion, err := h.completions.UpdateByID(c.Request.Context(), id, req.Completed)
	if err != nil {
		h.fail(c, "update_completion", err)
		return
	}
	c.JSON(http.StatusOK, completion)
}

// UpdateCompletionByDay handles PUT /api/completions
func (h *CompletionHandler) UpdateCompletionByDay(c *gin.Context) {
	var req models.UpdateCompletionByDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "update_completion_by_day", err)
		return
	}

	completion, err := h.completions.UpdateByHabitAndDay(c.Request.Context(), *req.HabitID, *req.DayNumber, req.Completed)
	if err != nil {
		h.fail(c, "update_completion_by_day", err)
		return
	}
	c.JSON(http.StatusOK, completion)
}
