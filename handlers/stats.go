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

type StatsHandler struct {
	responder
	stats *services.StatsService
}

func NewStatsHandler(stats *services.StatsService, log *zap.Logger, metrics *utils.Metrics) *StatsHandler {
	return &StatsHandler{responder: responder{log: log, metrics: metrics}, stats: stats}
}

// GetMonthlyStats handles GET /api/stats?month=&year=
func (h *StatsHandler) GetMonthlyStats(c *gin.Context) {
	var q models.StatsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badRequest(c, "get_monthly_stats", err)
		return
	}

	progress, err := h.stats.MonthlyProgress(c.Request.Context(), *q.Month, *q.Year)
	if err != nil {
		h.fail(c, "get_monthly_stats", err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// GetUserStats handles GET /api/users/:user_id/stats
func (h *StatsHandler) GetUserStats(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		h.badParam(c, "get_user_stats", "user_id")
		return
	}

	stats, err := h.stats.UserProgress(c.Request.Context(), uint(userID))
	if err != nil {
		h.fail(c, "get_user_stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
