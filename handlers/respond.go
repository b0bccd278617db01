package handlers

import (
	"errors"
	"net/http"

	"github.com/JeffreyYAJ/Habit-tracker/middleware"
	"github.com/JeffreyYAJ/Habit-tracker/models"
	"github.com/JeffreyYAJ/Habit-tracker/services"
	"github.com/JeffreyYAJ/Habit-tracker/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// responder is embedded by every handler for uniform error bodies.
type responder struct {
	log     *zap.Logger
	metrics *utils.Metrics
}

func (r responder) badRequest(c *gin.Context, handler string, err error) {
	msg := middleware.BindErrorMessage(err)
	r.log.Warn("invalid_request",
		zap.String("handler", handler),
		zap.String("reason", msg),
		zap.Error(err),
	)
	r.count(handler, "validation")
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msg})
}

func (r responder) badParam(c *gin.Context, handler, name string) {
	r.count(handler, "validation")
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: name + " is invalid"})
}

// fail maps service errors: missing entities become 404, everything else 500
// with the cause kept in the log only.
func (r responder) fail(c *gin.Context, handler string, err error) {
	switch {
	case errors.Is(err, services.ErrHabitNotFound):
		r.notFound(c, handler, "Habit not found")
		return
	case errors.Is(err, services.ErrCompletionNotFound):
		r.notFound(c, handler, "Completion not found")
		return
	case errors.Is(err, services.ErrUserNotFound):
		r.notFound(c, handler, "User not found")
		return
	}

	kind := storageErrorType(err)
	r.log.Error("request_failed",
		zap.String("handler", handler),
		zap.String("type", kind),
		zap.Error(err),
	)
	r.count(handler, kind)
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal server error"})
}

func (r responder) notFound(c *gin.Context, handler, msg string) {
	r.count(handler, "not_found")
	c.JSON(http.StatusNotFound, models.ErrorResponse{Error: msg})
}

func (r responder) count(handler, kind string) {
	if r.metrics != nil {
		r.metrics.ErrorCount.WithLabelValues(handler, kind).Inc()
	}
}

func storageErrorType(err error) string {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return "duplicate_key"
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return "foreign_key"
	default:
		return "storage"
	}
}
