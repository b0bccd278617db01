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

type AccountHandler struct {
	responder
	accounts *services.AccountService
}

func NewAccountHandler(accounts *services.AccountService, log *zap.Logger, metrics *utils.Metrics) *AccountHandler {
	return &AccountHandler{responder: responder{log: log, metrics: metrics}, accounts: accounts}
}

// CreateUser handles POST /api/users
func (h *AccountHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "create_user", err)
		return
	}

	user, err := h.accounts.CreateUser(c.Request.Context(), *req.Username, *req.Email)
	if err != nil {
		h.fail(c, "create_user", err)
		return
	}
	c.JSON(http.StatusCreated, models.UserCreatedResponse{ID: user.ID, Username: user.Username})
}

// CreateHabit handles POST /api/habits
func (h *AccountHandler) CreateHabit(c *gin.Context) {
	var req models.CreateAccountHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "create_account_habit", err)
		return
	}

	habit, err := h.accounts.CreateHabit(c.Request.Context(), *req.UserID, *req.Name, req.Description)
	if err != nil {
		h.fail(c, "create_account_habit", err)
		return
	}
	c.JSON(http.StatusCreated, models.HabitCreatedResponse{ID: habit.ID, Name: habit.Name})
}

// GetUserHabits handles GET /api/habits/:user_id
func (h *AccountHandler) GetUserHabits(c *gin.Context) {
	userID, ok := h.userIDParam(c, "get_user_habits")
	if !ok {
		return
	}

	habits, err := h.accounts.ListHabits(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, "get_user_habits", err)
		return
	}

	out := make([]models.HabitSummary, 0, len(habits))
	for _, habit := range habits {
		out = append(out, models.HabitSummary{ID: habit.ID, Name: habit.Name, Description: habit.Description})
	}
	c.JSON(http.StatusOK, out)
}

// CreateLog handles POST /api/logs
func (h *AccountHandler) CreateLog(c *gin.Context) {
	var req models.CreateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "create_log", err)
		return
	}

	entry, err := h.accounts.Log(c.Request.Context(), *req.HabitID, models.BoolOr(req.Completed, true))
	if err != nil {
		h.fail(c, "create_log", err)
		return
	}
	c.JSON(http.StatusCreated, models.LogCreatedResponse{ID: entry.ID})
}

func (h *AccountHandler) userIDParam(c *gin.Context, handler string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		h.badParam(c, handler, "user_id")
		return 0, false
	}
	return uint(id), true
}
