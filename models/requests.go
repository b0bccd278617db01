package models

// Pointer fields distinguish "absent" from the zero value: required only
// rejects a missing field, so "" and 0 are accepted as given. Optional flags
// fall back to their defaults.

type CreateHabitRequest struct {
	Name  *string `json:"name" binding:"required"`
	Month *int    `json:"month" binding:"required"`
	Year  *int    `json:"year" binding:"required"`
}

type CreateCompletionRequest struct {
	HabitID   *string `json:"habit_id" binding:"required"`
	DayNumber *int    `json:"day_number" binding:"required"`
	Completed *bool   `json:"completed"`
}

type UpdateCompletionRequest struct {
	Completed *bool `json:"completed"`
}

type UpdateCompletionByDayRequest struct {
	HabitID   *string `json:"habit_id" binding:"required"`
	DayNumber *int    `json:"day_number" binding:"required"`
	Completed *bool   `json:"completed"`
}

type StatsQuery struct {
	Month *int `form:"month" binding:"required,min=1,max=12"`
	Year  *int `form:"year" binding:"required,min=1"`
}

type CreateUserRequest struct {
	Username *string `json:"username" binding:"required"`
	Email    *string `json:"email" binding:"required"`
}

type CreateAccountHabitRequest struct {
	UserID      *uint   `json:"user_id" binding:"required"`
	Name        *string `json:"name" binding:"required"`
	Description *string `json:"description"`
}

type CreateLogRequest struct {
	HabitID   *uint `json:"habit_id" binding:"required"`
	Completed *bool `json:"completed"`
}

// Response bodies of the accounts variant expose only a subset of each row.

type UserCreatedResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type HabitCreatedResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type HabitSummary struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type LogCreatedResponse struct {
	ID uint `json:"id"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// BoolOr returns *b, or def when b is nil.
func BoolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
