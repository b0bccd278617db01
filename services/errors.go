package services

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by every "entity does not exist" error so callers can
// match the whole class with errors.Is.
var ErrNotFound = errors.New("not found")

var (
	ErrHabitNotFound      = fmt.Errorf("habit %w", ErrNotFound)
	ErrCompletionNotFound = fmt.Errorf("completion %w", ErrNotFound)
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
)
