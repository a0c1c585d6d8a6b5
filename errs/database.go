package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinels returned by every store backend
var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidID          = errors.New("invalid id")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
	ErrDatabaseTimeout    = errors.New("database timeout")
)

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        tagged(fmt.Sprintf("%s not found", capitalize(entity)), ErrNotFound),
	}
}

func NewInvalidID(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        tagged(fmt.Sprintf("Invalid %s ID", entity), ErrInvalidID),
		Field:      "id",
	}
}

// NewDatabaseError creates a new database error with details about the operation
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	switch {
	case cause == nil:
	case IsNotFound(cause):
		e := NewNotFound(entity)
		e.Cause = cause
		return e
	case IsInvalidID(cause):
		e := NewInvalidID(entity)
		e.Cause = cause
		return e
	case IsAlreadyExists(cause):
		return &ApiErr{
			StatusCode: http.StatusBadRequest,
			err:        tagged(fmt.Sprintf("A %s with this title already exists", entity), ErrAlreadyExists),
			Details:    details,
			Cause:      cause,
		}
	case errors.Is(cause, context.DeadlineExceeded):
		return &ApiErr{
			StatusCode: http.StatusInternalServerError,
			err:        ErrDatabaseTimeout,
			Details:    details,
			Cause:      cause,
		}
	case strings.Contains(cause.Error(), "connection"):
		return &ApiErr{
			StatusCode: http.StatusInternalServerError,
			err:        ErrDatabaseConnection,
			Details:    "Unable to connect to database",
			Cause:      cause,
		}
	}

	// Generic database error
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

func IsInvalidID(err error) bool {
	return errors.Is(err, ErrInvalidID)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
