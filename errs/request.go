package errs

import (
	"errors"
	"net/http"
)

// Authentication & Authorization Errors
var (
	ErrMissingToken   = errors.New("missing session token")
	ErrInvalidToken   = errors.New("invalid session token")
	ErrTokenExpired   = errors.New("session expired")
	ErrBadCredentials = errors.New("invalid password")
)

// Configuration & Environment Errors
var (
	ErrConfigMissing = errors.New("configuration missing")
)

// Authentication & Authorization Error Constructors
func NewMissingTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        tagged("Authentication required", ErrMissingToken),
		Field:      "authorization",
	}
}

func NewInvalidTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        tagged("Invalid session", ErrInvalidToken),
		Field:      "authorization",
	}
}

func NewTokenExpiredError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        tagged("Session has expired", ErrTokenExpired),
		Field:      "authorization",
	}
}

func NewBadCredentialsError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        tagged("Invalid password", ErrBadCredentials),
		Field:      "password",
	}
}

// NewConfigError reports a feature that cannot run because its settings are absent.
func NewConfigError(message, configName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        tagged(message, ErrConfigMissing),
		Details:    configName + " is not configured",
	}
}

func IsTokenExpiredError(err error) bool {
	return errors.Is(err, ErrTokenExpired)
}

func IsMissingTokenError(err error) bool {
	return errors.Is(err, ErrMissingToken)
}

func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfigMissing)
}
