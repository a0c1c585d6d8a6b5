package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrCORSBlocked is returned for origins outside ACCEPTED_ORIGINS.
var ErrCORSBlocked = errors.New("request blocked by CORS policy")

// Request & Input-Validation Errors
var (
	ErrMalformedPayload     = errors.New("malformed payload")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMaxBodySizeExceeded  = errors.New("max body size exceeded")
	ErrTooManyRequests      = errors.New("too many requests")
)

type ApiErr struct {
	StatusCode int
	err        error
	Details    string // Additional details about the error
	Field      string // Field that caused the error (for validation errors)
	Cause      error  // The underlying cause of the error
}

// implements error interface. this allows us to pass an instance of ApiErr as an argument of type `error`
func (e *ApiErr) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.err.Error(), e.Details)
	}
	return e.err.Error()
}

// Message is the client-facing text, without details.
func (e *ApiErr) Message() string {
	return e.err.Error()
}

// GetFullError returns a recursive error message including all causes
func (e *ApiErr) GetFullError() string {
	msg := e.Error()
	if e.Cause != nil {
		var apiErr *ApiErr
		if errors.As(e.Cause, &apiErr) {
			msg = fmt.Sprintf("%s -> %s", msg, apiErr.GetFullError())
		} else {
			msg = fmt.Sprintf("%s -> %s", msg, e.Cause.Error())
		}
	}
	return msg
}

// this function allows us to do the following:
// err := &ApiErr{StatusCode: ..., err: someSentinelError}
// errors.Is(err, someSentinelError) ==> evaluates to true
func (e *ApiErr) Unwrap() error {
	return e.err
}

// Internal reports whether the error should be hidden from the client.
func (e *ApiErr) Internal() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// taggedErr carries a client-facing message while still matching a sentinel
type taggedErr struct {
	msg      string
	sentinel error
}

func tagged(msg string, sentinel error) error {
	return taggedErr{msg: msg, sentinel: sentinel}
}

func (e taggedErr) Error() string { return e.msg }

func (e taggedErr) Unwrap() error { return e.sentinel }

// Common error constructors with appropriate HTTP status codes

func NewBadRequestError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusBadRequest, err: errors.New(message)}
}

func NewInternalError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusInternalServerError, err: errors.New(message)}
}

func NewInternalErrorWithCause(message string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        errors.New(message),
		Cause:      cause,
	}
}

func NewCORSError(origin string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		err:        ErrCORSBlocked,
		Details:    fmt.Sprintf("Origin '%s' is not allowed by CORS policy", origin),
	}
}

// Request & Input-Validation Error Constructors
func NewMalformedPayloadError(payloadType string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrMalformedPayload,
		Details:    fmt.Sprintf("Malformed %s payload", payloadType),
		Cause:      cause,
		Field:      "payload",
	}
}

func NewMissingRequiredFieldError(fieldName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrMissingRequiredField,
		Details:    fmt.Sprintf("Missing required field: %s", fieldName),
		Field:      fieldName,
	}
}

func NewUnsupportedMediaTypeError(contentType string, allowed string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        tagged(fmt.Sprintf("Only %s files are allowed", allowed), ErrUnsupportedMediaType),
		Details:    fmt.Sprintf("Unsupported media type: %s", contentType),
		Field:      "file",
	}
}

func NewMaxBodySizeExceededError(maxSize int64) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        tagged(fmt.Sprintf("File size must be less than %dMB", maxSize>>20), ErrMaxBodySizeExceeded),
		Field:      "file",
	}
}

func NewTooManyRequestsError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusTooManyRequests,
		err:        ErrTooManyRequests,
		Details:    "Please slow down and try again later",
	}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
