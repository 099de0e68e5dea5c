package apperr

import (
	"errors"
	"net/http"
)

// Code classifies an application error.
type Code string

const (
	InvalidInput     Code = "invalid_input"
	InvalidReference Code = "invalid_reference"
	NotFound         Code = "not_found"
	Unauthorized     Code = "unauthorized"
	Internal         Code = "internal"
)

const internalMessage = "Internal Server Error"

// Error is a coded application error. Message is safe to show to clients.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a coded error with a client-facing message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a coded error that keeps cause for logging.
func Wrap(code Code, message string, cause error) error {
	return &Error{Code: code, Message: message, Err: cause}
}

// CodeOf returns the error code, defaulting to Internal for untyped errors.
func CodeOf(err error) Code {
	var coded *Error
	if errors.As(err, &coded) && coded.Code != "" {
		return coded.Code
	}
	return Internal
}

// MessageOf returns the client-facing message. Untyped errors never leak
// their text; they render as a generic internal error.
func MessageOf(err error) string {
	var coded *Error
	if errors.As(err, &coded) && coded.Message != "" {
		return coded.Message
	}
	return internalMessage
}

// IsNotFound reports whether err carries the NotFound code.
func IsNotFound(err error) bool {
	return err != nil && CodeOf(err) == NotFound
}

// HTTPStatus maps an error code to its HTTP status.
func HTTPStatus(code Code) int {
	switch code {
	case InvalidInput, InvalidReference:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
