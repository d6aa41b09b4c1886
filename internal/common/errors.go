package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// Error kinds. Services return them wrapped in *Error; handlers map them with SendError.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidRange = errors.New("invalid date range")
	ErrValidation   = errors.New("validation failed")
	ErrStore        = errors.New("store failure")
)

// Error carries a kind, the user-visible message and, for validation errors, the offending field.
type Error struct {
	Kind    error
	Message string
	Field   string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func InvalidRange(format string, args ...any) *Error {
	return &Error{Kind: ErrInvalidRange, Message: fmt.Sprintf(format, args...)}
}

// Validation reports a missing or malformed field.
func Validation(field, message string) *Error {
	return &Error{Kind: ErrValidation, Field: field, Message: message}
}

// StoreError wraps a driver error. A nil err yields nil.
func StoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: ErrStore, Message: "failed to " + op, Err: err}
}

// ErrorResponse is the JSON envelope of every error answer.
type ErrorResponse struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	return &ErrorResponse{Code: code, Message: message, Details: details}
}

// StatusOf maps an error onto an HTTP status and response code.
func StatusOf(err error) (int, string) {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, ErrInvalidRange):
		return http.StatusBadRequest, "INVALID_RANGE"
	case errors.Is(err, ErrConflict):
		return http.StatusBadRequest, "CONFLICT"
	default:
		return http.StatusInternalServerError, "SERVER_ERROR"
	}
}

// SendError writes err in the error envelope. Internal failures are logged and answered with a generic message.
func SendError(c echo.Context, err error) error {
	status, code := StatusOf(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return SendServerError(c, "Internal server error")
	}

	message := err.Error()
	var details map[string]string
	var e *Error
	if errors.As(err, &e) {
		message = e.Message
		if e.Field != "" {
			details = map[string]string{e.Field: e.Message}
		}
	}
	return c.JSON(status, CreateErrorResponse(code, message, details))
}

// SendClientError sends a client error response
func SendClientError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("CLIENT_ERROR", message, nil))
}

// SendServerError sends a server error response
func SendServerError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", message, nil))
}

// HTTPErrorHandler renders errors that escaped a handler, including echo's own
// routing errors, in the same envelope.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			msg = m
		}
		code := "CLIENT_ERROR"
		switch {
		case he.Code == http.StatusNotFound:
			code = "NOT_FOUND"
		case he.Code >= http.StatusInternalServerError:
			code = "SERVER_ERROR"
		}
		if werr := c.JSON(he.Code, CreateErrorResponse(code, msg, nil)); werr != nil {
			log.Error().Err(werr).Msg("failed to write error response")
		}
		return
	}

	if werr := SendError(c, err); werr != nil {
		log.Error().Err(werr).Msg("failed to write error response")
	}
}
