package errors

import (
	"fmt"
)

type AppError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    make(map[string]interface{}),
	}
}

// WithDetails returns a copy of the error carrying request-specific details,
// so the shared sentinel errors are never mutated.
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Details:    details,
	}
}

// WithReason is shorthand for a single human-readable detail.
func (e *AppError) WithReason(reason string) *AppError {
	return e.WithDetails(map[string]interface{}{"reason": reason})
}

// WithErrors attaches a list of validation errors.
func (e *AppError) WithErrors(errs []string) *AppError {
	return e.WithDetails(map[string]interface{}{"errors": errs})
}
