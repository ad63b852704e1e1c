package reservation

import (
	"errors"
	"fmt"
)

// ServiceError carries a stable machine code next to the human message so
// handlers can map failures onto HTTP statuses without string matching.
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(msg string) error {
	return &ServiceError{Code: "validationError", Message: msg}
}

func NewConflictError(msg string) error {
	return &ServiceError{Code: "conflict", Message: msg}
}

func NewNotFoundError(msg string) error {
	return &ServiceError{Code: "notFound", Message: msg}
}

func codeOf(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsConflict reports whether the error is a capacity or state conflict.
func IsConflict(err error) bool {
	return codeOf(err) == "conflict"
}

// IsValidation reports whether the error rejects the request itself.
func IsValidation(err error) bool {
	return codeOf(err) == "validationError"
}

// IsNotFound reports whether the error is a missing reservation.
func IsNotFound(err error) bool {
	return codeOf(err) == "notFound"
}
