package availability

import "fmt"

// RuleError reports a request that cannot be checked at all, as opposed to a
// slot that is checked and found unavailable.
type RuleError struct {
	Code    string
	Message string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(msg string) error {
	return &RuleError{
		Code:    "validationError",
		Message: msg,
	}
}
