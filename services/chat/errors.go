package chat

import "fmt"

// RoutingError reports a routing path that could not run to completion.
type RoutingError struct {
	Code    string
	Message string
}

func (e *RoutingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewRoutingUnavailableError marks an oracle timeout or transport failure.
// The router degrades to a deterministic reply when it sees this.
func NewRoutingUnavailableError(msg string) error {
	return &RoutingError{Code: "routingUnavailable", Message: msg}
}

// NewToolMisuseError marks a model reply that claimed availability without
// calling the availability tool, after retries.
func NewToolMisuseError(msg string) error {
	return &RoutingError{Code: "toolMisuse", Message: msg}
}
