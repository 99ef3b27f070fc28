package common

import "strings"

// ValidationError reports every violation found in a client payload, not
// just the first one.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation error: " + strings.Join(e.Messages, "; ")
}
