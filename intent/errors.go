package intent

import "fmt"

// InvalidInputError reports a malformed scoring request. The scorer
// rejects bad input outright rather than coercing it into a guess.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

func invalidInput(field, reason string) *InvalidInputError {
	return &InvalidInputError{Field: field, Reason: reason}
}
