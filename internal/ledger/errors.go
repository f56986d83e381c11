package ledger

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no transaction matches both the id and the
// caller's session.
var ErrNotFound = errors.New("transaction not found")

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
