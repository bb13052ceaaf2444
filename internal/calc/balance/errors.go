package balance

import (
	"fmt"
	"strings"
)

// ValidationError reports failed input preconditions. No balance is produced
// when it is returned.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// FieldError reports a required numeric field that is missing or does not parse.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: %s", e.Field, e.Reason)
}

// Checks collects validation messages in order.
type Checks struct {
	msgs []string
}

func (c *Checks) Require(ok bool, format string, args ...any) {
	if !ok {
		c.msgs = append(c.msgs, fmt.Sprintf(format, args...))
	}
}

func (c *Checks) Err() error {
	if len(c.msgs) == 0 {
		return nil
	}
	return &ValidationError{Messages: c.msgs}
}
