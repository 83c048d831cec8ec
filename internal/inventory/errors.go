package inventory

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a record id is absent from the store.
var ErrNotFound = errors.New("inventory item not found")

// ErrQuotaExceeded is returned when a snapshot is larger than the slot allows.
var ErrQuotaExceeded = errors.New("snapshot exceeds storage quota")

// FieldError describes one invalid form field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every invalid field of a rejected form.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "invalid inventory form: " + strings.Join(parts, "; ")
}

// PersistenceError wraps a failed snapshot load or save.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("snapshot %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
