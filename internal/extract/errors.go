package extract

import (
	"errors"
	"fmt"
)

// ErrMissingObjects is returned for documents without an ObjectStates list.
var ErrMissingObjects = errors.New("missing ObjectStates list")

// ParseError reports an input document that could not be turned into tasks.
// It is fatal for that input only.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FieldTypeError is returned when a mapped field holds something other than a
// string, e.g. a number or a boolean.
type FieldTypeError struct {
	Path  string
	Value any
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("field %s: expected URL string, got %T (%v)", e.Path, e.Value, e.Value)
}
