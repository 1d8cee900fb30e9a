package nkit

import (
	"errors"
	"fmt"
)

var (
	// ErrSchema is returned for empty or invalid table, index and group
	// definitions, unknown type or column names and duplicate column names.
	ErrSchema = errors.New("schema error")

	// ErrTypeMismatch is returned when a value's tag differs from the column type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrOutOfRange is returned for row or column positions outside the table.
	ErrOutOfRange = errors.New("position out of range")

	// ErrResourceLimit is returned when a fixed capacity would be exceeded.
	ErrResourceLimit = errors.New("resource limit exceeded")

	// ErrDetached is returned when an index is used after it was removed from
	// its table.
	ErrDetached = errors.New("index is detached")
)

// SchemaError describes a rejected definition.
//
// It matches ErrSchema with errors.Is.
type SchemaError struct {
	Definition string
	Message    string
	cause      error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", ErrSchema, e.Message)
}

func (e *SchemaError) Unwrap() error { return e.cause }

func schemaErrorf(def, format string, args ...any) error {
	return &SchemaError{Definition: def, Message: fmt.Sprintf(format, args...), cause: ErrSchema}
}

// ResourceLimitError reports a definition that needs more composite key items
// than the fixed key capacity.
//
// It matches ErrResourceLimit with errors.Is.
type ResourceLimitError struct {
	Limit     int
	Requested int
	cause     error
}

func (e *ResourceLimitError) Error() string {
	return fmt.Sprintf("%s: key needs %d items, capacity is %d", ErrResourceLimit, e.Requested, e.Limit)
}

func (e *ResourceLimitError) Unwrap() error { return e.cause }

func typeMismatch(col Column, got Tag) error {
	return fmt.Errorf("%w: column %q expects %s, got %s", ErrTypeMismatch, col.Name, col.Type, got)
}

func outOfRange(what string, pos, limit int) error {
	return fmt.Errorf("%w: %s %d not in [0, %d)", ErrOutOfRange, what, pos, limit)
}
