package library

import "fmt"

// ValidationError reports a missing or malformed required field, e.g. a
// progress update with no book title.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError reports a title that could not be resolved against the
// library. Resolution *misses* during suggestion scoring are not errors;
// this type is reserved for operations that require a concrete book.
type NotFoundError struct {
	Kind string // "book", "note", "quote"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %q", e.Kind, e.Name)
}

// NewNotFoundError builds a NotFoundError.
func NewNotFoundError(kind, name string) *NotFoundError {
	return &NotFoundError{Kind: kind, Name: name}
}
