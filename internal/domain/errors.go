package domain

import (
	"errors"
	"fmt"
)

// Error variables
var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrIDExhausted means the id generator kept returning ids already in use.
	ErrIDExhausted = errors.New("no unused snippet id could be drawn")
)

// ValidationError reports a missing or empty required field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) hold.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Validate checks that s can be persisted.
func Validate(s *Snippet) error {
	if s == nil || s.Meta == nil {
		return &ValidationError{Field: "meta", Reason: "Snippet metadata cannot be empty"}
	}
	if s.Meta.Name == "" {
		return &ValidationError{Field: "meta.name", Reason: "Snippet name cannot be empty"}
	}
	return nil
}
