package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is matched by errors.Is for every ValidationErrors value.
var ErrValidation = errors.New("validation failed")

// ValidationError describes a single rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects field-level failures for one input.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Is makes errors.Is(err, ErrValidation) true.
func (errs ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}

// Add appends a field error.
func (errs *ValidationErrors) Add(field, format string, args ...any) {
	*errs = append(*errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Err returns nil when nothing was collected.
func (errs ValidationErrors) Err() error {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// HasField reports whether a failure was recorded for field.
func (errs ValidationErrors) HasField(field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}
