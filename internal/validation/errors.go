package validation

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError represents a validation error on a single form field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *FieldError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Errors collects every field error of a form
type Errors struct {
	Fields []*FieldError `json:"errors"`
}

// Error implements the error interface
func (e *Errors) Error() string {
	if len(e.Fields) == 1 {
		return e.Fields[0].Error()
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Error())
	}
	return strings.Join(msgs, "; ")
}

// Add records a failure for field. Only the first failure per field is kept.
func (e *Errors) Add(field string, err error) {
	if err == nil {
		return
	}
	for _, f := range e.Fields {
		if f.Field == field {
			return
		}
	}
	e.Fields = append(e.Fields, &FieldError{Field: field, Message: err.Error()})
}

// Field returns the message recorded for field, if any
func (e *Errors) Field(field string) (string, bool) {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message, true
		}
	}
	return "", false
}

// HasErrors returns true if there are any errors
func (e *Errors) HasErrors() bool {
	return len(e.Fields) > 0
}

// Err returns e as an error, or nil when nothing failed
func (e *Errors) Err() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

// IsValidationError reports whether err came from local form validation
func IsValidationError(err error) bool {
	var errs *Errors
	return errors.As(err, &errs)
}
