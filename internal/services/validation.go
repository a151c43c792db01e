package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/complytrack/compliance-tracker-api/internal/models"
)

// ValidationError is returned when input is rejected before anything is persisted.
type ValidationError struct {
	Fields []models.FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, models.FieldError{Field: field, Message: message})
}

// errOrNil returns e only when it collected at least one field.
func (e *ValidationError) errOrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func invalidField(field, message string) error {
	return &ValidationError{Fields: []models.FieldError{{Field: field, Message: message}}}
}

// asValidation folds a subtype error into a ValidationError.
func asValidation(err error) error {
	var subtypeErr *models.SubtypeError
	if errors.As(err, &subtypeErr) {
		return &ValidationError{Fields: subtypeErr.Fields}
	}
	return err
}
