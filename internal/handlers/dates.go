package handlers

import (
	"strings"
	"time"

	"github.com/complytrack/compliance-tracker-api/internal/models"
)

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// dateFields collects per-field parse failures for request dates
type dateFields struct {
	errs []models.FieldError
}

// parse accepts RFC 3339 timestamps or plain calendar dates. Blank values are nil.
func (d *dateFields) parse(field string, raw *string) *time.Time {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil
	}
	value := strings.TrimSpace(*raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	d.errs = append(d.errs, models.FieldError{Field: field, Message: "invalid date"})
	return nil
}
