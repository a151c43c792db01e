package models

import (
	"fmt"
	"strings"
	"time"
)

// Task types accepted per business function.
var taskTypesByFunction = map[FunctionType][]string{
	FunctionAccounting: {"quarterly_financials", "annual_financials", "ifrs_packs", "monthly_reports", "lender_reports", "fsc_survey"},
	FunctionTax:        {"tax_filing"},
	FunctionCompliance: {"minutes_tracker"},
	FunctionAudit:      {"milestone_tracker"},
}

var (
	quarters        = []string{"Q1", "Q2", "Q3", "Q4"}
	months          = []string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"}
	minutesStatuses = []string{"pending", "draft", "approved", "circulated"}
	milestones      = []string{"audit_start", "field_work_done", "draft_fs_shared", "cleared_by_auditor", "signed_fs"}
)

// TaskTypes returns the task types valid for a function.
func TaskTypes(ft FunctionType) []string {
	return append([]string(nil), taskTypesByFunction[ft]...)
}

// SubtypeFields carries the function-specific part of a task as submitted by a client.
type SubtypeFields struct {
	TaskType string

	Quarter *string
	Month   *string

	FilingDueDate    *time.Time
	ActualFilingDate *time.Time

	ResponsiblePerson *string
	HasMeetingDates   bool
	ApprovedByBoard   *bool
	MinutesStatus     *string

	Milestone *string
}

// FieldError names one offending input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SubtypeError lists every field that failed validation.
type SubtypeError struct {
	Fields []FieldError
}

func (e *SubtypeError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return fmt.Sprintf("invalid task fields: %s", strings.Join(names, ", "))
}

// ValidateSubtype checks the task type and subtype fields against the function
// discriminant. Fields owned by another function are rejected.
func ValidateSubtype(ft FunctionType, f SubtypeFields) error {
	var errs []FieldError
	add := func(field, msg string) {
		errs = append(errs, FieldError{Field: field, Message: msg})
	}

	allowed, ok := taskTypesByFunction[ft]
	if !ok {
		return ErrInvalidFunctionType
	}
	if !contains(allowed, f.TaskType) {
		add("task_type", fmt.Sprintf("must be one of %s for %s", strings.Join(allowed, ", "), ft))
	}

	accounting := f.Quarter != nil || f.Month != nil
	tax := f.FilingDueDate != nil || f.ActualFilingDate != nil
	compliance := f.ResponsiblePerson != nil || f.HasMeetingDates || f.ApprovedByBoard != nil || f.MinutesStatus != nil
	audit := f.Milestone != nil

	if ft != FunctionAccounting && accounting {
		add("quarter", "only valid for accounting tasks")
	}
	if ft != FunctionTax && tax {
		add("filing_due_date", "only valid for tax tasks")
	}
	if ft != FunctionCompliance && compliance {
		add("responsible_person", "only valid for compliance tasks")
	}
	if ft != FunctionAudit && audit {
		add("milestone", "only valid for audit tasks")
	}

	switch ft {
	case FunctionAccounting:
		if f.TaskType == "quarterly_financials" && blank(f.Quarter) {
			add("quarter", "required for quarterly financials")
		}
		if f.Quarter != nil && !contains(quarters, *f.Quarter) {
			add("quarter", "must be one of Q1, Q2, Q3, Q4")
		}
		if f.TaskType == "monthly_reports" && blank(f.Month) {
			add("month", "required for monthly reports")
		}
		if f.Month != nil && !contains(months, *f.Month) {
			add("month", "must be a month name")
		}
	case FunctionTax:
		if f.FilingDueDate == nil {
			add("filing_due_date", "required for tax tasks")
		}
	case FunctionCompliance:
		if blank(f.ResponsiblePerson) {
			add("responsible_person", "required for compliance tasks")
		}
		if f.MinutesStatus != nil && !ValidMinutesStatus(*f.MinutesStatus) {
			add("minutes_status", "must be one of "+strings.Join(minutesStatuses, ", "))
		}
	case FunctionAudit:
		if f.Milestone == nil || !contains(milestones, *f.Milestone) {
			add("milestone", "must be one of "+strings.Join(milestones, ", "))
		}
	}

	if len(errs) > 0 {
		return &SubtypeError{Fields: errs}
	}
	return nil
}

// ValidMinutesStatus reports whether s is a known board-minutes status.
func ValidMinutesStatus(s string) bool {
	return contains(minutesStatuses, s)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
