package models

import (
	"errors"
	"time"
)

type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "not_started"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusDelayed    TaskStatus = "delayed"
	TaskStatusPending    TaskStatus = "pending"
)

var ErrInvalidTaskStatus = errors.New("invalid task status")

// ParseTaskStatus validates a status received from a client.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	switch s := TaskStatus(raw); s {
	case TaskStatusNotStarted, TaskStatusInProgress, TaskStatusCompleted, TaskStatusDelayed, TaskStatusPending:
		return s, nil
	default:
		return "", ErrInvalidTaskStatus
	}
}

// Task is one compliance obligation of a company under a business function.
// Subtype fields are only meaningful for the function they belong to; see ValidateSubtype.
type Task struct {
	ID               uint64     `gorm:"primarykey" json:"id"`
	CompanyID        uint64     `gorm:"not null;index" json:"company_id"`
	FunctionID       uint64     `gorm:"not null;index" json:"function_id"`
	AssignedToUserID uint64     `gorm:"not null;index" json:"assigned_to_user_id"`
	AssignedByUserID *uint64    `json:"assigned_by_user_id"`
	TaskType         string     `gorm:"type:varchar(50);not null" json:"task_type"`
	Status           TaskStatus `gorm:"type:varchar(20);not null;default:'not_started';index" json:"status"`
	PlannedDate      time.Time  `gorm:"not null" json:"planned_date"`
	ActualDate       *time.Time `json:"actual_date"`
	Remarks          *string    `gorm:"type:text" json:"remarks"`
	FinancialYear    string     `gorm:"type:varchar(10);not null;index" json:"financial_year"`

	// Accounting
	Quarter *string `gorm:"type:varchar(2)" json:"quarter"`
	Month   *string `gorm:"type:varchar(20)" json:"month"`

	// Tax
	FilingDueDate    *time.Time `json:"filing_due_date"`
	ActualFilingDate *time.Time `json:"actual_filing_date"`

	// Compliance
	ResponsiblePerson *string `gorm:"type:varchar(100)" json:"responsible_person"`
	MeetingDates      *string `gorm:"type:text" json:"meeting_dates"`
	ApprovedByBoard   *bool   `json:"approved_by_board"`
	MinutesStatus     *string `gorm:"type:varchar(20)" json:"minutes_status"`

	// Audit
	Milestone *string `gorm:"type:varchar(50)" json:"milestone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Company        Company            `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Function       Function           `gorm:"foreignKey:FunctionID" json:"function,omitempty"`
	AssignedToUser User               `gorm:"foreignKey:AssignedToUserID" json:"assigned_to_user,omitempty"`
	AssignedByUser *User              `gorm:"foreignKey:AssignedByUserID" json:"assigned_by_user,omitempty"`
	Files          []TaskFile         `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"files,omitempty"`
	Updates        []TaskStatusUpdate `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsDelayed reports whether the task finished (or was stamped) after its planned date.
func (t *Task) IsDelayed() bool {
	return t.ActualDate != nil && t.ActualDate.After(t.PlannedDate)
}

// DelayDays is the whole number of days between planned and actual date, truncated.
// It is zero for tasks that are not delayed.
func (t *Task) DelayDays() int {
	if !t.IsDelayed() {
		return 0
	}
	return int(t.ActualDate.Sub(t.PlannedDate) / (24 * time.Hour))
}
