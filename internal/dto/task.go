package dto

import (
	"time"

	"github.com/complytrack/compliance-tracker-api/internal/models"
	"github.com/complytrack/compliance-tracker-api/internal/utils"
)

// TaskFileDTO is attachment metadata. The payload is only served by the fetch endpoint.
type TaskFileDTO struct {
	ID                 uint64    `json:"id"`
	TaskID             uint64    `json:"task_id"`
	FileName           string    `json:"file_name"`
	ContentType        string    `json:"content_type"`
	FileSize           int64     `json:"file_size"`
	UploadedByUserID   uint64    `json:"uploaded_by_user_id"`
	UploadedByUserName string    `json:"uploaded_by_user_name"`
	UploadedAt         time.Time `json:"uploaded_at"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID                 uint64            `json:"id"`
	CompanyID          uint64            `json:"company_id"`
	CompanyName        string            `json:"company_name"`
	CompanyCode        string            `json:"company_code"`
	FunctionID         uint64            `json:"function_id"`
	FunctionType       string            `json:"function_type"`
	AssignedToUserID   uint64            `json:"assigned_to_user_id"`
	AssignedToUserName string            `json:"assigned_to_user_name"`
	AssignedByUserID   *uint64           `json:"assigned_by_user_id"`
	TaskType           string            `json:"task_type"`
	Status             models.TaskStatus `json:"status"`
	PlannedDate        time.Time         `json:"planned_date"`
	ActualDate         *time.Time        `json:"actual_date"`
	Remarks            *string           `json:"remarks"`
	FinancialYear      string            `json:"financial_year"`
	Quarter            *string           `json:"quarter"`
	Month              *string           `json:"month"`
	FilingDueDate      *time.Time        `json:"filing_due_date"`
	ActualFilingDate   *time.Time        `json:"actual_filing_date"`
	ResponsiblePerson  *string           `json:"responsible_person"`
	MeetingDates       []time.Time       `json:"meeting_dates"`
	ApprovedByBoard    *bool             `json:"approved_by_board"`
	MinutesStatus      *string           `json:"minutes_status"`
	Milestone          *string           `json:"milestone"`
	IsDelayed          bool              `json:"is_delayed"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
	Files              []TaskFileDTO     `json:"files"`
}

// TaskUpdateDTO is one journal entry with the updater's display name
type TaskUpdateDTO struct {
	ID            uint64    `json:"id"`
	Status        *string   `json:"status"`
	Remark        *string   `json:"remark"`
	UpdatedByID   uint64    `json:"updated_by_user_id"`
	UpdatedByName string    `json:"updated_by"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TaskUpdateListResponse represents a paginated task journal
type TaskUpdateListResponse struct {
	Updates    []TaskUpdateDTO          `json:"updates"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// Conversion functions

// ToTaskFileDTO converts a TaskFile model to TaskFileDTO
func ToTaskFileDTO(file models.TaskFile) TaskFileDTO {
	return TaskFileDTO{
		ID:                 file.ID,
		TaskID:             file.TaskID,
		FileName:           file.FileName,
		ContentType:        file.ContentType,
		FileSize:           file.FileSize,
		UploadedByUserID:   file.UploadedByUserID,
		UploadedByUserName: nameOrUnknown(file.UploadedByUser.FullName),
		UploadedAt:         file.UploadedAt,
	}
}

// ToTaskDTO converts a Task model with preloaded relations to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	files := make([]TaskFileDTO, len(task.Files))
	for i, f := range task.Files {
		files[i] = ToTaskFileDTO(f)
	}

	return TaskDTO{
		ID:                 task.ID,
		CompanyID:          task.CompanyID,
		CompanyName:        nameOrUnknown(task.Company.Name),
		CompanyCode:        task.Company.Code,
		FunctionID:         task.FunctionID,
		FunctionType:       string(task.Function.Type),
		AssignedToUserID:   task.AssignedToUserID,
		AssignedToUserName: nameOrUnknown(task.AssignedToUser.FullName),
		AssignedByUserID:   task.AssignedByUserID,
		TaskType:           task.TaskType,
		Status:             task.Status,
		PlannedDate:        task.PlannedDate,
		ActualDate:         task.ActualDate,
		Remarks:            task.Remarks,
		FinancialYear:      task.FinancialYear,
		Quarter:            task.Quarter,
		Month:              task.Month,
		FilingDueDate:      task.FilingDueDate,
		ActualFilingDate:   task.ActualFilingDate,
		ResponsiblePerson:  task.ResponsiblePerson,
		MeetingDates:       models.DecodeMeetingDates(task.MeetingDates),
		ApprovedByBoard:    task.ApprovedByBoard,
		MinutesStatus:      task.MinutesStatus,
		Milestone:          task.Milestone,
		IsDelayed:          task.IsDelayed(),
		CreatedAt:          task.CreatedAt,
		UpdatedAt:          task.UpdatedAt,
		Files:              files,
	}
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	out := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		out[i] = ToTaskDTO(t)
	}
	return out
}

// ToTaskUpdateDTO converts a journal entry
func ToTaskUpdateDTO(update models.TaskStatusUpdate) TaskUpdateDTO {
	return TaskUpdateDTO{
		ID:            update.ID,
		Status:        update.Status,
		Remark:        update.Remark,
		UpdatedByID:   update.UpdatedByUserID,
		UpdatedByName: nameOrUnknown(update.UpdatedByUser.FullName),
		UpdatedAt:     update.UpdatedAt,
	}
}

func nameOrUnknown(name string) string {
	if name == "" {
		return "Unknown"
	}
	return name
}
