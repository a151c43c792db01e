package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/complytrack/compliance-tracker-api/internal/dto"
	apierrors "github.com/complytrack/compliance-tracker-api/internal/errors"
	"github.com/complytrack/compliance-tracker-api/internal/models"
	"github.com/complytrack/compliance-tracker-api/internal/services"
	"github.com/complytrack/compliance-tracker-api/internal/utils"
	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	taskService *services.TaskService
	log         *slog.Logger
}

func NewTaskHandler(taskService *services.TaskService, log *slog.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		log:         log,
	}
}

// ListTasks returns the tasks visible to the caller.
// Filters: company_id, function_type, status, financial_year, my_tasks.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	companyID, ok := parseOptionalID(c, "company_id")
	if !ok {
		return
	}

	tasks, err := h.taskService.ListTasks(scope, services.ListTasksInput{
		CompanyID:     companyID,
		FunctionType:  c.Query("function_type"),
		Status:        c.Query("status"),
		FinancialYear: c.Query("financial_year"),
		MyTasks:       strings.EqualFold(c.Query("my_tasks"), "true"),
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTaskDTOs(tasks),
		"total": len(tasks),
	})
}

// GetTask returns a specific task with its files
func (h *TaskHandler) GetTask(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(scope, taskID)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		CompanyID        uint64  `json:"company_id" binding:"required"`
		FunctionID       uint64  `json:"function_id" binding:"required"`
		AssignedToUserID uint64  `json:"assigned_to_user_id" binding:"required"`
		TaskType         string  `json:"task_type" binding:"required"`
		PlannedDate      *string `json:"planned_date" binding:"required"`
		ActualDate       *string `json:"actual_date"`
		Remarks          *string `json:"remarks"`
		FinancialYear    string  `json:"financial_year" binding:"required"`

		Quarter           *string         `json:"quarter"`
		Month             *string         `json:"month"`
		FilingDueDate     *string         `json:"filing_due_date"`
		ActualFilingDate  *string         `json:"actual_filing_date"`
		ResponsiblePerson *string         `json:"responsible_person"`
		MeetingDates      json.RawMessage `json:"meeting_dates"`
		ApprovedByBoard   *bool           `json:"approved_by_board"`
		MinutesStatus     *string         `json:"minutes_status"`
		Milestone         *string         `json:"milestone"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var dates dateFields
	planned := dates.parse("planned_date", req.PlannedDate)
	actual := dates.parse("actual_date", req.ActualDate)
	filingDue := dates.parse("filing_due_date", req.FilingDueDate)
	actualFiling := dates.parse("actual_filing_date", req.ActualFilingDate)
	if planned == nil && len(dates.errs) == 0 {
		dates.errs = append(dates.errs, models.FieldError{Field: "planned_date", Message: "is required"})
	}
	if len(dates.errs) > 0 {
		apierrors.BadRequestWithDetails(c, "Validation failed", dates.errs)
		return
	}

	task, err := h.taskService.CreateTask(scope, services.CreateTaskInput{
		CompanyID:         req.CompanyID,
		FunctionID:        req.FunctionID,
		AssignedToUserID:  req.AssignedToUserID,
		TaskType:          req.TaskType,
		PlannedDate:       *planned,
		ActualDate:        actual,
		Remarks:           req.Remarks,
		FinancialYear:     req.FinancialYear,
		Quarter:           req.Quarter,
		Month:             req.Month,
		FilingDueDate:     filingDue,
		ActualFilingDate:  actualFiling,
		ResponsiblePerson: req.ResponsiblePerson,
		MeetingDates:      req.MeetingDates,
		ApprovedByBoard:   req.ApprovedByBoard,
		MinutesStatus:     req.MinutesStatus,
		Milestone:         req.Milestone,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update from an admin or the assignee
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Status           *string         `json:"status"`
		ActualDate       *string         `json:"actual_date"`
		Remarks          *string         `json:"remarks"`
		ActualFilingDate *string         `json:"actual_filing_date"`
		MeetingDates     json.RawMessage `json:"meeting_dates"`
		ApprovedByBoard  *bool           `json:"approved_by_board"`
		MinutesStatus    *string         `json:"minutes_status"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var dates dateFields
	actual := dates.parse("actual_date", req.ActualDate)
	actualFiling := dates.parse("actual_filing_date", req.ActualFilingDate)
	if len(dates.errs) > 0 {
		apierrors.BadRequestWithDetails(c, "Validation failed", dates.errs)
		return
	}

	task, err := h.taskService.UpdateTask(scope, taskID, services.UpdateTaskInput{
		Status:           req.Status,
		ActualDate:       actual,
		Remarks:          req.Remarks,
		ActualFilingDate: actualFiling,
		MeetingDates:     req.MeetingDates,
		ApprovedByBoard:  req.ApprovedByBoard,
		MinutesStatus:    req.MinutesStatus,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task with its files and journal
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(taskID); err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// ListTaskUpdates returns the status journal of a task, newest first
func (h *TaskHandler) ListTaskUpdates(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	updates, total, err := h.taskService.ListUpdates(scope, taskID, params)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	items := make([]dto.TaskUpdateDTO, len(updates))
	for i, u := range updates {
		items[i] = dto.ToTaskUpdateDTO(u)
	}

	c.JSON(http.StatusOK, dto.TaskUpdateListResponse{
		Updates:    items,
		Pagination: utils.NewPaginationResponse(params, total),
	})
}
