package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/complytrack/compliance-tracker-api/internal/access"
	"github.com/complytrack/compliance-tracker-api/internal/models"
	"github.com/complytrack/compliance-tracker-api/internal/observability/metrics"
	"github.com/complytrack/compliance-tracker-api/internal/repository"
	"github.com/complytrack/compliance-tracker-api/internal/storage"
	"github.com/complytrack/compliance-tracker-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrTaskEditForbidden   = errors.New("only an admin or the assignee can update this task")
	ErrCompanyAccessDenied = errors.New("no access to the requested company")
)

// TaskService handles task business logic
type TaskService struct {
	tasks     repository.TaskRepository
	companies repository.CompanyRepository
	functions repository.FunctionRepository
	users     repository.UserRepository
	store     storage.FileStore
	log       *slog.Logger
	now       func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(
	tasks repository.TaskRepository,
	companies repository.CompanyRepository,
	functions repository.FunctionRepository,
	users repository.UserRepository,
	store storage.FileStore,
	log *slog.Logger,
) *TaskService {
	return &TaskService{
		tasks:     tasks,
		companies: companies,
		functions: functions,
		users:     users,
		store:     store,
		log:       log,
		now:       time.Now,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	CompanyID     *uint64
	FunctionType  string
	Status        string
	FinancialYear string
	MyTasks       bool
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	CompanyID        uint64
	FunctionID       uint64
	AssignedToUserID uint64
	TaskType         string
	PlannedDate      time.Time
	ActualDate       *time.Time
	Remarks          *string
	FinancialYear    string

	Quarter           *string
	Month             *string
	FilingDueDate     *time.Time
	ActualFilingDate  *time.Time
	ResponsiblePerson *string
	MeetingDates      json.RawMessage
	ApprovedByBoard   *bool
	MinutesStatus     *string
	Milestone         *string
}

// UpdateTaskInput represents a partial task update. Nil fields are left untouched.
type UpdateTaskInput struct {
	Status           *string
	ActualDate       *time.Time
	Remarks          *string
	ActualFilingDate *time.Time
	MeetingDates     json.RawMessage
	ApprovedByBoard  *bool
	MinutesStatus    *string
}

// ListTasks returns the tasks visible to the caller that match every given filter.
func (s *TaskService) ListTasks(scope access.Scope, input ListTasksInput) ([]models.Task, error) {
	if input.CompanyID != nil && !scope.CanQueryCompany(*input.CompanyID) {
		return nil, ErrCompanyAccessDenied
	}

	filter := repository.TaskFilter{
		CompanyID:     input.CompanyID,
		FinancialYear: strings.TrimSpace(input.FinancialYear),
		Scopes:        []repository.QueryScope{scope.Apply},
		IncludeFiles:  true,
	}

	if ft := strings.TrimSpace(input.FunctionType); ft != "" {
		functionType, err := models.ParseFunctionType(strings.ToLower(ft))
		if err != nil {
			return nil, invalidField("function_type", "unknown function type")
		}
		filter.FunctionType = &functionType
	}
	if st := strings.TrimSpace(input.Status); st != "" {
		status, err := models.ParseTaskStatus(st)
		if err != nil {
			return nil, invalidField("status", "unknown status")
		}
		filter.Status = &status
	}
	if input.MyTasks {
		filter.AssignedUserID = &scope.UserID
	}

	tasks, err := s.tasks.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// GetTask returns a visible task with related data
func (s *TaskService) GetTask(scope access.Scope, taskID uint64) (*models.Task, error) {
	task, err := s.tasks.FindDetailed(taskID, scope.Apply)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTask validates and stores a new task in the not_started state
func (s *TaskService) CreateTask(scope access.Scope, input CreateTaskInput) (*models.Task, error) {
	verr := &ValidationError{}
	if input.CompanyID == 0 {
		verr.add("company_id", "required")
	}
	if input.FunctionID == 0 {
		verr.add("function_id", "required")
	}
	if input.AssignedToUserID == 0 {
		verr.add("assigned_to_user_id", "required")
	}
	if strings.TrimSpace(input.TaskType) == "" {
		verr.add("task_type", "required")
	}
	if input.PlannedDate.IsZero() {
		verr.add("planned_date", "required")
	}
	if strings.TrimSpace(input.FinancialYear) == "" {
		verr.add("financial_year", "required")
	}
	if err := verr.errOrNil(); err != nil {
		return nil, err
	}

	company, err := s.companies.FindByID(input.CompanyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidField("company_id", "company does not exist")
		}
		return nil, fmt.Errorf("failed to find company: %w", err)
	}
	if !company.IsActive {
		return nil, invalidField("company_id", "company is inactive")
	}

	function, err := s.functions.FindByID(input.FunctionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidField("function_id", "function does not exist")
		}
		return nil, fmt.Errorf("failed to find function: %w", err)
	}

	assignee, err := s.users.FindByID(input.AssignedToUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidField("assigned_to_user_id", "user does not exist")
		}
		return nil, fmt.Errorf("failed to find assignee: %w", err)
	}
	if !assignee.IsActive {
		return nil, invalidField("assigned_to_user_id", "user is inactive")
	}

	taskType := strings.TrimSpace(input.TaskType)
	hasMeetingDates := rawPresent(input.MeetingDates)
	err = models.ValidateSubtype(function.Type, models.SubtypeFields{
		TaskType:          taskType,
		Quarter:           input.Quarter,
		Month:             input.Month,
		FilingDueDate:     input.FilingDueDate,
		ActualFilingDate:  input.ActualFilingDate,
		ResponsiblePerson: input.ResponsiblePerson,
		HasMeetingDates:   hasMeetingDates,
		ApprovedByBoard:   input.ApprovedByBoard,
		MinutesStatus:     input.MinutesStatus,
		Milestone:         input.Milestone,
	})
	if err != nil {
		return nil, asValidation(err)
	}

	creator := scope.UserID
	task := &models.Task{
		CompanyID:         company.ID,
		FunctionID:        function.ID,
		AssignedToUserID:  assignee.ID,
		AssignedByUserID:  &creator,
		TaskType:          taskType,
		Status:            models.TaskStatusNotStarted,
		PlannedDate:       input.PlannedDate,
		ActualDate:        input.ActualDate,
		Remarks:           input.Remarks,
		FinancialYear:     strings.TrimSpace(input.FinancialYear),
		Quarter:           input.Quarter,
		Month:             input.Month,
		FilingDueDate:     input.FilingDueDate,
		ActualFilingDate:  input.ActualFilingDate,
		ResponsiblePerson: input.ResponsiblePerson,
		ApprovedByBoard:   input.ApprovedByBoard,
		MinutesStatus:     input.MinutesStatus,
		Milestone:         input.Milestone,
	}
	if hasMeetingDates {
		task.MeetingDates = models.EncodeMeetingDates(input.MeetingDates)
	}

	if err := s.tasks.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.reload(task.ID)
}

// UpdateTask applies a partial update.
//
// Any change to status, remarks, actual filing date, meeting dates, board
// approval or minutes status counts as progress: for non-admins it stamps the
// actual date with the current time and, for everyone, appends a journal
// entry. Admins may instead set the actual date explicitly.
func (s *TaskService) UpdateTask(scope access.Scope, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.tasks.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !scope.CanEditTask(task) {
		if !scope.CanSee(task) {
			return nil, ErrTaskNotFound
		}
		return nil, ErrTaskEditForbidden
	}

	var status *models.TaskStatus
	if input.Status != nil && strings.TrimSpace(*input.Status) != "" {
		parsed, err := models.ParseTaskStatus(strings.TrimSpace(*input.Status))
		if err != nil {
			return nil, invalidField("status", "unknown status")
		}
		status = &parsed
	}
	minutesStatus := ""
	if input.MinutesStatus != nil && strings.TrimSpace(*input.MinutesStatus) != "" {
		minutesStatus = strings.TrimSpace(*input.MinutesStatus)
		if !models.ValidMinutesStatus(minutesStatus) {
			return nil, invalidField("minutes_status", "unknown minutes status")
		}
	}

	hasMeetingDates := rawPresent(input.MeetingDates)
	isAnyUpdate := input.Status != nil ||
		input.Remarks != nil ||
		input.ActualFilingDate != nil ||
		hasMeetingDates ||
		input.ApprovedByBoard != nil ||
		input.MinutesStatus != nil

	now := s.now().UTC()
	isAdmin := scope.IsAdmin()

	if !isAdmin && isAnyUpdate {
		stamped := now
		task.ActualDate = &stamped
	}
	if isAdmin && input.ActualDate != nil {
		task.ActualDate = input.ActualDate
	}

	if status != nil {
		task.Status = *status
	}
	if input.Remarks != nil {
		task.Remarks = input.Remarks
	}
	if input.ActualFilingDate != nil {
		task.ActualFilingDate = input.ActualFilingDate
	}
	if hasMeetingDates {
		task.MeetingDates = models.EncodeMeetingDates(input.MeetingDates)
		if task.MeetingDates == nil {
			s.log.Warn("meeting dates could not be parsed, clearing", slog.Uint64("task_id", task.ID))
		}
	}
	if input.ApprovedByBoard != nil {
		task.ApprovedByBoard = input.ApprovedByBoard
	}
	if minutesStatus != "" {
		task.MinutesStatus = &minutesStatus
	}

	task.UpdatedAt = now

	var entry *models.TaskStatusUpdate
	if isAnyUpdate {
		entry = &models.TaskStatusUpdate{
			TaskID:          task.ID,
			UpdatedByUserID: scope.UserID,
			Remark:          input.Remarks,
			UpdatedAt:       now,
		}
		if status != nil {
			journaled := string(*status)
			entry.Status = &journaled
		}
	}

	if err := s.tasks.UpdateWithJournal(task, entry); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if entry != nil {
		journaled := ""
		if entry.Status != nil {
			journaled = *entry.Status
		}
		metrics.ObserveTaskUpdate(journaled)
	}

	return s.reload(task.ID)
}

// DeleteTask removes a task, its files and journal. On-disk copies are
// removed best effort.
func (s *TaskService) DeleteTask(taskID uint64) error {
	paths, err := s.tasks.Delete(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	for _, p := range paths {
		if err := s.store.Remove(p); err != nil {
			s.log.Warn("failed to remove attachment from disk",
				slog.Uint64("task_id", taskID),
				slog.String("path", p),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}

// ListUpdates returns the journal of a task the caller may access, newest first.
func (s *TaskService) ListUpdates(scope access.Scope, taskID uint64, params utils.PaginationParams) ([]models.TaskStatusUpdate, int64, error) {
	if _, err := s.accessibleTask(scope, taskID); err != nil {
		return nil, 0, err
	}

	updates, total, err := s.tasks.ListUpdates(taskID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list task updates: %w", err)
	}
	return updates, total, nil
}

// accessibleTask loads a task the caller can see or is assigned to.
func (s *TaskService) accessibleTask(scope access.Scope, taskID uint64) (*models.Task, error) {
	task, err := s.tasks.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if !scope.CanSee(task) && !scope.CanEditTask(task) {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

func (s *TaskService) reload(taskID uint64) (*models.Task, error) {
	task, err := s.tasks.FindDetailed(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}
	return task, nil
}

// rawPresent reports whether a JSON field was sent with a non-null value.
func rawPresent(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed != "" && trimmed != "null"
}
