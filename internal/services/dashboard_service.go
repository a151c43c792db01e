package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/complytrack/compliance-tracker-api/internal/access"
	"github.com/complytrack/compliance-tracker-api/internal/models"
	"github.com/complytrack/compliance-tracker-api/internal/repository"
)

// DashboardService aggregates task counts and the delay exception report.
type DashboardService struct {
	tasks repository.TaskRepository
}

func NewDashboardService(tasks repository.TaskRepository) *DashboardService {
	return &DashboardService{tasks: tasks}
}

type DashboardFilter struct {
	FinancialYear string
	CompanyID     *uint64
}

type Stats struct {
	TotalTasks int `json:"total_tasks"`
	Completed  int `json:"completed"`
	Pending    int `json:"pending"`
	OnTrack    int `json:"on_track"`
	Delayed    int `json:"delayed"`
}

type ExceptionRow struct {
	EntityName         string            `json:"entity_name"`
	FunctionType       string            `json:"function_type"`
	TaskType           string            `json:"task_type"`
	AssignedToUserName string            `json:"assigned_to_user_name"`
	PlannedDate        time.Time         `json:"planned_date"`
	ActualDate         *time.Time        `json:"actual_date"`
	DelayDays          int               `json:"delay_days"`
	Status             models.TaskStatus `json:"status"`
	Remarks            *string           `json:"remarks"`
	FinancialYear      string            `json:"financial_year"`
	CompanyID          uint64            `json:"company_id"`
}

// ComputeStats counts tasks by outcome. On-track and delayed are independent:
// a completed task whose actual date is past its planned date counts in both.
func ComputeStats(tasks []models.Task) Stats {
	stats := Stats{TotalTasks: len(tasks)}
	for i := range tasks {
		t := &tasks[i]
		switch t.Status {
		case models.TaskStatusCompleted:
			stats.Completed++
		case models.TaskStatusNotStarted, models.TaskStatusPending:
			stats.Pending++
		}

		onTime := t.ActualDate == nil || !t.ActualDate.After(t.PlannedDate)
		if t.Status == models.TaskStatusCompleted || (t.Status == models.TaskStatusInProgress && onTime) {
			stats.OnTrack++
		}
		if t.IsDelayed() {
			stats.Delayed++
		}
	}
	return stats
}

// Stats computes dashboard counts over the tasks the caller may see. A
// company filter outside the caller's grants yields zero counts.
func (s *DashboardService) Stats(scope access.Scope, filter DashboardFilter) (Stats, error) {
	tasks, err := s.load(scope, filter)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(tasks), nil
}

// Exceptions lists visible tasks whose actual date is after the planned date.
func (s *DashboardService) Exceptions(scope access.Scope, filter DashboardFilter) ([]ExceptionRow, error) {
	tasks, err := s.load(scope, filter)
	if err != nil {
		return nil, err
	}

	rows := []ExceptionRow{}
	for i := range tasks {
		t := &tasks[i]
		if !t.IsDelayed() {
			continue
		}
		rows = append(rows, ExceptionRow{
			EntityName:         orDefault(t.Company.Name, "Unknown"),
			FunctionType:       orDefault(string(t.Function.Type), "Unknown"),
			TaskType:           t.TaskType,
			AssignedToUserName: orDefault(t.AssignedToUser.FullName, "Unassigned"),
			PlannedDate:        t.PlannedDate,
			ActualDate:         t.ActualDate,
			DelayDays:          t.DelayDays(),
			Status:             t.Status,
			Remarks:            t.Remarks,
			FinancialYear:      t.FinancialYear,
			CompanyID:          t.CompanyID,
		})
	}
	return rows, nil
}

func (s *DashboardService) load(scope access.Scope, filter DashboardFilter) ([]models.Task, error) {
	if filter.CompanyID != nil && !scope.CanQueryCompany(*filter.CompanyID) {
		return []models.Task{}, nil
	}

	tasks, err := s.tasks.List(repository.TaskFilter{
		CompanyID:     filter.CompanyID,
		FinancialYear: strings.TrimSpace(filter.FinancialYear),
		Scopes:        []repository.QueryScope{scope.Apply},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard tasks: %w", err)
	}
	return tasks, nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
