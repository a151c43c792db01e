package handlers

import (
	"net/http"

	"github.com/complytrack/compliance-tracker-api/internal/dto"
	"github.com/complytrack/compliance-tracker-api/internal/models"
)

type taskList struct {
	Tasks []dto.TaskDTO `json:"tasks"`
	Total int           `json:"total"`
}

func (s *APITestSuite) TestListTasks_ScopedByGrantAndAssignment() {
	own := s.createTask(s.xyz, models.FunctionTax, "tax")
	s.createTask(s.xyz, models.FunctionTax, "taxpeer")
	s.createTask(s.abc, models.FunctionAccounting, "accounts")

	w := s.request(http.MethodGet, "/api/tasks", "tax", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var list taskList
	s.decode(w, &list)
	s.Require().Len(list.Tasks, 1)
	s.Equal(own.ID, list.Tasks[0].ID)
	s.Equal("XYZ Private Ltd", list.Tasks[0].CompanyName)
	s.Equal("tax", list.Tasks[0].FunctionType)
	s.Equal("User tax", list.Tasks[0].AssignedToUserName)

	w = s.request(http.MethodGet, "/api/tasks", "mgmt", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &list)
	s.Equal(3, list.Total)
}

func (s *APITestSuite) TestListTasks_CompanyOutsideGrants() {
	w := s.request(http.MethodGet, "/api/tasks?company_id=1", "tax", nil)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.request(http.MethodGet, "/api/tasks?company_id=abc", "tax", nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.request(http.MethodGet, "/api/tasks?status=bogus", "admin", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *APITestSuite) TestGetTask_HiddenTaskIsNotFound() {
	task := s.createTask(s.xyz, models.FunctionTax, "tax")

	w := s.request(http.MethodGet, taskPath(task.ID, ""), "taxpeer", nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.request(http.MethodGet, taskPath(task.ID, ""), "tax", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var got dto.TaskDTO
	s.decode(w, &got)
	s.Equal(task.ID, got.ID)
	s.False(got.IsDelayed)
	s.Empty(got.Files)
}

func (s *APITestSuite) TestCreateTask() {
	payload := map[string]interface{}{
		"company_id":          s.xyz.ID,
		"function_id":         s.functions[models.FunctionTax].ID,
		"assigned_to_user_id": s.users["tax"].ID,
		"task_type":           "tax_filing",
		"planned_date":        "2024-07-15",
		"financial_year":      "2024-25",
		"filing_due_date":     "2024-07-31",
	}

	w := s.request(http.MethodPost, "/api/tasks", "tax", payload)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.request(http.MethodPost, "/api/tasks", "accounts", payload)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var task dto.TaskDTO
	s.decode(w, &task)
	s.Equal(models.TaskStatusNotStarted, task.Status)
	s.Require().NotNil(task.AssignedByUserID)
	s.Equal(s.users["accounts"].ID, *task.AssignedByUserID)
	s.Require().NotNil(task.FilingDueDate)
}

func (s *APITestSuite) TestCreateTask_ValidationDetails() {
	w := s.request(http.MethodPost, "/api/tasks", "admin", map[string]interface{}{
		"company_id":          s.xyz.ID,
		"function_id":         s.functions[models.FunctionTax].ID,
		"assigned_to_user_id": s.users["tax"].ID,
		"task_type":           "tax_filing",
		"planned_date":        "2024-07-15",
		"financial_year":      "2024-25",
		"milestone":           "signed_fs",
	})
	s.Require().Equal(http.StatusBadRequest, w.Code)

	var apiErr struct {
		Code    string              `json:"code"`
		Details []models.FieldError `json:"details"`
	}
	s.decode(w, &apiErr)
	s.Equal("INVALID_INPUT", apiErr.Code)
	fields := []string{}
	for _, d := range apiErr.Details {
		fields = append(fields, d.Field)
	}
	s.Contains(fields, "filing_due_date")
	s.Contains(fields, "milestone")

	w = s.request(http.MethodPost, "/api/tasks", "admin", map[string]interface{}{
		"company_id":          s.xyz.ID,
		"function_id":         s.functions[models.FunctionTax].ID,
		"assigned_to_user_id": s.users["tax"].ID,
		"task_type":           "tax_filing",
		"planned_date":        "15/07/2024",
		"financial_year":      "2024-25",
	})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), "planned_date")
}

func (s *APITestSuite) TestUpdateTask() {
	task := s.createTask(s.xyz, models.FunctionTax, "tax")

	w := s.request(http.MethodPut, taskPath(task.ID, ""), "tax", map[string]interface{}{
		"status":  "completed",
		"remarks": "Filed",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var updated dto.TaskDTO
	s.decode(w, &updated)
	s.Equal(models.TaskStatusCompleted, updated.Status)
	s.Require().NotNil(updated.ActualDate)
	s.True(updated.IsDelayed)

	w = s.request(http.MethodGet, taskPath(task.ID, "/updates"), "tax", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var history dto.TaskUpdateListResponse
	s.decode(w, &history)
	s.Require().Len(history.Updates, 1)
	s.Equal("User tax", history.Updates[0].UpdatedByName)
	s.Equal(int64(1), history.Pagination.Total)
}

func (s *APITestSuite) TestUpdateTask_Forbidden() {
	task := s.createTask(s.xyz, models.FunctionTax, "tax")

	w := s.request(http.MethodPut, taskPath(task.ID, ""), "mgmt", map[string]string{"remarks": "x"})
	s.Equal(http.StatusForbidden, w.Code)

	w = s.request(http.MethodPut, taskPath(task.ID, ""), "taxpeer", map[string]string{"remarks": "x"})
	s.Equal(http.StatusNotFound, w.Code)

	w = s.request(http.MethodPut, taskPath(task.ID, ""), "admin", map[string]string{"actual_date": "yesterday"})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *APITestSuite) TestDeleteTask() {
	task := s.createTask(s.abc, models.FunctionAccounting, "accounts")

	w := s.request(http.MethodDelete, taskPath(task.ID, ""), "mgmt", nil)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.request(http.MethodDelete, taskPath(task.ID, ""), "accounts", nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.request(http.MethodDelete, taskPath(task.ID, ""), "accounts", nil)
	s.Equal(http.StatusNotFound, w.Code)
}
