package handlers

import (
	"fmt"
	"net/http"

	"github.com/complytrack/compliance-tracker-api/internal/dto"
	"github.com/complytrack/compliance-tracker-api/internal/models"
	"github.com/complytrack/compliance-tracker-api/internal/services"
)

func (s *APITestSuite) TestCompanies() {
	w := s.request(http.MethodPost, "/api/companies", "tax", map[string]string{"name": "Def", "code": "def"})
	s.Equal(http.StatusForbidden, w.Code)

	w = s.request(http.MethodPost, "/api/companies", "accounts", map[string]string{"name": "Def Industries", "code": "def"})
	s.Require().Equal(http.StatusCreated, w.Code)
	var created dto.CompanyDTO
	s.decode(w, &created)
	s.Equal("DEF", created.Code)

	w = s.request(http.MethodPost, "/api/companies", "admin", map[string]string{"name": "Dup", "code": "DEF"})
	s.Equal(http.StatusConflict, w.Code)

	w = s.request(http.MethodPost, "/api/companies", "admin", map[string]string{"name": "Long", "code": "WAYTOOLONGCODE"})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.request(http.MethodDelete, fmt.Sprintf("/api/companies/%d", created.ID), "accounts", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.request(http.MethodGet, "/api/companies", "tax", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var list struct {
		Companies []dto.CompanyDTO `json:"companies"`
	}
	s.decode(w, &list)
	s.Len(list.Companies, 2)

	w = s.request(http.MethodPut, fmt.Sprintf("/api/companies/%d", created.ID), "admin", map[string]interface{}{
		"name": "Def Industries", "code": "DEF", "is_active": true,
	})
	s.Require().Equal(http.StatusOK, w.Code)
	var reactivated dto.CompanyDTO
	s.decode(w, &reactivated)
	s.True(reactivated.IsActive)

	w = s.request(http.MethodGet, "/api/companies/9999", "tax", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APITestSuite) TestFunctions() {
	w := s.request(http.MethodGet, "/api/functions", "tax", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var resp struct {
		Functions []dto.FunctionDTO `json:"functions"`
	}
	s.decode(w, &resp)
	s.Require().Len(resp.Functions, 4)
	for _, fn := range resp.Functions {
		s.NotEmpty(fn.TaskTypes, fn.Type)
		if fn.Type == models.FunctionTax {
			s.Equal([]string{"tax_filing"}, fn.TaskTypes)
		}
	}
}

func (s *APITestSuite) TestDashboard() {
	late := s.createTask(s.xyz, models.FunctionTax, "tax")
	s.Require().NoError(s.db.Model(late).Updates(map[string]interface{}{
		"status":      models.TaskStatusCompleted,
		"actual_date": late.PlannedDate.AddDate(0, 0, 5),
	}).Error)
	s.createTask(s.abc, models.FunctionAccounting, "accounts")

	w := s.request(http.MethodGet, "/api/dashboard/stats", "tax", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var stats services.Stats
	s.decode(w, &stats)
	s.Equal(services.Stats{TotalTasks: 1, Completed: 1, OnTrack: 1, Delayed: 1}, stats)

	w = s.request(http.MethodGet, "/api/dashboard/stats?company_id=1", "tax", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &stats)
	s.Equal(services.Stats{}, stats)

	w = s.request(http.MethodGet, "/api/dashboard/exceptions", "mgmt", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var report struct {
		Exceptions []services.ExceptionRow `json:"exceptions"`
		Total      int                     `json:"total"`
	}
	s.decode(w, &report)
	s.Require().Equal(1, report.Total)
	s.Equal("XYZ Private Ltd", report.Exceptions[0].EntityName)
	s.Equal(5, report.Exceptions[0].DelayDays)
}

func (s *APITestSuite) TestUsersAndGrants() {
	w := s.request(http.MethodGet, "/api/users", "tax", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var list struct {
		Users []dto.UserDTO `json:"users"`
	}
	s.decode(w, &list)
	s.Len(list.Users, 5)

	grantPath := fmt.Sprintf("/api/users/%d/grants", s.users["tax"].ID)
	body := map[string]uint64{"company_id": s.abc.ID, "function_id": s.functions[models.FunctionTax].ID}

	w = s.request(http.MethodPost, grantPath, "accounts", body)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.request(http.MethodPost, grantPath, "admin", body)
	s.Require().Equal(http.StatusCreated, w.Code)
	var grant dto.GrantDTO
	s.decode(w, &grant)
	s.Equal(models.FunctionTax, grant.FunctionType)

	// The new grant applies to the next request with the same token.
	w = s.request(http.MethodGet, fmt.Sprintf("/api/tasks?company_id=%d", s.abc.ID), "tax", nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.request(http.MethodDelete, fmt.Sprintf("%s/%d", grantPath, grant.ID), "admin", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.request(http.MethodGet, fmt.Sprintf("/api/tasks?company_id=%d", s.abc.ID), "tax", nil)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *APITestSuite) TestUsersRequireAdmin() {
	s.remount(func(rt *Routes) { rt.UsersRequireAdmin = true })

	w := s.request(http.MethodGet, "/api/users", "tax", nil)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.request(http.MethodGet, "/api/users", "admin", nil)
	s.Equal(http.StatusOK, w.Code)
}
