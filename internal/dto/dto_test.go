package dto

import (
	"testing"
	"time"

	"github.com/complytrack/compliance-tracker-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestToUserDTO_DerivesAccessFromActiveGrants(t *testing.T) {
	accounting := models.Function{ID: 1, Type: models.FunctionAccounting}
	tax := models.Function{ID: 2, Type: models.FunctionTax}

	user := models.User{
		ID:       9,
		Email:    "a@example.com",
		Role:     models.RoleAccounts,
		IsActive: true,
		Grants: []models.AccessGrant{
			{CompanyID: 1, FunctionID: 1, Function: accounting, IsActive: true},
			{CompanyID: 2, FunctionID: 1, Function: accounting, IsActive: true},
			{CompanyID: 3, FunctionID: 2, Function: tax, IsActive: false},
		},
	}

	got := ToUserDTO(user)

	assert.Equal(t, []uint64{1, 2}, got.CompanyIDs)
	assert.Equal(t, []models.FunctionType{models.FunctionAccounting}, got.FunctionTypes)
}

func TestToTaskDTO(t *testing.T) {
	planned := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	actual := planned.AddDate(0, 0, 3)
	meetings := `["2024-02-01T00:00:00Z"]`

	task := models.Task{
		ID:           4,
		CompanyID:    1,
		Company:      models.Company{Name: "ABC Limited", Code: "ABC"},
		Function:     models.Function{Type: models.FunctionCompliance},
		PlannedDate:  planned,
		ActualDate:   &actual,
		MeetingDates: &meetings,
		Files:        []models.TaskFile{{ID: 1, FileName: "minutes.pdf"}},
	}

	got := ToTaskDTO(task)

	assert.Equal(t, "ABC Limited", got.CompanyName)
	assert.Equal(t, "compliance", got.FunctionType)
	assert.Equal(t, "Unknown", got.AssignedToUserName)
	assert.True(t, got.IsDelayed)
	assert.Len(t, got.MeetingDates, 1)
	assert.Len(t, got.Files, 1)
	assert.Equal(t, "Unknown", got.Files[0].UploadedByUserName)
}
