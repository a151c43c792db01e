package dto

import (
	"time"

	"github.com/complytrack/compliance-tracker-api/internal/models"
)

// CompanyDTO represents a company in API responses
type CompanyDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// FunctionDTO represents a catalog entry with the task types it accepts
type FunctionDTO struct {
	ID          uint64              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Type        models.FunctionType `json:"type"`
	TaskTypes   []string            `json:"task_types"`
}

// ToCompanyDTO converts a Company model to CompanyDTO
func ToCompanyDTO(company models.Company) CompanyDTO {
	return CompanyDTO{
		ID:        company.ID,
		Name:      company.Name,
		Code:      company.Code,
		IsActive:  company.IsActive,
		CreatedAt: company.CreatedAt,
	}
}

func ToCompanyDTOs(companies []models.Company) []CompanyDTO {
	out := make([]CompanyDTO, len(companies))
	for i, c := range companies {
		out[i] = ToCompanyDTO(c)
	}
	return out
}

func ToFunctionDTO(fn models.Function) FunctionDTO {
	return FunctionDTO{
		ID:          fn.ID,
		Name:        fn.Name,
		Description: fn.Description,
		Type:        fn.Type,
		TaskTypes:   models.TaskTypes(fn.Type),
	}
}
