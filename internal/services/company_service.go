package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/complytrack/compliance-tracker-api/internal/constants"
	"github.com/complytrack/compliance-tracker-api/internal/models"
	"github.com/complytrack/compliance-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrCompanyNotFound  = errors.New("company not found")
	ErrCompanyCodeTaken = errors.New("company code already in use")
)

// CompanyService handles company business logic
type CompanyService struct {
	companies repository.CompanyRepository
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(companies repository.CompanyRepository) *CompanyService {
	return &CompanyService{companies: companies}
}

// CompanyInput carries create and update fields. IsActive is only honored on update.
type CompanyInput struct {
	Name     string
	Code     string
	IsActive *bool
}

// List returns active companies ordered by name
func (s *CompanyService) List() ([]models.Company, error) {
	companies, err := s.companies.ListActive()
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

// Get returns a company, active or not
func (s *CompanyService) Get(id uint64) (*models.Company, error) {
	company, err := s.companies.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to find company: %w", err)
	}
	return company, nil
}

// Create stores a new active company with an uppercased code
func (s *CompanyService) Create(input CompanyInput) (*models.Company, error) {
	name, code, err := normalizeCompany(input)
	if err != nil {
		return nil, err
	}

	if err := s.ensureCodeFree(code, 0); err != nil {
		return nil, err
	}

	company := &models.Company{Name: name, Code: code, IsActive: true}
	if err := s.companies.Create(company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	return company, nil
}

// Update replaces name and code and optionally the active flag
func (s *CompanyService) Update(id uint64, input CompanyInput) (*models.Company, error) {
	company, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	name, code, err := normalizeCompany(input)
	if err != nil {
		return nil, err
	}

	active := company.IsActive
	if input.IsActive != nil {
		active = *input.IsActive
	}
	if active {
		if err := s.ensureCodeFree(code, company.ID); err != nil {
			return nil, err
		}
	}

	company.Name = name
	company.Code = code
	company.IsActive = active

	if err := s.companies.Update(company); err != nil {
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	return company, nil
}

// Deactivate soft-deletes a company
func (s *CompanyService) Deactivate(id uint64) error {
	company, err := s.Get(id)
	if err != nil {
		return err
	}

	company.IsActive = false
	if err := s.companies.Update(company); err != nil {
		return fmt.Errorf("failed to deactivate company: %w", err)
	}
	return nil
}

func (s *CompanyService) ensureCodeFree(code string, excludeID uint64) error {
	taken, err := s.companies.ActiveCodeExists(code, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check company code: %w", err)
	}
	if taken {
		return ErrCompanyCodeTaken
	}
	return nil
}

func normalizeCompany(input CompanyInput) (string, string, error) {
	name := strings.TrimSpace(input.Name)
	code := strings.ToUpper(strings.TrimSpace(input.Code))

	verr := &ValidationError{}
	if name == "" {
		verr.add("name", "required")
	} else if utf8.RuneCountInString(name) > constants.MaxCompanyName {
		verr.add("name", fmt.Sprintf("at most %d characters", constants.MaxCompanyName))
	}
	if code == "" {
		verr.add("code", "required")
	} else if utf8.RuneCountInString(code) > constants.MaxCompanyCode {
		verr.add("code", fmt.Sprintf("at most %d characters", constants.MaxCompanyCode))
	}
	if err := verr.errOrNil(); err != nil {
		return "", "", err
	}
	return name, code, nil
}
