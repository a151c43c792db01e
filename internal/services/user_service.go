package services

import (
	"errors"
	"fmt"

	"github.com/complytrack/compliance-tracker-api/internal/models"
	"github.com/complytrack/compliance-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var ErrGrantNotFound = errors.New("access grant not found")

// UserService lists users and manages their access grants.
type UserService struct {
	users     repository.UserRepository
	grants    repository.GrantRepository
	companies repository.CompanyRepository
	functions repository.FunctionRepository
}

func NewUserService(
	users repository.UserRepository,
	grants repository.GrantRepository,
	companies repository.CompanyRepository,
	functions repository.FunctionRepository,
) *UserService {
	return &UserService{
		users:     users,
		grants:    grants,
		companies: companies,
		functions: functions,
	}
}

// List returns every user with their active grants.
func (s *UserService) List() ([]models.User, error) {
	users, err := s.users.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Grant gives a user access to one (company, function) pair, reactivating a
// previously revoked grant when one exists.
func (s *UserService) Grant(userID, companyID, functionID uint64) (*models.AccessGrant, error) {
	if _, err := s.users.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	company, err := s.companies.FindByID(companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidField("company_id", "company does not exist")
		}
		return nil, fmt.Errorf("failed to find company: %w", err)
	}
	if !company.IsActive {
		return nil, invalidField("company_id", "company is inactive")
	}

	if _, err := s.functions.FindByID(functionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidField("function_id", "function does not exist")
		}
		return nil, fmt.Errorf("failed to find function: %w", err)
	}

	grant := &models.AccessGrant{UserID: userID, CompanyID: companyID, FunctionID: functionID}
	if err := s.grants.Upsert(grant); err != nil {
		return nil, fmt.Errorf("failed to save grant: %w", err)
	}

	stored, err := s.grants.FindByID(grant.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload grant: %w", err)
	}
	return stored, nil
}

// Revoke deactivates a grant that belongs to the user.
func (s *UserService) Revoke(userID, grantID uint64) error {
	grant, err := s.grants.FindByID(grantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGrantNotFound
		}
		return fmt.Errorf("failed to find grant: %w", err)
	}
	if grant.UserID != userID {
		return ErrGrantNotFound
	}

	if err := s.grants.Deactivate(grant.ID); err != nil {
		return fmt.Errorf("failed to revoke grant: %w", err)
	}
	return nil
}
