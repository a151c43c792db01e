package dto

import (
	"time"

	"github.com/complytrack/compliance-tracker-api/internal/models"
)

// UserDTO represents a user in API responses. CompanyIDs and FunctionTypes
// are derived from the user's active grants.
type UserDTO struct {
	ID            uint64                `json:"id"`
	Email         string                `json:"email"`
	FullName      string                `json:"full_name"`
	Role          models.Role           `json:"role"`
	IsActive      bool                  `json:"is_active"`
	LastLoginAt   *time.Time            `json:"last_login_at"`
	CompanyIDs    []uint64              `json:"company_ids"`
	FunctionTypes []models.FunctionType `json:"function_types"`
}

// GrantDTO represents an access grant
type GrantDTO struct {
	ID           uint64              `json:"id"`
	UserID       uint64              `json:"user_id"`
	CompanyID    uint64              `json:"company_id"`
	CompanyName  string              `json:"company_name"`
	FunctionID   uint64              `json:"function_id"`
	FunctionType models.FunctionType `json:"function_type"`
	IsActive     bool                `json:"is_active"`
	CreatedAt    time.Time           `json:"created_at"`
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserDTO   `json:"user"`
}

// ToUserDTO converts a User model, with Grants and Grants.Function preloaded, to UserDTO
func ToUserDTO(user models.User) UserDTO {
	companyIDs := []uint64{}
	functionTypes := []models.FunctionType{}
	seenCompany := map[uint64]bool{}
	seenFunction := map[models.FunctionType]bool{}

	for _, g := range user.Grants {
		if !g.IsActive {
			continue
		}
		if !seenCompany[g.CompanyID] {
			seenCompany[g.CompanyID] = true
			companyIDs = append(companyIDs, g.CompanyID)
		}
		if ft := g.Function.Type; ft != "" && !seenFunction[ft] {
			seenFunction[ft] = true
			functionTypes = append(functionTypes, ft)
		}
	}

	return UserDTO{
		ID:            user.ID,
		Email:         user.Email,
		FullName:      user.FullName,
		Role:          user.Role,
		IsActive:      user.IsActive,
		LastLoginAt:   user.LastLoginAt,
		CompanyIDs:    companyIDs,
		FunctionTypes: functionTypes,
	}
}

func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = ToUserDTO(u)
	}
	return out
}

func ToGrantDTO(grant models.AccessGrant) GrantDTO {
	return GrantDTO{
		ID:           grant.ID,
		UserID:       grant.UserID,
		CompanyID:    grant.CompanyID,
		CompanyName:  grant.Company.Name,
		FunctionID:   grant.FunctionID,
		FunctionType: grant.Function.Type,
		IsActive:     grant.IsActive,
		CreatedAt:    grant.CreatedAt,
	}
}
