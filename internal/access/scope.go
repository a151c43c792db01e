// Package access decides which companies, functions and tasks a caller may see.
package access

import (
	"github.com/complytrack/compliance-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GrantPair is one (company, function) combination a user holds an active grant for.
type GrantPair struct {
	CompanyID  uint64
	FunctionID uint64
}

// Scope is the per-request view of what the caller is allowed to see.
type Scope struct {
	UserID uint64
	Role   models.Role
	Grants []GrantPair
}

// NewScope builds a scope from a user's active grants.
func NewScope(userID uint64, role models.Role, grants []models.AccessGrant) Scope {
	pairs := make([]GrantPair, 0, len(grants))
	for _, g := range grants {
		if !g.IsActive {
			continue
		}
		pairs = append(pairs, GrantPair{CompanyID: g.CompanyID, FunctionID: g.FunctionID})
	}
	return Scope{UserID: userID, Role: role, Grants: pairs}
}

// Unrestricted is true for admin and management.
func (s Scope) Unrestricted() bool {
	return s.Role.Unrestricted()
}

// IsAdmin gates actual-date overrides and edits of tasks assigned to others.
func (s Scope) IsAdmin() bool {
	return s.Role == models.RoleAdmin
}

// HasRole reports whether the caller holds one of roles.
func (s Scope) HasRole(roles ...models.Role) bool {
	for _, r := range roles {
		if s.Role == r {
			return true
		}
	}
	return false
}

// CanQueryCompany reports whether an explicit company filter is allowed.
func (s Scope) CanQueryCompany(companyID uint64) bool {
	if s.Unrestricted() {
		return true
	}
	for _, g := range s.Grants {
		if g.CompanyID == companyID {
			return true
		}
	}
	return false
}

// CanSee applies the visibility predicate to a loaded task: restricted roles
// see a task only if it is assigned to them and they hold a grant for its
// (company, function) pair.
func (s Scope) CanSee(task *models.Task) bool {
	if s.Unrestricted() {
		return true
	}
	if task.AssignedToUserID != s.UserID {
		return false
	}
	for _, g := range s.Grants {
		if g.CompanyID == task.CompanyID && g.FunctionID == task.FunctionID {
			return true
		}
	}
	return false
}

// CanEditTask allows admins and the task's assignee.
func (s Scope) CanEditTask(task *models.Task) bool {
	return s.IsAdmin() || task.AssignedToUserID == s.UserID
}

// Apply is CanSee expressed as a GORM scope over the tasks table.
func (s Scope) Apply(db *gorm.DB) *gorm.DB {
	if s.Unrestricted() {
		return db
	}
	grantSubQuery := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.AccessGrant{}).
		Select("1").
		Where("access_grants.user_id = ?", s.UserID).
		Where("access_grants.is_active = ?", true).
		Where("access_grants.company_id = tasks.company_id").
		Where("access_grants.function_id = tasks.function_id")

	return db.
		Where("tasks.assigned_to_user_id = ?", s.UserID).
		Where("EXISTS (?)", grantSubQuery)
}
