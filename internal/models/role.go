package models

import (
	"errors"
	"strings"
)

// Role is the single primary role a user holds.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManagement Role = "management"
	RoleAccounts   Role = "accounts"
	RoleTax        Role = "tax"
	RoleCompliance Role = "compliance"
	RoleAudit      Role = "audit"
)

var ErrInvalidRole = errors.New("invalid role")

// AllRoles lists every role in display order.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleManagement, RoleAccounts, RoleTax, RoleCompliance, RoleAudit}
}

// ParseRole normalizes a role name received at a system boundary
// (token claims, register payloads, seed data). Matching is case-insensitive.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !role.Valid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range AllRoles() {
		if r == known {
			return true
		}
	}
	return false
}

// Unrestricted reports whether the role sees every company, function and task.
func (r Role) Unrestricted() bool {
	return r == RoleAdmin || r == RoleManagement
}
