package models

import "time"

// AccessGrant lets a user see and act on tasks of one (company, function) pair.
type AccessGrant struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	UserID     uint64    `gorm:"not null;uniqueIndex:idx_grant_user_company_function" json:"user_id"`
	CompanyID  uint64    `gorm:"not null;uniqueIndex:idx_grant_user_company_function" json:"company_id"`
	FunctionID uint64    `gorm:"not null;uniqueIndex:idx_grant_user_company_function" json:"function_id"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	User     User     `gorm:"foreignKey:UserID" json:"-"`
	Company  Company  `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Function Function `gorm:"foreignKey:FunctionID" json:"function,omitempty"`
}
