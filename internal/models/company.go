package models

import (
	"time"
)

// Company is a tenant entity. Companies are deactivated, never removed.
type Company struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(200);not null" json:"name"`
	Code      string    `gorm:"type:varchar(10);not null;index" json:"code"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Grants []AccessGrant `gorm:"foreignKey:CompanyID" json:"-"`
	Tasks  []Task        `gorm:"foreignKey:CompanyID" json:"-"`
}
