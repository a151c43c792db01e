package models

import "time"

// TaskStatusUpdate is an append-only journal entry. Rows are never modified.
type TaskStatusUpdate struct {
	ID              uint64    `gorm:"primarykey" json:"id"`
	TaskID          uint64    `gorm:"not null;index" json:"task_id"`
	UpdatedByUserID uint64    `gorm:"not null" json:"updated_by_user_id"`
	Status          *string   `gorm:"type:varchar(20)" json:"status"`
	Remark          *string   `gorm:"type:text" json:"remark"`
	UpdatedAt       time.Time `gorm:"not null;autoUpdateTime:false" json:"updated_at"`

	// Relations
	UpdatedByUser User `gorm:"foreignKey:UpdatedByUserID" json:"-"`
}
