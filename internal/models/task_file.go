package models

import "time"

type TaskFile struct {
	ID               uint64    `gorm:"primarykey" json:"id"`
	TaskID           uint64    `gorm:"not null;index" json:"task_id"`
	FileName         string    `gorm:"type:varchar(255);not null" json:"file_name"`
	FilePath         string    `gorm:"type:varchar(500);not null" json:"-"`
	ContentType      string    `gorm:"type:varchar(100)" json:"content_type"`
	FileSize         int64     `gorm:"not null" json:"file_size"`
	FileData         []byte    `json:"-"`
	UploadedByUserID uint64    `gorm:"not null" json:"uploaded_by_user_id"`
	UploadedAt       time.Time `gorm:"not null" json:"uploaded_at"`

	// Relations
	UploadedByUser User `gorm:"foreignKey:UploadedByUserID" json:"-"`
}
