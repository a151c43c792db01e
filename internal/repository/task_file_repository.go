package repository

import (
	"github.com/complytrack/compliance-tracker-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskFileRepository is a GORM implementation of TaskFileRepository
type GormTaskFileRepository struct {
	db *gorm.DB
}

// NewTaskFileRepository creates a new TaskFileRepository
func NewTaskFileRepository(db *gorm.DB) TaskFileRepository {
	return &GormTaskFileRepository{db: db}
}

func (r *GormTaskFileRepository) Create(file *models.TaskFile) error {
	return r.db.Omit(clause.Associations).Create(file).Error
}

// FindForTask finds a file with its payload. A file of another task is not found.
func (r *GormTaskFileRepository) FindForTask(taskID, fileID uint64) (*models.TaskFile, error) {
	var file models.TaskFile
	if err := r.db.Where("id = ? AND task_id = ?", fileID, taskID).First(&file).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *GormTaskFileRepository) FindByID(id uint64) (*models.TaskFile, error) {
	var file models.TaskFile
	if err := r.db.Omit("file_data").First(&file, id).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *GormTaskFileRepository) Delete(id uint64) error {
	result := r.db.Delete(&models.TaskFile{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
