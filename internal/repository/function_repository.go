package repository

import (
	"github.com/complytrack/compliance-tracker-api/internal/database"
	"github.com/complytrack/compliance-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormFunctionRepository is a GORM implementation of FunctionRepository
type GormFunctionRepository struct {
	db *gorm.DB
}

// NewFunctionRepository creates a new FunctionRepository
func NewFunctionRepository(db *gorm.DB) FunctionRepository {
	return &GormFunctionRepository{db: db}
}

// List returns the active catalog in seed order
func (r *GormFunctionRepository) List() ([]models.Function, error) {
	functions := []models.Function{}
	if err := r.db.Scopes(database.ActiveOnly("functions")).Order("id ASC").Find(&functions).Error; err != nil {
		return nil, err
	}
	return functions, nil
}

func (r *GormFunctionRepository) FindByID(id uint64) (*models.Function, error) {
	var function models.Function
	if err := r.db.First(&function, id).Error; err != nil {
		return nil, err
	}
	return &function, nil
}
