package repository

import (
	"github.com/complytrack/compliance-tracker-api/internal/database"
	"github.com/complytrack/compliance-tracker-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCompanyRepository is a GORM implementation of CompanyRepository
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new CompanyRepository
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &GormCompanyRepository{db: db}
}

// Create creates a new company
func (r *GormCompanyRepository) Create(company *models.Company) error {
	return r.db.Omit(clause.Associations).Create(company).Error
}

// FindByID finds a company by ID, active or not
func (r *GormCompanyRepository) FindByID(id uint64) (*models.Company, error) {
	var company models.Company
	if err := r.db.First(&company, id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// ListActive lists active companies ordered by name
func (r *GormCompanyRepository) ListActive() ([]models.Company, error) {
	companies := []models.Company{}
	err := r.db.
		Scopes(database.ActiveOnly("companies")).
		Order("name ASC").
		Find(&companies).Error
	if err != nil {
		return nil, err
	}
	return companies, nil
}

// Update saves every column, including a false is_active
func (r *GormCompanyRepository) Update(company *models.Company) error {
	return r.db.Omit(clause.Associations).Save(company).Error
}

// ActiveCodeExists reports whether an active company other than excludeID uses code
func (r *GormCompanyRepository) ActiveCodeExists(code string, excludeID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Company{}).
		Scopes(database.ActiveOnly("companies")).
		Where("code = ? AND id <> ?", code, excludeID).
		Count(&count).Error
	return count > 0, err
}
