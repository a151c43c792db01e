package repository

import (
	"github.com/complytrack/compliance-tracker-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormGrantRepository is a GORM implementation of GrantRepository
type GormGrantRepository struct {
	db *gorm.DB
}

// NewGrantRepository creates a new GrantRepository
func NewGrantRepository(db *gorm.DB) GrantRepository {
	return &GormGrantRepository{db: db}
}

// ListActiveByUser lists the active grants of a user with company and function
func (r *GormGrantRepository) ListActiveByUser(userID uint64) ([]models.AccessGrant, error) {
	grants := []models.AccessGrant{}
	err := r.db.
		Preload("Company").
		Preload("Function").
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("id ASC").
		Find(&grants).Error
	if err != nil {
		return nil, err
	}
	return grants, nil
}

// Upsert creates the grant or reactivates the existing (user, company, function) row
func (r *GormGrantRepository) Upsert(grant *models.AccessGrant) error {
	grant.IsActive = true
	err := r.db.
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "company_id"}, {Name: "function_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"is_active": true}),
		}).
		Create(grant).Error
	if err != nil {
		return err
	}

	// The conflict path does not report the existing id on every driver.
	var stored models.AccessGrant
	err = r.db.
		Where("user_id = ? AND company_id = ? AND function_id = ?", grant.UserID, grant.CompanyID, grant.FunctionID).
		First(&stored).Error
	if err != nil {
		return err
	}
	*grant = stored
	return nil
}

// FindByID finds a grant by ID
func (r *GormGrantRepository) FindByID(id uint64) (*models.AccessGrant, error) {
	var grant models.AccessGrant
	if err := r.db.Preload("Company").Preload("Function").First(&grant, id).Error; err != nil {
		return nil, err
	}
	return &grant, nil
}

// Deactivate marks a grant inactive
func (r *GormGrantRepository) Deactivate(id uint64) error {
	return r.db.Model(&models.AccessGrant{}).Where("id = ?", id).Update("is_active", false).Error
}
