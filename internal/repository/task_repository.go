package repository

import (
	"time"

	"github.com/complytrack/compliance-tracker-api/internal/database"
	"github.com/complytrack/compliance-tracker-api/internal/models"
	"github.com/complytrack/compliance-tracker-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Omit(clause.Associations).Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// FindDetailed finds a task with the relations needed for its view model
func (r *GormTaskRepository) FindDetailed(id uint64, scopes ...QueryScope) (*models.Task, error) {
	var task models.Task
	query := withDetails(r.db.Model(&models.Task{}), true)
	for _, s := range scopes {
		query = query.Scopes(s)
	}

	if err := query.Where("tasks.id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks matching the filter
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	tasks := []models.Task{}

	query := r.db.Model(&models.Task{})
	for _, s := range filter.Scopes {
		query = query.Scopes(s)
	}

	if filter.CompanyID != nil {
		query = query.Where("tasks.company_id = ?", *filter.CompanyID)
	}
	if filter.FunctionType != nil {
		functionSubQuery := r.db.Model(&models.Function{}).
			Select("functions.id").
			Where("functions.type = ?", *filter.FunctionType)
		query = query.Where("tasks.function_id IN (?)", functionSubQuery)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.FinancialYear != "" {
		query = query.Where("tasks.financial_year = ?", filter.FinancialYear)
	}
	if filter.AssignedUserID != nil {
		query = query.Where("tasks.assigned_to_user_id = ?", *filter.AssignedUserID)
	}

	query = withDetails(query, filter.IncludeFiles).Order("tasks.created_at DESC").Order("tasks.id DESC")
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// UpdateWithJournal saves the task and appends the journal entry atomically.
// A non-zero task.UpdatedAt is stored as given instead of the database clock.
func (r *GormTaskRepository) UpdateWithJournal(task *models.Task, entry *models.TaskStatusUpdate) error {
	db := r.db
	if stamp := task.UpdatedAt; !stamp.IsZero() {
		db = db.Session(&gorm.Session{NowFunc: func() time.Time { return stamp }})
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(task).Error; err != nil {
			return err
		}
		if entry == nil {
			return nil
		}
		entry.TaskID = task.ID
		return tx.Omit(clause.Associations).Create(entry).Error
	})
}

// Delete removes a task together with its files and journal rows
func (r *GormTaskRepository) Delete(id uint64) ([]string, error) {
	var paths []string
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.Select("id").First(&task, id).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.TaskFile{}).Where("task_id = ?", id).Pluck("file_path", &paths).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskFile{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskStatusUpdate{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// ListUpdates pages through the journal of a task
func (r *GormTaskRepository) ListUpdates(taskID uint64, params utils.PaginationParams) ([]models.TaskStatusUpdate, int64, error) {
	updates := []models.TaskStatusUpdate{}

	query := r.db.Model(&models.TaskStatusUpdate{}).Where("task_id = ?", taskID).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("UpdatedByUser").
		Order("updated_at DESC").
		Order("id DESC").
		Scopes(database.Paginate(params)).
		Find(&updates).Error
	if err != nil {
		return nil, 0, err
	}

	return updates, total, nil
}

// withDetails preloads what task view models need. File payloads are never
// loaded here.
func withDetails(query *gorm.DB, includeFiles bool) *gorm.DB {
	query = query.
		Preload("Company").
		Preload("Function").
		Preload("AssignedToUser")
	if includeFiles {
		query = query.
			Preload("Files", func(db *gorm.DB) *gorm.DB {
				return db.Omit("file_data").Order("uploaded_at DESC")
			}).
			Preload("Files.UploadedByUser")
	}
	return query
}
