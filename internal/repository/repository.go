package repository

import (
	"time"

	"github.com/complytrack/compliance-tracker-api/internal/models"
	"github.com/complytrack/compliance-tracker-api/internal/utils"
	"gorm.io/gorm"
)

// QueryScope narrows a query, e.g. to the tasks a caller may see.
type QueryScope func(db *gorm.DB) *gorm.DB

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// FindDetailed finds a task with its company, function, assignee and file
	// metadata, restricted by the given scopes
	FindDetailed(id uint64, scopes ...QueryScope) (*models.Task, error)

	// List retrieves tasks matching the filter, newest first
	List(filter TaskFilter) ([]models.Task, error)

	// UpdateWithJournal saves the task and, when entry is not nil, appends it
	// to the status journal in the same transaction
	UpdateWithJournal(task *models.Task, entry *models.TaskStatusUpdate) error

	// Delete removes a task with its files and journal and returns the
	// on-disk paths of the removed files
	Delete(id uint64) ([]string, error)

	// ListUpdates pages through the journal of a task, newest first
	ListUpdates(taskID uint64, params utils.PaginationParams) ([]models.TaskStatusUpdate, int64, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	CompanyID      *uint64
	FunctionType   *models.FunctionType
	Status         *models.TaskStatus
	FinancialYear  string
	AssignedUserID *uint64
	Scopes         []QueryScope
	IncludeFiles   bool
}

// TaskFileRepository defines the interface for attachment data access
type TaskFileRepository interface {
	// Create stores attachment metadata and payload
	Create(file *models.TaskFile) error

	// FindForTask finds a file with its payload by the (task, file) pair
	FindForTask(taskID, fileID uint64) (*models.TaskFile, error)

	// FindByID finds file metadata without the payload
	FindByID(id uint64) (*models.TaskFile, error)

	// Delete removes the file row
	Delete(id uint64) error
}

// CompanyRepository defines the interface for company data access
type CompanyRepository interface {
	Create(company *models.Company) error
	FindByID(id uint64) (*models.Company, error)
	ListActive() ([]models.Company, error)
	Update(company *models.Company) error

	// ActiveCodeExists reports whether another active company uses the code
	ActiveCodeExists(code string, excludeID uint64) (bool, error)
}

// FunctionRepository defines the interface for the function catalog
type FunctionRepository interface {
	List() ([]models.Function, error)
	FindByID(id uint64) (*models.Function, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(email string) (*models.User, error)

	// List lists all users ordered by name with their active grants
	List() ([]models.User, error)

	// TouchLastLogin stamps the last successful login
	TouchLastLogin(id uint64, at time.Time) error
}

// GrantRepository defines the interface for access grant data access
type GrantRepository interface {
	// ListActiveByUser lists the active grants of a user with company and function
	ListActiveByUser(userID uint64) ([]models.AccessGrant, error)

	// Upsert creates a grant or reactivates an existing one
	Upsert(grant *models.AccessGrant) error

	// FindByID finds a grant by ID
	FindByID(id uint64) (*models.AccessGrant, error)

	// Deactivate marks a grant inactive
	Deactivate(id uint64) error
}
