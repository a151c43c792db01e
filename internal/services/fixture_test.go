package services

import (
	"io"
	"testing"
	"time"

	"github.com/complytrack/compliance-tracker-api/internal/access"
	"github.com/complytrack/compliance-tracker-api/internal/auth"
	"github.com/complytrack/compliance-tracker-api/internal/database"
	"github.com/complytrack/compliance-tracker-api/internal/logger"
	"github.com/complytrack/compliance-tracker-api/internal/models"
	"github.com/complytrack/compliance-tracker-api/internal/repository"
	"github.com/complytrack/compliance-tracker-api/internal/storage"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)

// fixture is a migrated in-memory database with two companies, the function
// catalog and one user per relevant role.
type fixture struct {
	db    *gorm.DB
	store *storage.LocalStore

	abc, xyz  *models.Company
	functions map[models.FunctionType]*models.Function

	admin, mgmt, accounts, tax, taxPeer *models.User

	loader     *access.Loader
	tasks      *TaskService
	files      *FileService
	dashboard  *DashboardService
	companies  *CompanyService
	users      *UserService
	auth       *AuthService
	revoker    *auth.MemoryRevoker
	tokenMaker *auth.TokenManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	log := logger.NewWithWriter(io.Discard, "error")
	require.NoError(t, database.Migrate(db, log))
	require.NoError(t, database.Seed(db, database.SeedOptions{}, log))

	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	f := &fixture{db: db, store: store, functions: map[models.FunctionType]*models.Function{}}

	var fns []models.Function
	require.NoError(t, db.Find(&fns).Error)
	for i := range fns {
		f.functions[fns[i].Type] = &fns[i]
	}

	f.abc = f.createCompany(t, "ABC Limited", "ABC")
	f.xyz = f.createCompany(t, "XYZ Private Ltd", "XYZ")

	f.admin = f.createUser(t, "admin@example.com", "Admin", models.RoleAdmin)
	f.mgmt = f.createUser(t, "mgmt@example.com", "Mia Management", models.RoleManagement)
	f.accounts = f.createUser(t, "accounts@example.com", "Alex Accounts", models.RoleAccounts)
	f.tax = f.createUser(t, "tax@example.com", "Tara Tax", models.RoleTax)
	f.taxPeer = f.createUser(t, "tax2@example.com", "Theo Tax", models.RoleTax)

	f.grant(t, f.accounts, f.abc, models.FunctionAccounting)
	f.grant(t, f.tax, f.xyz, models.FunctionTax)
	f.grant(t, f.taxPeer, f.xyz, models.FunctionTax)

	userRepo := repository.NewUserRepository(db)
	grantRepo := repository.NewGrantRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	functionRepo := repository.NewFunctionRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	f.loader = access.NewLoader(userRepo, grantRepo)
	f.tasks = NewTaskService(taskRepo, companyRepo, functionRepo, userRepo, store, log)
	f.tasks.now = func() time.Time { return fixedNow }
	f.files = NewFileService(f.tasks, repository.NewTaskFileRepository(db), store, log)
	f.files.now = func() time.Time { return fixedNow }
	f.dashboard = NewDashboardService(taskRepo)
	f.companies = NewCompanyService(companyRepo)
	f.users = NewUserService(userRepo, grantRepo, companyRepo, functionRepo)
	f.revoker = auth.NewMemoryRevoker()
	f.tokenMaker = auth.NewTokenManager("test-secret", "compliance-tracker-test", time.Hour)
	f.auth = NewAuthService(userRepo, grantRepo, f.tokenMaker, f.revoker, log)

	return f
}

func (f *fixture) createCompany(t *testing.T, name, code string) *models.Company {
	t.Helper()
	c := &models.Company{Name: name, Code: code, IsActive: true}
	require.NoError(t, f.db.Create(c).Error)
	return c
}

func (f *fixture) createUser(t *testing.T, email, name string, role models.Role) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{Email: email, FullName: name, PasswordHash: string(hash), Role: role, IsActive: true}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func (f *fixture) grant(t *testing.T, user *models.User, company *models.Company, ft models.FunctionType) {
	t.Helper()
	require.NoError(t, f.db.Create(&models.AccessGrant{
		UserID:     user.ID,
		CompanyID:  company.ID,
		FunctionID: f.functions[ft].ID,
		IsActive:   true,
	}).Error)
}

func (f *fixture) scope(t *testing.T, user *models.User) access.Scope {
	t.Helper()
	_, scope, err := f.loader.Load(user.ID)
	require.NoError(t, err)
	return scope
}

// createTask stores a task directly, bypassing validation.
func (f *fixture) createTask(t *testing.T, company *models.Company, ft models.FunctionType, assignee *models.User, mutate func(*models.Task)) *models.Task {
	t.Helper()
	task := &models.Task{
		CompanyID:        company.ID,
		FunctionID:       f.functions[ft].ID,
		AssignedToUserID: assignee.ID,
		TaskType:         models.TaskTypes(ft)[0],
		Status:           models.TaskStatusNotStarted,
		PlannedDate:      time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		FinancialYear:    "2023-24",
	}
	if mutate != nil {
		mutate(task)
	}
	require.NoError(t, f.db.Create(task).Error)
	return task
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }
