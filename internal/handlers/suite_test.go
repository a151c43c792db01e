package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/complytrack/compliance-tracker-api/internal/access"
	"github.com/complytrack/compliance-tracker-api/internal/auth"
	"github.com/complytrack/compliance-tracker-api/internal/database"
	"github.com/complytrack/compliance-tracker-api/internal/logger"
	"github.com/complytrack/compliance-tracker-api/internal/middleware"
	"github.com/complytrack/compliance-tracker-api/internal/models"
	"github.com/complytrack/compliance-tracker-api/internal/repository"
	"github.com/complytrack/compliance-tracker-api/internal/services"
	"github.com/complytrack/compliance-tracker-api/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testPassword = "Password123!"

// APITestSuite drives the full router against an in-memory database
type APITestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	routes Routes
	log    *slog.Logger

	fileService *services.FileService

	abc, xyz  *models.Company
	functions map[models.FunctionType]*models.Function
	users     map[string]*models.User
	tokens    map[string]string
}

func (s *APITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	s.db = db

	log := logger.NewWithWriter(io.Discard, "error")
	s.Require().NoError(database.Migrate(db, log))
	s.Require().NoError(database.Seed(db, database.SeedOptions{}, log))

	store, err := storage.NewLocalStore(s.T().TempDir())
	s.Require().NoError(err)

	userRepo := repository.NewUserRepository(db)
	grantRepo := repository.NewGrantRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	functionRepo := repository.NewFunctionRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	tokens := auth.NewTokenManager("handler-test-secret", "compliance-tracker-test", time.Hour)
	authService := services.NewAuthService(userRepo, grantRepo, tokens, auth.NewMemoryRevoker(), log)
	taskService := services.NewTaskService(taskRepo, companyRepo, functionRepo, userRepo, store, log)
	fileService := services.NewFileService(taskService, repository.NewTaskFileRepository(db), store, log)

	s.log = log
	s.fileService = fileService
	s.routes = Routes{
		Auth:        NewAuthHandler(authService, log),
		Companies:   NewCompanyHandler(services.NewCompanyService(companyRepo), log),
		Functions:   NewFunctionHandler(services.NewFunctionService(functionRepo), log),
		Tasks:       NewTaskHandler(taskService, log),
		Files:       NewFileHandler(fileService, 1<<20, false, log),
		Dashboard:   NewDashboardHandler(services.NewDashboardService(taskRepo), log),
		Users:       NewUserHandler(services.NewUserService(userRepo, grantRepo, companyRepo, functionRepo), log),
		RequireAuth: middleware.RequireAuth(authService, access.NewLoader(userRepo, grantRepo), log),
	}
	s.remount(nil)

	s.functions = map[models.FunctionType]*models.Function{}
	var fns []models.Function
	s.Require().NoError(db.Find(&fns).Error)
	for i := range fns {
		s.functions[fns[i].Type] = &fns[i]
	}

	s.abc = &models.Company{Name: "ABC Limited", Code: "ABC", IsActive: true}
	s.xyz = &models.Company{Name: "XYZ Private Ltd", Code: "XYZ", IsActive: true}
	s.Require().NoError(db.Create(s.abc).Error)
	s.Require().NoError(db.Create(s.xyz).Error)

	s.users = map[string]*models.User{}
	s.tokens = map[string]string{}
	s.createUser("admin", models.RoleAdmin)
	s.createUser("mgmt", models.RoleManagement)
	s.createUser("accounts", models.RoleAccounts)
	s.createUser("tax", models.RoleTax)
	s.createUser("taxpeer", models.RoleTax)

	s.grant("accounts", s.abc, models.FunctionAccounting)
	s.grant("tax", s.xyz, models.FunctionTax)
	s.grant("taxpeer", s.xyz, models.FunctionTax)
}

// remount rebuilds the router after mutate adjusts the route options
func (s *APITestSuite) remount(mutate func(*Routes)) {
	if mutate != nil {
		mutate(&s.routes)
	}
	s.router = gin.New()
	s.router.Use(middleware.RequestID())
	s.routes.Register(s.router)
}

func (s *APITestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.Close()
}

func (s *APITestSuite) createUser(key string, role models.Role) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	s.Require().NoError(err)
	u := &models.User{
		Email:        key + "@example.com",
		FullName:     "User " + key,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	s.Require().NoError(s.db.Create(u).Error)
	s.users[key] = u
	return u
}

func (s *APITestSuite) grant(key string, company *models.Company, ft models.FunctionType) {
	s.Require().NoError(s.db.Create(&models.AccessGrant{
		UserID:     s.users[key].ID,
		CompanyID:  company.ID,
		FunctionID: s.functions[ft].ID,
		IsActive:   true,
	}).Error)
}

func (s *APITestSuite) createTask(company *models.Company, ft models.FunctionType, assignee string) *models.Task {
	task := &models.Task{
		CompanyID:        company.ID,
		FunctionID:       s.functions[ft].ID,
		AssignedToUserID: s.users[assignee].ID,
		TaskType:         models.TaskTypes(ft)[0],
		Status:           models.TaskStatusNotStarted,
		PlannedDate:      time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		FinancialYear:    "2023-24",
	}
	s.Require().NoError(s.db.Create(task).Error)
	return task
}

// token logs in through the API once per user and caches the bearer token
func (s *APITestSuite) token(key string) string {
	if tok, ok := s.tokens[key]; ok {
		return tok
	}
	w := s.request(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    key + "@example.com",
		"password": testPassword,
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.tokens[key] = resp.Token
	return resp.Token
}

// request sends a JSON request, authenticated as user when user is not empty
func (s *APITestSuite) request(method, path, user string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set("Authorization", "Bearer "+s.token(user))
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *APITestSuite) decode(w *httptest.ResponseRecorder, out interface{}) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func taskPath(id uint64, suffix string) string {
	return fmt.Sprintf("/api/tasks/%d%s", id, suffix)
}
