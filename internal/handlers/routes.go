package handlers

import (
	"github.com/complytrack/compliance-tracker-api/internal/middleware"
	"github.com/complytrack/compliance-tracker-api/internal/models"
	"github.com/gin-gonic/gin"
)

// Routes bundles the handlers mounted under /api
type Routes struct {
	Auth      *AuthHandler
	Companies *CompanyHandler
	Functions *FunctionHandler
	Tasks     *TaskHandler
	Files     *FileHandler
	Dashboard *DashboardHandler
	Users     *UserHandler

	// RequireAuth is the token and scope middleware
	RequireAuth       gin.HandlerFunc
	UsersRequireAdmin bool
}

// Register mounts every API route on r
func (rt Routes) Register(r gin.IRouter) {
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	editors := middleware.RequireRoles(models.RoleAdmin, models.RoleAccounts)
	anyRole := middleware.RequireRoles(models.AllRoles()...)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", rt.Auth.Login)
		auth.POST("/register", rt.RequireAuth, adminOnly, rt.Auth.Register)
		auth.POST("/logout", rt.RequireAuth, rt.Auth.Logout)
		auth.GET("/profile", rt.RequireAuth, rt.Auth.GetProfile)
	}

	companies := api.Group("/companies")
	companies.Use(rt.RequireAuth)
	{
		companies.GET("", rt.Companies.ListCompanies)
		companies.GET("/:id", rt.Companies.GetCompany)
		companies.POST("", editors, rt.Companies.CreateCompany)
		companies.PUT("/:id", editors, rt.Companies.UpdateCompany)
		companies.DELETE("/:id", editors, rt.Companies.DeleteCompany)
	}

	api.GET("/functions", rt.RequireAuth, rt.Functions.ListFunctions)

	// Attachment fetch may be mounted without authentication
	if rt.Files.publicRead {
		api.GET("/tasks/:id/files/:fileId", rt.Files.Fetch)
	}

	tasks := api.Group("/tasks")
	tasks.Use(rt.RequireAuth, anyRole)
	{
		tasks.GET("", rt.Tasks.ListTasks)
		tasks.POST("", editors, rt.Tasks.CreateTask)
		tasks.DELETE("/files/:fileId", editors, rt.Files.Delete)
		tasks.GET("/:id", rt.Tasks.GetTask)
		tasks.PUT("/:id", rt.Tasks.UpdateTask)
		tasks.DELETE("/:id", editors, rt.Tasks.DeleteTask)
		tasks.GET("/:id/updates", rt.Tasks.ListTaskUpdates)
		tasks.POST("/:id/files", rt.Files.Upload)
		if !rt.Files.publicRead {
			tasks.GET("/:id/files/:fileId", rt.Files.Fetch)
		}
	}

	dashboard := api.Group("/dashboard")
	dashboard.Use(rt.RequireAuth, anyRole)
	{
		dashboard.GET("/stats", rt.Dashboard.Stats)
		dashboard.GET("/exceptions", rt.Dashboard.Exceptions)
	}

	users := api.Group("/users")
	users.Use(rt.RequireAuth)
	{
		if rt.UsersRequireAdmin {
			users.GET("", adminOnly, rt.Users.ListUsers)
		} else {
			users.GET("", rt.Users.ListUsers)
		}
		users.POST("/:id/grants", adminOnly, rt.Users.GrantAccess)
		users.DELETE("/:id/grants/:grantId", adminOnly, rt.Users.RevokeAccess)
	}
}
