package database

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/complytrack/compliance-tracker-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedOptions controls which optional records Seed creates.
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
	DemoData      bool
}

// DemoPassword is the password of every demo account.
const DemoPassword = "Password123!"

var demoCompanies = []models.Company{
	{Name: "ABC Limited", Code: "ABC", IsActive: true},
	{Name: "XYZ Private Ltd", Code: "XYZ", IsActive: true},
	{Name: "DEF Corp", Code: "DEF", IsActive: true},
}

var demoUsers = []struct {
	email    string
	fullName string
	role     models.Role
}{
	{"admin@company.com", "Admin User", models.RoleAdmin},
	{"management@company.com", "Mike Management", models.RoleManagement},
	{"accounts@company.com", "John Accounts", models.RoleAccounts},
	{"tax@company.com", "Sarah Tax", models.RoleTax},
	{"compliance@company.com", "Lisa Compliance", models.RoleCompliance},
	{"audit@company.com", "David Audit", models.RoleAudit},
}

// Seed creates the function catalog and, depending on opts, an admin account
// and demo data. It is safe to run on every start.
func Seed(db *gorm.DB, opts SeedOptions, log *slog.Logger) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := seedFunctions(tx); err != nil {
			return err
		}

		if opts.AdminEmail != "" && opts.AdminPassword != "" {
			created, err := ensureUser(tx, opts.AdminEmail, "Administrator", models.RoleAdmin, opts.AdminPassword)
			if err != nil {
				return err
			}
			if created {
				log.Info("seeded admin user", slog.String("email", opts.AdminEmail))
			}
		}

		if opts.DemoData {
			if err := seedDemo(tx); err != nil {
				return err
			}
			log.Info("demo data ensured", slog.Int("companies", len(demoCompanies)), slog.Int("users", len(demoUsers)))
		}
		return nil
	})
}

func seedFunctions(tx *gorm.DB) error {
	for _, fn := range models.FunctionCatalog() {
		fn := fn
		if err := tx.Where(models.Function{Type: fn.Type}).FirstOrCreate(&fn).Error; err != nil {
			return fmt.Errorf("failed to seed function %s: %w", fn.Type, err)
		}
	}
	return nil
}

func ensureUser(tx *gorm.DB, email, fullName string, role models.Role, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var existing models.User
	err := tx.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to look up user %s: %w", email, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if err := tx.Create(&user).Error; err != nil {
		return false, fmt.Errorf("failed to create user %s: %w", email, err)
	}
	return true, nil
}

func seedDemo(tx *gorm.DB) error {
	var companyCount int64
	if err := tx.Model(&models.Company{}).Count(&companyCount).Error; err != nil {
		return err
	}
	if companyCount == 0 {
		companies := append([]models.Company(nil), demoCompanies...)
		if err := tx.Create(&companies).Error; err != nil {
			return fmt.Errorf("failed to seed companies: %w", err)
		}
	}

	for _, u := range demoUsers {
		if _, err := ensureUser(tx, u.email, u.fullName, u.role, DemoPassword); err != nil {
			return err
		}
	}

	var grantCount int64
	if err := tx.Model(&models.AccessGrant{}).Count(&grantCount).Error; err != nil {
		return err
	}
	if grantCount > 0 {
		return nil
	}

	var companies []models.Company
	if err := tx.Order("id").Find(&companies).Error; err != nil {
		return err
	}
	var functions []models.Function
	if err := tx.Order("id").Find(&functions).Error; err != nil {
		return err
	}

	users := make(map[string]models.User, len(demoUsers))
	for _, u := range demoUsers {
		var user models.User
		if err := tx.Where("email = ?", u.email).First(&user).Error; err != nil {
			return err
		}
		users[u.email] = user
	}

	var grants []models.AccessGrant
	grant := func(user models.User, company models.Company, fn models.Function) {
		grants = append(grants, models.AccessGrant{UserID: user.ID, CompanyID: company.ID, FunctionID: fn.ID, IsActive: true})
	}

	for _, company := range companies {
		for _, fn := range functions {
			grant(users["admin@company.com"], company, fn)
			grant(users["management@company.com"], company, fn)
		}
	}
	for i, company := range companies {
		for _, fn := range functions {
			// accounts: accounting on the first two companies; tax: tax on the rest
			if fn.Type == models.FunctionAccounting && i < 2 {
				grant(users["accounts@company.com"], company, fn)
			}
			if fn.Type == models.FunctionTax && i > 0 {
				grant(users["tax@company.com"], company, fn)
			}
		}
	}

	if len(grants) == 0 {
		return nil
	}
	if err := tx.Create(&grants).Error; err != nil {
		return fmt.Errorf("failed to seed access grants: %w", err)
	}
	return nil
}
