package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/complytrack/compliance-tracker-api/internal/constants"
	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	ServerPort int
	GinMode    string
	LogLevel   string

	JWTSecret string
	JWTIssuer string
	JWTExpiry time.Duration

	CORSAllowedOrigins []string
	RedisURL           string

	UploadsDir        string
	MaxUploadBytes    int64
	FilesPublicRead   bool
	UsersRequireAdmin bool

	SeedAdminEmail    string
	SeedAdminPassword string
	SeedDemoData      bool
}

// Load reads configuration from environment variables. A .env file in the
// working directory, when present, is applied first without overriding
// variables already set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	expiryDays, err := strconv.Atoi(getEnv("JWT_EXPIRY_DAYS", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY_DAYS: %w", err)
	}
	if expiryDays <= 0 {
		return nil, fmt.Errorf("invalid JWT_EXPIRY_DAYS: must be positive")
	}

	maxUploadMB, err := strconv.Atoi(getEnv("MAX_UPLOAD_MB", strconv.Itoa(constants.DefaultMaxUploadMB)))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_MB: %w", err)
	}

	filesPublicRead, err := parseBoolEnv("FILES_PUBLIC_READ", false)
	if err != nil {
		return nil, err
	}
	usersRequireAdmin, err := parseBoolEnv("USERS_REQUIRE_ADMIN", false)
	if err != nil {
		return nil, err
	}
	seedDemo, err := parseBoolEnv("SEED_DEMO_DATA", false)
	if err != nil {
		return nil, err
	}

	driver := strings.ToLower(getEnv("DB_DRIVER", "mysql"))
	if driver != "mysql" && driver != "postgres" {
		return nil, fmt.Errorf("invalid DB_DRIVER %q: expected mysql or postgres", driver)
	}

	defaultPort := "3306"
	if driver == "postgres" {
		defaultPort = "5432"
	}

	return &Config{
		DBDriver:           driver,
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", defaultPort),
		DBUser:             getEnv("DB_USER", "compliance"),
		DBPassword:         getEnv("DB_PASSWORD", "compliance"),
		DBName:             getEnv("DB_NAME", "compliance_tracker"),
		ServerPort:         port,
		GinMode:            getEnv("GIN_MODE", "debug"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		JWTSecret:          getEnv("JWT_SECRET", "default-secret-key-change-me"),
		JWTIssuer:          getEnv("JWT_ISSUER", "compliance-tracker"),
		JWTExpiry:          time.Duration(expiryDays) * 24 * time.Hour,
		CORSAllowedOrigins: parseCSVEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		RedisURL:           getEnv("REDIS_URL", ""),
		UploadsDir:         getEnv("UPLOADS_DIR", constants.DefaultUploadsDir),
		MaxUploadBytes:     int64(maxUploadMB) << 20,
		FilesPublicRead:    filesPublicRead,
		UsersRequireAdmin:  usersRequireAdmin,
		SeedAdminEmail:     getEnv("SEED_ADMIN_EMAIL", ""),
		SeedAdminPassword:  getEnv("SEED_ADMIN_PASSWORD", ""),
		SeedDemoData:       seedDemo,
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func parseCSVEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
