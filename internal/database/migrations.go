package database

import (
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"
)

// compositeIndex describes an index GORM tags cannot express on a single field.
type compositeIndex struct {
	table   string
	name    string
	columns []string
}

var compositeIndexes = []compositeIndex{
	// Visibility predicate and list filters
	{"tasks", "idx_tasks_company_function", []string{"company_id", "function_id"}},
	{"tasks", "idx_tasks_assignee_created", []string{"assigned_to_user_id", "created_at"}},
	{"tasks", "idx_tasks_year_status", []string{"financial_year", "status"}},

	// Grant lookups per request
	{"access_grants", "idx_access_grants_user_active", []string{"user_id", "is_active"}},

	// Journal history, newest first
	{"task_status_updates", "idx_task_status_updates_task_time", []string{"task_id", "updated_at"}},

	// Active company listing
	{"companies", "idx_companies_active_name", []string{"is_active", "name"}},
}

// AddIndexes creates the composite indexes that do not exist yet.
func AddIndexes(db *gorm.DB, log *slog.Logger) error {
	migrator := db.Migrator()

	for _, idx := range compositeIndexes {
		if migrator.HasIndex(idx.table, idx.name) {
			log.Debug("index already exists, skipping", slog.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, strings.Join(idx.columns, ", "))
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("created index",
			slog.String("index", idx.name),
			slog.String("table", idx.table),
		)
	}

	return nil
}
