package database

import (
	"fmt"

	"github.com/yukikurage/project-task-api/internal/models"
	"gorm.io/gorm"
)

// index describes a single-column secondary index.
type index struct {
	model  any
	table  string
	name   string
	column string
}

var indexes = []index{
	// Ownership lookups for project listing and delete checks
	{&models.Project{}, "projects", "idx_projects_owner_id", "owner_id"},

	// Task listing per project and assignee resolution
	{&models.Task{}, "tasks", "idx_tasks_project_id", "project_id"},
	{&models.Task{}, "tasks", "idx_tasks_assignee_id", "assignee_id"},
}

// AddIndexes creates the secondary indexes that are not declared on the
// models. Existing indexes are left untouched.
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()

	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.column)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
