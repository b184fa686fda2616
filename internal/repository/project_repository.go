package repository

import (
	"context"
	"fmt"

	"github.com/yukikurage/project-task-api/internal/database"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/utils"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// FindByID finds a project by ID regardless of owner
func (r *GormProjectRepository) FindByID(ctx context.Context, id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindOwned finds a project by ID that belongs to ownerID
func (r *GormProjectRepository) FindOwned(ctx context.Context, id, ownerID uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListByOwner returns the owner's projects ordered by ID
func (r *GormProjectRepository) ListByOwner(ctx context.Context, ownerID uint64, page *utils.PaginationParams) ([]models.Project, error) {
	projects := []models.Project{}
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Scopes(database.Paginate(page)).
		Order("id ASC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// DeleteOwnedWithTasks deletes the project and its tasks atomically. It
// returns gorm.ErrRecordNotFound when no project with that ID belongs to
// ownerID.
func (r *GormProjectRepository) DeleteOwnedWithTasks(ctx context.Context, id, ownerID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.Where("id = ? AND owner_id = ?", id, ownerID).First(&project).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
			return fmt.Errorf("failed to delete project tasks: %w", err)
		}

		if err := tx.Delete(&models.Project{}, project.ID).Error; err != nil {
			return fmt.Errorf("failed to delete project: %w", err)
		}
		return nil
	})
}
