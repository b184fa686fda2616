package repository

import (
	"context"

	"github.com/yukikurage/project-task-api/internal/database"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/utils"
	"gorm.io/gorm"
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
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByProject resolves assignee usernames and the project name with a
// single joined query.
func (r *GormTaskRepository) ListByProject(ctx context.Context, projectID uint64, page *utils.PaginationParams) ([]models.TaskView, error) {
	views := []models.TaskView{}
	err := r.db.WithContext(ctx).
		Table("tasks").
		Select(`tasks.id, tasks.title, tasks.description, tasks.deadline,
			tasks.assignee_id, users.username AS assignee_username,
			tasks.project_id, projects.name AS project_name`).
		Joins("JOIN users ON users.id = tasks.assignee_id").
		Joins("JOIN projects ON projects.id = tasks.project_id").
		Where("tasks.project_id = ?", projectID).
		Scopes(database.Paginate(page)).
		Order("tasks.id ASC").
		Scan(&views).Error
	if err != nil {
		return nil, err
	}
	return views, nil
}

// Delete deletes a single task. It returns gorm.ErrRecordNotFound when
// the task does not exist.
func (r *GormTaskRepository) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&models.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
