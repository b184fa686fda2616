package repository

import (
	"context"

	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// CreateIfAbsent inserts the user unless the email or username is
	// already registered. It returns ErrEmailTaken, ErrUsernameTaken or
	// ErrDuplicateUser when the user already exists.
	CreateIfAbsent(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// List returns users ordered by ID
	List(ctx context.Context, page *utils.PaginationParams) ([]models.User, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(ctx context.Context, project *models.Project) error

	// FindByID finds a project by ID regardless of owner
	FindByID(ctx context.Context, id uint64) (*models.Project, error)

	// FindOwned finds a project by ID that belongs to ownerID
	FindOwned(ctx context.Context, id, ownerID uint64) (*models.Project, error)

	// ListByOwner returns the owner's projects ordered by ID
	ListByOwner(ctx context.Context, ownerID uint64, page *utils.PaginationParams) ([]models.Project, error)

	// DeleteOwnedWithTasks deletes a project owned by ownerID together
	// with all of its tasks in a single transaction
	DeleteOwnedWithTasks(ctx context.Context, id, ownerID uint64) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID
	FindByID(ctx context.Context, id uint64) (*models.Task, error)

	// ListByProject returns the project's tasks joined with the assignee
	// username and project name, ordered by task ID
	ListByProject(ctx context.Context, projectID uint64, page *utils.PaginationParams) ([]models.TaskView, error)

	// Delete deletes a single task
	Delete(ctx context.Context, id uint64) error
}
