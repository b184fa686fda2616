package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/repository"
	"github.com/yukikurage/project-task-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrAssigneeNotFound = errors.New("assignee not found")
	ErrNotProjectOwner  = errors.New("only the project owner can perform this action")
)

// TaskService handles task business logic
type TaskService struct {
	tasks    repository.TaskRepository
	projects repository.ProjectRepository
	users    repository.UserRepository
	log      zerolog.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(
	tasks repository.TaskRepository,
	projects repository.ProjectRepository,
	users repository.UserRepository,
	log zerolog.Logger,
) *TaskService {
	return &TaskService{
		tasks:    tasks,
		projects: projects,
		users:    users,
		log:      log.With().Str("service", "task").Logger(),
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Deadline    time.Time
	AssigneeID  uint64
	ProjectID   uint64
	CallerID    uint64
}

// CreateTask adds a task to a project the caller owns
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	if _, err := findOwnedProject(ctx, s.projects, s.log, input.ProjectID, input.CallerID); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByID(ctx, input.AssigneeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Info().Uint64("assignee_id", input.AssigneeID).Msg("assignee not found")
			return nil, ErrAssigneeNotFound
		}
		s.log.Error().Err(err).Uint64("assignee_id", input.AssigneeID).Msg("failed to find assignee")
		return nil, fmt.Errorf("failed to find assignee: %w", err)
	}

	task := &models.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Deadline:    input.Deadline.UTC(),
		AssigneeID:  input.AssigneeID,
		ProjectID:   input.ProjectID,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		s.log.Error().Err(err).Uint64("project_id", input.ProjectID).Msg("failed to create task")
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.log.Info().
		Uint64("task_id", task.ID).
		Uint64("project_id", task.ProjectID).
		Uint64("assignee_id", task.AssigneeID).
		Msg("task created")
	return task, nil
}

// ListTasks returns the tasks of a project the caller owns, ordered by ID
func (s *TaskService) ListTasks(ctx context.Context, projectID, callerID uint64, page *utils.PaginationParams) ([]models.TaskView, error) {
	if _, err := findUser(ctx, s.users, s.log, callerID); err != nil {
		return nil, err
	}
	if _, err := findOwnedProject(ctx, s.projects, s.log, projectID, callerID); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListByProject(ctx, projectID, page)
	if err != nil {
		s.log.Error().Err(err).Uint64("project_id", projectID).Msg("failed to list tasks")
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	s.log.Debug().Uint64("project_id", projectID).Int("count", len(tasks)).Msg("listed tasks")
	return tasks, nil
}

// DeleteTask deletes a task if the caller owns its project
func (s *TaskService) DeleteTask(ctx context.Context, taskID, callerID uint64) error {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Info().Uint64("task_id", taskID).Msg("task not found")
			return ErrTaskNotFound
		}
		s.log.Error().Err(err).Uint64("task_id", taskID).Msg("failed to find task")
		return fmt.Errorf("failed to find task: %w", err)
	}

	project, err := s.projects.FindByID(ctx, task.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn().Uint64("task_id", taskID).Msg("task has no project")
			return ErrTaskNotFound
		}
		s.log.Error().Err(err).Uint64("project_id", task.ProjectID).Msg("failed to find project")
		return fmt.Errorf("failed to find project: %w", err)
	}

	if project.OwnerID != callerID {
		s.log.Info().
			Uint64("task_id", taskID).
			Uint64("caller_id", callerID).
			Msg("task delete denied")
		return ErrNotProjectOwner
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		s.log.Error().Err(err).Uint64("task_id", taskID).Msg("failed to delete task")
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.log.Info().Uint64("task_id", taskID).Msg("task deleted")
	return nil
}
