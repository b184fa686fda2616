package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/repository"
	"github.com/yukikurage/project-task-api/internal/utils"
	"gorm.io/gorm"
)

// ErrProjectNotFound covers both a missing project and one owned by
// someone else.
var ErrProjectNotFound = errors.New("project not found")

// ProjectService handles project business logic
type ProjectService struct {
	projects repository.ProjectRepository
	users    repository.UserRepository
	log      zerolog.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(projects repository.ProjectRepository, users repository.UserRepository, log zerolog.Logger) *ProjectService {
	return &ProjectService{
		projects: projects,
		users:    users,
		log:      log.With().Str("service", "project").Logger(),
	}
}

// CreateProject creates a project owned by the caller
func (s *ProjectService) CreateProject(ctx context.Context, ownerID uint64, name string) (*models.Project, error) {
	if _, err := findUser(ctx, s.users, s.log, ownerID); err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:    strings.TrimSpace(name),
		OwnerID: ownerID,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		s.log.Error().Err(err).Uint64("owner_id", ownerID).Msg("failed to create project")
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.log.Info().
		Uint64("project_id", project.ID).
		Uint64("owner_id", ownerID).
		Msg("project created")
	return project, nil
}

// DeleteProject deletes a project and all of its tasks if the caller
// owns it
func (s *ProjectService) DeleteProject(ctx context.Context, projectID, callerID uint64) error {
	if err := s.projects.DeleteOwnedWithTasks(ctx, projectID, callerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Info().
				Uint64("project_id", projectID).
				Uint64("caller_id", callerID).
				Msg("project not found or not owned")
			return ErrProjectNotFound
		}
		s.log.Error().Err(err).Uint64("project_id", projectID).Msg("failed to delete project")
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.log.Info().Uint64("project_id", projectID).Msg("project deleted")
	return nil
}

// ListProjects returns the caller's projects
func (s *ProjectService) ListProjects(ctx context.Context, ownerID uint64, page *utils.PaginationParams) ([]models.Project, error) {
	if _, err := findUser(ctx, s.users, s.log, ownerID); err != nil {
		return nil, err
	}

	projects, err := s.projects.ListByOwner(ctx, ownerID, page)
	if err != nil {
		s.log.Error().Err(err).Uint64("owner_id", ownerID).Msg("failed to list projects")
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	s.log.Debug().Uint64("owner_id", ownerID).Int("count", len(projects)).Msg("listed projects")
	return projects, nil
}

// findOwnedProject resolves a project the caller owns
func findOwnedProject(ctx context.Context, projects repository.ProjectRepository, log zerolog.Logger, projectID, callerID uint64) (*models.Project, error) {
	project, err := projects.FindOwned(ctx, projectID, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Info().
				Uint64("project_id", projectID).
				Uint64("caller_id", callerID).
				Msg("project not found or not owned")
			return nil, ErrProjectNotFound
		}
		log.Error().Err(err).Uint64("project_id", projectID).Msg("failed to find project")
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}
