package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-task-api/internal/dto"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
	"github.com/yukikurage/project-task-api/internal/services"
	"github.com/yukikurage/project-task-api/internal/validation"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// CreateProject creates a project owned by the caller
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	req, ok := bindShape[validation.ProjectCreate](c)
	if !ok {
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), userID, req.Name)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// DeleteProject deletes a project and its tasks
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	projectID, ok := requireIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), projectID, userID); err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			apierrors.NotFound(c, "Project not found or unauthorized")
			return
		}
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Project deleted successfully"})
}

// ListProjects returns the caller's projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	projects, err := h.projectService.ListProjects(c.Request.Context(), userID, pageParams(c))
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTOs(projects))
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	default:
		_ = c.Error(err)
		apierrors.InternalError(c, "")
	}
}
