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

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask adds a task to one of the caller's projects
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	req, ok := bindShape[validation.TaskCreate](c)
	if !ok {
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline.Time,
		AssigneeID:  req.AssigneeID,
		ProjectID:   req.ProjectID,
		CallerID:    userID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskCreatedResponse(*task))
}

// ListTasks returns the tasks of one of the caller's projects
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	projectID, ok := requireIDParam(c, "project_id")
	if !ok {
		return
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), projectID, userID, pageParams(c))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListItemDTOs(tasks))
}

// DeleteTask deletes a task from one of the caller's projects
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	taskID, ok := requireIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), taskID, userID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Task deleted successfully"})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrAssigneeNotFound):
		apierrors.NotFound(c, "Assignee not found")
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrNotProjectOwner):
		apierrors.Forbidden(c, "Not authorized to delete this task")
	default:
		_ = c.Error(err)
		apierrors.InternalError(c, "")
	}
}
