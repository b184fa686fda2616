package dto

import (
	"time"

	"github.com/yukikurage/project-task-api/internal/models"
)

// TaskCreatedResponse is returned after a task is added
type TaskCreatedResponse struct {
	Message   string `json:"message"`
	TaskID    uint64 `json:"task_id"`
	TaskTitle string `json:"task_title"`
}

// TaskListItemDTO represents a task in list responses. The assignee and
// project are reported by username and project name.
type TaskListItemDTO struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
	AssigneeID  string    `json:"assignee_id"`
	ProjectID   string    `json:"project_id"`
}

// ToTaskCreatedResponse converts a new Task to its creation response
func ToTaskCreatedResponse(task models.Task) TaskCreatedResponse {
	return TaskCreatedResponse{
		Message:   "Task added successfully",
		TaskID:    task.ID,
		TaskTitle: task.Title,
	}
}

// ToTaskListItemDTO converts a joined TaskView to a list item
func ToTaskListItemDTO(view models.TaskView) TaskListItemDTO {
	return TaskListItemDTO{
		ID:          view.ID,
		Title:       view.Title,
		Description: view.Description,
		Deadline:    view.Deadline.UTC(),
		AssigneeID:  view.AssigneeUsername,
		ProjectID:   view.ProjectName,
	}
}

// ToTaskListItemDTOs converts a slice of TaskView
func ToTaskListItemDTOs(views []models.TaskView) []TaskListItemDTO {
	dtos := make([]TaskListItemDTO, 0, len(views))
	for _, v := range views {
		dtos = append(dtos, ToTaskListItemDTO(v))
	}
	return dtos
}
