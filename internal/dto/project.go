package dto

import "github.com/yukikurage/project-task-api/internal/models"

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:   project.ID,
		Name: project.Name,
	}
}

func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	dtos := make([]ProjectDTO, 0, len(projects))
	for _, p := range projects {
		dtos = append(dtos, ToProjectDTO(p))
	}
	return dtos
}
