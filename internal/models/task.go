package models

import (
	"time"
)

type Task struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Deadline    time.Time `gorm:"not null" json:"deadline"`
	AssigneeID  uint64    `gorm:"not null" json:"assignee_id"`
	ProjectID   uint64    `gorm:"not null" json:"project_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskView is a task joined with its assignee's username and its
// project's name.
type TaskView struct {
	ID               uint64    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Deadline         time.Time `json:"deadline"`
	AssigneeID       uint64    `json:"-"`
	AssigneeUsername string    `json:"assignee_username"`
	ProjectID        uint64    `json:"-"`
	ProjectName      string    `json:"project_name"`
}
