package validation

// UserCreate is the registration payload.
type UserCreate struct {
	Username string `json:"username" validate:"required,notblank,max=80"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=255"`
}

// UserLogin is the login payload.
type UserLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProjectCreate is the payload for creating a project.
type ProjectCreate struct {
	Name string `json:"name" validate:"required,min=1,notblank,max=255"`
}

// TaskCreate is the payload for adding a task to a project.
type TaskCreate struct {
	Title       string    `json:"title" validate:"required,min=1,notblank,max=255"`
	Description string    `json:"description" validate:"required,min=1,notblank"`
	Deadline    Timestamp `json:"deadline" validate:"required"`
	AssigneeID  uint64    `json:"assignee_id" validate:"required,gt=0"`
	ProjectID   uint64    `json:"project_id" validate:"required,gt=0"`
}

// Shape lists the payloads Validate accepts.
type Shape interface {
	UserCreate | UserLogin | ProjectCreate | TaskCreate
}
