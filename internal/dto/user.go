package dto

import (
	"time"

	"github.com/yukikurage/project-task-api/internal/constants"
	"github.com/yukikurage/project-task-api/internal/credentials"
	"github.com/yukikurage/project-task-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// RegisterResponse is returned after a successful registration
type RegisterResponse struct {
	Message string  `json:"message"`
	User    UserDTO `json:"user"`
}

// LoginResponse carries the issued bearer token
type LoginResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	UserID      uint64     `json:"user_id"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// ProtectedResponse echoes the authenticated identity
type ProtectedResponse struct {
	LoggedInAs uint64 `json:"logged_in_as"`
}

// MessageResponse is a bare confirmation
type MessageResponse struct {
	Message string `json:"message"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

// ToUserDTOs converts users, keeping an empty result as an empty array
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, ToUserDTO(u))
	}
	return dtos
}

// ToLoginResponse builds the login payload. Tokens without expiry omit
// expires_at.
func ToLoginResponse(userID uint64, token credentials.Token) LoginResponse {
	resp := LoginResponse{
		AccessToken: token.Value,
		TokenType:   constants.BearerScheme,
		UserID:      userID,
	}
	if !token.ExpiresAt.IsZero() {
		expiresAt := token.ExpiresAt.UTC()
		resp.ExpiresAt = &expiresAt
	}
	return resp
}
