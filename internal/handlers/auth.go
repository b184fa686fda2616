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

// AuthHandler coordinates authentication and user HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a new user.
func (h *AuthHandler) Register(c *gin.Context) {
	req, ok := bindShape[validation.UserCreate](c)
	if !ok {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.RegisterResponse{
		Message: "User created successfully",
		User:    dto.ToUserDTO(*user),
	})
}

// Login authenticates a user and issues a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	req, ok := bindShape[validation.UserLogin](c)
	if !ok {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLoginResponse(result.User.ID, result.Token))
}

// Protected echoes the identity carried by the bearer token.
func (h *AuthHandler) Protected(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.ProtectedResponse{LoggedInAs: userID})
}

// ListUsers returns every registered user.
func (h *AuthHandler) ListUsers(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	users, err := h.authService.ListUsers(c.Request.Context(), userID, pageParams(c))
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTOs(users))
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.AlreadyExists(c, "Email already exists")
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.AlreadyExists(c, "Username already exists")
	case errors.Is(err, services.ErrUserExists):
		apierrors.AlreadyExists(c, "User already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c)
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	default:
		_ = c.Error(err)
		apierrors.InternalError(c, "")
	}
}
