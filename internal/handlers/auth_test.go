package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-task-api/internal/constants"
	"github.com/yukikurage/project-task-api/internal/credentials"
	"github.com/yukikurage/project-task-api/internal/database"
	"github.com/yukikurage/project-task-api/internal/dto"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/repository"
	"github.com/yukikurage/project-task-api/internal/services"
	"github.com/yukikurage/project-task-api/internal/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db             *gorm.DB
	tokens         *credentials.TokenManager
	authService    *services.AuthService
	projectService *services.ProjectService
	taskService    *services.TaskService
	authHandler    *AuthHandler
	projectHandler *ProjectHandler
	taskHandler    *TaskHandler
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))

	tokens, err := credentials.NewTokenManager([]byte("handler-test-key"), "tests", time.Hour)
	require.NoError(t, err)

	log := zerolog.Nop()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authService := services.NewAuthService(userRepo, credentials.NewBcryptHasher(bcrypt.MinCost), tokens, log)
	projectService := services.NewProjectService(projectRepo, userRepo, log)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo, log)

	return testEnv{
		db:             db,
		tokens:         tokens,
		authService:    authService,
		projectService: projectService,
		taskService:    taskService,
		authHandler:    NewAuthHandler(authService),
		projectHandler: NewProjectHandler(projectService),
		taskHandler:    NewTaskHandler(taskService),
	}
}

func (env testEnv) register(t *testing.T, username string) *models.User {
	t.Helper()

	user, err := env.authService.Register(context.Background(), services.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	return user
}

// withUser stands in for RequireAuth.
func withUser(userID uint64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

func doJSON(r http.Handler, method, url string, payload any) *httptest.ResponseRecorder {
	var body *bytes.Reader
	switch p := payload.(type) {
	case nil:
		body = bytes.NewReader(nil)
	case string:
		body = bytes.NewReader([]byte(p))
	default:
		raw, _ := json.Marshal(p)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, url, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeAPIError(t *testing.T, w *httptest.ResponseRecorder) apierrors.APIError {
	t.Helper()

	var body apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupTestEnv(t)

	r := gin.New()
	r.POST("/create_user", env.authHandler.Register)

	payload := map[string]string{
		"username": "newuser",
		"email":    "newuser@example.com",
		"password": "supersecret",
	}
	w := doJSON(r, http.MethodPost, "/create_user", payload)
	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.RegisterResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "User created successfully", response.Message)
	assert.Equal(t, payload["username"], response.User.Username)
	assert.Equal(t, payload["email"], response.User.Email)
	assert.NotContains(t, w.Body.String(), "password")

	w = doJSON(r, http.MethodPost, "/create_user", map[string]string{
		"username": "other",
		"email":    "newuser@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	apiErr := decodeAPIError(t, w)
	assert.Equal(t, apierrors.ErrCodeAlreadyExists, apiErr.Code)
	assert.Equal(t, "Email already exists", apiErr.Message)

	w = doJSON(r, http.MethodPost, "/create_user", map[string]string{
		"username": "newuser",
		"email":    "other@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Username already exists", decodeAPIError(t, w).Message)
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	env := setupTestEnv(t)

	r := gin.New()
	r.POST("/create_user", env.authHandler.Register)

	w := doJSON(r, http.MethodPost, "/create_user", map[string]string{
		"username": "newuser",
		"email":    "not-an-email",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Code   string                  `json:"code"`
		Fields []validation.FieldError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apierrors.ErrCodeInvalidInput, body.Code)
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "email", body.Fields[0].Field)

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupTestEnv(t)
	user := env.register(t, "existing")

	r := gin.New()
	r.POST("/login", env.authHandler.Login)

	w := doJSON(r, http.MethodPost, "/login", map[string]string{
		"email":    "existing@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, user.ID, response.UserID)
	assert.Equal(t, constants.BearerScheme, response.TokenType)
	require.NotNil(t, response.ExpiresAt)

	subject, err := env.tokens.Verify(response.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	env := setupTestEnv(t)
	env.register(t, "existing")

	r := gin.New()
	r.POST("/login", env.authHandler.Login)

	wrongPassword := doJSON(r, http.MethodPost, "/login", map[string]string{
		"email":    "existing@example.com",
		"password": "wrong",
	})
	unknownEmail := doJSON(r, http.MethodPost, "/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "supersecret",
	})

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	assert.Equal(t, "Invalid credentials", decodeAPIError(t, wrongPassword).Message)
}

func TestAuthHandler_Protected(t *testing.T) {
	env := setupTestEnv(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(constants.ContextKeyUserID, uint64(17))

	env.authHandler.Protected(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"logged_in_as":17}`, w.Body.String())
}

func TestAuthHandler_ListUsers(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.register(t, "alice")
	env.register(t, "bob")

	r := gin.New()
	r.GET("/get_users", withUser(alice.ID), env.authHandler.ListUsers)
	r.GET("/ghost/get_users", withUser(999), env.authHandler.ListUsers)

	w := doJSON(r, http.MethodGet, "/get_users", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var users []dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob@example.com", users[1].Email)

	w = doJSON(r, http.MethodGet, "/get_users?page=2&limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "bob", users[0].Username)

	w = doJSON(r, http.MethodGet, "/ghost/get_users", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decodeAPIError(t, w).Message)
}
