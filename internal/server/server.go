package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/yukikurage/project-task-api/internal/config"
	"github.com/yukikurage/project-task-api/internal/credentials"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
	"github.com/yukikurage/project-task-api/internal/handlers"
	"github.com/yukikurage/project-task-api/internal/middleware"
	"github.com/yukikurage/project-task-api/internal/repository"
	"github.com/yukikurage/project-task-api/internal/services"
	"gorm.io/gorm"
)

// Dependencies is the application context shared by every request. It is
// built once at startup.
type Dependencies struct {
	Config *config.Config
	DB     *gorm.DB
	Logger zerolog.Logger
	Tokens *credentials.TokenManager
	Hasher credentials.PasswordHasher
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(deps Dependencies) *gin.Engine {
	userRepo := repository.NewUserRepository(deps.DB)
	projectRepo := repository.NewProjectRepository(deps.DB)
	taskRepo := repository.NewTaskRepository(deps.DB)

	authHandler := handlers.NewAuthHandler(
		services.NewAuthService(userRepo, deps.Hasher, deps.Tokens, deps.Logger))
	projectHandler := handlers.NewProjectHandler(
		services.NewProjectService(projectRepo, userRepo, deps.Logger))
	taskHandler := handlers.NewTaskHandler(
		services.NewTaskService(taskRepo, projectRepo, userRepo, deps.Logger))

	r := gin.New()
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		deps.Logger.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("recovered from panic")
		apierrors.InternalError(c, "")
	}))
	r.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, "")
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Project Task API is running",
		})
	})

	// Public routes
	r.POST("/create_user", authHandler.Register)
	r.POST("/login", authHandler.Login)

	// Protected routes
	protected := r.Group("")
	protected.Use(middleware.RequireAuth(deps.Tokens, deps.Logger))
	{
		protected.GET("/protected", authHandler.Protected)
		protected.GET("/get_users", authHandler.ListUsers)

		protected.POST("/create_project", projectHandler.CreateProject)
		protected.GET("/get_projects", projectHandler.ListProjects)
		protected.DELETE("/delete_project/:id", middleware.RequireIDParam("id"), projectHandler.DeleteProject)

		protected.POST("/add_task", taskHandler.CreateTask)
		protected.GET("/get_tasks/:project_id", middleware.RequireIDParam("project_id"), taskHandler.ListTasks)
		protected.DELETE("/delete_task/:id", middleware.RequireIDParam("id"), taskHandler.DeleteTask)
	}

	return r
}

// NewHandler wraps the router with CORS.
func NewHandler(deps Dependencies) http.Handler {
	corsCfg := deps.Config.CORS
	c := cors.New(cors.Options{
		AllowedOrigins: corsCfg.AllowedOrigins,
		AllowedMethods: corsCfg.AllowedMethods,
		AllowedHeaders: corsCfg.AllowedHeaders,
	})
	return c.Handler(NewRouter(deps))
}

// New creates the HTTP server described by the configuration.
func New(deps Dependencies) *http.Server {
	httpCfg := deps.Config.HTTP
	return &http.Server{
		Addr:         net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler:      NewHandler(deps),
		ReadTimeout:  httpCfg.ReadTimeout,
		WriteTimeout: httpCfg.WriteTimeout,
		IdleTimeout:  httpCfg.IdleTimeout,
	}
}

// Run serves until ctx is cancelled, then shuts the server down within
// the configured timeout.
func Run(ctx context.Context, server *http.Server, deps Dependencies) error {
	log := deps.Logger
	errCh := make(chan error, 1)

	go func() {
		log.Info().Str("addr", server.Addr).Msg("setting up http server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to listen and serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), deps.Config.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown http server: %w", err)
	}

	log.Info().Msg("shut down http server")
	return nil
}
