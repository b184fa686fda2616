package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yukikurage/project-task-api/internal/config"
	"github.com/yukikurage/project-task-api/internal/constants"
	"github.com/yukikurage/project-task-api/internal/credentials"
	"github.com/yukikurage/project-task-api/internal/database"
	"github.com/yukikurage/project-task-api/internal/logger"
	"github.com/yukikurage/project-task-api/internal/server"
	"github.com/yukikurage/project-task-api/internal/utils"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run database migrations and exit")
	flag.Parse()

	// Bootstrap logger until the configured one exists
	bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()

	// Load configuration
	cfg, err := config.Load(config.NewEnvReader())
	if err != nil {
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		bootLog.Fatal().Err(err).Msg("failed to create logger")
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	if *migrateOnly {
		log.Info().Msg("migrations applied")
		return
	}

	hasher, err := credentials.NewPasswordHasher(cfg.Password.Algorithm, cfg.Password.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create password hasher")
	}

	tokens, err := newTokenManager(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create token manager")
	}

	deps := server.Dependencies{
		Config: cfg,
		DB:     db,
		Logger: log,
		Tokens: tokens,
		Hasher: hasher,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, server.New(deps), deps); err != nil {
		log.Error().Err(err).Msg("http server stopped")
	}
}

func newTokenManager(cfg *config.Config, log zerolog.Logger) (*credentials.TokenManager, error) {
	secret := cfg.Token.Secret
	if secret == "" {
		// config.Validate rejects an empty secret in release mode.
		generated, err := utils.GenerateSecret(constants.SecretLength)
		if err != nil {
			return nil, err
		}
		secret = generated
		log.Warn().Msg("TOKEN_SECRET is empty; using a generated secret, tokens will not survive a restart")
	}

	ttl := cfg.Token.TTL
	if cfg.Token.NoExpiry {
		ttl = 0
		log.Warn().Msg("TOKEN_NO_EXPIRY is set; issued tokens never expire")
	}

	return credentials.NewTokenManager([]byte(secret), cfg.Token.Issuer, ttl)
}
