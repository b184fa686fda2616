package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yukikurage/project-task-api/internal/credentials"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/repository"
	"github.com/yukikurage/project-task-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already exists")
	ErrUsernameTaken        = errors.New("username already exists")
	ErrUserExists           = errors.New("user already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToIssueToken   = errors.New("failed to issue token")
)

// AuthService handles registration, login and user lookups.
type AuthService struct {
	users  repository.UserRepository
	hasher credentials.PasswordHasher
	tokens *credentials.TokenManager
	log    zerolog.Logger

	// decoyOnce guards decoyHash, which is verified against when the login
	// email is unknown so both failure paths cost one hash comparison.
	decoyOnce sync.Once
	decoyHash string
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	users repository.UserRepository,
	hasher credentials.PasswordHasher,
	tokens *credentials.TokenManager,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		log:    log.With().Str("service", "auth").Logger(),
	}
}

// RegisterInput represents the information required to create a user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates a new user with a hashed password.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to hash password")
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     strings.TrimSpace(input.Username),
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: hash,
	}

	if err := s.users.CreateIfAbsent(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailTaken):
			s.log.Info().Str("email", user.Email).Msg("registration rejected: email taken")
			return nil, ErrEmailTaken
		case errors.Is(err, repository.ErrUsernameTaken):
			s.log.Info().Str("username", user.Username).Msg("registration rejected: username taken")
			return nil, ErrUsernameTaken
		case errors.Is(err, repository.ErrDuplicateUser):
			s.log.Warn().Err(err).Msg("registration lost a uniqueness race")
			return nil, ErrUserExists
		default:
			s.log.Error().Err(err).Msg("failed to create user")
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	}

	s.log.Info().Uint64("user_id", user.ID).Msg("user registered")
	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is a successful login: the user and a freshly issued token.
type LoginResult struct {
	User  *models.User
	Token credentials.Token
}

// Login verifies credentials and issues a bearer token. An unknown email
// and a wrong password both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.hasher.Verify(input.Password, s.decoy())
			s.log.Info().Msg("login rejected")
			return nil, ErrInvalidCredentials
		}
		s.log.Error().Err(err).Msg("failed to find user")
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		s.log.Info().Msg("login rejected")
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to issue token")
		return nil, ErrFailedToIssueToken
	}

	s.log.Info().Uint64("user_id", user.ID).Msg("user logged in")
	return &LoginResult{User: user, Token: token}, nil
}

// ListUsers returns every user. The caller must still exist.
func (s *AuthService) ListUsers(ctx context.Context, callerID uint64, page *utils.PaginationParams) ([]models.User, error) {
	if _, err := findUser(ctx, s.users, s.log, callerID); err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx, page)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list users")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	s.log.Debug().Int("count", len(users)).Msg("listed users")
	return users, nil
}

func (s *AuthService) decoy() string {
	s.decoyOnce.Do(func() {
		hash, err := s.hasher.Hash("decoy-password")
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to prepare decoy hash")
			return
		}
		s.decoyHash = hash
	})
	return s.decoyHash
}

// findUser loads the user behind an authenticated request.
func findUser(ctx context.Context, users repository.UserRepository, log zerolog.Logger, id uint64) (*models.User, error) {
	user, err := users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Info().Uint64("user_id", id).Msg("user not found")
			return nil, ErrUserNotFound
		}
		log.Error().Err(err).Uint64("user_id", id).Msg("failed to find user")
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
