package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/project-task-api/internal/database"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/utils"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("user repository: email already registered")
	// ErrUsernameTaken is returned when the username is already registered.
	ErrUsernameTaken = errors.New("user repository: username already registered")
	// ErrDuplicateUser is returned when a concurrent insert won the race
	// for a unique column.
	ErrDuplicateUser = errors.New("user repository: duplicate user")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// CreateIfAbsent checks the unique columns and inserts the user atomically.
func (r *GormUserRepository) CreateIfAbsent(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if count > 0 {
			return ErrEmailTaken
		}

		if err := tx.Model(&models.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check username: %w", err)
		}
		if count > 0 {
			return ErrUsernameTaken
		}

		if err := tx.Create(user).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return fmt.Errorf("%w: %v", ErrDuplicateUser, err)
			}
			return fmt.Errorf("failed to insert user: %w", err)
		}
		return nil
	})
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns users ordered by ID
func (r *GormUserRepository) List(ctx context.Context, page *utils.PaginationParams) ([]models.User, error) {
	users := []models.User{}
	if err := r.db.WithContext(ctx).
		Scopes(database.Paginate(page)).
		Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
