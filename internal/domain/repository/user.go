package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hszk-dev/shortreel/internal/domain/model"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create persists a new user.
	// Returns ErrDuplicateEmail if the email is already registered.
	Create(ctx context.Context, user *model.User) error

	// GetByID retrieves a user by ID.
	// Returns nil and ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByEmail retrieves a user by email address.
	// Returns nil and ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}
