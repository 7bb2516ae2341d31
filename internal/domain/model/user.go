package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents a registered account.
// The core treats the user as an opaque identity; only registration and
// login mutate it.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

var (
	ErrEmptyName    = errors.New("name cannot be empty")
	ErrInvalidEmail = errors.New("email is not valid")
	ErrEmptyHash    = errors.New("password hash cannot be empty")
)

// NewUser creates a new User with a freshly generated ID.
// The password must already be hashed by the caller.
func NewUser(name, email, passwordHash string) (*User, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if passwordHash == "" {
		return nil, ErrEmptyHash
	}

	now := time.Now()
	return &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
