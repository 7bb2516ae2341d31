package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/hszk-dev/shortreel/internal/domain/model"
	"github.com/hszk-dev/shortreel/internal/domain/repository"
)

// ErrInvalidCredentials is returned when login fails for a wrong email
// or password. One error for both cases so responses do not reveal
// which part was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// PasswordHasher hashes and verifies passwords.
// Implemented by the auth infrastructure (bcrypt).
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns a non-nil error when the password does not match.
	Compare(password, hashed string) error
}

// TokenIssuer issues access tokens for authenticated users.
// Implemented by the auth infrastructure (JWT).
type TokenIssuer interface {
	Generate(user *model.User) (string, error)
}

// RegisterInput contains the input parameters for user registration.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput contains the input parameters for login.
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput contains the result of a successful login.
type LoginOutput struct {
	User  *model.User
	Token string
}

// AuthService defines the interface for registration and login.
type AuthService interface {
	// Register creates a new user account.
	// Returns repository.ErrDuplicateEmail if the email is taken.
	Register(ctx context.Context, input RegisterInput) (*model.User, error)

	// Login verifies credentials and issues an access token.
	// Returns ErrInvalidCredentials on unknown email or wrong password.
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)
}

type authService struct {
	users  repository.UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(users repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer) AuthService {
	return &authService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// Register creates a user with a hashed password.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := model.NewUser(input.Name, input.Email, hashed)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies the password against the stored hash and issues a
// token.
func (s *authService) Login(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := s.hasher.Compare(input.Password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginOutput{
		User:  user,
		Token: token,
	}, nil
}
