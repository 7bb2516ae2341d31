package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/hszk-dev/shortreel/internal/domain/model"
	"github.com/hszk-dev/shortreel/internal/domain/repository"
	"github.com/hszk-dev/shortreel/internal/usecase"
)

// Request/Response types

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// AuthHandler handles registration and login requests.
type AuthHandler struct {
	svc usecase.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc usecase.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register handles POST /v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if req.Password == "" {
		Error(w, http.StatusBadRequest, "Password is required")
		return
	}

	user, err := h.svc.Register(r.Context(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusCreated, "User registered successfully", toUserResponse(user))
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	out, err := h.svc.Login(r.Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, "Login successful", LoginResponse{
		Token: out.Token,
		User:  toUserResponse(out.User),
	})
}

func (h *AuthHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, repository.ErrDuplicateEmail):
		Error(w, http.StatusConflict, "Email is already registered")
	case errors.Is(err, model.ErrEmptyName):
		Error(w, http.StatusBadRequest, "Name is required")
	case errors.Is(err, model.ErrInvalidEmail):
		Error(w, http.StatusBadRequest, "Email is not valid")
	default:
		Error(w, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}
