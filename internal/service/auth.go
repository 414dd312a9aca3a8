package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/sakif/online-compiler/internal/apperror"
	"github.com/sakif/online-compiler/internal/auth"
	"github.com/sakif/online-compiler/internal/model"
	"github.com/sakif/online-compiler/internal/repository"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MinPasswordLength = 8
)

// AuthService implements registration and login on top of the user
// repository and the password hasher.
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(users repository.UserRepository, passwords *auth.PasswordService, logger *slog.Logger) *AuthService {
	return &AuthService{users: users, passwords: passwords, logger: logger}
}

// Register validates the fields, hashes the password, and creates the
// account. Duplicate usernames surface as Conflict.
func (s *AuthService) Register(ctx context.Context, username, email, password, fullName string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	fullName = strings.TrimSpace(fullName)

	if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("username must be between %d and %d characters", MinUsernameLength, MaxUsernameLength))
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperror.ValidationFailed("email", "a valid email address is required")
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("registering user: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		s.logger.Error("failed to create user",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("registering user: %w", err)
	}

	s.logger.Info("user registered", slog.String("id", user.ID), slog.String("username", username))
	return user, nil
}

// Login checks the credentials and returns the account. The same
// Unauthorized error covers "no such user" and "wrong password" so the
// response doesn't leak which usernames exist.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperror.Unauthorized("invalid username or password")
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid username or password")
		}
		return nil, fmt.Errorf("logging in: %w", err)
	}

	// OAuth-only accounts have no password to check against.
	if user.PasswordHash == "" || !s.passwords.Verify(user.PasswordHash, password) {
		return nil, apperror.Unauthorized("invalid username or password")
	}

	s.logger.Info("user logged in", slog.String("id", user.ID))
	return user, nil
}

// GetUser retrieves a user by internal ID, for the /me endpoint.
func (s *AuthService) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.users.GetUserByID(ctx, id)
}
