// Package service holds the business rules between the HTTP/CLI surfaces
// and the stores: input validation, email normalization, the authenticate
// collapse, and the quote-fetch orchestration. The repositories themselves
// enforce none of this.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/daybook/internal/apperror"
	"github.com/sakif/daybook/internal/auth"
	"github.com/sakif/daybook/internal/model"
	"github.com/sakif/daybook/internal/repository"
)

// MinPasswordLength is enforced at registration; stored digests are never
// re-checked against it.
const MinPasswordLength = 6

// invalidCredentials is the single message for every authentication failure.
// Wrong password and unknown email must be indistinguishable to the caller.
const invalidCredentials = "invalid email or password"

// AuthService handles registration and authentication against the
// credential store.
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenService
	logger *slog.Logger
}

// NewAuthService creates an AuthService. tokens may be nil when no HTTP
// session surface is wired (e.g. the register CLI command).
func NewAuthService(users repository.UserRepository, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

// AuthResult bundles the authenticated user with the issued session token so
// the HTTP handler can set the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// NormalizeEmail lower-cases and trims an email. Every comparison and every
// stored email goes through this first.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account. Fails with apperror.ErrConflict when a
// record with the same normalized email already exists, and with
// apperror.ErrValidation for malformed input.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*model.User, error) {
	email = NormalizeEmail(email)

	if email == "" || !strings.Contains(email, "@") {
		return nil, apperror.ValidationFailed("email", "a valid email address is required")
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict("user", email)
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: checking existing email: %w", err)
	}

	user := &model.User{
		Email:    email,
		Password: auth.HashPassword(password),
		Name:     strings.TrimSpace(name),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// Authenticate verifies credentials and returns the matching user. Any
// mismatch — unknown email or wrong password — yields the same
// apperror.ErrUnauthorized result.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	email = NormalizeEmail(email)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized(invalidCredentials)
		}
		return nil, fmt.Errorf("service/auth: looking up user: %w", err)
	}

	if !auth.VerifyPassword(user.Password, password) {
		return nil, apperror.Unauthorized(invalidCredentials)
	}

	return user, nil
}

// Login authenticates and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if s.tokens == nil {
		return nil, fmt.Errorf("service/auth: token service not configured")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %d: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.Int64("userID", user.ID))

	return &AuthResult{User: user, Token: token}, nil
}

// GetUserByID returns the user for the given id.
func (s *AuthService) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %d: %w", id, err)
	}
	return user, nil
}

// ListUsers returns all accounts, most recently created first.
func (s *AuthService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/auth: listing users: %w", err)
	}
	return users, nil
}

// DeleteUser removes an account by id. Journal entries are untouched —
// storage has no ownership relation between users and entries.
func (s *AuthService) DeleteUser(ctx context.Context, id int64) error {
	rows, err := s.users.DeleteUser(ctx, id)
	if err != nil {
		return fmt.Errorf("service/auth: deleting user %d: %w", id, err)
	}
	if rows == 0 {
		return apperror.NotFound("user", fmt.Sprintf("%d", id))
	}
	return nil
}
