// Package auth is responsible for handling authentication and authorization logic.
// This includes user registration, login, token issuance and validation, and
// resolving the acting user for protected routes.
// In a Nest.js analogy, this directory would correspond to an "AuthModule".
package auth

import (
	"context"
	"log/slog"

	"github.com/user/todolist-go/apperror"
	"github.com/user/todolist-go/users"
)

// tokenTypeBearer is the token_type reported to clients.
const tokenTypeBearer = "bearer"

// PasswordHasher is the subset of *password.Hasher the service needs.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, encoded string) bool
	NeedsRehash(encoded string) bool
}

// Service provides registration and login.
// Dependencies are injected explicitly through the constructor.
type Service struct {
	users  users.Store
	hasher PasswordHasher
	tokens *TokenService
	// dummyHash is verified against when the email is unknown, so a miss
	// costs about as much as a wrong password.
	dummyHash string
}

// NewService creates a new Service.
func NewService(store users.Store, hasher PasswordHasher, tokens *TokenService) *Service {
	dummy, err := hasher.Hash("dummy-password-for-timing")
	if err != nil {
		slog.Warn("could not prepare dummy password hash", "error", err)
	}
	return &Service{
		users:     store,
		hasher:    hasher,
		tokens:    tokens,
		dummyHash: dummy,
	}
}

// Register creates a new user with a hashed password.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*users.User, error) {
	// Fast path for the common duplicate case. The store's unique index
	// still decides races between concurrent registrations.
	if _, err := s.users.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, apperror.NewConflictError("Email already registered", nil)
	} else if !apperror.IsNotFound(err) {
		return nil, err
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	user, err := s.users.CreateUser(ctx, req.Email, hashed)
	if err != nil {
		return nil, err
	}
	slog.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login checks credentials and issues an access token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if apperror.IsNotFound(err) {
			s.hasher.Verify(req.Password, s.dummyHash)
			return nil, apperror.NewAuthError("Invalid credentials", nil)
		}
		return nil, err
	}

	if !s.hasher.Verify(req.Password, user.HashedPassword) {
		return nil, apperror.NewAuthError("Invalid credentials", nil)
	}
	if s.hasher.NeedsRehash(user.HashedPassword) {
		slog.Info("stored password hash uses outdated parameters", "user_id", user.ID)
	}

	token, _, err := s.tokens.Issue(user.ID, s.tokens.TTL())
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue token", err)
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
	}, nil
}
