// Package app holds the application services and business logic.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gatekeeper/internal/domain"
)

var (
	// ErrInvalidInput indicates a missing required field (empty username or
	// password).
	ErrInvalidInput = errors.New("username and password are required")
	// ErrDuplicateUsername indicates a registration conflict.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrInvalidCredentials indicates a failed login. Deliberately the same
	// for an unknown username and a wrong password, so callers cannot
	// enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUnauthenticated indicates a missing, expired, or invalid token, or
	// a token whose subject no longer exists. The wrapped cause is kept for
	// logging; clients only ever see this category.
	ErrUnauthenticated = errors.New("not authenticated")
)

// AuthService handles registration, login, and request authentication.
// It is stateless and safe for concurrent use.
type AuthService struct {
	users  domain.UserRepository
	hasher *Hasher
	tokens *TokenIssuer
}

// NewAuthService creates a new authentication service.
func NewAuthService(users domain.UserRepository, hasher *Hasher, tokens *TokenIssuer) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// TokenTTL returns the lifetime of issued session tokens.
func (s *AuthService) TokenTTL() int {
	return int(s.tokens.TTL().Seconds())
}

// Register creates a new account with a fresh salt and derived digest.
// Returns ErrInvalidInput for an empty username or password and
// ErrDuplicateUsername if the username is taken.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, err
	}
	digest := s.hasher.Derive(password, salt)

	user, err := s.users.Create(ctx, username, salt, digest)
	if errors.Is(err, domain.ErrDuplicateUsername) {
		return nil, ErrDuplicateUsername
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and mints a session token. Unknown
// usernames and wrong passwords produce the identical ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(password, user.Salt, user.PasswordDigest)
	if err != nil {
		// Corrupt stored salt or digest. Loud, not a login failure.
		return "", err
	}
	if !ok {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Issue(user.Username)
}

// Resolve authenticates a request from its credential material: a token
// extracted from a bearer authorization header and/or one carried in a
// cookie. The header token is preferred; the cookie is the fallback. The
// subject is re-fetched from the store so a token for a since-deleted
// account no longer authenticates.
//
// All failures are ErrUnauthenticated; the wrapped cause says which check
// failed and is meant for logs, not for clients.
func (s *AuthService) Resolve(ctx context.Context, bearerToken, cookieToken string) (*domain.Identity, error) {
	token := bearerToken
	if token == "" {
		token = cookieToken
	}
	if token == "" {
		return nil, fmt.Errorf("%w: no token supplied", ErrUnauthenticated)
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	user, err := s.users.GetByUsername(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %q not found", ErrUnauthenticated, claims.Subject)
	}

	return &domain.Identity{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}, nil
}
