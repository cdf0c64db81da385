// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"sync"
	"time"

	"gatekeeper/internal/domain"
)

// DB is a mutex-guarded in-memory credential store.
type DB struct {
	mu            sync.Mutex
	users         []*domain.User
	userIDCounter int64
}

// New creates an empty in-memory store.
func New() *DB {
	return &DB{}
}

// GetByUsername retrieves a user by username. Returns (nil, nil) when the
// user does not exist.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

// Create creates a new user. The mutex makes the duplicate check and the
// insert a single atomic step, so of two concurrent registrations for the
// same username exactly one succeeds.
func (db *DB) Create(ctx context.Context, username string, salt, digest []byte) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return nil, domain.ErrDuplicateUsername
		}
	}

	db.userIDCounter++
	u := &domain.User{
		ID:             db.userIDCounter,
		Username:       username,
		Salt:           append([]byte(nil), salt...),
		PasswordDigest: append([]byte(nil), digest...),
		CreatedAt:      time.Unix(time.Now().Unix(), 0).UTC(),
	}
	db.users = append(db.users, u)
	return u, nil
}
