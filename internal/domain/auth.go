// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateUsername is returned by UserRepository.Create when the
// username is already taken. The insert must fail cleanly, leaving no
// partial record.
var ErrDuplicateUsername = errors.New("username already exists")

// ErrDataCorruption indicates that a stored salt or digest could not be
// decoded. It signals a storage-layer bug and must never be swallowed.
var ErrDataCorruption = errors.New("stored credential data is corrupt")

// User is a registered account. Salt and PasswordDigest are written once at
// registration and never updated.
type User struct {
	ID             int64
	Username       string
	Salt           []byte
	PasswordDigest []byte
	CreatedAt      time.Time
}

// Identity is the transient result of a successful token verification. It is
// re-derived from the stored User on every request, so it reflects the
// account as it exists now, not as it existed when the token was issued.
type Identity struct {
	ID        int64
	Username  string
	CreatedAt time.Time
}

// UserRepository defines the port for credential persistence.
//
// GetByUsername returns (nil, nil) when no such user exists. Create must
// enforce username uniqueness atomically: of two concurrent inserts for the
// same username, exactly one succeeds and the other observes
// ErrDuplicateUsername.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, username string, salt, digest []byte) (*User, error)
}
