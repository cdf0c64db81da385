package postgres

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gatekeeper/internal/domain"

	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const uniqueViolation = "23505"

// GetByUsername retrieves a user by username. Returns (nil, nil) when the
// user does not exist.
func (d *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var (
		u         domain.User
		saltHex   string
		digestHex string
		createdAt int64
	)
	err := d.sql.QueryRowContext(ctx,
		"SELECT id, username, salt, digest, created_at FROM users WHERE username = $1",
		username,
	).Scan(&u.ID, &u.Username, &saltHex, &digestHex, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if u.Salt, err = hex.DecodeString(saltHex); err != nil {
		return nil, fmt.Errorf("%w: salt for %q: %v", domain.ErrDataCorruption, username, err)
	}
	if u.PasswordDigest, err = hex.DecodeString(digestHex); err != nil {
		return nil, fmt.Errorf("%w: digest for %q: %v", domain.ErrDataCorruption, username, err)
	}
	u.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &u, nil
}

// Create inserts a new user. The unique index on username makes the insert
// atomic: a concurrent duplicate fails with domain.ErrDuplicateUsername and
// writes nothing.
func (d *DB) Create(ctx context.Context, username string, salt, digest []byte) (*domain.User, error) {
	now := time.Now().UTC()
	var id int64
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO users (username, salt, digest, created_at) VALUES ($1, $2, $3, $4) RETURNING id",
		username, hex.EncodeToString(salt), hex.EncodeToString(digest), now.Unix(),
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, domain.ErrDuplicateUsername
		}
		return nil, err
	}
	return &domain.User{
		ID:             id,
		Username:       username,
		Salt:           salt,
		PasswordDigest: digest,
		CreatedAt:      time.Unix(now.Unix(), 0).UTC(),
	}, nil
}
