package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gatekeeper/internal/domain"

	"github.com/mattn/go-sqlite3"
)

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
		"SELECT id, username, salt, digest, created_at FROM users WHERE username = ?",
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

// Create inserts a new user, relying on the unique index on username for
// atomic duplicate detection.
func (d *DB) Create(ctx context.Context, username string, salt, digest []byte) (*domain.User, error) {
	now := time.Now().UTC()
	res, err := d.sql.ExecContext(ctx,
		"INSERT INTO users (username, salt, digest, created_at) VALUES (?, ?, ?, ?)",
		username, hex.EncodeToString(salt), hex.EncodeToString(digest), now.Unix(),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, domain.ErrDuplicateUsername
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
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
