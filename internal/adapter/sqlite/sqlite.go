// Package sqlite implements the domain repositories using SQLite, for
// single-node deployments that do not want to run a database server.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps a *sql.DB backed by a SQLite file and implements the domain
// repository interfaces.
type DB struct {
	sql *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and runs
// migrations.
func Open(path string) (*DB, error) {
	s, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// SQLite serializes writers; a single connection avoids SQLITE_BUSY
	// races between concurrent registrations.
	s.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database handle.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmt := `CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		salt TEXT NOT NULL,
		digest TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);`
	if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
