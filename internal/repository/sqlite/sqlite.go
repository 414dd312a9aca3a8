// Package sqlite implements the repository interfaces on an embedded SQLite
// database via modernc.org/sqlite (pure Go, no cgo — the binary stays
// trivially cross-compilable).
package sqlite

import (
	"database/sql"
	"fmt"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps the connection pool and carries the repository methods.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight — a web server hits
	// the DB from many requests at once.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL DEFAULT '',
			full_name     TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL DEFAULT '',
			github_id     INTEGER NOT NULL DEFAULT 0,
			avatar_url    TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_users_github_id
			ON users(github_id) WHERE github_id != 0;
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS snippets (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			language    TEXT NOT NULL DEFAULT 'python',
			code        TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			user_id     TEXT REFERENCES users(id),
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_snippets_created_at ON snippets(created_at);
		CREATE INDEX IF NOT EXISTS idx_snippets_user_id ON snippets(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating snippets table: %w", err)
	}

	return nil
}
