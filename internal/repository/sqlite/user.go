package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/online-compiler/internal/apperror"
	"github.com/sakif/online-compiler/internal/model"
	"github.com/sakif/online-compiler/internal/repository"
)

var _ repository.UserRepository = (*DB)(nil)

const userColumns = `id, username, email, full_name, password_hash, github_id, avatar_url, created_at, updated_at`

// CreateUser inserts a password-registered user. A username or email collision
// comes back as the domain's Conflict error so the handler can answer 409.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.FullName,
		user.PasswordHash,
		user.GitHubID,
		user.AvatarURL,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", user.Username)
		}
		return fmt.Errorf("sqlite: creating user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by internal ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `WHERE id = ?`, id)
}

// GetUserByUsername retrieves a user by login name.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return db.getUser(ctx, `WHERE username = ?`, username)
}

func (db *DB) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User
	err := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users `+where, arg,
	).Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.PasswordHash,
		&u.GitHubID, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprintf("%v", arg))
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}
	return &u, nil
}

// UpsertGitHubUser creates or refreshes the account mapped to user.GitHubID.
// The GitHub numeric ID is the stable key; login, email and avatar are
// refreshed on every sign-in. The internal ID is filled in either way.
func (db *DB) UpsertGitHubUser(ctx context.Context, user *model.User) error {
	var existing model.User
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, created_at FROM users WHERE github_id = ?`,
		user.GitHubID,
	).Scan(&existing.ID, &existing.CreatedAt)

	switch {
	case err == sql.ErrNoRows:
		user.ID = xid.New().String()
		now := time.Now()
		user.CreatedAt = now
		user.UpdatedAt = now
		_, err = db.conn.ExecContext(ctx,
			`INSERT INTO users (`+userColumns+`)
			 VALUES (?, ?, ?, ?, '', ?, ?, ?, ?)`,
			user.ID, user.Username, user.Email, user.FullName,
			user.GitHubID, user.AvatarURL, user.CreatedAt, user.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("sqlite: inserting github user: %w", err)
		}
		return nil

	case err != nil:
		return fmt.Errorf("sqlite: looking up github user: %w", err)
	}

	user.ID = existing.ID
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = time.Now()
	_, err = db.conn.ExecContext(ctx,
		`UPDATE users SET username = ?, email = ?, avatar_url = ?, updated_at = ?
		 WHERE id = ?`,
		user.Username, user.Email, user.AvatarURL, user.UpdatedAt, user.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: refreshing github user: %w", err)
	}
	return nil
}

// isUniqueViolation sniffs the driver error text for a UNIQUE constraint
// failure. modernc.org/sqlite doesn't export a typed error for this.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
