package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/MrJayasuriya/Ai-scraper/internal/apperror"
	"github.com/MrJayasuriya/Ai-scraper/internal/model"
	"github.com/MrJayasuriya/Ai-scraper/internal/repository"
)

// UserRepo implements repository.UserRepository on the shared pool.
type UserRepo struct {
	conn *sql.DB
}

var _ repository.UserRepository = (*UserRepo)(nil)

// Create inserts a new user row.
//
// There is deliberately no "check then insert" here. The UNIQUE constraints
// on username and email are the arbiter: if two requests race to sign up the
// same name, the database rejects the loser and we translate the constraint
// failure into DuplicateIdentity. A pre-check SELECT would just add a window
// for exactly the race it tries to prevent.
func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = time.Now()
	user.IsActive = true

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, salt, created_at, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Salt,
		user.CreatedAt,
		user.IsActive,
	)
	if err != nil {
		// Name the colliding field but nothing else; the message must not
		// confirm which account value already exists beyond the field itself.
		if isUniqueViolation(err, "users.username") {
			return apperror.DuplicateIdentity("username")
		}
		if isUniqueViolation(err, "users.email") {
			return apperror.DuplicateIdentity("email")
		}
		return fmt.Errorf("sqlite: inserting user %s: %w", user.Username, err)
	}

	return nil
}

// GetByID retrieves a user by internal ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getUser(ctx, id,
		`SELECT id, username, email, password_hash, salt, created_at, last_login, is_active
		 FROM users WHERE id = ?`, id)
}

// GetByIdentifier retrieves a user by username or email. The comparison is
// case-insensitive because both columns are COLLATE NOCASE.
func (r *UserRepo) GetByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	return r.getUser(ctx, identifier,
		`SELECT id, username, email, password_hash, salt, created_at, last_login, is_active
		 FROM users WHERE username = ? OR email = ?`, identifier, identifier)
}

func (r *UserRepo) getUser(ctx context.Context, key, query string, args ...any) (*model.User, error) {
	var u model.User
	var lastLogin sql.NullTime

	err := r.conn.QueryRowContext(ctx, query, args...).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Salt,
		&u.CreatedAt,
		&lastLogin,
		&u.IsActive,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", key)
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}

	// last_login is NULL until the first successful login.
	if lastLogin.Valid {
		u.LastLogin = lastLogin.Time
	}

	return &u, nil
}

// TouchLastLogin stamps the user's last successful credential check.
func (r *UserRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	result, err := r.conn.ExecContext(ctx,
		`UPDATE users SET last_login = ? WHERE id = ?`, at, id)
	if err != nil {
		return fmt.Errorf("sqlite: touching last_login for user %s: %w", id, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return apperror.NotFound("user", id)
	}
	return nil
}

// Deactivate flips is_active off. The row is never deleted — search results
// and contacts keep their owner reference for history.
func (r *UserRepo) Deactivate(ctx context.Context, id string) error {
	result, err := r.conn.ExecContext(ctx,
		`UPDATE users SET is_active = FALSE WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deactivating user %s: %w", id, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return apperror.NotFound("user", id)
	}
	return nil
}
