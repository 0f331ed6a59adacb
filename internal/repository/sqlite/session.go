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

// SessionRepo implements repository.SessionRepository on the shared pool.
type SessionRepo struct {
	conn *sql.DB
}

var _ repository.SessionRepository = (*SessionRepo)(nil)

// Create inserts a new session row. The caller (the service layer) has
// already generated the token and picked the expiry; the repository only
// fills in the row ID and creation time.
func (r *SessionRepo) Create(ctx context.Context, session *model.Session) error {
	session.ID = xid.New().String()
	session.CreatedAt = time.Now()
	session.IsActive = true

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, session_token, created_at, expires_at, is_active)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.UserID,
		session.Token,
		session.CreatedAt,
		session.ExpiresAt,
		session.IsActive,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting session for user %s: %w", session.UserID, err)
	}

	return nil
}

// GetByToken retrieves a session by its token, active or not — deciding what
// an inactive or expired row means is the service layer's job.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*model.Session, error) {
	var s model.Session

	err := r.conn.QueryRowContext(ctx,
		`SELECT id, user_id, session_token, created_at, expires_at, is_active
		 FROM sessions WHERE session_token = ?`,
		token,
	).Scan(
		&s.ID,
		&s.UserID,
		&s.Token,
		&s.CreatedAt,
		&s.ExpiresAt,
		&s.IsActive,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.SessionNotFound()
		}
		return nil, fmt.Errorf("sqlite: getting session by token: %w", err)
	}

	return &s, nil
}

// Invalidate marks the session inactive. Zero rows affected is fine — the
// token may be unknown or already invalidated, and both are acceptable
// outcomes of "make sure this token is dead".
func (r *SessionRepo) Invalidate(ctx context.Context, token string) error {
	_, err := r.conn.ExecContext(ctx,
		`UPDATE sessions SET is_active = FALSE WHERE session_token = ?`, token)
	if err != nil {
		return fmt.Errorf("sqlite: invalidating session: %w", err)
	}
	return nil
}

// InvalidateAllForUser kills every session belonging to a user. Called on
// account deactivation so no outstanding token survives the account.
func (r *SessionRepo) InvalidateAllForUser(ctx context.Context, userID string) error {
	_, err := r.conn.ExecContext(ctx,
		`UPDATE sessions SET is_active = FALSE WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("sqlite: invalidating sessions for user %s: %w", userID, err)
	}
	return nil
}

// SweepExpired batch-deactivates every active session past its expiry.
// Validation also retires expired sessions one at a time, so the sweep is
// purely housekeeping — it keeps the table from accumulating rows for
// sessions nobody will ever present again.
func (r *SessionRepo) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.conn.ExecContext(ctx,
		`UPDATE sessions SET is_active = FALSE WHERE is_active = TRUE AND expires_at <= ?`, now)
	if err != nil {
		return 0, fmt.Errorf("sqlite: sweeping expired sessions: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting swept sessions: %w", err)
	}
	return n, nil
}
