// Package repository defines the storage interfaces the service layer
// depends on. The sqlite subpackage provides the real implementation;
// tests substitute in-memory fakes.
package repository

import (
	"context"
	"time"

	"github.com/MrJayasuriya/Ai-scraper/internal/model"
)

type ListOptions struct {
	Limit  int
	Offset int
}

// UserRepository is the credential store. Uniqueness of username and email
// is enforced by the database itself (case-insensitive UNIQUE constraints),
// not by application-level locking — two concurrent signups for the same
// name race safely, and exactly one wins.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	// GetByIdentifier looks a user up by username OR email, case-insensitively.
	GetByIdentifier(ctx context.Context, identifier string) (*model.User, error)
	// TouchLastLogin records a successful credential check.
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	// Deactivate soft-deletes the account; the row and its data remain.
	Deactivate(ctx context.Context, id string) error
}

// SessionRepository persists session tokens.
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	GetByToken(ctx context.Context, token string) (*model.Session, error)
	// Invalidate marks the session inactive. Idempotent: invalidating an
	// unknown or already-inactive token is not an error.
	Invalidate(ctx context.Context, token string) error
	// InvalidateAllForUser kills every session of a user (account deactivation).
	InvalidateAllForUser(ctx context.Context, userID string) error
	// SweepExpired batch-deactivates all sessions past their expiry and
	// returns how many it touched.
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

// LeadRepository stores search results and the contacts scraped from them.
// All reads are scoped: a caller sees their own rows plus legacy ownerless
// rows (user_id IS NULL), never another user's.
type LeadRepository interface {
	// InsertResults bulk-inserts search results, silently skipping links that
	// already exist, and returns the number actually inserted.
	InsertResults(ctx context.Context, ownerID string, results []model.SearchResult) (int, error)
	ListResults(ctx context.Context, ownerID string, opts ListOptions) ([]model.SearchResult, error)
	ListUnscraped(ctx context.Context, ownerID string) ([]model.SearchResult, error)
	GetResult(ctx context.Context, ownerID, id string) (*model.SearchResult, error)
	// AttachContact stores scraped contact details and marks the parent
	// result scraped, atomically.
	AttachContact(ctx context.Context, contact *model.ScrapedContact) error
	ContactsForResult(ctx context.Context, resultID string) ([]model.ScrapedContact, error)
	Stats(ctx context.Context, ownerID string) (*model.Stats, error)
	// ClearAll removes the owner's results and their contacts. Ownerless
	// legacy rows are left untouched.
	ClearAll(ctx context.Context, ownerID string) error
}
