package sqlite

import (
	"context"
	"testing"

	"github.com/MrJayasuriya/Ai-scraper/internal/model"
)

// newTestDB returns a DB backed by an in-memory SQLite database with the full
// schema applied. Each ":memory:" database lives per connection, so the pool
// is pinned to a single connection — otherwise a second pooled connection
// would see an empty schema.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	db.conn.SetMaxOpenConns(1)

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	return db
}

// createTestUser inserts a user with placeholder password material.
func createTestUser(t *testing.T, db *DB, username, email string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: "aGFzaA==",
		Salt:         "c2FsdA==",
	}
	if err := db.Users.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user %s: %v", username, err)
	}
	return user
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := newTestDB(t)

	// Running migrations again on an initialized database must be a no-op.
	if err := db.migrate(); err != nil {
		t.Fatalf("second migrate() failed: %v", err)
	}
}
