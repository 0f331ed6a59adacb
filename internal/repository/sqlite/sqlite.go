// Package sqlite implements the repository interfaces on top of SQLite.
//
// SQLite is embedded — the whole store is one file inside the deployment,
// which fits this app's single-server, local-storage-bound profile. We use
// modernc.org/sqlite (a pure Go translation of SQLite) instead of
// github.com/mattn/go-sqlite3 so no C toolchain is needed and
// cross-compilation stays painless.
//
// WAL mode lets reads proceed while a write is in flight, which matters for
// a web server sharing one database file across requests. Writes are
// per-row atomic, and the schema's UNIQUE constraints are what make
// concurrent signups safe — see users.go.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and exposes one repository per entity.
// The repositories share the pool; DB owns its lifecycle.
type DB struct {
	conn *sql.DB

	Users    *UserRepo
	Sessions *SessionRepo
	Leads    *LeadRepo
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
// Use ":memory:" for tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// sql.Open only creates the pool — Ping forces a real connection so a
	// bad path fails here instead of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL: concurrent reads during writes. Foreign keys are off by default
	// in SQLite; we rely on them (sessions → users, contacts → results).
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

	db.Users = &UserRepo{conn: conn}
	db.Sessions = &SessionRepo{conn: conn}
	db.Leads = &LeadRepo{conn: conn}

	return db, nil
}

// Close closes the connection pool, flushing the WAL.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates or updates the schema. Every statement is idempotent, so
// this is safe to run on every startup.
func (db *DB) migrate() error {
	// Credential store. COLLATE NOCASE on the unique columns makes the
	// uniqueness check case-insensitive at the constraint level — "Alice"
	// and "alice" are the same identity, and the database is the single
	// arbiter of who got there first.
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL COLLATE NOCASE UNIQUE,
			email         TEXT NOT NULL COLLATE NOCASE UNIQUE,
			password_hash TEXT NOT NULL,
			salt          TEXT NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_login    DATETIME,
			is_active     BOOLEAN NOT NULL DEFAULT TRUE
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// Session store. session_token is unique and the only lookup key.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id            TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL REFERENCES users(id),
			session_token TEXT NOT NULL UNIQUE,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			expires_at    DATETIME NOT NULL,
			is_active     BOOLEAN NOT NULL DEFAULT TRUE
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id);
		CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);
	`)
	if err != nil {
		return fmt.Errorf("creating sessions table: %w", err)
	}

	// Lead store. link is UNIQUE so re-running a search skips known leads.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS search_results (
			id                  TEXT PRIMARY KEY,
			original_query      TEXT NOT NULL DEFAULT '',
			original_location   TEXT NOT NULL DEFAULT '',
			title               TEXT NOT NULL DEFAULT '',
			link                TEXT NOT NULL UNIQUE,
			snippet             TEXT NOT NULL DEFAULT '',
			source              TEXT NOT NULL DEFAULT '',
			address_text        TEXT NOT NULL DEFAULT '',
			phone_number_serper TEXT NOT NULL DEFAULT '',
			rating              REAL NOT NULL DEFAULT 0,
			reviews_count       INTEGER NOT NULL DEFAULT 0,
			attributes          TEXT,
			created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			scraped             BOOLEAN NOT NULL DEFAULT FALSE
		);
		CREATE INDEX IF NOT EXISTS idx_search_results_created_at ON search_results(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating search_results table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS scraped_contacts (
			id               TEXT PRIMARY KEY,
			search_result_id TEXT NOT NULL REFERENCES search_results(id),
			scraped_names    TEXT NOT NULL DEFAULT '',
			scraped_phones   TEXT NOT NULL DEFAULT '',
			scraped_emails   TEXT NOT NULL DEFAULT '',
			scraping_status  TEXT NOT NULL DEFAULT '',
			raw_response     TEXT NOT NULL DEFAULT '',
			scraped_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scraped_contacts_result ON scraped_contacts(search_result_id);
	`)
	if err != nil {
		return fmt.Errorf("creating scraped_contacts table: %w", err)
	}

	// search_results predates multi-user support, so user_id is bolted on
	// with an idempotent ALTER and left nullable: NULL marks a legacy row
	// visible to everyone. New rows always get an owner.
	if err := db.addColumnIfNotExists("search_results", "user_id",
		"TEXT REFERENCES users(id)"); err != nil {
		return fmt.Errorf("adding user_id to search_results: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE INDEX IF NOT EXISTS idx_search_results_user_id ON search_results(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating search_results user_id index: %w", err)
	}

	return nil
}

// addColumnIfNotExists adds a column only if it doesn't already exist, since
// ALTER TABLE ADD COLUMN errors on a duplicate.
func (db *DB) addColumnIfNotExists(table, column, definition string) error {
	var count int
	err := db.conn.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`,
		table, column,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking column %s.%s: %w", table, column, err)
	}
	if count > 0 {
		return nil // column already exists
	}
	_, err = db.conn.Exec(fmt.Sprintf(
		`ALTER TABLE %s ADD COLUMN %s %s`, table, column, definition,
	))
	return err
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure on
// the given column ("table.column"). modernc.org/sqlite exposes constraint
// failures only through the error text, so we match on it.
func isUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(msg, column)
}
