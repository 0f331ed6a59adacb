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

// LeadRepo implements repository.LeadRepository on the shared pool.
type LeadRepo struct {
	conn *sql.DB
}

var _ repository.LeadRepository = (*LeadRepo)(nil)

// ownerScope is the visibility rule for every lead read: a user sees their
// own rows plus legacy rows that predate multi-user support (user_id IS
// NULL). It never exposes another user's rows.
const ownerScope = `(user_id = ? OR user_id IS NULL)`

const resultColumns = `id, user_id, original_query, original_location, title, link, snippet,
	source, address_text, phone_number_serper, rating, reviews_count, attributes, created_at, scraped`

// InsertResults bulk-inserts search results for one owner and returns how
// many were actually written.
//
// Deduplication rides on the UNIQUE constraint on link: INSERT OR IGNORE
// skips rows whose link is already stored (possibly by another user or as a
// legacy row) and RowsAffected tells us whether each insert landed. One bad
// row doesn't abort the batch — the remaining results still get saved.
func (r *LeadRepo) InsertResults(ctx context.Context, ownerID string, results []model.SearchResult) (int, error) {
	inserted := 0
	for i := range results {
		sr := &results[i]
		sr.ID = xid.New().String()
		sr.UserID = &ownerID
		sr.CreatedAt = time.Now()

		res, err := r.conn.ExecContext(ctx,
			`INSERT OR IGNORE INTO search_results
			 (id, user_id, original_query, original_location, title, link, snippet,
			  source, address_text, phone_number_serper, rating, reviews_count, attributes, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sr.ID,
			ownerID,
			sr.OriginalQuery,
			sr.OriginalLocation,
			sr.Title,
			sr.Link,
			sr.Snippet,
			sr.Source,
			sr.AddressText,
			sr.PhoneNumber,
			sr.Rating,
			sr.ReviewsCount,
			nullIfEmpty(sr.Attributes),
			sr.CreatedAt,
		)
		if err != nil {
			return inserted, fmt.Errorf("sqlite: inserting search result %q: %w", sr.Link, err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			inserted++
		}
	}
	return inserted, nil
}

// ListResults returns the owner's visible results, newest first.
func (r *LeadRepo) ListResults(ctx context.Context, ownerID string, opts repository.ListOptions) ([]model.SearchResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := r.conn.QueryContext(ctx,
		`SELECT `+resultColumns+`
		 FROM search_results
		 WHERE `+ownerScope+`
		 ORDER BY created_at DESC
		 LIMIT ? OFFSET ?`,
		ownerID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing search results: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

// ListUnscraped returns the owner's visible results that have not been
// scraped yet — the work queue for the contact-extraction step.
func (r *LeadRepo) ListUnscraped(ctx context.Context, ownerID string) ([]model.SearchResult, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT `+resultColumns+`
		 FROM search_results
		 WHERE scraped = FALSE AND `+ownerScope+`
		 ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing unscraped results: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

// GetResult fetches one result, applying the same visibility rule as the
// list queries — asking for another user's row looks identical to asking
// for a row that doesn't exist.
func (r *LeadRepo) GetResult(ctx context.Context, ownerID, id string) (*model.SearchResult, error) {
	row := r.conn.QueryRowContext(ctx,
		`SELECT `+resultColumns+`
		 FROM search_results
		 WHERE id = ? AND `+ownerScope,
		id, ownerID,
	)

	res, err := scanResult(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("search result", id)
		}
		return nil, fmt.Errorf("sqlite: getting search result %s: %w", id, err)
	}
	return res, nil
}

// AttachContact stores scraped contact details and marks the parent result
// scraped. Both writes happen in one transaction so a result can never be
// marked scraped without its contact row (or the other way round).
func (r *LeadRepo) AttachContact(ctx context.Context, contact *model.ScrapedContact) error {
	contact.ID = xid.New().String()
	contact.ScrapedAt = time.Now()

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning contact transaction: %w", err)
	}
	// Rollback after a successful Commit is a no-op.
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO scraped_contacts
		 (id, search_result_id, scraped_names, scraped_phones, scraped_emails, scraping_status, raw_response, scraped_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		contact.ID,
		contact.SearchResultID,
		contact.Names,
		contact.Phones,
		contact.Emails,
		contact.Status,
		contact.RawResponse,
		contact.ScrapedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting scraped contact: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE search_results SET scraped = TRUE WHERE id = ?`,
		contact.SearchResultID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: marking result %s scraped: %w", contact.SearchResultID, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return apperror.NotFound("search result", contact.SearchResultID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing contact transaction: %w", err)
	}
	return nil
}

// ContactsForResult returns the contacts scraped for one result, newest first.
func (r *LeadRepo) ContactsForResult(ctx context.Context, resultID string) ([]model.ScrapedContact, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, search_result_id, scraped_names, scraped_phones, scraped_emails,
		        scraping_status, raw_response, scraped_at
		 FROM scraped_contacts
		 WHERE search_result_id = ?
		 ORDER BY scraped_at DESC`,
		resultID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing contacts for result %s: %w", resultID, err)
	}
	defer rows.Close()

	var contacts []model.ScrapedContact
	for rows.Next() {
		var c model.ScrapedContact
		if err := rows.Scan(
			&c.ID, &c.SearchResultID, &c.Names, &c.Phones, &c.Emails,
			&c.Status, &c.RawResponse, &c.ScrapedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning contact row: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating contacts: %w", err)
	}

	return contacts, nil
}

// Stats computes the dashboard counters over the owner's visible rows.
func (r *LeadRepo) Stats(ctx context.Context, ownerID string) (*model.Stats, error) {
	var s model.Stats

	err := r.conn.QueryRowContext(ctx,
		`SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN scraped THEN 1 ELSE 0 END), 0)
		 FROM search_results
		 WHERE `+ownerScope,
		ownerID,
	).Scan(&s.TotalResults, &s.ScrapedResults)
	if err != nil {
		return nil, fmt.Errorf("sqlite: counting search results: %w", err)
	}
	s.UnscrapedResults = s.TotalResults - s.ScrapedResults

	err = r.conn.QueryRowContext(ctx,
		`SELECT
			COALESCE(SUM(CASE WHEN sc.scraping_status = 'Success' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN sc.scraped_names  != '' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN sc.scraped_phones != '' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN sc.scraped_emails != '' THEN 1 ELSE 0 END), 0)
		 FROM scraped_contacts sc
		 JOIN search_results sr ON sr.id = sc.search_result_id
		 WHERE (sr.user_id = ? OR sr.user_id IS NULL)`,
		ownerID,
	).Scan(&s.SuccessfulExtractions, &s.NamesFound, &s.PhonesFound, &s.EmailsFound)
	if err != nil {
		return nil, fmt.Errorf("sqlite: counting scraped contacts: %w", err)
	}

	return &s, nil
}

// ClearAll deletes the owner's results and their contacts. Legacy ownerless
// rows are shared with everyone, so they are deliberately not touched.
func (r *LeadRepo) ClearAll(ctx context.Context, ownerID string) error {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning clear transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM scraped_contacts
		 WHERE search_result_id IN (SELECT id FROM search_results WHERE user_id = ?)`,
		ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: clearing scraped contacts: %w", err)
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM search_results WHERE user_id = ?`, ownerID)
	if err != nil {
		return fmt.Errorf("sqlite: clearing search results: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing clear transaction: %w", err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (*model.SearchResult, error) {
	var r model.SearchResult
	var userID, attributes sql.NullString

	err := row.Scan(
		&r.ID,
		&userID,
		&r.OriginalQuery,
		&r.OriginalLocation,
		&r.Title,
		&r.Link,
		&r.Snippet,
		&r.Source,
		&r.AddressText,
		&r.PhoneNumber,
		&r.Rating,
		&r.ReviewsCount,
		&attributes,
		&r.CreatedAt,
		&r.Scraped,
	)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		r.UserID = &userID.String
	}
	r.Attributes = attributes.String

	return &r, nil
}

func scanResults(rows *sql.Rows) ([]model.SearchResult, error) {
	var results []model.SearchResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning search result row: %w", err)
		}
		results = append(results, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating search results: %w", err)
	}
	return results, nil
}

// nullIfEmpty stores empty attribute JSON as NULL, matching rows written
// before attributes were captured.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
