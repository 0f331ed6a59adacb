package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MrJayasuriya/Ai-scraper/internal/apperror"
	"github.com/MrJayasuriya/Ai-scraper/internal/model"
	"github.com/MrJayasuriya/Ai-scraper/internal/repository"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// LeadService handles business rules for search results and scraped
// contacts. Every operation is performed on behalf of an owner; the
// repository applies the visibility rule (own rows plus legacy ownerless
// rows), the service applies validation and never lets a write happen
// without an owner.
type LeadService struct {
	repo   repository.LeadRepository
	logger *slog.Logger
}

func NewLeadService(repo repository.LeadRepository, logger *slog.Logger) *LeadService {
	return &LeadService{
		repo:   repo,
		logger: logger,
	}
}

// SaveResults stores a batch of search results for ownerID, skipping rows
// without a link and rows whose link is already known. Returns the number
// of newly saved results.
func (s *LeadService) SaveResults(ctx context.Context, ownerID string, results []model.SearchResult) (int, error) {
	if ownerID == "" {
		return 0, apperror.ValidationFailed("ownerID", "owner is required")
	}

	// Drop rows with no link up front — the link is the dedupe key and the
	// scrape target, a result without one is useless.
	valid := make([]model.SearchResult, 0, len(results))
	for _, r := range results {
		if strings.TrimSpace(r.Link) == "" {
			continue
		}
		valid = append(valid, r)
	}
	if len(valid) == 0 {
		return 0, apperror.ValidationFailed("results", "no results with a link to save")
	}

	inserted, err := s.repo.InsertResults(ctx, ownerID, valid)
	if err != nil {
		s.logger.Error("failed to save search results",
			slog.String("ownerID", ownerID),
			slog.String("error", err.Error()),
		)
		return inserted, fmt.Errorf("saving search results: %w", err)
	}

	s.logger.Info("search results saved",
		slog.String("ownerID", ownerID),
		slog.Int("received", len(results)),
		slog.Int("inserted", inserted),
	)

	return inserted, nil
}

// ListResults returns the owner's visible results with pagination clamped
// to a sane range.
func (s *LeadService) ListResults(ctx context.Context, ownerID string, limit, offset int) ([]model.SearchResult, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	results, err := s.repo.ListResults(ctx, ownerID, repository.ListOptions{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		s.logger.Error("failed to list search results", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing search results: %w", err)
	}

	return results, nil
}

// ListUnscraped returns the owner's results still waiting for contact
// extraction.
func (s *LeadService) ListUnscraped(ctx context.Context, ownerID string) ([]model.SearchResult, error) {
	results, err := s.repo.ListUnscraped(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list unscraped results", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing unscraped results: %w", err)
	}
	return results, nil
}

// RecordContact stores the contact details extracted for one of the owner's
// results and marks that result scraped.
//
// The result is fetched through the owner's scope first, so a caller can
// only ever attach contacts to rows they can see.
func (s *LeadService) RecordContact(ctx context.Context, ownerID, resultID string, contact model.ScrapedContact) (*model.ScrapedContact, error) {
	resultID = strings.TrimSpace(resultID)
	if resultID == "" {
		return nil, apperror.ValidationFailed("resultID", "search result ID is required")
	}
	if contact.Status == "" {
		return nil, apperror.ValidationFailed("status", "scraping status is required")
	}

	if _, err := s.repo.GetResult(ctx, ownerID, resultID); err != nil {
		return nil, err
	}

	contact.SearchResultID = resultID
	if err := s.repo.AttachContact(ctx, &contact); err != nil {
		s.logger.Error("failed to record scraped contact",
			slog.String("resultID", resultID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("recording scraped contact: %w", err)
	}

	s.logger.Info("contact recorded",
		slog.String("resultID", resultID),
		slog.String("status", contact.Status),
	)

	return &contact, nil
}

// ContactsForResult returns the contacts scraped for one of the owner's
// results, newest first. The result is fetched through the owner's scope
// first, so contacts on an invisible result are unreachable.
func (s *LeadService) ContactsForResult(ctx context.Context, ownerID, resultID string) ([]model.ScrapedContact, error) {
	if _, err := s.repo.GetResult(ctx, ownerID, resultID); err != nil {
		return nil, err
	}

	contacts, err := s.repo.ContactsForResult(ctx, resultID)
	if err != nil {
		s.logger.Error("failed to list contacts",
			slog.String("resultID", resultID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	return contacts, nil
}

// Stats returns the owner's dashboard counters.
func (s *LeadService) Stats(ctx context.Context, ownerID string) (*model.Stats, error) {
	stats, err := s.repo.Stats(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to compute stats", slog.String("error", err.Error()))
		return nil, fmt.Errorf("computing stats: %w", err)
	}
	return stats, nil
}

// ClearAll deletes the owner's results and contacts. Shared legacy rows
// stay — they don't belong to the caller.
func (s *LeadService) ClearAll(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return apperror.ValidationFailed("ownerID", "owner is required")
	}
	if err := s.repo.ClearAll(ctx, ownerID); err != nil {
		s.logger.Error("failed to clear results",
			slog.String("ownerID", ownerID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("clearing results: %w", err)
	}

	s.logger.Info("results cleared", slog.String("ownerID", ownerID))
	return nil
}
