package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJayasuriya/Ai-scraper/internal/auth"
	"github.com/MrJayasuriya/Ai-scraper/internal/model"
	"github.com/MrJayasuriya/Ai-scraper/internal/service"
)

// LeadHandler exposes the search-result and scraped-contact endpoints.
// Every route sits behind RequireAuth; the owner ID always comes from the
// session, never from the request body.
type LeadHandler struct {
	leadSvc *service.LeadService
	logger  *slog.Logger
}

func NewLeadHandler(leadSvc *service.LeadService, logger *slog.Logger) *LeadHandler {
	return &LeadHandler{
		leadSvc: leadSvc,
		logger:  logger,
	}
}

// saveResultsRequest is the JSON body for POST /api/results.
type saveResultsRequest struct {
	Results []model.SearchResult `json:"results"`
}

// saveResultsResponse reports how many of the submitted rows were new.
type saveResultsResponse struct {
	Received int `json:"received"`
	Inserted int `json:"inserted"`
}

// recordContactRequest is the JSON body for POST /api/results/{id}/contact.
type recordContactRequest struct {
	Names       string `json:"names"`
	Phones      string `json:"phones"`
	Emails      string `json:"emails"`
	Status      string `json:"status"`
	RawResponse string `json:"rawResponse"`
}

// HandleSaveResults stores a batch of search results for the caller.
//
// HTTP: POST /api/results
func (h *LeadHandler) HandleSaveResults(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid session required",
		})
		return
	}

	var req saveResultsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_json",
			Message: "request body must be valid JSON",
		})
		return
	}

	inserted, err := h.leadSvc.SaveResults(r.Context(), ownerID, req.Results)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, saveResultsResponse{
		Received: len(req.Results),
		Inserted: inserted,
	})
}

// HandleListResults returns the caller's visible results, newest first.
// Pagination via ?limit= and ?offset=; out-of-range values are clamped by
// the service, not rejected.
//
// HTTP: GET /api/results
func (h *LeadHandler) HandleListResults(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid session required",
		})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	results, err := h.leadSvc.ListResults(r.Context(), ownerID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	if results == nil {
		// Always serialize as [], never null.
		results = []model.SearchResult{}
	}

	writeJSON(w, http.StatusOK, results)
}

// HandleListUnscraped returns the caller's results still waiting for
// contact extraction.
//
// HTTP: GET /api/results/unscraped
func (h *LeadHandler) HandleListUnscraped(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid session required",
		})
		return
	}

	results, err := h.leadSvc.ListUnscraped(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	if results == nil {
		results = []model.SearchResult{}
	}

	writeJSON(w, http.StatusOK, results)
}

// HandleRecordContact attaches extracted contact details to one of the
// caller's results and marks it scraped. A result the caller cannot see
// comes back as 404, same as one that doesn't exist.
//
// HTTP: POST /api/results/{id}/contact
func (h *LeadHandler) HandleRecordContact(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid session required",
		})
		return
	}

	resultID := chi.URLParam(r, "id")

	var req recordContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_json",
			Message: "request body must be valid JSON",
		})
		return
	}

	contact, err := h.leadSvc.RecordContact(r.Context(), ownerID, resultID, model.ScrapedContact{
		Names:       req.Names,
		Phones:      req.Phones,
		Emails:      req.Emails,
		Status:      req.Status,
		RawResponse: req.RawResponse,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, contact)
}

// HandleListContacts returns the contacts scraped for one of the caller's
// results.
//
// HTTP: GET /api/results/{id}/contacts
func (h *LeadHandler) HandleListContacts(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid session required",
		})
		return
	}

	contacts, err := h.leadSvc.ContactsForResult(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if contacts == nil {
		contacts = []model.ScrapedContact{}
	}

	writeJSON(w, http.StatusOK, contacts)
}

// HandleStats returns the caller's dashboard counters.
//
// HTTP: GET /api/stats
func (h *LeadHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid session required",
		})
		return
	}

	stats, err := h.leadSvc.Stats(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// HandleClearAll deletes the caller's results and contacts.
//
// HTTP: DELETE /api/results
func (h *LeadHandler) HandleClearAll(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid session required",
		})
		return
	}

	if err := h.leadSvc.ClearAll(r.Context(), ownerID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "all results cleared"})
}
