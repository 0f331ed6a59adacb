package model

import "time"

// SearchResult is one business lead returned by an upstream search run and
// saved for later contact scraping.
//
// OWNERSHIP:
// UserID is a pointer on purpose. Rows created before multi-user support have
// no owner (NULL in the database) and are visible to every user — that rule is
// kept for backward compatibility. Rows with an owner are visible only to that
// owner. New rows are always written with an owner; the ownerless case exists
// only on the read path.
//
// Link is unique across the table: re-running a search simply skips leads
// that were already saved.
type SearchResult struct {
	ID               string    `json:"id"`
	UserID           *string   `json:"userId,omitempty"`
	OriginalQuery    string    `json:"originalQuery"`
	OriginalLocation string    `json:"originalLocation"`
	Title            string    `json:"title"`
	Link             string    `json:"link"`
	Snippet          string    `json:"snippet"`
	Source           string    `json:"source"`
	AddressText      string    `json:"addressText"`
	PhoneNumber      string    `json:"phoneNumber"`
	Rating           float64   `json:"rating"`
	ReviewsCount     int       `json:"reviewsCount"`
	Attributes       string    `json:"attributes"` // raw JSON from the search provider, stored as-is
	CreatedAt        time.Time `json:"createdAt"`
	Scraped          bool      `json:"scraped"`
}

// ScrapedContact holds the contact details extracted from one search result's
// website. Names, phones and emails are comma-separated lists exactly as the
// extraction step produced them; RawResponse keeps the full extractor output
// for debugging failed runs.
type ScrapedContact struct {
	ID             string    `json:"id"`
	SearchResultID string    `json:"searchResultId"`
	Names          string    `json:"names"`
	Phones         string    `json:"phones"`
	Emails         string    `json:"emails"`
	Status         string    `json:"status"`
	RawResponse    string    `json:"rawResponse,omitempty"`
	ScrapedAt      time.Time `json:"scrapedAt"`
}

// Stats summarises a user's scraping progress, mirroring what the dashboard
// shows: how many leads exist, how many have been scraped, and how many
// produced usable contact details.
type Stats struct {
	TotalResults          int `json:"totalResults"`
	ScrapedResults        int `json:"scrapedResults"`
	UnscrapedResults      int `json:"unscrapedResults"`
	SuccessfulExtractions int `json:"successfulExtractions"`
	NamesFound            int `json:"namesFound"`
	PhonesFound           int `json:"phonesFound"`
	EmailsFound           int `json:"emailsFound"`
}
