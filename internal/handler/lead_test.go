package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJayasuriya/Ai-scraper/internal/model"
)

func TestSaveResults_ReportsInsertedCount(t *testing.T) {
	env := newTestEnv(t)
	c := env.signup(t, "alice", "alice@example.com")

	body := `{"results":[
		{"title":"Plumber One","link":"https://one.example.com"},
		{"title":"Plumber Two","link":"https://two.example.com"},
		{"title":"No Link"}
	]}`
	rr := env.do(http.MethodPost, "/api/results", body, c)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp struct {
		Received int `json:"received"`
		Inserted int `json:"inserted"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, 3, resp.Received)
	assert.Equal(t, 2, resp.Inserted) // the linkless row is dropped

	// A second submission of the same links inserts nothing new.
	rr = env.do(http.MethodPost, "/api/results", body, c)
	assert.Equal(t, http.StatusCreated, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, 0, resp.Inserted)
}

func TestSaveResults_AllLinkless(t *testing.T) {
	env := newTestEnv(t)
	c := env.signup(t, "alice", "alice@example.com")

	rr := env.do(http.MethodPost, "/api/results", `{"results":[{"title":"No Link"}]}`, c)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListResults_ScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signup(t, "alice", "alice@example.com")
	bob := env.signup(t, "bob", "bob@example.com")

	rr := env.do(http.MethodPost, "/api/results",
		`{"results":[{"title":"Alice's lead","link":"https://a.example.com"}]}`, alice)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = env.do(http.MethodGet, "/api/results", "", bob)
	assert.Equal(t, http.StatusOK, rr.Code)

	var results []model.SearchResult
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&results))
	assert.Empty(t, results) // bob can't see alice's rows, and gets [] not null
}

func TestRecordContact_MarksResultScraped(t *testing.T) {
	env := newTestEnv(t)
	c := env.signup(t, "alice", "alice@example.com")

	rr := env.do(http.MethodPost, "/api/results",
		`{"results":[{"title":"Lead","link":"https://lead.example.com"}]}`, c)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = env.do(http.MethodGet, "/api/results/unscraped", "", c)
	require.Equal(t, http.StatusOK, rr.Code)
	var unscraped []model.SearchResult
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&unscraped))
	require.Len(t, unscraped, 1)

	rr = env.do(http.MethodPost, "/api/results/"+unscraped[0].ID+"/contact",
		`{"names":"Jo Doe","phones":"555-0100","emails":"jo@lead.example.com","status":"Success"}`, c)
	assert.Equal(t, http.StatusCreated, rr.Code)

	var contact model.ScrapedContact
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&contact))
	assert.Equal(t, unscraped[0].ID, contact.SearchResultID)
	assert.NotEmpty(t, contact.ID)

	// The work queue is now empty.
	rr = env.do(http.MethodGet, "/api/results/unscraped", "", c)
	require.Equal(t, http.StatusOK, rr.Code)
	unscraped = nil
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&unscraped))
	assert.Empty(t, unscraped)

	// The contact is retrievable through the result.
	rr = env.do(http.MethodGet, "/api/results/"+contact.SearchResultID+"/contacts", "", c)
	require.Equal(t, http.StatusOK, rr.Code)
	var contacts []model.ScrapedContact
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&contacts))
	require.Len(t, contacts, 1)
	assert.Equal(t, "Jo Doe", contacts[0].Names)
}

func TestRecordContact_RequiresStatus(t *testing.T) {
	env := newTestEnv(t)
	c := env.signup(t, "alice", "alice@example.com")

	rr := env.do(http.MethodPost, "/api/results/some-id/contact", `{"names":"Jo"}`, c)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRecordContact_OtherUsersResultIs404(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signup(t, "alice", "alice@example.com")
	bob := env.signup(t, "bob", "bob@example.com")

	rr := env.do(http.MethodPost, "/api/results",
		`{"results":[{"title":"Lead","link":"https://lead.example.com"}]}`, alice)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = env.do(http.MethodGet, "/api/results", "", alice)
	require.Equal(t, http.StatusOK, rr.Code)
	var results []model.SearchResult
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&results))
	require.Len(t, results, 1)

	rr = env.do(http.MethodPost, "/api/results/"+results[0].ID+"/contact",
		`{"status":"Success"}`, bob)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStats_CountsExtractionOutcomes(t *testing.T) {
	env := newTestEnv(t)
	c := env.signup(t, "alice", "alice@example.com")

	rr := env.do(http.MethodPost, "/api/results", `{"results":[
		{"title":"One","link":"https://one.example.com"},
		{"title":"Two","link":"https://two.example.com"}
	]}`, c)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = env.do(http.MethodGet, "/api/results", "", c)
	require.Equal(t, http.StatusOK, rr.Code)
	var results []model.SearchResult
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&results))
	require.Len(t, results, 2)

	rr = env.do(http.MethodPost, "/api/results/"+results[0].ID+"/contact",
		`{"names":"Jo Doe","emails":"jo@example.com","status":"Success"}`, c)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = env.do(http.MethodGet, "/api/stats", "", c)
	assert.Equal(t, http.StatusOK, rr.Code)

	var stats model.Stats
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&stats))
	assert.Equal(t, model.Stats{
		TotalResults:          2,
		ScrapedResults:        1,
		UnscrapedResults:      1,
		SuccessfulExtractions: 1,
		NamesFound:            1,
		PhonesFound:           0,
		EmailsFound:           1,
	}, stats)
}

func TestClearAll_RemovesOwnRowsOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signup(t, "alice", "alice@example.com")
	bob := env.signup(t, "bob", "bob@example.com")

	rr := env.do(http.MethodPost, "/api/results",
		`{"results":[{"title":"Alice","link":"https://a.example.com"}]}`, alice)
	require.Equal(t, http.StatusCreated, rr.Code)
	rr = env.do(http.MethodPost, "/api/results",
		`{"results":[{"title":"Bob","link":"https://b.example.com"}]}`, bob)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = env.do(http.MethodDelete, "/api/results", "", alice)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(http.MethodGet, "/api/results", "", alice)
	require.Equal(t, http.StatusOK, rr.Code)
	var results []model.SearchResult
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&results))
	assert.Empty(t, results)

	rr = env.do(http.MethodGet, "/api/results", "", bob)
	require.Equal(t, http.StatusOK, rr.Code)
	results = nil
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&results))
	assert.Len(t, results, 1)
}
