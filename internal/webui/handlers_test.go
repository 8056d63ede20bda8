package webui

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubscout/hubscout/internal/search"
	"github.com/hubscout/hubscout/internal/types"
)

type fakeSearcher struct {
	lastReq types.QueryRequest
	records []types.SearchRecord
	err     error
	calls   int
}

func (f *fakeSearcher) Dispatch(_ context.Context, req types.QueryRequest) ([]types.SearchRecord, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func newTestServer(t *testing.T, searcher Searcher) *Server {
	t.Helper()
	srv, err := NewServer(nil, searcher, "langchain-ai/langchain", log.New(io.Discard, "", 0))
	require.NoError(t, err)
	return srv
}

func TestHandleIndex(t *testing.T) {
	srv := newTestServer(t, &fakeSearcher{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.handleIndex(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "langchain-ai/langchain")
	assert.Contains(t, body, "disabled")
	assert.Contains(t, body, `max="100"`)
	assert.Contains(t, body, "NearText")
	assert.Contains(t, body, "BM25")
	assert.Contains(t, body, "Hybrid")
}

func TestHandleIndexNotFound(t *testing.T) {
	srv := newTestServer(t, &fakeSearcher{})

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rec := httptest.NewRecorder()
	srv.handleIndex(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func postResults(srv *Server, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/partials/results", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.handlePartialResults(rec, req)
	return rec
}

func TestHandlePartialResults(t *testing.T) {
	searcher := &fakeSearcher{records: []types.SearchRecord{
		{
			Title:       "Streaming output truncated",
			URL:         "https://github.com/langchain-ai/langchain/issues/1234",
			Labels:      []string{"bug"},
			Description: "Tokens stop arriving after the first chunk",
			CreatedAt:   "2023-09-18T10:00:00Z",
			State:       types.IssueStateOpen,
			Score:       1.25,
		},
	}}
	srv := newTestServer(t, searcher)

	rec := postResults(srv, url.Values{
		"query": {"streaming truncated"},
		"mode":  {"bm25"},
		"limit": {"5"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.QueryRequest{Text: "streaming truncated", Mode: types.ModeBM25, Limit: 5}, searcher.lastReq)

	body := rec.Body.String()
	assert.Contains(t, body, "Streaming output truncated")
	assert.Contains(t, body, "Tokens stop arriving after the first chunk")
	assert.Contains(t, body, "18 September 2023")
	assert.Contains(t, body, "1.2500")
	// The form's mode choice became the active selection.
	assert.Equal(t, types.ModeBM25, srv.modes.Active())
}

func TestHandlePartialResultsEmptyState(t *testing.T) {
	srv := newTestServer(t, &fakeSearcher{})

	rec := postResults(srv, url.Values{"query": {"nothing matches"}, "limit": {"10"}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No results found")
}

func TestHandlePartialResultsBackendErrorInline(t *testing.T) {
	searcher := &fakeSearcher{err: &search.SearchError{
		Type:      types.ErrorTypeAuthentication,
		Message:   "Authentication failed. Please check your API key.",
		Timestamp: time.Now(),
	}}
	srv := newTestServer(t, searcher)

	rec := postResults(srv, url.Values{"query": {"anything"}, "limit": {"10"}})

	// The failure is an inline notice, not an HTTP error.
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Search failed")
	assert.Contains(t, rec.Body.String(), "Authentication failed")
}

func TestHandlePartialResultsDefaultLimit(t *testing.T) {
	searcher := &fakeSearcher{}
	srv := newTestServer(t, searcher)

	postResults(srv, url.Values{"query": {"q"}})
	assert.Equal(t, srv.config.DefaultLimit, searcher.lastReq.Limit)

	postResults(srv, url.Values{"query": {"q"}, "limit": {"junk"}})
	assert.Equal(t, srv.config.DefaultLimit, searcher.lastReq.Limit)
}

func TestHandlePartialMode(t *testing.T) {
	srv := newTestServer(t, &fakeSearcher{})

	form := url.Values{"mode": {"hybrid"}}
	req := httptest.NewRequest(http.MethodPost, "/partials/mode", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.handlePartialMode(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, types.ModeHybrid, srv.modes.Active())
}

func TestHandlePartialModeRejectsUnknown(t *testing.T) {
	srv := newTestServer(t, &fakeSearcher{})

	form := url.Values{"mode": {"fuzzy"}}
	req := httptest.NewRequest(http.MethodPost, "/partials/mode", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.handlePartialMode(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, types.ModeNearText, srv.modes.Active())
}

func TestHandleAPISearch(t *testing.T) {
	searcher := &fakeSearcher{records: []types.SearchRecord{
		{Title: "Issue A", URL: "https://example.com/a", Score: 0.5},
	}}
	srv := newTestServer(t, searcher)

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=retriever&mode=neartext&limit=3", nil)
	rec := httptest.NewRecorder()
	srv.handleAPISearch(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp APISearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "retriever", resp.Query)
	assert.Equal(t, types.ModeNearText, resp.Mode)
	assert.Equal(t, 3, resp.Limit)
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Issue A", resp.Results[0].Title)
}

func TestHandleAPISearchBackendError(t *testing.T) {
	searcher := &fakeSearcher{err: &search.SearchError{
		Type:      types.ErrorTypeNetworkTimeout,
		Message:   "Request timed out.",
		Timestamp: time.Now(),
	}}
	srv := newTestServer(t, searcher)

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=anything", nil)
	rec := httptest.NewRecorder()
	srv.handleAPISearch(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp APIErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(types.ErrorTypeNetworkTimeout), resp.Type)
}

func TestHandleAPISearchInvalidMode(t *testing.T) {
	srv := newTestServer(t, &fakeSearcher{})

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=x&mode=fuzzy", nil)
	rec := httptest.NewRecorder()
	srv.handleAPISearch(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
