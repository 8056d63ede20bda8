package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubscout/hubscout/internal/types"
)

func TestLoadSkipsPullRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/langchain-ai/langchain/issues", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		issues := []map[string]interface{}{
			{
				"number":     1,
				"title":      "agent loop hangs",
				"html_url":   "https://github.com/langchain-ai/langchain/issues/1",
				"labels":     []map[string]string{{"name": "bug"}, {"name": "agent"}},
				"body":       "it hangs",
				"created_at": "2023-09-18T10:00:00Z",
				"state":      "open",
			},
			{
				"number":       2,
				"title":        "fix agent loop",
				"html_url":     "https://github.com/langchain-ai/langchain/pull/2",
				"body":         "a pull request",
				"created_at":   "2023-09-19T10:00:00Z",
				"state":        "closed",
				"pull_request": map[string]string{"url": "https://api.github.com/pulls/2"},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(issues))
	}))
	defer server.Close()

	loader := NewIssuesLoader("test-token", server.URL, "langchain-ai/langchain")

	issues, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, issues, 1)

	assert.Equal(t, 1, issues[0].Number)
	assert.Equal(t, "agent loop hangs", issues[0].Title)
	assert.Equal(t, []string{"bug", "agent"}, issues[0].Labels)
	assert.Equal(t, types.IssueStateOpen, issues[0].State)
}

func TestLoadPaginates(t *testing.T) {
	pagesServed := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pagesServed++
		page := r.URL.Query().Get("page")

		var issues []map[string]interface{}
		count := perPage
		if page == "2" {
			count = 3 // short page terminates pagination
		}
		for i := 0; i < count; i++ {
			issues = append(issues, map[string]interface{}{
				"number":     i,
				"title":      fmt.Sprintf("issue %s-%d", page, i),
				"html_url":   "https://github.com/x/y/issues/1",
				"created_at": "2023-09-18T10:00:00Z",
				"state":      "closed",
			})
		}
		require.NoError(t, json.NewEncoder(w).Encode(issues))
	}))
	defer server.Close()

	loader := NewIssuesLoader("", server.URL, "x/y")

	issues, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, pagesServed)
	assert.Len(t, issues, perPage+3)
}

func TestLoadReportsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Bad credentials"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	loader := NewIssuesLoader("bad-token", server.URL, "x/y")

	_, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "401")
}

func TestSnapshotRoundTrip(t *testing.T) {
	issues := []types.Issue{
		{
			Number:      7,
			Title:       "docs are stale",
			URL:         "https://github.com/x/y/issues/7",
			Labels:      []string{"documentation"},
			Description: "line one\nline two",
			CreatedAt:   "2023-09-18T10:00:00Z",
			State:       types.IssueStateClosed,
		},
	}

	dir := t.TempDir()
	path, err := WriteSnapshot(issues, dir, "y")
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Contains(t, filepath.Base(path), "y-github-issues-")

	loaded, err := ReadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, issues, loaded)
}

func TestSnapshotLabel(t *testing.T) {
	assert.Equal(t, "langchain", SnapshotLabel("langchain-ai/langchain"))
	assert.Equal(t, "solo", SnapshotLabel("solo"))
}
