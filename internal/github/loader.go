// Package github fetches issues from the GitHub REST API and snapshots
// them to local JSONL files for ingestion.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/hubscout/hubscout/internal/types"
)

const (
	defaultBaseURL = "https://api.github.com"
	perPage        = 100
)

// IssuesLoader pages through a repository's issues. Pull requests share the
// issues endpoint and are skipped.
type IssuesLoader struct {
	token      string
	baseURL    string
	repo       string
	httpClient *http.Client
}

// apiIssue is the subset of the GitHub issue payload we keep.
type apiIssue struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	URL    string `json:"html_url"`
	Labels []struct {
		Name string `json:"name"`
	} `json:"labels"`
	Body        string           `json:"body"`
	CreatedAt   string           `json:"created_at"`
	State       string           `json:"state"`
	PullRequest *json.RawMessage `json:"pull_request,omitempty"`
}

// NewIssuesLoader creates a loader for the given "owner/repo". An empty
// baseURL targets api.github.com.
func NewIssuesLoader(token, baseURL, repo string) *IssuesLoader {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &IssuesLoader{
		token:   token,
		baseURL: baseURL,
		repo:    repo,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Load fetches all issues (open and closed, no pull requests) from the
// repository.
func (l *IssuesLoader) Load(ctx context.Context) ([]types.Issue, error) {
	if l.repo == "" {
		return nil, fmt.Errorf("repository cannot be empty")
	}

	log.Printf("Fetching issues from GitHub: %s", l.repo)

	var issues []types.Issue
	for page := 1; ; page++ {
		pageIssues, err := l.loadPage(ctx, page)
		if err != nil {
			return nil, err
		}

		for _, issue := range pageIssues {
			if issue.PullRequest != nil {
				continue
			}
			labels := make([]string, 0, len(issue.Labels))
			for _, label := range issue.Labels {
				labels = append(labels, label.Name)
			}
			issues = append(issues, types.Issue{
				Number:      issue.Number,
				Title:       issue.Title,
				URL:         issue.URL,
				Labels:      labels,
				Description: issue.Body,
				CreatedAt:   issue.CreatedAt,
				State:       types.IssueState(issue.State),
			})
		}

		if len(pageIssues) < perPage {
			break
		}
	}

	log.Printf("Loaded %d issues from %s", len(issues), l.repo)
	return issues, nil
}

func (l *IssuesLoader) loadPage(ctx context.Context, page int) ([]apiIssue, error) {
	url := fmt.Sprintf("%s/repos/%s/issues?state=all&per_page=%d&page=%d",
		l.baseURL, l.repo, perPage, page)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if l.token != "" {
		req.Header.Set("Authorization", "Bearer "+l.token)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch issues page %d: %w", page, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0" {
			reset := resp.Header.Get("X-RateLimit-Reset")
			if sec, err := strconv.ParseInt(reset, 10, 64); err == nil {
				return nil, fmt.Errorf("GitHub API rate limit exceeded, resets at %s",
					time.Unix(sec, 0).Format(time.RFC3339))
			}
			return nil, fmt.Errorf("GitHub API rate limit exceeded")
		}
		return nil, fmt.Errorf("GitHub API error (%d): %s", resp.StatusCode, string(body))
	}

	var pageIssues []apiIssue
	if err := json.Unmarshal(body, &pageIssues); err != nil {
		return nil, fmt.Errorf("failed to parse issues response: %w", err)
	}

	return pageIssues, nil
}
