package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"

	"github.com/hubscout/hubscout/internal/types"
)

// issueSearchFields are the text fields keyword queries match against.
var issueSearchFields = []string{"title", "description", "labels"}

type BM25SearchResult struct {
	ID     string          `json:"_id"`
	Score  float64         `json:"_score"`
	Source json.RawMessage `json:"_source"`
	Index  string          `json:"_index"`
}

// Shards represents the shard statistics
type Shards struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}

type BM25SearchResponse struct {
	Hits struct {
		Total struct {
			Value    int    `json:"value"`
			Relation string `json:"relation"`
		} `json:"total"`
		Hits []BM25SearchResult `json:"hits"`
	} `json:"hits"`
	Shards   Shards `json:"_shards"`
	TimedOut bool   `json:"timed_out"`
	Took     int    `json:"took"`
}

type BM25Query struct {
	Query    string   `json:"query"`
	Fields   []string `json:"fields"`
	Operator string   `json:"operator,omitempty"`
	Size     int      `json:"size,omitempty"`
	From     int      `json:"from,omitempty"`
}

func (c *Client) SearchBM25(ctx context.Context, indexName string, query *BM25Query) (*BM25SearchResponse, error) {
	if query == nil {
		return nil, NewSearchError(types.ErrorTypeValidation, "query cannot be nil")
	}

	if query.Query == "" {
		return nil, NewSearchError(types.ErrorTypeValidation, "query string cannot be empty")
	}

	if query.Size < 0 {
		query.Size = 0
	}
	if query.Size > 1000 {
		query.Size = 1000
	}
	if len(query.Fields) == 0 {
		query.Fields = issueSearchFields
	}

	startTime := time.Now()

	if err := c.WaitForRateLimit(ctx); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	searchBody := c.buildBM25SearchBody(query)
	bodyJSON, err := json.Marshal(searchBody)
	if err != nil {
		return nil, NewSearchError(types.ErrorTypeValidation, fmt.Sprintf("failed to marshal search body: %v", err))
	}

	req := &opensearchapi.SearchReq{
		Indices: []string{indexName},
		Body:    strings.NewReader(string(bodyJSON)),
	}

	searchResp, err := c.client.Search(ctx, req)
	if err != nil {
		return nil, ClassifyConnectionError(err)
	}

	if searchResp == nil {
		return nil, NewSearchError(types.ErrorTypeResponse, "received nil response from OpenSearch")
	}

	result := &BM25SearchResponse{
		Took: searchResp.Took,
		Shards: Shards{
			Total:      searchResp.Shards.Total,
			Successful: searchResp.Shards.Successful,
			Skipped:    searchResp.Shards.Skipped,
			Failed:     searchResp.Shards.Failed,
		},
	}

	result.Hits.Total.Value = searchResp.Hits.Total.Value
	result.Hits.Total.Relation = searchResp.Hits.Total.Relation

	result.Hits.Hits = make([]BM25SearchResult, len(searchResp.Hits.Hits))
	for i, hit := range searchResp.Hits.Hits {
		result.Hits.Hits[i] = BM25SearchResult{
			Index:  hit.Index,
			ID:     hit.ID,
			Score:  float64(hit.Score),
			Source: hit.Source,
		}
	}

	log.Printf("BM25 search completed in %v, found %d results",
		time.Since(startTime), result.Hits.Total.Value)

	return result, nil
}

func (c *Client) buildBM25SearchBody(query *BM25Query) map[string]interface{} {
	matchQuery := map[string]interface{}{
		"multi_match": map[string]interface{}{
			"query":  query.Query,
			"fields": query.Fields,
			"type":   "best_fields",
		},
	}

	if query.Operator != "" {
		matchQuery["multi_match"].(map[string]interface{})["operator"] = query.Operator
	}

	return map[string]interface{}{
		"size":  query.Size,
		"from":  query.From,
		"query": matchQuery,
		"sort": []map[string]interface{}{
			{"_score": map[string]string{"order": "desc"}},
		},
	}
}
