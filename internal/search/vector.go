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

type VectorSearchResult struct {
	ID     string          `json:"_id"`
	Score  float64         `json:"_score"`
	Source json.RawMessage `json:"_source"`
	Index  string          `json:"_index"`
}

type VectorSearchResponse struct {
	Hits struct {
		Total struct {
			Value    int    `json:"value"`
			Relation string `json:"relation"`
		} `json:"total"`
		Hits []VectorSearchResult `json:"hits"`
	} `json:"hits"`
	Shards   Shards `json:"_shards"`
	TimedOut bool   `json:"timed_out"`
	Took     int    `json:"took"`
}

type VectorQuery struct {
	Vector      []float64 `json:"vector"`
	VectorField string    `json:"vector_field"`
	K           int       `json:"k"`
	Size        int       `json:"size,omitempty"`
	From        int       `json:"from,omitempty"`
}

func (c *Client) SearchDenseVector(ctx context.Context, indexName string, query *VectorQuery) (*VectorSearchResponse, error) {
	if query == nil {
		return nil, NewSearchError(types.ErrorTypeValidation, "query cannot be nil")
	}

	if len(query.Vector) == 0 {
		return nil, NewSearchError(types.ErrorTypeValidation, "vector cannot be empty")
	}

	if query.VectorField == "" {
		query.VectorField = "embedding"
	}
	if query.K <= 0 {
		query.K = query.Size
	}
	if query.K <= 0 {
		query.K = 10
	}
	if query.Size < 0 {
		query.Size = 0
	}
	if query.Size > 1000 {
		query.Size = 1000
	}

	startTime := time.Now()

	if err := c.WaitForRateLimit(ctx); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	searchBody := c.buildVectorSearchBody(query)
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

	result := &VectorSearchResponse{
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

	result.Hits.Hits = make([]VectorSearchResult, len(searchResp.Hits.Hits))
	for i, hit := range searchResp.Hits.Hits {
		result.Hits.Hits[i] = VectorSearchResult{
			Index:  hit.Index,
			ID:     hit.ID,
			Score:  float64(hit.Score),
			Source: hit.Source,
		}
	}

	log.Printf("Vector search completed in %v, found %d results",
		time.Since(startTime), result.Hits.Total.Value)

	return result, nil
}

func (c *Client) buildVectorSearchBody(query *VectorQuery) map[string]interface{} {
	return map[string]interface{}{
		"size": query.Size,
		"from": query.From,
		"query": map[string]interface{}{
			"knn": map[string]interface{}{
				query.VectorField: map[string]interface{}{
					"vector": query.Vector,
					"k":      query.K,
				},
			},
		},
	}
}

// DeleteIndex removes the index. A missing index is not an error; the
// ingestion flow deletes unconditionally before recreating.
func (c *Client) DeleteIndex(ctx context.Context, indexName string) error {
	if err := c.WaitForRateLimit(ctx); err != nil {
		return fmt.Errorf("rate limit error: %w", err)
	}

	req := opensearchapi.IndicesDeleteReq{
		Indices: []string{indexName},
	}

	_, err := c.client.Indices.Delete(ctx, req)
	if err != nil {
		if strings.Contains(err.Error(), "index_not_found_exception") ||
			strings.Contains(err.Error(), "404") {
			return nil
		}
		return ClassifyConnectionError(err)
	}

	return nil
}

// CreateIssueIndex creates the issue index with a knn_vector embedding
// field of the given dimension.
func (c *Client) CreateIssueIndex(ctx context.Context, indexName string, dimension int) error {
	if dimension <= 0 {
		return NewSearchError(types.ErrorTypeValidation, "embedding dimension must be positive")
	}

	if err := c.WaitForRateLimit(ctx); err != nil {
		return fmt.Errorf("rate limit error: %w", err)
	}

	settings := map[string]interface{}{
		"settings": map[string]interface{}{
			"index": map[string]interface{}{
				"knn": true,
			},
		},
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"title": map[string]interface{}{
					"type": "text",
				},
				"url": map[string]interface{}{
					"type": "keyword",
				},
				"labels": map[string]interface{}{
					"type": "text",
				},
				"description": map[string]interface{}{
					"type": "text",
				},
				"created_at": map[string]interface{}{
					"type": "date",
				},
				"state": map[string]interface{}{
					"type": "keyword",
				},
				"embedding": map[string]interface{}{
					"type":      "knn_vector",
					"dimension": dimension,
					"method": map[string]interface{}{
						"engine":     "lucene",
						"space_type": "cosinesimil",
						"name":       "hnsw",
						"parameters": map[string]interface{}{},
					},
				},
			},
		},
	}

	bodyJSON, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal index settings: %w", err)
	}

	req := opensearchapi.IndicesCreateReq{
		Index: indexName,
		Body:  strings.NewReader(string(bodyJSON)),
	}

	_, err = c.client.Indices.Create(ctx, req)
	if err != nil {
		return ClassifyConnectionError(err)
	}

	return nil
}

// BulkIndexDocuments loads one batch of documents keyed by docIDs. Callers
// control batching; a failure here aborts the whole load (no retry).
func (c *Client) BulkIndexDocuments(ctx context.Context, indexName string, docIDs []string, docs []map[string]interface{}) error {
	if len(docs) == 0 {
		return nil
	}
	if len(docIDs) != len(docs) {
		return NewSearchError(types.ErrorTypeValidation, "document ID count does not match document count")
	}

	if err := c.WaitForRateLimit(ctx); err != nil {
		return fmt.Errorf("rate limit error: %w", err)
	}

	bulkBody, err := c.buildBulkBody(indexName, docIDs, docs)
	if err != nil {
		return err
	}

	req := opensearchapi.BulkReq{
		Body: strings.NewReader(bulkBody),
	}

	resp, err := c.client.Bulk(ctx, req)
	if err != nil {
		return ClassifyConnectionError(err)
	}

	if resp != nil && resp.Errors {
		return NewSearchError(types.ErrorTypeResponse,
			fmt.Sprintf("bulk load of %d documents reported item failures", len(docs)))
	}

	log.Printf("Indexed batch of %d documents", len(docs))
	return nil
}

func (c *Client) buildBulkBody(indexName string, docIDs []string, docs []map[string]interface{}) (string, error) {
	var bulkBody strings.Builder

	bulkBody.Grow(len(docs) * 200)

	for i, doc := range docs {
		action := map[string]interface{}{
			"index": map[string]interface{}{
				"_index": indexName,
				"_id":    docIDs[i],
			},
		}

		actionJSON, err := json.Marshal(action)
		if err != nil {
			return "", fmt.Errorf("failed to marshal bulk action: %w", err)
		}

		docJSON, err := json.Marshal(doc)
		if err != nil {
			return "", fmt.Errorf("failed to marshal document: %w", err)
		}

		bulkBody.Write(actionJSON)
		bulkBody.WriteString("\n")
		bulkBody.Write(docJSON)
		bulkBody.WriteString("\n")
	}

	return bulkBody.String(), nil
}
