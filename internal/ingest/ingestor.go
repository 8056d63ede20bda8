// Package ingest rebuilds the search index from a local issue snapshot:
// drop and recreate the schema, embed every issue, bulk-load in batches.
package ingest

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/hubscout/hubscout/internal/embedding"
	"github.com/hubscout/hubscout/internal/types"
)

const (
	defaultBatchSize = 100
	maxBatchSize     = 1000
)

// Indexer is the slice of the search client the ingestor needs.
type Indexer interface {
	DeleteIndex(ctx context.Context, indexName string) error
	CreateIssueIndex(ctx context.Context, indexName string, dimension int) error
	BulkIndexDocuments(ctx context.Context, indexName string, docIDs []string, docs []map[string]interface{}) error
}

// Result summarizes one ingestion run.
type Result struct {
	TotalIssues  int           `json:"total_issues"`
	IndexedCount int           `json:"indexed_count"`
	BatchCount   int           `json:"batch_count"`
	Duration     time.Duration `json:"duration"`
}

// Ingestor loads issue snapshots into the search backend.
type Ingestor struct {
	indexer   Indexer
	embedder  embedding.Client
	indexName string
	batchSize int
}

// NewIngestor creates an ingestor. Batch size is clamped to [1, 1000] with
// a default of 100.
func NewIngestor(indexer Indexer, embedder embedding.Client, indexName string, batchSize int) *Ingestor {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if batchSize > maxBatchSize {
		batchSize = maxBatchSize
	}

	return &Ingestor{
		indexer:   indexer,
		embedder:  embedder,
		indexName: indexName,
		batchSize: batchSize,
	}
}

// Run recreates the index and bulk-loads all issues. The first batch
// failure aborts the run; the error names the issue the batch started at.
func (ing *Ingestor) Run(ctx context.Context, issues []types.Issue) (*Result, error) {
	startTime := time.Now()

	if err := ing.embedder.ValidateConnection(ctx); err != nil {
		return nil, fmt.Errorf("embedding service unavailable: %w", err)
	}

	model, dimension, err := ing.embedder.GetModelInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve embedding model: %w", err)
	}

	log.Printf("Recreating index %q (model %s, dimension %d)", ing.indexName, model, dimension)

	if err := ing.indexer.DeleteIndex(ctx, ing.indexName); err != nil {
		return nil, fmt.Errorf("failed to delete index %q: %w", ing.indexName, err)
	}

	if err := ing.indexer.CreateIssueIndex(ctx, ing.indexName, dimension); err != nil {
		return nil, fmt.Errorf("failed to create index %q: %w", ing.indexName, err)
	}

	result := &Result{TotalIssues: len(issues)}

	for start := 0; start < len(issues); start += ing.batchSize {
		end := start + ing.batchSize
		if end > len(issues) {
			end = len(issues)
		}
		batch := issues[start:end]

		if err := ing.loadBatch(ctx, batch); err != nil {
			return nil, fmt.Errorf("ingestion failed at issue %q (batch %d-%d): %w",
				batch[0].Title, start, end-1, err)
		}

		result.IndexedCount += len(batch)
		result.BatchCount++
		log.Printf("Ingested %d/%d issues", result.IndexedCount, result.TotalIssues)
	}

	result.Duration = time.Since(startTime)
	log.Printf("Ingestion completed: %d issues in %d batches (%v)",
		result.IndexedCount, result.BatchCount, result.Duration)

	return result, nil
}

func (ing *Ingestor) loadBatch(ctx context.Context, batch []types.Issue) error {
	texts := make([]string, len(batch))
	for i, issue := range batch {
		texts[i] = embeddingText(issue)
	}

	embeddings, err := ing.embedder.GenerateEmbeddings(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding generation failed: %w", err)
	}
	if len(embeddings) != len(batch) {
		return fmt.Errorf("expected %d embeddings, got %d", len(batch), len(embeddings))
	}

	docIDs := make([]string, len(batch))
	docs := make([]map[string]interface{}, len(batch))
	for i, issue := range batch {
		docIDs[i] = documentID(issue)
		docs[i] = map[string]interface{}{
			"title":       issue.Title,
			"url":         issue.URL,
			"labels":      issue.Labels,
			"description": issue.Description,
			"created_at":  issue.CreatedAt,
			"state":       issue.State,
			"embedding":   embeddings[i],
		}
	}

	return ing.indexer.BulkIndexDocuments(ctx, ing.indexName, docIDs, docs)
}

// embeddingText is the text the embedding is computed over.
func embeddingText(issue types.Issue) string {
	if issue.Description == "" {
		return issue.Title
	}
	return issue.Title + "\n\n" + issue.Description
}

// documentID keys documents by issue number so re-ingestion overwrites
// rather than duplicates.
func documentID(issue types.Issue) string {
	if issue.Number > 0 {
		return fmt.Sprintf("issue-%d", issue.Number)
	}
	return uuid.NewString()
}
