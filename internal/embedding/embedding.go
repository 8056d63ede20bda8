// Package embedding defines the client interface shared by all embedding
// providers.
package embedding

import "context"

// Client generates dense embedding vectors for text.
type Client interface {
	// GenerateEmbedding creates an embedding vector from the given text.
	GenerateEmbedding(ctx context.Context, text string) ([]float64, error)

	// GenerateEmbeddings creates embedding vectors for multiple texts.
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float64, error)

	// ValidateConnection checks if the embedding service is accessible.
	ValidateConnection(ctx context.Context) error

	// GetModelInfo returns the model name and its vector dimension.
	GetModelInfo() (string, int, error)
}
