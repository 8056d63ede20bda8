package cmd

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	appconfig "github.com/hubscout/hubscout/internal/config"
	"github.com/hubscout/hubscout/internal/embedding"
	"github.com/hubscout/hubscout/internal/embedding/bedrock"
	"github.com/hubscout/hubscout/internal/embedding/openai"
	"github.com/hubscout/hubscout/internal/search"
	"github.com/hubscout/hubscout/internal/types"
)

// newEmbeddingClient builds the embedding provider selected by
// EMBEDDING_PROVIDER.
func newEmbeddingClient(ctx context.Context, cfg *types.Config) (embedding.Client, error) {
	switch cfg.EmbeddingProvider {
	case "openai":
		return openai.NewOpenAIClient(cfg.OpenAIAPIKey, "", cfg.EmbeddingModel), nil
	case "bedrock":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.BedrockRegion))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
		}
		return bedrock.NewBedrockClient(awsCfg, ""), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.EmbeddingProvider)
	}
}

// newSearchClient builds the OpenSearch client from the app configuration.
func newSearchClient(cfg *types.Config) (*search.Client, error) {
	searchCfg, err := search.NewConfigFromTypes(cfg)
	if err != nil {
		return nil, err
	}
	return search.NewClient(searchCfg)
}

// newDispatcher wires the full query path: config, backend client,
// embedding provider, dispatcher.
func newDispatcher(ctx context.Context) (*search.Dispatcher, *types.Config, error) {
	cfg, err := appconfig.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	client, err := newSearchClient(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create search client: %w", err)
	}

	// Test connection
	if err := client.HealthCheck(ctx); err != nil {
		return nil, nil, fmt.Errorf("OpenSearch health check failed: %w", err)
	}

	embedder, err := newEmbeddingClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	return search.NewDispatcher(client, embedder, cfg.OpenSearchIndex), cfg, nil
}
