package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	env "github.com/netflix/go-env"

	"github.com/hubscout/hubscout/internal/types"
)

// Type alias for Config
type Config = types.Config

// Load loads configuration from a .env file (if present) and the process
// environment. Missing required secrets are fatal and the error names the
// variable.
func Load() (*Config, error) {
	// A missing .env file is fine; the environment may carry everything.
	_ = godotenv.Load()

	var config Config

	_, err := env.UnmarshalFromEnviron(&config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// validateConfig validates configuration values and adjusts them to safe ranges
func validateConfig(config *Config) error {
	if config.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	if config.OpenSearchEndpoint == "" {
		return fmt.Errorf("OPENSEARCH_ENDPOINT environment variable not set")
	}
	if config.OpenSearchAPIKey == "" {
		return fmt.Errorf("OPENSEARCH_API_KEY environment variable not set")
	}

	if err := validateEndpoint(config.OpenSearchEndpoint); err != nil {
		return err
	}

	switch config.EmbeddingProvider {
	case "openai", "bedrock":
	default:
		return fmt.Errorf("EMBEDDING_PROVIDER must be 'openai' or 'bedrock', got %q", config.EmbeddingProvider)
	}

	// Clamp tunables to safe ranges
	if config.OpenSearchRateLimit <= 0 {
		config.OpenSearchRateLimit = 10.0
	}
	if config.OpenSearchRateLimit > 1000 {
		config.OpenSearchRateLimit = 1000.0
	}
	if config.OpenSearchRateBurst <= 0 {
		config.OpenSearchRateBurst = 20
	}

	if config.IngestBatchSize < 1 {
		config.IngestBatchSize = 1
	}
	if config.IngestBatchSize > 1000 {
		config.IngestBatchSize = 1000
	}

	return nil
}

// validateEndpoint checks the search backend URL shape
func validateEndpoint(endpoint string) error {
	parsedURL, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid OPENSEARCH_ENDPOINT URL format: %w", err)
	}

	if parsedURL.Scheme == "" {
		return fmt.Errorf("OPENSEARCH_ENDPOINT must include scheme (http:// or https://)")
	}

	if !strings.HasPrefix(parsedURL.Scheme, "http") {
		return fmt.Errorf("OPENSEARCH_ENDPOINT scheme must be http or https")
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("OPENSEARCH_ENDPOINT must include a valid host")
	}

	return nil
}
