package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENSEARCH_ENDPOINT", "https://search.example.com")
	t.Setenv("OPENSEARCH_API_KEY", "os-test-key")
}

func TestLoadRequiredSecrets(t *testing.T) {
	t.Run("loads with all secrets set", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		require.Equal(t, "sk-test", cfg.OpenAIAPIKey)
		require.Equal(t, "https://search.example.com", cfg.OpenSearchEndpoint)
		require.Equal(t, "os-test-key", cfg.OpenSearchAPIKey)
	})

	t.Run("missing embedding API key names the variable", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("OPENAI_API_KEY", "")

		_, err := Load()
		require.Error(t, err)
		require.ErrorContains(t, err, "OPENAI_API_KEY")
	})

	t.Run("missing backend URL names the variable", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("OPENSEARCH_ENDPOINT", "")

		_, err := Load()
		require.Error(t, err)
		require.ErrorContains(t, err, "OPENSEARCH_ENDPOINT")
	})

	t.Run("missing backend API key names the variable", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("OPENSEARCH_API_KEY", "")

		_, err := Load()
		require.Error(t, err)
		require.ErrorContains(t, err, "OPENSEARCH_API_KEY")
	})
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "github-issues", cfg.OpenSearchIndex)
	require.Equal(t, "openai", cfg.EmbeddingProvider)
	require.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	require.Equal(t, "langchain-ai/langchain", cfg.GitHubRepository)
	require.Equal(t, 100, cfg.IngestBatchSize)
	require.Equal(t, 10.0, cfg.OpenSearchRateLimit)
}

func TestLoadValidation(t *testing.T) {
	t.Run("rejects endpoint without scheme", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("OPENSEARCH_ENDPOINT", "search.example.com")

		_, err := Load()
		require.Error(t, err)
		require.ErrorContains(t, err, "scheme")
	})

	t.Run("rejects unknown embedding provider", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("EMBEDDING_PROVIDER", "cohere")

		_, err := Load()
		require.Error(t, err)
		require.ErrorContains(t, err, "EMBEDDING_PROVIDER")
	})

	t.Run("clamps batch size to valid range", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("INGEST_BATCH_SIZE", "50000")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, 1000, cfg.IngestBatchSize)
	})
}
