package types

import (
	"fmt"
	"time"
)

// IssueState is the lifecycle state of a GitHub issue.
type IssueState string

const (
	IssueStateOpen   IssueState = "open"
	IssueStateClosed IssueState = "closed"
)

// SearchMode selects which query shape the dispatcher issues against the
// search backend.
type SearchMode string

const (
	// ModeNearText runs a dense-vector similarity query using an embedding
	// of the input text.
	ModeNearText SearchMode = "neartext"
	// ModeBM25 runs a sparse keyword-ranking query.
	ModeBM25 SearchMode = "bm25"
	// ModeHybrid fuses both signals into one ranked result set.
	ModeHybrid SearchMode = "hybrid"
)

// ParseSearchMode maps a user-supplied mode name to a SearchMode.
func ParseSearchMode(s string) (SearchMode, error) {
	switch SearchMode(s) {
	case ModeNearText, ModeBM25, ModeHybrid:
		return SearchMode(s), nil
	default:
		return "", fmt.Errorf("invalid search mode: %q (valid modes: neartext, bm25, hybrid)", s)
	}
}

// SearchRecord is one scored issue returned by the backend. CreatedAt is
// kept as the raw ISO-8601 string the backend stores; the presentation
// layer decides how (and whether) to render it.
type SearchRecord struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Labels      []string   `json:"labels"`
	Description string     `json:"description"`
	CreatedAt   string     `json:"created_at"`
	State       IssueState `json:"state"`
	Score       float64    `json:"score"`
}

// QueryRequest is one user interaction against the dispatcher.
type QueryRequest struct {
	Text  string     `json:"text"`
	Mode  SearchMode `json:"mode"`
	Limit int        `json:"limit"`
}

// Issue is a GitHub issue as fetched from the GitHub API and stored in
// local JSONL snapshots.
type Issue struct {
	Number      int        `json:"number"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Labels      []string   `json:"labels"`
	Description string     `json:"description"`
	CreatedAt   string     `json:"created_at"`
	State       IssueState `json:"state"`
}

// ErrorType classifies failures for reporting.
type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "validation"
	ErrorTypeAuthentication ErrorType = "authentication"
	ErrorTypeConnection     ErrorType = "connection"
	ErrorTypeNetworkTimeout ErrorType = "network_timeout"
	ErrorTypeRateLimit      ErrorType = "rate_limit"
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeResponse       ErrorType = "response"
	ErrorTypeEmbedding      ErrorType = "embedding_generation"
	ErrorTypeUnknown        ErrorType = "unknown"
)

// Config holds all environment-driven configuration.
type Config struct {
	// Embedding API configuration
	OpenAIAPIKey      string `json:"-" env:"OPENAI_API_KEY"`
	EmbeddingProvider string `json:"embedding_provider" env:"EMBEDDING_PROVIDER,default=openai"`
	EmbeddingModel    string `json:"embedding_model" env:"EMBEDDING_MODEL,default=text-embedding-3-small"`
	BedrockRegion     string `json:"bedrock_region" env:"BEDROCK_REGION,default=us-east-1"`

	// Search backend configuration
	OpenSearchEndpoint          string        `json:"opensearch_endpoint" env:"OPENSEARCH_ENDPOINT"`
	OpenSearchAPIKey            string        `json:"-" env:"OPENSEARCH_API_KEY"`
	OpenSearchIndex             string        `json:"opensearch_index" env:"OPENSEARCH_INDEX,default=github-issues"`
	OpenSearchInsecureSkipTLS   bool          `json:"opensearch_insecure_skip_tls" env:"OPENSEARCH_INSECURE_SKIP_TLS,default=false"`
	OpenSearchRateLimit         float64       `json:"opensearch_rate_limit" env:"OPENSEARCH_RATE_LIMIT,default=10.0"`
	OpenSearchRateBurst         int           `json:"opensearch_rate_burst" env:"OPENSEARCH_RATE_BURST,default=20"`
	OpenSearchConnectionTimeout time.Duration `json:"opensearch_connection_timeout" env:"OPENSEARCH_CONNECTION_TIMEOUT,default=30s"`
	OpenSearchRequestTimeout    time.Duration `json:"opensearch_request_timeout" env:"OPENSEARCH_REQUEST_TIMEOUT,default=60s"`
	OpenSearchMaxConnections    int           `json:"opensearch_max_connections" env:"OPENSEARCH_MAX_CONNECTIONS,default=100"`
	OpenSearchMaxIdleConns      int           `json:"opensearch_max_idle_conns" env:"OPENSEARCH_MAX_IDLE_CONNS,default=10"`
	OpenSearchIdleConnTimeout   time.Duration `json:"opensearch_idle_conn_timeout" env:"OPENSEARCH_IDLE_CONN_TIMEOUT,default=90s"`

	// GitHub data pipeline configuration
	GitHubToken      string `json:"-" env:"GITHUB_PERSONAL_ACCESS_TOKEN"`
	GitHubRepository string `json:"github_repository" env:"GITHUB_REPOSITORY,default=langchain-ai/langchain"`
	SnapshotDir      string `json:"snapshot_dir" env:"SNAPSHOT_DIR,default=./data"`
	IngestBatchSize  int    `json:"ingest_batch_size" env:"INGEST_BATCH_SIZE,default=100"`
}
