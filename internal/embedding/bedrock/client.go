package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// BedrockClient implements the embedding.Client interface for AWS Bedrock
type BedrockClient struct {
	client  *bedrockruntime.Client
	modelID string
	region  string
}

// TitanEmbeddingRequest represents the request structure for Titan embedding models
type TitanEmbeddingRequest struct {
	InputText  string `json:"inputText"`
	Dimensions int    `json:"dimensions,omitempty"`
	Normalize  bool   `json:"normalize,omitempty"`
}

// TitanEmbeddingResponse represents the response structure from Titan embedding models
type TitanEmbeddingResponse struct {
	Embedding           []float64 `json:"embedding"`
	InputTextTokenCount int       `json:"inputTextTokenCount"`
}

// NewBedrockClient creates a new AWS Bedrock client for embeddings
func NewBedrockClient(awsConfig aws.Config, modelID string) *BedrockClient {
	client := bedrockruntime.NewFromConfig(awsConfig)

	// Default to Titan v2 model if not specified
	if modelID == "" {
		modelID = "amazon.titan-embed-text-v2:0"
	}

	return &BedrockClient{
		client:  client,
		modelID: modelID,
		region:  awsConfig.Region,
	}
}

// GenerateEmbedding creates an embedding vector from the given text using AWS Bedrock
func (c *BedrockClient) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	request := TitanEmbeddingRequest{
		InputText:  text,
		Dimensions: 1024, // Titan v2 default dimension
		Normalize:  true,
	}

	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	input := &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        requestBody,
	}

	result, err := c.client.InvokeModel(ctx, input)
	if err != nil {
		log.Printf("ERROR: Failed to invoke bedrock model: %v", err)
		return nil, fmt.Errorf("failed to invoke bedrock model: %w", err)
	}

	var response TitanEmbeddingResponse
	if err := json.Unmarshal(result.Body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(response.Embedding) == 0 {
		return nil, fmt.Errorf("no embedding data in response")
	}

	return response.Embedding, nil
}

// GenerateEmbeddings creates embedding vectors for multiple texts. Titan
// embeds one input per invocation, so the batch is a sequential loop.
func (c *BedrockClient) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("texts cannot be empty")
	}

	embeddings := make([][]float64, len(texts))
	for i, text := range texts {
		embedding, err := c.GenerateEmbedding(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed to embed text %d of %d: %w", i+1, len(texts), err)
		}
		embeddings[i] = embedding
	}

	return embeddings, nil
}

// ValidateConnection checks if the Bedrock service is accessible
func (c *BedrockClient) ValidateConnection(ctx context.Context) error {
	testText := "test connection"

	_, err := c.GenerateEmbedding(ctx, testText)
	if err != nil {
		return fmt.Errorf("connection validation failed: %w", err)
	}

	return nil
}

// GetModelInfo returns information about the embedding model being used
func (c *BedrockClient) GetModelInfo() (string, int, error) {
	dimensions := map[string]int{
		"amazon.titan-embed-text-v2:0": 1024,
		"amazon.titan-embed-text-v1":   1536,
	}

	dim, exists := dimensions[c.modelID]
	if !exists {
		// Default to Titan v2 dimensions for unknown models
		dim = 1024
	}

	return c.modelID, dim, nil
}
