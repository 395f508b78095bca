package llm

import (
	"context"
	"fmt"

	vertexai "cloud.google.com/go/vertexai/genai"
)

// VertexClient serves tiers from Gemini models hosted on Vertex AI
type VertexClient struct {
	client *vertexai.Client
	config *Config
}

// NewVertexClient creates a Vertex AI client using application default credentials
func NewVertexClient(ctx context.Context, config *Config) (*VertexClient, error) {
	if config.ProjectID == "" {
		return nil, fmt.Errorf("project ID is required for provider %s", ProviderVertex)
	}
	location := config.Location
	if location == "" {
		location = "us-central1"
	}

	client, err := vertexai.NewClient(ctx, config.ProjectID, location)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}
	return &VertexClient{client: client, config: config}, nil
}

// GenerateJSON implements Client
func (c *VertexClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	name, err := c.config.modelFor(tier)
	if err != nil {
		return "", err
	}
	model := c.client.GenerativeModel(name)
	model.SetTemperature(c.config.Temperature)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, vertexai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errNoCandidates
	}

	var parts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(vertexai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	return jsonReply(parts)
}

// GetModel implements Client
func (c *VertexClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close implements Client
func (c *VertexClient) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
