package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Role tags for request segments
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Segment is one role-tagged piece of a generation request
type Segment struct {
	Role    string
	Content string
}

// Request describes one generation call: role-tagged message segments,
// a target model tier, and decoding parameters.
type Request struct {
	Segments    []Segment
	Tier        ModelTier
	Temperature float32
	JSON        bool
}

// Response carries generated text plus the token usage of the call
type Response struct {
	Text   string
	Tokens int
}

// Client is the uniform interface to the text-generation backend.
// Implementations must be safe for concurrent use across pipeline runs.
type Client interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	Close() error
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini-backed client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultConfig()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client, config: config}, nil
}

// Generate sends one generation request to Gemini. System-role segments
// become the system instruction; user-role segments become content parts
// in order. Token usage comes from the response usage metadata.
func (c *GeminiClient) Generate(ctx context.Context, req Request) (*Response, error) {
	modelName := c.config.Model(req.Tier)
	if modelName == "" {
		return nil, &FatalBackendError{Message: fmt.Sprintf("no model configured for tier %s", req.Tier)}
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(req.Temperature)
	if req.JSON {
		model.ResponseMIMEType = "application/json"
	}

	var parts []genai.Part
	var system []genai.Part
	for _, seg := range req.Segments {
		if seg.Role == RoleSystem {
			system = append(system, genai.Text(seg.Content))
			continue
		}
		parts = append(parts, genai.Text(seg.Content))
	}
	if len(system) > 0 {
		model.SystemInstruction = &genai.Content{Parts: system}
	}
	if len(parts) == 0 {
		return nil, &FatalBackendError{Message: "request has no user content"}
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, classify(err)
	}

	text, err := extractText(resp)
	if err != nil {
		return nil, err
	}
	if req.JSON {
		text = CleanJSONBlock(text)
	}

	tokens := 0
	if resp.UsageMetadata != nil {
		tokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	return &Response{Text: text, Tokens: tokens}, nil
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractText extracts the text parts from a Gemini response
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", &FatalBackendError{Message: "no candidates in response"}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &FatalBackendError{Message: "no content in response"}
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", &FatalBackendError{Message: "no text parts in response"}
	}

	return strings.Join(parts, ""), nil
}
