// Package gemini implements the generation.ModelClient boundary using
// Google's Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/dgarridoh/studykit-api/internal/config"
	"github.com/dgarridoh/studykit-api/internal/generation"
)

// ErrEmptyPrompt is returned when Generate is called without a prompt.
var ErrEmptyPrompt = errors.New("prompt cannot be empty")

// Client wraps the genai SDK behind the generation.ModelClient interface.
type Client struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewClient creates a Gemini-backed model client from the LLM configuration.
// The API key is required; BaseURL optionally redirects calls, e.g. through
// a proxy endpoint.
func NewClient(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key cannot be empty")
	}
	if cfg.ModelName == "" {
		return nil, errors.New("model name cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		client: client,
		model:  cfg.ModelName,
		logger: logger.With(slog.String("component", "gemini_client")),
	}, nil
}

// Ensure Client implements the generation.ModelClient interface
var _ generation.ModelClient = (*Client)(nil)

// Generate implements generation.ModelClient.Generate.
// It makes a single GenerateContent call and returns the concatenated
// response text. Retry and timeout policy live with the caller.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", ErrEmptyPrompt
	}

	c.logger.Debug("calling Gemini API",
		slog.String("model", c.model),
		slog.Int("prompt_length", len(prompt)))

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini call failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("gemini returned no candidates")
	}

	text := resp.Text()
	if text == "" {
		return "", errors.New("gemini returned empty content")
	}

	c.logger.Debug("Gemini API call successful",
		slog.Int("response_length", len(text)))

	return text, nil
}
