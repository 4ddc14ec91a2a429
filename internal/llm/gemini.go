package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiCaller is a Caller backed by the Google Gemini API.
type GeminiCaller struct {
	client *genai.Client
}

// NewGeminiCaller creates a new Gemini API caller. It fails with
// ErrMissingCredential when no API key is configured, so callers can skip
// the network path entirely.
func NewGeminiCaller(ctx context.Context, apiKey string) (*GeminiCaller, error) {
	if apiKey == "" {
		return nil, ErrMissingCredential
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiCaller{client: client}, nil
}

// Generate sends one request to the named model and returns the raw text of
// the first candidate. HTTP 429 surfaces as ErrRateLimited; any other failure
// is terminal for this model.
func (c *GeminiCaller) Generate(ctx context.Context, model string, req Request) (string, error) {
	m := c.client.GenerativeModel(model)
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(req.Temperature)

	var parts []genai.Part
	if req.Image != nil {
		parts = append(parts, genai.Blob{MIMEType: req.Image.MIMEType, Data: req.Image.Data})
	}
	parts = append(parts, genai.Text(req.Prompt))

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %s", ErrRateLimited, model)
		}
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok || string(text) == "" {
		return "", ErrEmptyResponse
	}
	return string(text), nil
}

// Close closes the underlying Gemini client.
func (c *GeminiCaller) Close() error {
	return c.client.Close()
}
