// Package llm talks to the Gemini generative API through an ordered
// model-fallback chain with retry-on-rate-limit, and coerces the structured
// JSON responses into record shapes with field-level defaults.
package llm

import (
	"context"
	"errors"
)

var (
	// ErrMissingCredential is returned before any network call is attempted
	// when no API key is configured.
	ErrMissingCredential = errors.New("missing api credential")

	// ErrRateLimited marks an HTTP 429 from the generative endpoint. It is the
	// only retryable failure.
	ErrRateLimited = errors.New("rate limited")

	// ErrEmptyResponse marks a 2xx response that carried no usable text.
	ErrEmptyResponse = errors.New("no content generated")
)

// InlineImage is an image payload sent alongside a prompt.
type InlineImage struct {
	MIMEType string
	Data     []byte
}

// Request is a single generation request: a text prompt, optionally paired
// with an inline image, always demanding a strict JSON object response.
type Request struct {
	Prompt      string
	Image       *InlineImage
	Temperature float32
}

// Caller executes one generation request against one model identifier.
type Caller interface {
	Generate(ctx context.Context, model string, req Request) (string, error)
}
