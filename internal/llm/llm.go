package llm

import (
	"context"
	"errors"
)

var ErrEmptyResponse = errors.New("llm: empty response from model")

// PermanentError marks a failure that will not resolve with retries
// (bad request, safety block). Retry wrappers should give up immediately.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// CompleteRequest is one prompt/response exchange.
type CompleteRequest struct {
	Prompt       string
	SystemPrompt string
	Temperature  float64
	MaxTokens    int

	// Structured biases the output toward parseable JSON: temperature is
	// forced to 0.3, the response is primed with an opening brace, and
	// fences/wrapper tags are stripped from the continuation.
	Structured bool
}

// ReasoningClient is a text-generation model behind a prompt/response
// contract. Remote errors propagate; retry is the caller's choice.
type ReasoningClient interface {
	Name() string
	Complete(ctx context.Context, req CompleteRequest) (string, error)
	Close() error
}

// VisionClient classifies or describes an image fetched from a URL.
type VisionClient interface {
	CompleteVision(ctx context.Context, prompt string, imageURL string) (string, error)
}

// EmbeddingClient turns text into a vector for semantic search.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ImageGenClient produces image bytes from a prompt. A nil result with a
// nil error means the provider declined (content filtering); callers must
// treat that as a non-fatal gap.
type ImageGenClient interface {
	GenerateImage(ctx context.Context, prompt, aspectRatio, negativePrompt string) ([]byte, error)
}
