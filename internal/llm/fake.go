package llm

import (
	"context"
	"sync"
)

// FakeClient is a deterministic ReasoningClient/VisionClient for offline
// tests. CompleteFn, when set, decides every response; otherwise responses
// are consumed from the Responses queue, and Err (if set) is returned for
// every call.
type FakeClient struct {
	CompleteFn func(ctx context.Context, req CompleteRequest) (string, error)
	Responses  []string
	Err        error

	mu    sync.Mutex
	next  int
	Calls []CompleteRequest
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) Complete(ctx context.Context, req CompleteRequest) (string, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, req)
	f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	if f.CompleteFn != nil {
		return f.CompleteFn(ctx, req)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.next >= len(f.Responses) {
		return "", ErrEmptyResponse
	}
	out := f.Responses[f.next]
	f.next++
	return out, nil
}

func (f *FakeClient) CompleteVision(ctx context.Context, prompt string, imageURL string) (string, error) {
	return f.Complete(ctx, CompleteRequest{Prompt: prompt + "\n[image] " + imageURL, Structured: true})
}

// CallCount returns how many exchanges were issued.
func (f *FakeClient) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

// FakeEmbedder returns a fixed-size zero-ish vector derived from text
// length so distinct inputs get distinct vectors.
type FakeEmbedder struct{ Err error }

func (f *FakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	v := make([]float32, 8)
	for i, c := range []byte(text) {
		v[i%8] += float32(c) / 255
	}
	return v, nil
}

// FakeImageGen returns canned bytes, or nil to simulate a declined
// generation.
type FakeImageGen struct {
	Bytes []byte
	Err   error

	mu      sync.Mutex
	Prompts []string
}

func (f *FakeImageGen) GenerateImage(ctx context.Context, prompt, aspectRatio, negativePrompt string) ([]byte, error) {
	f.mu.Lock()
	f.Prompts = append(f.Prompts, prompt)
	f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Bytes, nil
}
