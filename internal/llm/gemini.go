package llm

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	genai "google.golang.org/genai"
)

// structuredTemperature overrides caller temperature whenever structured
// output is requested. Creativity comes from prompt design, not sampling
// entropy, when structure matters.
const structuredTemperature = 0.3

// GeminiClient is a thin wrapper around the official genai client. It
// implements ReasoningClient, VisionClient, EmbeddingClient and
// ImageGenClient against one connection.
type GeminiClient struct {
	cli        *genai.Client
	model      string
	embedModel string
	imageModel string
	rl         *rpsLimiter
	httpc      *http.Client
}

func NewGeminiClient(ctx context.Context, model string) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	// Optional RPS limiter via env: LLM_RPS / LLM_BURST.
	var rps float64
	var burst int
	if v := os.Getenv("LLM_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			rps = f
		}
	}
	if v := os.Getenv("LLM_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			burst = n
		}
	}
	embedModel := os.Getenv("EMBED_MODEL")
	if embedModel == "" {
		embedModel = "text-embedding-004"
	}
	imageModel := os.Getenv("IMAGE_MODEL")
	if imageModel == "" {
		imageModel = "imagen-3.0-generate-002"
	}
	return &GeminiClient{
		cli:        cli,
		model:      model,
		embedModel: embedModel,
		imageModel: imageModel,
		rl:         newRPSLimiter(rps, burst),
		httpc:      http.DefaultClient,
	}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }

func (g *GeminiClient) Close() error {
	if g.rl != nil {
		g.rl.Stop()
	}
	return nil
}

// Complete sends one exchange. In structured mode the response is primed
// with an opening brace via a model-role prefill turn; the brace is
// prepended back onto the returned continuation, then wrapper tags, fences
// and trailing-comma damage are cleaned before returning.
func (g *GeminiClient) Complete(ctx context.Context, req CompleteRequest) (string, error) {
	if err := g.rl.Acquire(ctx); err != nil {
		return "", err
	}

	temp := float32(req.Temperature)
	if req.Structured {
		temp = structuredTemperature
	}
	cfg := &genai.GenerateContentConfig{Temperature: genai.Ptr(temp)}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.SystemPrompt != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.SystemPrompt}}}
	}

	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: req.Prompt}}},
	}
	if req.Structured {
		// Prefill suppresses conversational preamble.
		contents = append(contents, &genai.Content{Role: "model", Parts: []*genai.Part{{Text: "{"}}})
	}

	log.Printf("llm: request model=%s structured=%v prompt=%d bytes", g.model, req.Structured, len(req.Prompt))
	resp, err := g.cli.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	txt := resp.Candidates[0].Content.Parts[0].Text
	if req.Structured {
		if !strings.HasPrefix(strings.TrimSpace(txt), "{") {
			txt = "{" + txt
		}
		txt = CleanStructured(txt)
	}
	return txt, nil
}

// CompleteVision sends an image plus prompt for classification.
func (g *GeminiClient) CompleteVision(ctx context.Context, prompt string, imageURL string) (string, error) {
	if err := g.rl.Acquire(ctx); err != nil {
		return "", err
	}
	data, mime, err := g.fetchImage(ctx, imageURL)
	if err != nil {
		return "", fmt.Errorf("fetch image %s: %w", imageURL, err)
	}
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Role: "user", Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: mime, Data: data}},
			{Text: prompt},
		}}},
		&genai.GenerateContentConfig{Temperature: genai.Ptr(float32(structuredTemperature))},
	)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	return CleanStructured(resp.Candidates[0].Content.Parts[0].Text), nil
}

// Embed computes a text embedding for semantic search.
func (g *GeminiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := g.rl.Acquire(ctx); err != nil {
		return nil, err
	}
	resp, err := g.cli.Models.EmbedContent(ctx, g.embedModel,
		[]*genai.Content{{Parts: []*genai.Part{{Text: text}}}}, nil)
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) == 0 {
		return nil, ErrEmptyResponse
	}
	return resp.Embeddings[0].Values, nil
}

// GenerateImage produces image bytes. A filtered/declined generation
// returns (nil, nil); callers treat that as a gap, not an error.
func (g *GeminiClient) GenerateImage(ctx context.Context, prompt, aspectRatio, negativePrompt string) ([]byte, error) {
	if err := g.rl.Acquire(ctx); err != nil {
		return nil, err
	}
	cfg := &genai.GenerateImagesConfig{NumberOfImages: 1}
	if aspectRatio != "" {
		cfg.AspectRatio = aspectRatio
	}
	if negativePrompt != "" {
		cfg.NegativePrompt = negativePrompt
	}
	resp, err := g.cli.Models.GenerateImages(ctx, g.imageModel, prompt, cfg)
	if err != nil {
		return nil, err
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		log.Printf("llm: image generation declined for prompt %q", head(prompt, 80))
		return nil, nil
	}
	return resp.GeneratedImages[0].Image.ImageBytes, nil
}

func (g *GeminiClient) fetchImage(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := g.httpc.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 20<<20))
	if err != nil {
		return nil, "", err
	}
	mime := resp.Header.Get("Content-Type")
	if mime == "" || !strings.HasPrefix(mime, "image/") {
		mime = "image/jpeg"
	}
	return data, mime, nil
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
