package main

import (
	"context"

	"siteforge/internal/agents"
	"siteforge/internal/assets"
	"siteforge/internal/knowledge"
	"siteforge/internal/llm"
	"siteforge/internal/store"
	t "siteforge/internal/types"
)

func newAgentContext(gemini *llm.GeminiClient, properties store.PropertyStore, uploader assets.Uploader, searcher knowledge.Searcher) agents.AgentContext {
	return agents.AgentContext{
		Reasoner: gemini,
		Vision:   gemini,
		ImageGen: gemini,
		Knowledge: &knowledge.Client{
			Embedder: gemini,
			Searcher: searcher,
		},
		Properties: properties,
		Assets:     uploader,
	}
}

// emptySearcher backs local runs without a database: every query returns
// no grounding, which the pipeline treats as a valid (degraded) state.
type emptySearcher struct{}

func (emptySearcher) Match(ctx context.Context, embedding []float32, threshold float64, topK int, propertyID string) ([]t.Passage, error) {
	return nil, nil
}
