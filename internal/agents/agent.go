// Package agents implements the website-generation reasoning stages:
// brand, architecture, design, photo, content and quality. Stages are
// stateless values over a shared AgentContext; each declares its inputs in
// its Run signature and returns typed results.
package agents

import (
	"time"

	"siteforge/internal/assets"
	"siteforge/internal/knowledge"
	"siteforge/internal/llm"
	"siteforge/internal/store"
	t "siteforge/internal/types"
)

// AgentContext carries the run-scoped client handles every stage draws on.
// All handles are constructed by the caller; stages never build their own.
type AgentContext struct {
	PropertyID string

	Reasoner   llm.ReasoningClient
	Vision     llm.VisionClient
	ImageGen   llm.ImageGenClient
	Knowledge  *knowledge.Client
	Properties store.PropertyStore
	Assets     assets.Uploader
}

// pacing between successive image-generation calls, to stay under the
// provider's rate limit. Not a correctness requirement.
const imageGenPacing = 2 * time.Second

// passageTexts flattens query results into a prompt-friendly list.
func passageTexts(passages map[string][]t.Passage) map[string][]string {
	out := make(map[string][]string, len(passages))
	for q, ps := range passages {
		for _, p := range ps {
			out[q] = append(out[q], p.Content)
		}
	}
	return out
}
