package agents

import (
	"context"
	"errors"
	"testing"

	"siteforge/internal/knowledge"
	"siteforge/internal/llm"
	"siteforge/internal/tester"
	t_ "siteforge/internal/types"
)

func contentCtx(reasoner llm.ReasoningClient) AgentContext {
	return AgentContext{
		PropertyID: "prop-1",
		Reasoner:   reasoner,
		Knowledge:  &knowledge.Client{Embedder: &llm.FakeEmbedder{}, Searcher: fixedSearcher{n: 1}},
	}
}

func contentArch() *t_.ArchitectureProposal {
	return &t_.ArchitectureProposal{
		Pages: []t_.Page{{
			Slug:    "home",
			Purpose: "convert visitors",
			Sections: []t_.Section{
				{ID: "home-hero-0", Type: "hero", Block: "hero", Purpose: "first impression"},
				{ID: "home-amenities-1", Type: "amenity_grid", Block: "amenities", Purpose: "list amenities"},
			},
		}},
	}
}

func TestGenerateAllPreservesOrder(t *testing.T) {
	fake := &llm.FakeClient{CompleteFn: func(ctx context.Context, req llm.CompleteRequest) (string, error) {
		return `{"headline":"A fine headline indeed","body":"Grounded copy about the pool.","cta_text":"Tour today","rationale":"r"}`, nil
	}}
	agent := &ContentAgent{Ctx: contentCtx(fake)}
	pages, err := agent.GenerateAll(context.Background(), contentArch(), defaultBrand(nil))
	tester.NoErr(t, err)
	tester.Eq(t, len(pages), 1)
	tester.Eq(t, len(pages[0].Sections), 2)
	tester.Eq(t, pages[0].Sections[0].ID, "home-hero-0", "section order preserved under fan-out")
	tester.Eq(t, pages[0].Sections[1].ID, "home-amenities-1")
	tester.False(t, pages[0].Sections[0].Content.Empty(), "content filled")
}

func TestGenerateAllPropagatesFailures(t *testing.T) {
	for _, fake := range []*llm.FakeClient{
		{Err: errors.New("model down")},
		{CompleteFn: func(ctx context.Context, req llm.CompleteRequest) (string, error) { return "no json here", nil }},
	} {
		agent := &ContentAgent{Ctx: contentCtx(fake)}
		_, err := agent.GenerateAll(context.Background(), contentArch(), defaultBrand(nil))
		tester.Err(t, err, "engine and parse failures are fatal")
		tester.Contains(t, err.Error(), "content: section")
	}
}

func TestGenerateSectionEmptyGetsPlaceholder(t *testing.T) {
	fake := &llm.FakeClient{CompleteFn: func(ctx context.Context, req llm.CompleteRequest) (string, error) {
		return `{"rationale":"empty"}`, nil
	}}
	agent := &ContentAgent{Ctx: contentCtx(fake)}
	pages, err := agent.GenerateAll(context.Background(), contentArch(), defaultBrand(nil))
	tester.NoErr(t, err, "parsed-but-empty content is not an error")
	got := pages[0].Sections[1].Content
	tester.False(t, got.Empty(), "placeholder is renderable")
	tester.Eq(t, got.Headline, "Amenity grid", "derived from section type")
}
