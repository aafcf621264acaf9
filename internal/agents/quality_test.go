package agents

import (
	"context"
	"errors"
	"testing"

	"siteforge/internal/llm"
	"siteforge/internal/tester"
	t_ "siteforge/internal/types"
)

func goodSection(id, typ, block string) t_.GeneratedSection {
	return t_.GeneratedSection{
		Section: t_.Section{ID: id, Type: typ, Block: block},
		Content: t_.SectionContent{
			Headline: "A headline of reasonable length",
			Body:     "Something worth reading about the community.",
			CTAText:  "Schedule a tour",
		},
	}
}

func goodManifest() *t_.PhotoManifest {
	return &t_.PhotoManifest{
		Photos: []t_.Photo{
			{ID: "a", Category: "hero", Quality: 9},
			{ID: "b", Category: "lifestyle", Quality: 8},
			{ID: "c", Category: "lifestyle", Quality: 8},
		},
	}
}

func qualityFixture(judge *llm.FakeClient) (*QualityAgent, []t_.GeneratedPage, *t_.DesignSystem, *t_.BrandContext, *t_.CapabilitySet) {
	agent := &QualityAgent{Ctx: AgentContext{Reasoner: judge}}
	pages := []t_.GeneratedPage{{
		Slug:     "home",
		Sections: []t_.GeneratedSection{goodSection("home-hero-0", "hero", "hero")},
	}}
	design := &t_.DesignSystem{
		Colors:     t_.ColorSystem{Strategy: t_.StrategyUseTheme},
		Typography: t_.Typography{Strategy: t_.StrategyUseTheme},
		Spacing:    t_.Spacing{Scale: "comfortable"},
	}
	brand := defaultBrand(&t_.PropertyFacts{Name: "The Arbor", PropertyType: "apartment"})
	caps := &t_.CapabilitySet{AvailableBlocks: []string{"hero", "amenities", "cta"}}
	return agent, pages, design, brand, caps
}

func TestValidateWeightedAggregate(t *testing.T) {
	judge := &llm.FakeClient{CompleteFn: func(ctx context.Context, req llm.CompleteRequest) (string, error) {
		return `{"score":100,"issue":""}`, nil
	}}
	agent, pages, design, brand, caps := qualityFixture(judge)
	report := agent.Validate(context.Background(), pages, design, goodManifest(), brand, caps)

	tester.Eq(t, len(report.Checks), 5)
	var want float64
	for name, c := range report.Checks {
		want += c.Score * t_.CheckWeights[name]
	}
	tester.InDelta(t, report.Score, want, 0.001, "score is the weighted sum")
	tester.True(t, report.Checks[t_.CheckBrand].Score == 100, "judge score propagated")
	tester.True(t, report.Passed == (report.Score >= t_.PassThreshold), "pass threshold applied")
}

func TestPlatformZeroTolerance(t *testing.T) {
	judge := &llm.FakeClient{CompleteFn: func(ctx context.Context, req llm.CompleteRequest) (string, error) {
		return `{"score":100,"issue":""}`, nil
	}}
	agent, pages, design, brand, caps := qualityFixture(judge)
	pages[0].Sections = append(pages[0].Sections, goodSection("home-widget-1", "custom", "widget_unknown"))

	report := agent.Validate(context.Background(), pages, design, goodManifest(), brand, caps)
	platform := report.Checks[t_.CheckPlatform]
	tester.InDelta(t, platform.Score, 80, 0.001, "one violation deducts 20")
	tester.False(t, platform.Passed, "any violation fails the check regardless of score")
}

func TestContentDeductions(t *testing.T) {
	sec := goodSection("home-hero-0", "hero", "hero")
	sec.Content.Headline = "Short" // under 10 chars
	sec.Content.CTAText = ""       // hero without CTA
	pages := []t_.GeneratedPage{{Slug: "home", Sections: []t_.GeneratedSection{sec}}}

	check := checkContent(pages)
	tester.Eq(t, len(check.Issues), 2)
	tester.InDelta(t, check.Score, 90, 0.001)
	tester.True(t, check.Passed, "90 clears the partial-credit bar")
}

func TestPhotoCheckEmptyManifest(t *testing.T) {
	check := checkPhotos(&t_.PhotoManifest{})
	tester.InDelta(t, check.Score, 0, 0.001)
	tester.False(t, check.Passed)
}

func TestPhotoCheckArithmetic(t *testing.T) {
	m := &t_.PhotoManifest{Photos: []t_.Photo{
		{ID: "a", Category: "hero", Quality: 8},
		{ID: "b", Category: "lifestyle", Quality: 6},
	}}
	// avg quality 7 -> 70; lifestyle ratio 0.5 / 0.6 target -> 83.33
	check := checkPhotos(m)
	tester.InDelta(t, check.Score, 70*0.6+(0.5/0.6*100)*0.4, 0.01)
	tester.Eq(t, len(check.Issues), 0, "ratio above the 40 percent floor")
}

func TestDesignBrandforgeWithoutOverrides(t *testing.T) {
	design := &t_.DesignSystem{
		Colors:     t_.ColorSystem{Strategy: t_.StrategyBrandForge},
		Typography: t_.Typography{Strategy: t_.StrategyUseTheme},
		Spacing:    t_.Spacing{Scale: "comfortable"},
	}
	brand := defaultBrand(&t_.PropertyFacts{Name: "X", PropertyType: "apartment"})
	check := checkDesign(design, brand)
	tester.InDelta(t, check.Score, 90, 0.001)
	tester.Eq(t, len(check.Issues), 1)
}

func TestBrandJudgeOutageIsNeutral(t *testing.T) {
	judge := &llm.FakeClient{Err: errors.New("judge down")}
	agent, pages, design, brand, caps := qualityFixture(judge)
	report := agent.Validate(context.Background(), pages, design, goodManifest(), brand, caps)
	tester.InDelta(t, report.Checks[t_.CheckBrand].Score, neutralBrandScore, 0.001)
}
