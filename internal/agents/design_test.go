package agents

import (
	"context"
	"testing"

	"siteforge/internal/knowledge"
	"siteforge/internal/llm"
	"siteforge/internal/tester"
	t_ "siteforge/internal/types"
)

const designJSON = `{
  "colors": {"primary":"#336699","secondary":"#DDDDDD","accent":"#FF8800","background":"#FFFFFF","strategy":"use-theme"},
  "typography": {"heading_font":"Inter","body_font":"Inter","heading_weight":"600","scale":"major-third","strategy":"use-theme"},
  "spacing": {"scale":"comfortable","container_size":"lg","section_size":"md"},
  "components": {"hero":{"layout":"full-bleed","emphasis":"photo"}},
  "animation": {"level":"subtle"}
}`

func TestCreateAppliesExactOverrides(t *testing.T) {
	fake := &llm.FakeClient{Responses: []string{designJSON}}
	agent := &DesignAgent{Ctx: AgentContext{
		PropertyID: "prop-1",
		Reasoner:   fake,
		Knowledge:  &knowledge.Client{Embedder: &llm.FakeEmbedder{}, Searcher: fixedSearcher{n: 0}},
	}}
	brand := defaultBrand(nil)
	brand.ExactValues = &t_.ExactValues{
		Colors: []t_.ColorEntry{
			{Name: "Primary", Hex: "#1A2B3C"},
			{Name: "accent", Hex: "#C0FFEE"},
		},
		Typography: []t_.FontPair{{Role: "heading", Family: "Canela", Weight: "500"}},
	}

	ds, err := agent.Create(context.Background(), brand, &t_.CapabilitySet{})
	tester.NoErr(t, err)
	tester.Eq(t, ds.Colors.Primary, "#1A2B3C", "exact hex replaces the synthesized value")
	tester.Eq(t, ds.Colors.Accent, "#C0FFEE", "slot match is case-insensitive")
	tester.Eq(t, ds.Colors.Secondary, "#DDDDDD", "unnamed slots keep synthesized values")
	tester.Eq(t, ds.Colors.Strategy, t_.StrategyBrandForge)
	tester.Eq(t, ds.Typography.HeadingFont, "Canela")
	tester.Eq(t, ds.Typography.HeadingWeight, "500")
	tester.Eq(t, ds.Typography.BodyFont, "Inter", "body font untouched without a body override")
	tester.Contains(t, ds.Rationale, "BrandForge overrides applied")
}

func TestCreateWithoutOverridesKeepsStrategy(t *testing.T) {
	fake := &llm.FakeClient{Responses: []string{designJSON}}
	agent := &DesignAgent{Ctx: AgentContext{
		PropertyID: "prop-1",
		Reasoner:   fake,
		Knowledge:  &knowledge.Client{Embedder: &llm.FakeEmbedder{}, Searcher: fixedSearcher{n: 0}},
	}}
	ds, err := agent.Create(context.Background(), defaultBrand(nil), &t_.CapabilitySet{})
	tester.NoErr(t, err)
	tester.Eq(t, ds.Colors.Strategy, t_.StrategyUseTheme)
	tester.Eq(t, ds.Colors.Primary, "#336699")
}
