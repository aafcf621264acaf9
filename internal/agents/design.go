package agents

import (
	"context"
	"fmt"
	"strings"

	"siteforge/internal/jsonx"
	"siteforge/internal/llm"
	t "siteforge/internal/types"
)

var designQueries = []string{
	"visual style and aesthetic preferences",
	"design inspiration and comparable properties",
	"spacing density and layout preferences",
	"color preferences and associations",
}

// DesignAgent derives the token set from brand context and theme
// capabilities, then applies authoritative overrides. Synthesize-then-
// override sequencing guarantees BrandForge data wins regardless of what
// the model produced.
type DesignAgent struct {
	Ctx AgentContext
}

func (a *DesignAgent) Create(ctx context.Context, brand *t.BrandContext, caps *t.CapabilitySet) (*t.DesignSystem, error) {
	passages := a.Ctx.Knowledge.SearchAll(ctx, a.Ctx.PropertyID, designQueries)

	input := map[string]any{
		"brand": map[string]any{
			"personality":       brand.Personality,
			"visual_identity":   brand.VisualIdentity,
			"positioning":       brand.Positioning,
			"design_principles": brand.DesignPrinciples,
		},
		"knowledge":    passageTexts(passages),
		"theme_tokens": caps.DesignTokens,
	}
	in, _ := jsonx.MarshalNoEscape(input)

	prompt := `You are a design-system lead for property marketing websites.
Derive a complete token set for this brand, constrained to the theme.

Return STRICT JSON ONLY:
{
  "colors": {"primary":"string","secondary":"string","accent":"string","background":"string","strategy":"use-theme|custom|hybrid"},
  "typography": {"heading_font":"string","body_font":"string","heading_weight":"string","scale":"string","strategy":"use-theme|custom|hybrid"},
  "spacing": {"scale":"compact|comfortable|luxury","container_size":"string","section_size":"string"},
  "components": {
    "hero": {"layout":"string","emphasis":"string","notes":["string"]},
    "amenity_showcase": {"layout":"string","emphasis":"string","notes":["string"]},
    "cta": {"layout":"string","emphasis":"string","notes":["string"]}
  },
  "animation": {"level":"none|subtle|moderate","types":["string"]},
  "custom_styling": {"needed":false,"css":"","why":""}
}

Hard constraints:
- Colors and fonts MUST come from theme_tokens unless strategy is "custom".
- spacing.scale "luxury" only for premium positioning.
- animation.level reflects the brand's energy, not novelty.

[INPUT JSON]
` + string(in)

	raw, err := a.Ctx.Reasoner.Complete(ctx, llm.CompleteRequest{Prompt: prompt, Structured: true})
	if err != nil {
		return nil, fmt.Errorf("design: %w", err)
	}
	var ds t.DesignSystem
	if err := jsonx.Unmarshal([]byte(raw), "design_system", &ds); err != nil {
		return nil, err
	}

	applyBrandOverrides(&ds, brand)
	return &ds, nil
}

// applyBrandOverrides overwrites synthesized values with authoritative
// ones. Replace, not merge: exact hex and font fidelity is the contract.
func applyBrandOverrides(ds *t.DesignSystem, brand *t.BrandContext) {
	ev := brand.ExactValues
	if ev == nil {
		return
	}
	var overridden []string

	if len(ev.Colors) > 0 {
		ds.Colors.Palette = append([]t.ColorEntry(nil), ev.Colors...)
		for _, c := range ev.Colors {
			switch strings.ToLower(c.Name) {
			case "primary":
				ds.Colors.Primary = c.Hex
			case "secondary":
				ds.Colors.Secondary = c.Hex
			case "accent":
				ds.Colors.Accent = c.Hex
			case "background":
				ds.Colors.Background = c.Hex
			}
			overridden = append(overridden, c.Name+"="+c.Hex)
		}
		ds.Colors.Strategy = t.StrategyBrandForge
	}

	if len(ev.Typography) > 0 {
		for _, f := range ev.Typography {
			switch strings.ToLower(f.Role) {
			case "heading":
				ds.Typography.HeadingFont = f.Family
				if f.Weight != "" {
					ds.Typography.HeadingWeight = f.Weight
				}
			case "body":
				ds.Typography.BodyFont = f.Family
			}
			overridden = append(overridden, f.Role+"="+f.Family)
		}
		ds.Typography.Strategy = t.StrategyBrandForge
	}

	if len(overridden) > 0 {
		ds.Rationale = "BrandForge overrides applied: " + strings.Join(overridden, ", ")
	}
}
