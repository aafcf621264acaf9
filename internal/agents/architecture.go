package agents

import (
	"context"
	"fmt"

	"siteforge/internal/jsonx"
	"siteforge/internal/llm"
	t "siteforge/internal/types"
)

var architectureQueries = []string{
	"which pages matter most to prospective residents",
	"typical visitor journey from discovery to tour",
	"content hierarchy and what to show first",
	"call to action strategy for leasing",
	"navigation needs and site structure",
}

// ArchitectureAgent plans navigation and page/section structure, hard
// constrained to the discovered capability set. There is no safe default
// here: an unconstrained architecture could reference nonexistent blocks,
// so any parse or validation failure propagates.
type ArchitectureAgent struct {
	Ctx AgentContext
}

func (a *ArchitectureAgent) Plan(ctx context.Context, brand *t.BrandContext, caps *t.CapabilitySet, userPrefs map[string]any) (*t.ArchitectureProposal, error) {
	passages := a.Ctx.Knowledge.SearchAll(ctx, a.Ctx.PropertyID, architectureQueries)

	input := map[string]any{
		"brand": map[string]any{
			"personality":       brand.Personality,
			"target_audience":   brand.TargetAudience,
			"positioning":       brand.Positioning,
			"design_principles": brand.DesignPrinciples,
		},
		"knowledge":        passageTexts(passages),
		"available_blocks": caps.AvailableBlocks,
		"block_schemas":    caps.BlockSchemas,
	}
	if len(userPrefs) > 0 {
		input["user_preferences"] = userPrefs
	}
	in, _ := jsonx.MarshalNoEscape(input)

	prompt := `You are an information architect for property marketing websites.
Plan the site structure for this brand.

Return STRICT JSON ONLY:
{
  "navigation": {"structure":"string","items":["string"],"rationale":"string"},
  "pages": [
    {"slug":"string","title":"string","purpose":"string","priority":"high|medium|low",
     "sections":[
       {"id":"string","type":"string","purpose":"string","block":"string","variant":"string",
        "fields":{},"style_classes":["string"],
        "photo_requirement":{"category":"string","scene":"string","priority":1},
        "rationale":"string","order":1}
     ]}
  ],
  "conversion_strategy": {"primary_cta":"string","placements":["string"],"rationale":"string"},
  "capability_gaps": [{"need":"string","workaround":"string","plugin_hint":"string"}]
}

Hard constraints:
- "block" MUST be one of available_blocks. No exceptions.
- "variant" MUST be one of that block's variants in block_schemas, or omitted.
- "fields" keys MUST exist in the block's schema.
- Section "order" is 1-based and ascending within each page.
- Record anything the platform cannot do in capability_gaps instead of inventing blocks.

[INPUT JSON]
` + string(in)

	raw, err := a.Ctx.Reasoner.Complete(ctx, llm.CompleteRequest{Prompt: prompt, Structured: true})
	if err != nil {
		return nil, fmt.Errorf("architecture: %w", err)
	}
	var proposal t.ArchitectureProposal
	if err := jsonx.Unmarshal([]byte(raw), "architecture_plan", &proposal); err != nil {
		return nil, err
	}

	assignSectionIDs(&proposal)

	if err := validateBlocks(&proposal, caps); err != nil {
		return nil, err
	}
	return &proposal, nil
}

// assignSectionIDs gives any section missing a stable identifier a
// deterministic one: page slug plus positional index.
func assignSectionIDs(p *t.ArchitectureProposal) {
	for pi := range p.Pages {
		page := &p.Pages[pi]
		for si := range page.Sections {
			if page.Sections[si].ID == "" {
				page.Sections[si].ID = fmt.Sprintf("%s-%d", page.Slug, si+1)
			}
		}
	}
}

// validateBlocks enforces the capability invariant. A violation is a hard
// failure, never a silent correction.
func validateBlocks(p *t.ArchitectureProposal, caps *t.CapabilitySet) error {
	for _, page := range p.Pages {
		for _, sec := range page.Sections {
			if !caps.HasBlock(sec.Block) {
				return fmt.Errorf("architecture: section %s references unknown block %q", sec.ID, sec.Block)
			}
		}
	}
	return nil
}
