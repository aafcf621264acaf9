package agents

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"siteforge/internal/jsonx"
	"siteforge/internal/llm"
	"siteforge/internal/retry"
	t "siteforge/internal/types"
)

// Brand data scenarios, classified from what sources actually answered.
// Each maps to a provenance tag and a confidence anchor the prompt steers
// the model toward. Anchors are guidance, not enforced bounds.
type brandScenario struct {
	name       string
	provenance string
	anchor     float64
}

var (
	scenarioBoth      = brandScenario{"both", t.ProvenanceHybrid, 0.95}
	scenarioBrandbook = brandScenario{"brandbook_only", t.ProvenanceBrandForge, 0.85}
	scenarioKBOnly    = brandScenario{"kb_only", t.ProvenanceKnowledgeBase, 0.75}
	scenarioNeither   = brandScenario{"neither", t.ProvenanceGenerated, 0.50}
)

// minKBPassages is how many knowledge passages (across all queries) count
// as a usable knowledge-base signal.
const minKBPassages = 3

var brandQueries = []string{
	"what makes this property unique",
	"who is the ideal resident or target audience",
	"brand personality and community vibe",
	"standout amenities and features",
	"market positioning and pricing tier",
	"photography and visual style guidance",
}

// BrandAgent synthesizes BrandContext for one property. It is the only
// stage allowed to fully absorb failure: its rule-based fallback must
// never throw, because every later stage depends on having some brand.
type BrandAgent struct {
	Ctx AgentContext
}

func (a *BrandAgent) Synthesize(ctx context.Context) (*t.BrandContext, error) {
	propertyID := a.Ctx.PropertyID

	// Fetch the three sources concurrently. Brand record failure is
	// tolerated; facts failure is fatal; knowledge degrades to empty.
	var (
		wg       sync.WaitGroup
		record   *t.BrandForgeRecord
		facts    *t.PropertyFacts
		factsErr error
		passages map[string][]t.Passage
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		rec, err := retry.Do(ctx, "brandforge_lookup", 3, 500*time.Millisecond,
			func(ctx context.Context) (*t.BrandForgeRecord, error) {
				return a.Ctx.Properties.BrandRecord(ctx, propertyID)
			})
		if err != nil {
			log.Printf("brand: brandforge lookup failed for %s, continuing without: %v", propertyID, err)
			return
		}
		record = rec
	}()
	go func() {
		defer wg.Done()
		facts, factsErr = a.Ctx.Properties.Facts(ctx, propertyID)
	}()
	go func() {
		defer wg.Done()
		passages = a.Ctx.Knowledge.SearchAll(ctx, propertyID, brandQueries)
	}()
	wg.Wait()
	if factsErr != nil {
		return nil, factsErr
	}

	total := 0
	for _, ps := range passages {
		total += len(ps)
	}
	scenario := classifyScenario(record != nil, total >= minKBPassages)
	log.Printf("brand: property %s scenario=%s (record=%v kb_passages=%d)", propertyID, scenario.name, record != nil, total)

	bc, err := a.synthesizeLLM(ctx, scenario, facts, record, passages)
	if err != nil || !brandComplete(bc) {
		if err != nil {
			log.Printf("brand: synthesis failed for %s, using rule-based default: %v", propertyID, err)
		} else {
			log.Printf("brand: synthesis incomplete for %s, using rule-based default", propertyID)
		}
		bc = defaultBrand(facts)
	} else {
		bc.Provenance = scenario.provenance
	}

	if record != nil {
		overlayExactValues(bc, record)
	}
	return bc, nil
}

func classifyScenario(hasRecord, hasKB bool) brandScenario {
	switch {
	case hasRecord && hasKB:
		return scenarioBoth
	case hasRecord:
		return scenarioBrandbook
	case hasKB:
		return scenarioKBOnly
	default:
		return scenarioNeither
	}
}

func (a *BrandAgent) synthesizeLLM(ctx context.Context, sc brandScenario, facts *t.PropertyFacts, record *t.BrandForgeRecord, passages map[string][]t.Passage) (*t.BrandContext, error) {
	input := map[string]any{
		"property":  facts,
		"knowledge": passageTexts(passages),
	}
	if record != nil {
		input["brand_record"] = map[string]any{
			"personality": record.Personality,
			"voice":       record.Voice,
		}
	}
	in, _ := jsonx.MarshalNoEscape(input)

	prompt := `You are a brand strategist for residential property websites.
Synthesize a complete brand identity from the data below.

Data availability scenario: ` + sc.name + `. Target a confidence near ` + confidenceHint(sc.anchor) + ` and justify deviations via the data.

Return STRICT JSON ONLY:
{
  "confidence": 0.0,
  "personality": {"primary":"string","traits":["string"],"anti_traits":["string"]},
  "visual_identity": {"mood_keywords":["string"],"color_mood":"string","photo_style":{"lighting":"string","composition":"string","subjects":"string","mood":"string"},"design_style":"string"},
  "target_audience": {"primary":"string","demographics":"string","priorities":["string"]},
  "positioning": {"statement":"string","differentiators":["string"],"price_position":"string"},
  "content_strategy": {"voice":"string","tone":"string","vocabulary":["string"],"avoid_words":["string"],"headline_style":"string","storytelling_focus":"string"},
  "design_principles": ["string"]
}

Constraints:
- Ground every claim in the provided knowledge passages or property facts.
- vocabulary: words to prefer; avoid_words: words that must never appear in generated copy.
- 3-6 design_principles, ordered most to least important.

[INPUT JSON]
` + string(in)

	raw, err := a.Ctx.Reasoner.Complete(ctx, llm.CompleteRequest{Prompt: prompt, Structured: true})
	if err != nil {
		return nil, err
	}
	var bc t.BrandContext
	if err := jsonx.Unmarshal([]byte(raw), "brand_synthesis", &bc); err != nil {
		return nil, err
	}
	return &bc, nil
}

func confidenceHint(f float64) string {
	switch f {
	case 0.95:
		return "0.95"
	case 0.85:
		return "0.85"
	case 0.75:
		return "0.75"
	default:
		return "0.50"
	}
}

// brandComplete validates the required sub-objects. Engine confidence is
// sanity-checked against field presence rather than clamped to the anchor.
func brandComplete(bc *t.BrandContext) bool {
	if bc == nil {
		return false
	}
	return bc.Personality.Primary != "" &&
		bc.VisualIdentity.DesignStyle != "" &&
		bc.TargetAudience.Primary != "" &&
		bc.Positioning.Statement != "" &&
		bc.ContentStrategy.Voice != "" &&
		bc.Confidence > 0
}

// defaultBrand is the terminal safety net: a deterministic profile keyed on
// property-type keywords. Never fails.
func defaultBrand(facts *t.PropertyFacts) *t.BrandContext {
	ptype := ""
	name := ""
	if facts != nil {
		ptype = strings.ToLower(facts.PropertyType + " " + facts.Name)
		name = facts.Name
	}
	bc := &t.BrandContext{
		Provenance: t.ProvenanceGenerated,
		Confidence: 0.4,
		Personality: t.BrandPersonality{
			Primary:    "professional-welcoming",
			Traits:     []string{"reliable", "friendly", "attentive"},
			AntiTraits: []string{"impersonal", "gimmicky"},
		},
		VisualIdentity: t.VisualIdentity{
			MoodKeywords: []string{"bright", "clean", "inviting"},
			ColorMood:    "warm neutral",
			PhotoStyle: t.PhotoStyle{
				Lighting:    "natural daylight",
				Composition: "wide welcoming spaces",
				Subjects:    "community spaces and residences",
				Mood:        "relaxed",
			},
			DesignStyle: "modern-clean",
		},
		TargetAudience: t.TargetAudience{
			Primary:      "renters seeking a well-run community",
			Demographics: "broad adult demographic",
			Priorities:   []string{"location", "value", "responsive management"},
		},
		Positioning: t.Positioning{
			Statement:       "A well-managed community that makes everyday living easy",
			Differentiators: []string{"responsive service", "convenient location"},
			PricePosition:   "market",
		},
		ContentStrategy: t.ContentStrategy{
			Voice:             "warm and professional",
			Tone:              "informative",
			Vocabulary:        []string{"community", "home", "convenient"},
			AvoidWords:        []string{"cheap", "luxury"},
			HeadlineStyle:     "benefit-led",
			StorytellingFocus: "everyday comfort",
		},
		DesignPrinciples: []string{"clarity first", "photography forward", "easy navigation"},
	}
	switch {
	case strings.Contains(ptype, "luxury"):
		bc.Personality.Primary = "sophisticated-exclusive"
		bc.Personality.Traits = []string{"refined", "discreet", "polished"}
		bc.VisualIdentity.DesignStyle = "luxury-minimal"
		bc.VisualIdentity.ColorMood = "deep and muted"
		bc.ContentStrategy.Voice = "elevated and assured"
		bc.ContentStrategy.AvoidWords = []string{"cheap", "deal", "budget"}
		bc.Positioning.PricePosition = "premium"
	case strings.Contains(ptype, "student"):
		bc.Personality.Primary = "energetic-social"
		bc.Personality.Traits = []string{"vibrant", "social", "flexible"}
		bc.VisualIdentity.DesignStyle = "bold-playful"
		bc.ContentStrategy.Voice = "casual and upbeat"
		bc.TargetAudience.Primary = "students near campus"
	case strings.Contains(ptype, "senior") || strings.Contains(ptype, "55+"):
		bc.Personality.Primary = "calm-trustworthy"
		bc.Personality.Traits = []string{"caring", "steady", "respectful"}
		bc.VisualIdentity.DesignStyle = "classic-comfortable"
		bc.ContentStrategy.Voice = "reassuring and clear"
		bc.TargetAudience.Primary = "active adults 55 and over"
	}
	if name != "" {
		bc.Positioning.Statement = name + ": " + bc.Positioning.Statement
	}
	return bc
}

// overlayExactValues copies authoritative assets onto the synthesized
// context exactly as received. No rounding, relabeling or reformatting:
// downstream stages must see the source hex codes and URLs verbatim.
// Provenance is left alone: a rule-based fallback stays "generated" even
// when record assets overlay it.
func overlayExactValues(bc *t.BrandContext, rec *t.BrandForgeRecord) {
	if len(rec.Colors) == 0 && len(rec.Typography) == 0 && len(rec.LogoURLs) == 0 {
		return
	}
	ev := &t.ExactValues{}
	ev.Colors = append(ev.Colors, rec.Colors...)
	ev.Typography = append(ev.Typography, rec.Typography...)
	ev.LogoURLs = append(ev.LogoURLs, rec.LogoURLs...)
	bc.ExactValues = ev
}
