package types

// Brand provenance tags. Hybrid means an authoritative BrandForge record and
// knowledge-base passages both contributed.
const (
	ProvenanceBrandForge    = "brandforge"
	ProvenanceKnowledgeBase = "knowledge_base"
	ProvenanceGenerated     = "generated"
	ProvenanceHybrid        = "hybrid"
)

type BrandPersonality struct {
	Primary    string   `json:"primary"`
	Traits     []string `json:"traits"`
	AntiTraits []string `json:"anti_traits"`
}

type PhotoStyle struct {
	Lighting    string `json:"lighting"`
	Composition string `json:"composition"`
	Subjects    string `json:"subjects"`
	Mood        string `json:"mood"`
}

type VisualIdentity struct {
	MoodKeywords []string   `json:"mood_keywords"`
	ColorMood    string     `json:"color_mood"`
	PhotoStyle   PhotoStyle `json:"photo_style"`
	DesignStyle  string     `json:"design_style"`
}

type TargetAudience struct {
	Primary      string   `json:"primary"`
	Demographics string   `json:"demographics"`
	Priorities   []string `json:"priorities"`
}

type Positioning struct {
	Statement       string   `json:"statement"`
	Differentiators []string `json:"differentiators"`
	PricePosition   string   `json:"price_position"`
}

type ContentStrategy struct {
	Voice             string   `json:"voice"`
	Tone              string   `json:"tone"`
	Vocabulary        []string `json:"vocabulary"`
	AvoidWords        []string `json:"avoid_words"`
	HeadlineStyle     string   `json:"headline_style"`
	StorytellingFocus string   `json:"storytelling_focus"`
}

// ColorEntry preserves an authoritative hex value exactly as received.
type ColorEntry struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

type FontPair struct {
	Role   string `json:"role"`
	Family string `json:"family"`
	Weight string `json:"weight,omitempty"`
}

// ExactValues carries authoritative brand assets extracted verbatim from a
// BrandForge record. Present only when such a record exists; when present,
// downstream stages must apply these over any synthesized equivalent.
type ExactValues struct {
	Colors     []ColorEntry `json:"colors,omitempty"`
	Typography []FontPair   `json:"typography,omitempty"`
	LogoURLs   []string     `json:"logo_urls,omitempty"`
}

// BrandContext is the synthesized brand identity for one generation run.
// Immutable once produced.
type BrandContext struct {
	Provenance       string           `json:"provenance"`
	Confidence       float64          `json:"confidence"`
	Personality      BrandPersonality `json:"personality"`
	VisualIdentity   VisualIdentity   `json:"visual_identity"`
	TargetAudience   TargetAudience   `json:"target_audience"`
	Positioning      Positioning      `json:"positioning"`
	ContentStrategy  ContentStrategy  `json:"content_strategy"`
	DesignPrinciples []string         `json:"design_principles"`
	ExactValues      *ExactValues     `json:"exact_values,omitempty"`
}

// Reusable reports whether a caller-supplied context is complete enough to
// skip brand synthesis. Provenance and a primary personality label are both
// required; anything less forces recomputation.
func (b *BrandContext) Reusable() bool {
	return b != nil && b.Provenance != "" && b.Personality.Primary != ""
}

// ExactColor returns the authoritative hex for a named slot, if any.
func (b *BrandContext) ExactColor(name string) (string, bool) {
	if b == nil || b.ExactValues == nil {
		return "", false
	}
	for _, c := range b.ExactValues.Colors {
		if c.Name == name {
			return c.Hex, true
		}
	}
	return "", false
}
