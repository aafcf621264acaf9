package types

// Design strategy tags. StrategyBrandForge is only valid when BrandContext
// carries the matching exact-value override.
const (
	StrategyUseTheme   = "use-theme"
	StrategyCustom     = "custom"
	StrategyHybrid     = "hybrid"
	StrategyBrandForge = "brandforge"
)

type ColorSystem struct {
	Primary    string       `json:"primary"`
	Secondary  string       `json:"secondary"`
	Accent     string       `json:"accent"`
	Background string       `json:"background"`
	Strategy   string       `json:"strategy"`
	Palette    []ColorEntry `json:"palette,omitempty"`
}

type Typography struct {
	HeadingFont   string `json:"heading_font"`
	BodyFont      string `json:"body_font"`
	HeadingWeight string `json:"heading_weight"`
	Scale         string `json:"scale"`
	Strategy      string `json:"strategy"`
}

type Spacing struct {
	Scale         string `json:"scale"`
	ContainerSize string `json:"container_size"`
	SectionSize   string `json:"section_size"`
}

type ComponentStyle struct {
	Layout   string   `json:"layout"`
	Emphasis string   `json:"emphasis"`
	Notes    []string `json:"notes,omitempty"`
}

type Animation struct {
	Level string   `json:"level"`
	Types []string `json:"types,omitempty"`
}

type CustomStyling struct {
	Needed bool   `json:"needed"`
	CSS    string `json:"css,omitempty"`
	Why    string `json:"why,omitempty"`
}

// DesignSystem is the synthesized token set for the site.
type DesignSystem struct {
	Colors        ColorSystem               `json:"colors"`
	Typography    Typography                `json:"typography"`
	Spacing       Spacing                   `json:"spacing"`
	Components    map[string]ComponentStyle `json:"components"`
	Animation     Animation                 `json:"animation"`
	CustomStyling *CustomStyling            `json:"custom_styling,omitempty"`
	Rationale     string                    `json:"rationale,omitempty"`
}
