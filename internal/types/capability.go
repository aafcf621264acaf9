package types

// BlockSchema describes one discovered block type: its fields and the
// variants the platform accepts for it.
type BlockSchema struct {
	Fields   map[string]string `json:"fields"`
	Variants []string          `json:"variants,omitempty"`
}

type ThemeTokens struct {
	Colors        map[string]string `json:"colors"`
	Fonts         []string          `json:"fonts"`
	SpacingScales []string          `json:"spacing_scales"`
}

// CapabilitySet is the discovered ground truth constraining architecture and
// design for one platform instance.
type CapabilitySet struct {
	AvailableBlocks []string               `json:"available_blocks"`
	BlockSchemas    map[string]BlockSchema `json:"block_schemas"`
	DesignTokens    ThemeTokens            `json:"design_tokens"`
}

// HasBlock reports whether the block name was discovered.
func (c *CapabilitySet) HasBlock(name string) bool {
	for _, b := range c.AvailableBlocks {
		if b == name {
			return true
		}
	}
	return false
}

// Passage is one ranked semantic-search hit.
type Passage struct {
	ID         string         `json:"id"`
	Content    string         `json:"content"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Similarity float64        `json:"similarity"`
}

// PropertyFacts are the basic facts every run requires.
type PropertyFacts struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	PropertyType   string          `json:"property_type"`
	City           string          `json:"city"`
	State          string          `json:"state"`
	Amenities      []string        `json:"amenities,omitempty"`
	UploadedPhotos []UploadedPhoto `json:"uploaded_photos,omitempty"`
}

type UploadedPhoto struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// BrandForgeRecord is the authoritative structured brand source. Only
// records with GenerationStatus == "complete" are usable.
type BrandForgeRecord struct {
	PropertyID       string           `json:"property_id"`
	GenerationStatus string           `json:"generation_status"`
	Personality      BrandPersonality `json:"personality"`
	Voice            string           `json:"voice"`
	Colors           []ColorEntry     `json:"colors,omitempty"`
	Typography       []FontPair       `json:"typography,omitempty"`
	LogoURLs         []string         `json:"logo_urls,omitempty"`
}

// Usable reports whether the record passed its own generation pipeline.
func (r *BrandForgeRecord) Usable() bool {
	return r != nil && r.GenerationStatus == "complete"
}
