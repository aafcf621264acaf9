package types

type SectionContent struct {
	Headline    string           `json:"headline,omitempty"`
	Subheadline string           `json:"subheadline,omitempty"`
	Body        string           `json:"body,omitempty"`
	CTAText     string           `json:"cta_text,omitempty"`
	CTALink     string           `json:"cta_link,omitempty"`
	Items       []map[string]any `json:"items,omitempty"`
	Rationale   string           `json:"rationale,omitempty"`
}

// Empty reports whether the content carries nothing renderable.
func (c SectionContent) Empty() bool {
	return c.Headline == "" && c.Body == "" && len(c.Items) == 0
}

// GeneratedSection is an architecture Section enriched with copy.
type GeneratedSection struct {
	Section
	Content SectionContent `json:"content"`
}

type GeneratedPage struct {
	Slug     string             `json:"slug"`
	Title    string             `json:"title"`
	Purpose  string             `json:"purpose"`
	Priority string             `json:"priority"`
	Sections []GeneratedSection `json:"sections"`
}
