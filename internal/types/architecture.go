package types

type Navigation struct {
	Structure string   `json:"structure"`
	Items     []string `json:"items"`
	Rationale string   `json:"rationale"`
}

type ConversionStrategy struct {
	PrimaryCTA string   `json:"primary_cta"`
	Placements []string `json:"placements"`
	Rationale  string   `json:"rationale"`
}

type CapabilityGap struct {
	Need       string `json:"need"`
	Workaround string `json:"workaround"`
	PluginHint string `json:"plugin_hint,omitempty"`
}

// PhotoRequirement declares imagery a section needs. Category links the
// requirement to classified/generated photos; priority orders fulfilment.
type PhotoRequirement struct {
	Category string `json:"category"`
	Scene    string `json:"scene"`
	Priority int    `json:"priority"`
}

// Section is the smallest structural unit of a page. Block must name an
// entry of the capability set discovered for the run; anything else is a
// hard validation failure.
type Section struct {
	ID           string            `json:"id"`
	Type         string            `json:"type"`
	Purpose      string            `json:"purpose"`
	Block        string            `json:"block"`
	Variant      string            `json:"variant,omitempty"`
	Fields       map[string]any    `json:"fields,omitempty"`
	StyleClasses []string          `json:"style_classes,omitempty"`
	PhotoReq     *PhotoRequirement `json:"photo_requirement,omitempty"`
	Rationale    string            `json:"rationale"`
	Order        int               `json:"order"`
}

type Page struct {
	Slug     string    `json:"slug"`
	Title    string    `json:"title"`
	Purpose  string    `json:"purpose"`
	Priority string    `json:"priority"`
	Sections []Section `json:"sections"`
}

// ArchitectureProposal is the planned site shape.
type ArchitectureProposal struct {
	Navigation Navigation         `json:"navigation"`
	Pages      []Page             `json:"pages"`
	Conversion ConversionStrategy `json:"conversion_strategy"`
	Gaps       []CapabilityGap    `json:"capability_gaps,omitempty"`
}

// SectionByID finds a section across all pages.
func (a *ArchitectureProposal) SectionByID(id string) *Section {
	for pi := range a.Pages {
		for si := range a.Pages[pi].Sections {
			if a.Pages[pi].Sections[si].ID == id {
				return &a.Pages[pi].Sections[si]
			}
		}
	}
	return nil
}
