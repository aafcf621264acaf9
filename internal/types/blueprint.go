package types

import "time"

type AgentAction struct {
	Agent     string    `json:"agent"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// SiteBlueprint is the persisted, versioned output of one generation run.
type SiteBlueprint struct {
	Version      int                  `json:"version"`
	PropertyID   string               `json:"property_id"`
	UpdatedAt    time.Time            `json:"updated_at"`
	Brand        BrandContext         `json:"brand"`
	Architecture ArchitectureProposal `json:"architecture"`
	Design       DesignSystem         `json:"design"`
	Photos       PhotoManifest        `json:"photos"`
	Pages        []GeneratedPage      `json:"pages"`
	Quality      QualityReport        `json:"quality"`
	Duration     time.Duration        `json:"duration"`
	ActionLog    []AgentAction        `json:"action_log"`
}

// Patch operation kinds.
const (
	OpUpdateSection = "update_section"
	OpAddSection    = "add_section"
	OpRemoveSection = "remove_section"
	OpMoveSection   = "move_section"
)

// PatchOperation is one atomic edit against a blueprint's section list.
// Kind selects which of the remaining fields are meaningful.
type PatchOperation struct {
	Kind string `json:"kind"`

	// update_section / remove_section / move_section
	SectionID string `json:"section_id,omitempty"`

	// update_section: only non-nil fields are applied.
	Content   *SectionContent `json:"content,omitempty"`
	Variant   *string         `json:"variant,omitempty"`
	Classes   []string        `json:"classes,omitempty"`
	Rationale *string         `json:"rationale,omitempty"`

	// add_section
	PageSlug       string            `json:"page_slug,omitempty"`
	AfterSectionID string            `json:"after_section_id,omitempty"`
	NewSection     *GeneratedSection `json:"new_section,omitempty"`

	// move_section
	TargetOrder int `json:"target_order,omitempty"`
}
