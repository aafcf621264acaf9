package types

import "time"

// Quality check weights. Keys match QualityReport.Checks.
const (
	CheckBrand    = "brand_consistency"
	CheckContent  = "content_quality"
	CheckPhoto    = "photo_quality"
	CheckDesign   = "design_coherence"
	CheckPlatform = "platform_compatibility"
)

// CheckWeights is the fixed weighting of the five sub-checks.
var CheckWeights = map[string]float64{
	CheckBrand:    0.30,
	CheckContent:  0.25,
	CheckPhoto:    0.20,
	CheckDesign:   0.15,
	CheckPlatform: 0.10,
}

// PassThreshold is the aggregate score required for an overall pass.
const PassThreshold = 80.0

type QualityCheck struct {
	Score       float64  `json:"score"`
	Passed      bool     `json:"passed"`
	Issues      []string `json:"issues,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

type QualityReport struct {
	Score        float64                 `json:"score"`
	Passed       bool                    `json:"passed"`
	Checks       map[string]QualityCheck `json:"checks"`
	Improvements []string                `json:"improvements,omitempty"`
	CheckedAt    time.Time               `json:"checked_at"`
}
