package types

// Photo origin tags.
const (
	OriginUploaded   = "uploaded"
	OriginGenerated  = "generated"
	OriginBrandForge = "brandforge"
)

type Photo struct {
	ID       string  `json:"id"`
	URL      string  `json:"url"`
	Origin   string  `json:"origin"`
	Category string  `json:"category"`
	Quality  float64 `json:"quality"`
	Scene    string  `json:"scene,omitempty"`
	Prompt   string  `json:"prompt,omitempty"`
}

// PhotoClassification is the vision-call verdict on one uploaded image.
// Quality and BrandAlignment are 0-10.
type PhotoClassification struct {
	PhotoID        string  `json:"photo_id"`
	Category       string  `json:"category"`
	Quality        float64 `json:"quality"`
	BrandAlignment float64 `json:"brand_alignment"`
	Mood           string  `json:"mood"`
	Scene          string  `json:"scene"`
	HasPeople      bool    `json:"has_people"`
}

// PhotoPlanItem resolves one declared requirement: either reuse an existing
// photo or generate a new one from Prompt.
type PhotoPlanItem struct {
	SectionID      string `json:"section_id"`
	Category       string `json:"category"`
	Action         string `json:"action"` // "reuse" | "generate"
	ReusePhotoID   string `json:"reuse_photo_id,omitempty"`
	Prompt         string `json:"prompt,omitempty"`
	AspectRatio    string `json:"aspect_ratio,omitempty"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
}

type PhotoStrategy struct {
	Classified []PhotoClassification `json:"classified"`
	Plan       []PhotoPlanItem       `json:"plan"`
	Notes      []string              `json:"notes,omitempty"`
}

type PhotoStats struct {
	Uploaded   int `json:"uploaded"`
	Generated  int `json:"generated"`
	BrandForge int `json:"brandforge"`
}

// PhotoManifest is the imagery ledger for a run. Assignments map section IDs
// to photo IDs; a requirement with no matching photo stays unassigned and is
// recorded in Gaps rather than silently dropped.
type PhotoManifest struct {
	Photos      []Photo             `json:"photos"`
	ByCategory  map[string][]string `json:"by_category"`
	Assignments map[string]string   `json:"assignments"`
	Gaps        []string            `json:"gaps,omitempty"`
	Stats       PhotoStats          `json:"stats"`
}

// PhotoByID returns the photo with the given id, if present.
func (m *PhotoManifest) PhotoByID(id string) *Photo {
	for i := range m.Photos {
		if m.Photos[i].ID == id {
			return &m.Photos[i]
		}
	}
	return nil
}
