package agents

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"siteforge/internal/jsonx"
	t "siteforge/internal/types"
)

// Reuse thresholds, 0-10 scale. Both must hold for an uploaded photo to be
// reused instead of generating a fresh one.
const (
	reuseMinQuality   = 7.0
	reuseMinAlignment = 7.0
)

// neutral classification when a single vision call fails; the batch
// continues.
var neutralClassification = t.PhotoClassification{
	Category:       "general",
	Quality:        5,
	BrandAlignment: 5,
	Mood:           "unknown",
	Scene:          "unclassified",
}

var photoQueries = []string{
	"amenities residents photograph and talk about",
	"lifestyle moments that define the community",
	"visual differentiators versus nearby properties",
}

// placeholderURL stands in for a declined or failed generation so the run
// keeps moving; the quality stage surfaces it.
func placeholderURL(category string) string {
	return "placeholder://generation-failed/" + category
}

// PhotoAgent classifies existing imagery, plans what is missing, generates
// it, and assigns photos to sections.
type PhotoAgent struct {
	Ctx AgentContext

	// Pacing between generation calls; tests shorten it.
	Pacing time.Duration
}

func (a *PhotoAgent) pacing() time.Duration {
	if a.Pacing > 0 {
		return a.Pacing
	}
	return imageGenPacing
}

// PlanStrategy classifies uploads and resolves every declared photo
// requirement into a reuse or generate decision.
func (a *PhotoAgent) PlanStrategy(ctx context.Context, brand *t.BrandContext, arch *t.ArchitectureProposal, uploads []t.UploadedPhoto) (*t.PhotoStrategy, error) {
	classified := a.classifyAll(ctx, brand, uploads)

	insight := a.Ctx.Knowledge.SearchAll(ctx, a.Ctx.PropertyID, photoQueries)
	var notes []string
	for _, ps := range insight {
		for _, p := range ps {
			notes = append(notes, p.Content)
		}
	}

	strategy := &t.PhotoStrategy{Classified: classified, Notes: notes}
	for _, page := range arch.Pages {
		for _, sec := range page.Sections {
			if sec.PhotoReq == nil {
				continue
			}
			item := a.resolveRequirement(brand, sec, classified)
			strategy.Plan = append(strategy.Plan, item)
		}
	}
	return strategy, nil
}

func (a *PhotoAgent) classifyAll(ctx context.Context, brand *t.BrandContext, uploads []t.UploadedPhoto) []t.PhotoClassification {
	out := make([]t.PhotoClassification, len(uploads))
	var wg sync.WaitGroup
	for i, up := range uploads {
		wg.Add(1)
		go func(i int, up t.UploadedPhoto) {
			defer wg.Done()
			c, err := a.classifyOne(ctx, brand, up)
			if err != nil {
				log.Printf("photo: classification of %s degraded to neutral: %v", up.ID, err)
				c = neutralClassification
			}
			c.PhotoID = up.ID
			out[i] = c
		}(i, up)
	}
	wg.Wait()
	return out
}

func (a *PhotoAgent) classifyOne(ctx context.Context, brand *t.BrandContext, up t.UploadedPhoto) (t.PhotoClassification, error) {
	prompt := `Classify this property photo.

Brand visual guidance: mood ` + fmt.Sprintf("%v", brand.VisualIdentity.MoodKeywords) + `, photo style lighting "` + brand.VisualIdentity.PhotoStyle.Lighting + `", subjects "` + brand.VisualIdentity.PhotoStyle.Subjects + `".

Return STRICT JSON ONLY:
{"category":"hero|exterior|interior|amenity|lifestyle|neighborhood|general",
 "quality":0,"brand_alignment":0,"mood":"string","scene":"string","has_people":false}

quality and brand_alignment are 0-10.`
	raw, err := a.Ctx.Vision.CompleteVision(ctx, prompt, up.URL)
	if err != nil {
		return t.PhotoClassification{}, err
	}
	var c t.PhotoClassification
	if err := jsonx.Unmarshal([]byte(raw), "photo_classification", &c); err != nil {
		return t.PhotoClassification{}, err
	}
	return c, nil
}

// resolveRequirement picks the best reusable upload for a requirement, or
// plans a generation with a fully specified prompt.
func (a *PhotoAgent) resolveRequirement(brand *t.BrandContext, sec t.Section, classified []t.PhotoClassification) t.PhotoPlanItem {
	req := sec.PhotoReq
	var best *t.PhotoClassification
	for i := range classified {
		c := &classified[i]
		if c.Category != req.Category {
			continue
		}
		if c.Quality < reuseMinQuality || c.BrandAlignment < reuseMinAlignment {
			continue
		}
		if best == nil || c.Quality > best.Quality {
			best = c
		}
	}
	if best != nil {
		return t.PhotoPlanItem{
			SectionID:    sec.ID,
			Category:     req.Category,
			Action:       "reuse",
			ReusePhotoID: best.PhotoID,
		}
	}
	ps := brand.VisualIdentity.PhotoStyle
	prompt := fmt.Sprintf(
		"%s. %s lighting, %s composition, featuring %s. Mood: %s. Audience: %s. Photorealistic property marketing photograph, no text or watermarks.",
		req.Scene, ps.Lighting, ps.Composition, ps.Subjects, ps.Mood, brand.TargetAudience.Demographics)
	aspect := "16:9"
	if req.Category != "hero" {
		aspect = "4:3"
	}
	return t.PhotoPlanItem{
		SectionID:      sec.ID,
		Category:       req.Category,
		Action:         "generate",
		Prompt:         prompt,
		AspectRatio:    aspect,
		NegativePrompt: "text, watermark, distorted architecture, deformed people",
	}
}

// Execute runs the plan: generates missing imagery with fixed pacing,
// injects brand logos, and assigns photos to sections. Generation failures
// degrade to labeled placeholders, never abort the run.
func (a *PhotoAgent) Execute(ctx context.Context, strategy *t.PhotoStrategy, arch *t.ArchitectureProposal, brand *t.BrandContext, uploads []t.UploadedPhoto) (*t.PhotoManifest, error) {
	manifest := &t.PhotoManifest{
		ByCategory:  make(map[string][]string),
		Assignments: make(map[string]string),
	}

	uploadURLs := make(map[string]string, len(uploads))
	for _, up := range uploads {
		uploadURLs[up.ID] = up.URL
	}

	// Uploaded photos enter the manifest with their classification scores.
	for _, c := range strategy.Classified {
		manifest.Photos = append(manifest.Photos, t.Photo{
			ID:       c.PhotoID,
			URL:      uploadURLs[c.PhotoID],
			Origin:   t.OriginUploaded,
			Category: c.Category,
			Quality:  c.Quality,
			Scene:    c.Scene,
		})
	}

	// Brand logos bypass generation entirely.
	if brand.ExactValues != nil {
		for i, u := range brand.ExactValues.LogoURLs {
			manifest.Photos = append(manifest.Photos, t.Photo{
				ID:       fmt.Sprintf("logo-%d", i+1),
				URL:      u,
				Origin:   t.OriginBrandForge,
				Category: "logo",
				Quality:  10,
			})
		}
	}

	first := true
	for _, item := range strategy.Plan {
		if item.Action != "generate" {
			continue
		}
		if !first {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(a.pacing()):
			}
		}
		first = false
		manifest.Photos = append(manifest.Photos, a.generateOne(ctx, item))
	}

	for i := range manifest.Photos {
		p := manifest.Photos[i]
		manifest.ByCategory[p.Category] = append(manifest.ByCategory[p.Category], p.ID)
		switch p.Origin {
		case t.OriginUploaded:
			manifest.Stats.Uploaded++
		case t.OriginGenerated:
			manifest.Stats.Generated++
		case t.OriginBrandForge:
			manifest.Stats.BrandForge++
		}
	}

	assignPhotos(manifest, arch)
	return manifest, nil
}

func (a *PhotoAgent) generateOne(ctx context.Context, item t.PhotoPlanItem) t.Photo {
	id := uuid.NewString()
	photo := t.Photo{
		ID:       id,
		Origin:   t.OriginGenerated,
		Category: item.Category,
		Quality:  7,
		Prompt:   item.Prompt,
	}
	data, err := a.Ctx.ImageGen.GenerateImage(ctx, item.Prompt, item.AspectRatio, item.NegativePrompt)
	if err != nil || data == nil {
		if err != nil {
			log.Printf("photo: generation failed for section %s, using placeholder: %v", item.SectionID, err)
		} else {
			log.Printf("photo: generation declined for section %s, using placeholder", item.SectionID)
		}
		photo.URL = placeholderURL(item.Category)
		photo.Quality = 3
		return photo
	}
	url, err := a.Ctx.Assets.UploadImage(ctx, "generated/"+id+".png", data)
	if err != nil {
		log.Printf("photo: upload failed for section %s, using placeholder: %v", item.SectionID, err)
		photo.URL = placeholderURL(item.Category)
		photo.Quality = 3
		return photo
	}
	photo.URL = url
	return photo
}

// assignPhotos gives every requirement-bearing section the highest-quality
// photo of its category. No match is a recorded gap, not a silent omission.
func assignPhotos(manifest *t.PhotoManifest, arch *t.ArchitectureProposal) {
	for _, page := range arch.Pages {
		for _, sec := range page.Sections {
			if sec.PhotoReq == nil {
				continue
			}
			candidates := make([]t.Photo, 0, 4)
			for _, p := range manifest.Photos {
				if p.Category == sec.PhotoReq.Category {
					candidates = append(candidates, p)
				}
			}
			if len(candidates) == 0 {
				manifest.Gaps = append(manifest.Gaps, sec.ID)
				continue
			}
			sort.Slice(candidates, func(i, j int) bool { return candidates[i].Quality > candidates[j].Quality })
			manifest.Assignments[sec.ID] = candidates[0].ID
		}
	}
}
