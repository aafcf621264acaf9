package agents

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"siteforge/internal/jsonx"
	"siteforge/internal/llm"
	t "siteforge/internal/types"
)

// neutralBrandScore is used when a single LLM-as-judge call fails; the
// report must never block on a judge outage.
const neutralBrandScore = 75.0

// subCheckPassScore is the partial-credit pass bar for every check except
// platform compatibility, which requires zero violations.
const subCheckPassScore = 70.0

// QualityAgent scores the assembled output across the five weighted
// dimensions. A failing report is informational: it never blocks
// persistence of the blueprint.
type QualityAgent struct {
	Ctx AgentContext
}

func (a *QualityAgent) Validate(ctx context.Context, pages []t.GeneratedPage, design *t.DesignSystem, photos *t.PhotoManifest, brand *t.BrandContext, caps *t.CapabilitySet) *t.QualityReport {
	report := &t.QualityReport{
		Checks:    make(map[string]t.QualityCheck, 5),
		CheckedAt: time.Now(),
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	run := func(name string, fn func() t.QualityCheck) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := fn()
			mu.Lock()
			report.Checks[name] = c
			mu.Unlock()
		}()
	}

	run(t.CheckBrand, func() t.QualityCheck { return a.checkBrand(ctx, pages, brand) })
	run(t.CheckContent, func() t.QualityCheck { return checkContent(pages) })
	run(t.CheckPhoto, func() t.QualityCheck { return checkPhotos(photos) })
	run(t.CheckDesign, func() t.QualityCheck { return checkDesign(design, brand) })
	run(t.CheckPlatform, func() t.QualityCheck { return checkPlatform(pages, caps) })
	wg.Wait()

	var score float64
	for name, c := range report.Checks {
		score += c.Score * t.CheckWeights[name]
		report.Improvements = append(report.Improvements, c.Suggestions...)
	}
	report.Score = score
	report.Passed = score >= t.PassThreshold
	return report
}

// checkBrand scores voice/tone fit per section via LLM-as-judge, plus a
// deterministic forbidden-vocabulary scan independent of the judge.
func (a *QualityAgent) checkBrand(ctx context.Context, pages []t.GeneratedPage, brand *t.BrandContext) t.QualityCheck {
	type scored struct {
		score float64
		issue string
	}
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []scored
	)
	for _, page := range pages {
		for _, sec := range page.Sections {
			wg.Add(1)
			go func(sec t.GeneratedSection) {
				defer wg.Done()
				s, issue := a.judgeSection(ctx, sec, brand)
				mu.Lock()
				results = append(results, scored{s, issue})
				mu.Unlock()
			}(sec)
		}
	}
	wg.Wait()

	check := t.QualityCheck{Score: 100}
	if len(results) > 0 {
		var sum float64
		for _, r := range results {
			sum += r.score
			if r.issue != "" {
				check.Issues = append(check.Issues, r.issue)
			}
		}
		check.Score = sum / float64(len(results))
	}

	// Forbidden vocabulary: fast substring scan, each hit is an issue.
	for _, page := range pages {
		for _, sec := range page.Sections {
			text := strings.ToLower(sec.Content.Headline + " " + sec.Content.Subheadline + " " + sec.Content.Body + " " + sec.Content.CTAText)
			for _, w := range brand.ContentStrategy.AvoidWords {
				if w != "" && strings.Contains(text, strings.ToLower(w)) {
					check.Issues = append(check.Issues,
						fmt.Sprintf("section %s uses forbidden word %q", sec.ID, w))
					check.Suggestions = append(check.Suggestions,
						fmt.Sprintf("rewrite section %s without %q", sec.ID, w))
				}
			}
		}
	}
	check.Passed = check.Score >= subCheckPassScore && len(check.Issues) == 0
	return check
}

func (a *QualityAgent) judgeSection(ctx context.Context, sec t.GeneratedSection, brand *t.BrandContext) (float64, string) {
	input := map[string]any{
		"content": sec.Content,
		"voice": map[string]any{
			"voice":      brand.ContentStrategy.Voice,
			"tone":       brand.ContentStrategy.Tone,
			"vocabulary": brand.ContentStrategy.Vocabulary,
			"audience":   brand.TargetAudience.Primary,
		},
	}
	in, _ := jsonx.MarshalNoEscape(input)
	prompt := `Score 0-100 how well this website section copy matches the brand voice, tone, vocabulary and audience guidance.

Return STRICT JSON ONLY:
{"score":0,"issue":"string or empty"}

[INPUT JSON]
` + string(in)

	raw, err := a.Ctx.Reasoner.Complete(ctx, llm.CompleteRequest{Prompt: prompt, Structured: true})
	if err != nil {
		return neutralBrandScore, ""
	}
	var out struct {
		Score float64 `json:"score"`
		Issue string  `json:"issue"`
	}
	if err := jsonx.Unmarshal([]byte(raw), "brand_judge", &out); err != nil {
		return neutralBrandScore, ""
	}
	issue := out.Issue
	if issue != "" {
		issue = fmt.Sprintf("section %s: %s", sec.ID, issue)
	}
	return out.Score, issue
}

var loremMarkers = []string{"lorem ipsum", "placeholder", "tbd", "coming soon", "[insert"}

// checkContent is fully deterministic: 100 minus 5 per issue, floored at 0.
func checkContent(pages []t.GeneratedPage) t.QualityCheck {
	var issues, suggestions []string
	for _, page := range pages {
		for _, sec := range page.Sections {
			text := strings.ToLower(sec.Content.Headline + " " + sec.Content.Body + " " + sec.Content.Rationale)
			for _, m := range loremMarkers {
				if strings.Contains(text, m) {
					issues = append(issues, fmt.Sprintf("section %s contains placeholder text", sec.ID))
					suggestions = append(suggestions, fmt.Sprintf("regenerate copy for section %s", sec.ID))
					break
				}
			}
			if h := sec.Content.Headline; h != "" {
				if len(h) < 10 {
					issues = append(issues, fmt.Sprintf("section %s headline too short (%d chars)", sec.ID, len(h)))
				} else if len(h) > 100 {
					issues = append(issues, fmt.Sprintf("section %s headline too long (%d chars)", sec.ID, len(h)))
				}
			}
			switch sec.Type {
			case "hero", "cta", "form":
				if sec.Content.CTAText == "" {
					issues = append(issues, fmt.Sprintf("section %s (%s) missing call to action", sec.ID, sec.Type))
					suggestions = append(suggestions, fmt.Sprintf("add a call to action to section %s", sec.ID))
				}
			}
		}
	}
	score := 100 - 5*float64(len(issues))
	if score < 0 {
		score = 0
	}
	return t.QualityCheck{
		Score:       score,
		Passed:      score >= subCheckPassScore,
		Issues:      issues,
		Suggestions: suggestions,
	}
}

// lifestyleTarget is the reference ratio; 40% is the floor before an issue
// is recorded.
const (
	lifestyleFloor  = 0.4
	lifestyleTarget = 0.6
)

func checkPhotos(photos *t.PhotoManifest) t.QualityCheck {
	var issues, suggestions []string
	if photos == nil || len(photos.Photos) == 0 {
		return t.QualityCheck{
			Score:  0,
			Issues: []string{"no photos in manifest"},
		}
	}

	heroOK := false
	var qualitySum float64
	lifestyle := 0
	for _, p := range photos.Photos {
		qualitySum += p.Quality
		if p.Category == "hero" && p.Quality >= 7 {
			heroOK = true
		}
		if p.Category == "lifestyle" {
			lifestyle++
		}
	}
	if !heroOK {
		issues = append(issues, "no hero photo with quality >= 7")
		suggestions = append(suggestions, "generate or upload a stronger hero image")
	}
	ratio := float64(lifestyle) / float64(len(photos.Photos))
	if ratio < lifestyleFloor {
		issues = append(issues, fmt.Sprintf("lifestyle photo ratio %.0f%% below 40%%", ratio*100))
		suggestions = append(suggestions, "add lifestyle imagery (target 60%+)")
	}
	for _, gap := range photos.Gaps {
		issues = append(issues, fmt.Sprintf("section %s has an unmet photo requirement", gap))
	}

	avgScore := qualitySum / float64(len(photos.Photos)) * 10
	ratioScore := ratio / lifestyleTarget * 100
	if ratioScore > 100 {
		ratioScore = 100
	}
	score := avgScore*0.6 + ratioScore*0.4
	return t.QualityCheck{
		Score:       score,
		Passed:      score >= subCheckPassScore,
		Issues:      issues,
		Suggestions: suggestions,
	}
}

// checkDesign: 100 minus 10 per coherence violation.
func checkDesign(design *t.DesignSystem, brand *t.BrandContext) t.QualityCheck {
	var issues []string
	if design == nil {
		return t.QualityCheck{Score: 0, Issues: []string{"no design system"}}
	}
	premium := strings.EqualFold(brand.Positioning.PricePosition, "premium") ||
		strings.Contains(strings.ToLower(brand.Personality.Primary), "luxur") ||
		strings.Contains(strings.ToLower(brand.Positioning.Statement), "luxur")
	if premium && design.Spacing.Scale != "luxury" {
		issues = append(issues, fmt.Sprintf("premium positioning but spacing scale %q", design.Spacing.Scale))
	}
	if design.Colors.Strategy == t.StrategyBrandForge && (brand.ExactValues == nil || len(brand.ExactValues.Colors) == 0) {
		issues = append(issues, "brandforge color strategy without authoritative colors")
	}
	if design.Typography.Strategy == t.StrategyBrandForge && (brand.ExactValues == nil || len(brand.ExactValues.Typography) == 0) {
		issues = append(issues, "brandforge typography strategy without authoritative fonts")
	}
	score := 100 - 10*float64(len(issues))
	if score < 0 {
		score = 0
	}
	return t.QualityCheck{Score: score, Passed: score >= subCheckPassScore, Issues: issues}
}

// checkPlatform is the only check without partial credit: any unknown
// block reference fails it outright. 100 minus 20 per violation.
func checkPlatform(pages []t.GeneratedPage, caps *t.CapabilitySet) t.QualityCheck {
	var issues []string
	for _, page := range pages {
		for _, sec := range page.Sections {
			if !caps.HasBlock(sec.Block) {
				issues = append(issues, fmt.Sprintf("section %s references unknown block %q", sec.ID, sec.Block))
			}
		}
	}
	score := 100 - 20*float64(len(issues))
	if score < 0 {
		score = 0
	}
	return t.QualityCheck{Score: score, Passed: len(issues) == 0, Issues: issues}
}
