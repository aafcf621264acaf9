// Package orchestrator sequences the generation stages, persists progress
// after every transition, and assembles the final versioned blueprint.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"time"

	"siteforge/internal/agents"
	"siteforge/internal/capability"
	"siteforge/internal/store"
	t "siteforge/internal/types"
)

// Run statuses, in stage order. Failed is terminal and reachable from any
// stage.
const (
	StatusQueued         = "queued"
	StatusBrand          = "analyzing_brand"
	StatusArchitecture   = "planning_architecture"
	StatusDesign         = "creating_design"
	StatusPhotoPlanning  = "planning_photos"
	StatusContent        = "generating_content"
	StatusPhotoExecution = "executing_photos"
	StatusQuality        = "validating_quality"
	StatusReady          = "ready_for_preview"
	StatusFailed         = "failed"
)

var stageProgress = map[string]int{
	StatusQueued:         0,
	StatusBrand:          10,
	StatusArchitecture:   25,
	StatusDesign:         40,
	StatusPhotoPlanning:  55,
	StatusContent:        70,
	StatusPhotoExecution: 85,
	StatusQuality:        95,
	StatusReady:          100,
}

// Request starts one generation run. Brand, when supplied and reusable
// (provenance and primary personality both present), skips the brand stage
// entirely; the validity check is strict so a malformed reused context
// never slips through.
type Request struct {
	RunID      string
	PropertyID string
	InstanceID string
	Brand      *t.BrandContext
	UserPrefs  map[string]any
}

type Orchestrator struct {
	Agents       agents.AgentContext
	Capabilities capability.Discoverer
	Progress     store.ProgressSink
	Blueprints   store.BlueprintStore

	// PhotoPacing overrides the inter-generation delay; zero keeps the
	// default.
	PhotoPacing time.Duration
}

// Generate runs the full pipeline. The blueprint is owned exclusively by
// the orchestrator until persisted. Any stage error transitions the run to
// failed, records the message as the current step, and is re-raised.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (*t.SiteBlueprint, error) {
	started := time.Now()
	var actions []t.AgentAction
	record := func(agent, action string) {
		actions = append(actions, t.AgentAction{Agent: agent, Action: action, Timestamp: time.Now()})
	}
	fail := func(stage string, err error) (*t.SiteBlueprint, error) {
		wrapped := fmt.Errorf("%s: %w", stage, err)
		o.update(ctx, req.RunID, StatusFailed, stageProgress[stage], wrapped.Error())
		return nil, wrapped
	}

	// Per-run copy: AgentContext is a value, so concurrent runs never
	// share the property id.
	actx := o.Agents
	actx.PropertyID = req.PropertyID
	o.update(ctx, req.RunID, StatusQueued, 0, "Queued")

	caps, err := o.Capabilities.Discover(ctx, req.InstanceID)
	if err != nil {
		return fail(StatusQueued, err)
	}

	// Brand.
	o.update(ctx, req.RunID, StatusBrand, stageProgress[StatusBrand], "Analyzing brand identity")
	brand := req.Brand
	if brand.Reusable() {
		log.Printf("orchestrator: run %s reusing supplied brand context (%s)", req.RunID, brand.Provenance)
		record("brand", "reused supplied context")
	} else {
		brandAgent := &agents.BrandAgent{Ctx: actx}
		brand, err = brandAgent.Synthesize(ctx)
		if err != nil {
			return fail(StatusBrand, err)
		}
		record("brand", "synthesized "+brand.Provenance)
	}

	// Architecture and design are mutually independent: both read only
	// BrandContext. Run them as a concurrent pair.
	o.update(ctx, req.RunID, StatusArchitecture, stageProgress[StatusArchitecture], "Planning site architecture")
	type archResult struct {
		proposal *t.ArchitectureProposal
		err      error
	}
	type designResult struct {
		system *t.DesignSystem
		err    error
	}
	archCh := make(chan archResult, 1)
	designCh := make(chan designResult, 1)
	go func() {
		a := &agents.ArchitectureAgent{Ctx: actx}
		p, err := a.Plan(ctx, brand, caps, req.UserPrefs)
		archCh <- archResult{p, err}
	}()
	go func() {
		d := &agents.DesignAgent{Ctx: actx}
		s, err := d.Create(ctx, brand, caps)
		designCh <- designResult{s, err}
	}()
	ar := <-archCh
	if ar.err != nil {
		return fail(StatusArchitecture, ar.err)
	}
	record("architecture", "planned pages and navigation")
	o.update(ctx, req.RunID, StatusDesign, stageProgress[StatusDesign], "Creating design system")
	dr := <-designCh
	if dr.err != nil {
		return fail(StatusDesign, dr.err)
	}
	record("design", "created design tokens")
	arch, design := ar.proposal, dr.system

	facts, err := actx.Properties.Facts(ctx, req.PropertyID)
	if err != nil {
		return fail(StatusPhotoPlanning, err)
	}

	// Photo strategy.
	o.update(ctx, req.RunID, StatusPhotoPlanning, stageProgress[StatusPhotoPlanning], "Planning photo strategy")
	photoAgent := &agents.PhotoAgent{Ctx: actx, Pacing: o.PhotoPacing}
	strategy, err := photoAgent.PlanStrategy(ctx, brand, arch, facts.UploadedPhotos)
	if err != nil {
		return fail(StatusPhotoPlanning, err)
	}
	record("photo", "planned imagery")

	// Content.
	o.update(ctx, req.RunID, StatusContent, stageProgress[StatusContent], "Generating content")
	contentAgent := &agents.ContentAgent{Ctx: actx}
	pages, err := contentAgent.GenerateAll(ctx, arch, brand)
	if err != nil {
		return fail(StatusContent, err)
	}
	record("content", "generated section copy")

	// Photo execution.
	o.update(ctx, req.RunID, StatusPhotoExecution, stageProgress[StatusPhotoExecution], "Generating photos")
	manifest, err := photoAgent.Execute(ctx, strategy, arch, brand, facts.UploadedPhotos)
	if err != nil {
		return fail(StatusPhotoExecution, err)
	}
	record("photo", "executed photo plan")

	// Quality. A failing report does not block persistence: "could not
	// produce a blueprint" is fatal, "doesn't meet the bar" is visible.
	o.update(ctx, req.RunID, StatusQuality, stageProgress[StatusQuality], "Validating quality")
	qualityAgent := &agents.QualityAgent{Ctx: actx}
	report := qualityAgent.Validate(ctx, pages, design, manifest, brand, caps)
	record("quality", fmt.Sprintf("scored %.1f (passed=%v)", report.Score, report.Passed))

	bp := &t.SiteBlueprint{
		Version:      1,
		PropertyID:   req.PropertyID,
		UpdatedAt:    time.Now(),
		Brand:        *brand,
		Architecture: *arch,
		Design:       *design,
		Photos:       *manifest,
		Pages:        pages,
		Quality:      *report,
		Duration:     time.Since(started),
		ActionLog:    actions,
	}
	if err := o.Blueprints.Put(ctx, req.RunID, bp); err != nil {
		return fail(StatusQuality, err)
	}

	step := "Ready for preview"
	if !report.Passed {
		step = fmt.Sprintf("Ready for preview (quality %.0f, needs review)", report.Score)
	}
	o.update(ctx, req.RunID, StatusReady, 100, step)
	return bp, nil
}

func (o *Orchestrator) update(ctx context.Context, runID, status string, progress int, step string) {
	err := o.Progress.Update(ctx, runID, store.Progress{
		Status:      status,
		Progress:    progress,
		CurrentStep: step,
		Timestamp:   time.Now(),
	})
	if err != nil {
		log.Printf("orchestrator: progress update for %s failed: %v", runID, err)
	}
}
