package main

import (
	"context"
	"log"
	"net/http"

	"siteforge/internal/assets"
	"siteforge/internal/capability"
	"siteforge/internal/config"
	"siteforge/internal/knowledge"
	"siteforge/internal/llm"
	"siteforge/internal/orchestrator"
	"siteforge/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	ctx := context.Background()

	gemini, err := llm.NewGeminiClient(ctx, cfg.Model)
	if err != nil {
		log.Fatalf("llm: %v", err)
	}
	defer gemini.Close()

	var uploader assets.Uploader
	if cfg.Artifact.Enabled {
		s3, err := assets.NewS3Store(assets.S3Config{
			Endpoint:  cfg.Artifact.Endpoint,
			Region:    cfg.Artifact.Region,
			AccessKey: cfg.Artifact.AccessKey,
			SecretKey: cfg.Artifact.SecretKey,
			Bucket:    cfg.Artifact.Bucket,
			UseSSL:    cfg.Artifact.UseSSL,
			PublicURL: cfg.Artifact.PublicURL,
		})
		if err != nil {
			log.Fatalf("assets: %v", err)
		}
		uploader = s3
	} else {
		log.Printf("assets: no S3 endpoint configured, generated photos will not be uploaded")
		uploader = &assets.LocalStub{}
	}

	var (
		properties store.PropertyStore
		blueprints store.BlueprintStore
		searcher   knowledge.Searcher
	)
	if cfg.DatabaseDSN != "" {
		pg, err := store.NewPGPropertyStore(cfg.DatabaseDSN)
		if err != nil {
			log.Fatalf("property store: %v", err)
		}
		defer pg.Close()
		bps, err := store.NewPGBlueprintStore(cfg.DatabaseDSN)
		if err != nil {
			log.Fatalf("blueprint store: %v", err)
		}
		defer bps.Close()
		properties = pg
		blueprints = bps
		searcher = knowledge.NewPGSearcher(pg.DB())
	} else {
		log.Printf("store: DATABASE_DSN not set, using in-memory stores")
		properties = store.NewMemoryPropertyStore()
		blueprints = store.NewMemoryBlueprintStore()
		searcher = emptySearcher{}
	}

	caps, err := capability.NewClient(cfg.CapabilityBaseURL)
	if err != nil {
		log.Fatalf("capability: %v", err)
	}

	progress := store.NewMemoryProgress()
	srv := newServer(serverDeps{
		orch: &orchestrator.Orchestrator{
			Agents:       newAgentContext(gemini, properties, uploader, searcher),
			Capabilities: caps,
			Progress:     progress,
			Blueprints:   blueprints,
		},
		reasoner:   gemini,
		progress:   progress,
		blueprints: blueprints,
	})

	log.Printf("siteforge api listening on %s (env=%s model=%s)", cfg.Port, cfg.Env, cfg.Model)
	if err := http.ListenAndServe(cfg.Port, srv.routes()); err != nil {
		log.Fatalf("server: %v", err)
	}
}
