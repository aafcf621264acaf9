package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	t "siteforge/internal/types"
)

// BlueprintStore persists the final SiteBlueprint keyed by generation-run id.
type BlueprintStore interface {
	Put(ctx context.Context, runID string, bp *t.SiteBlueprint) error
	Get(ctx context.Context, runID string) (*t.SiteBlueprint, error)
}

// PGBlueprintStore persists blueprints as jsonb with an LRU read cache.
type PGBlueprintStore struct {
	db    *sql.DB
	cache *lru.Cache[string, *t.SiteBlueprint]

	schemaOnce sync.Once
	schemaErr  error
}

func NewPGBlueprintStore(dsn string) (*PGBlueprintStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	cache, err := lru.New[string, *t.SiteBlueprint](256)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PGBlueprintStore{db: db, cache: cache}, nil
}

func (s *PGBlueprintStore) ensureSchema(ctx context.Context) error {
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS site_blueprints (
				run_id      TEXT PRIMARY KEY,
				property_id TEXT NOT NULL,
				version     INT  NOT NULL,
				payload     JSONB NOT NULL,
				updated_at  TIMESTAMPTZ NOT NULL
			)`)
	})
	return s.schemaErr
}

func (s *PGBlueprintStore) Put(ctx context.Context, runID string, bp *t.SiteBlueprint) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	payload, err := json.Marshal(bp)
	if err != nil {
		return fmt.Errorf("encode blueprint %s: %w", runID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO site_blueprints (run_id, property_id, version, payload, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (run_id) DO UPDATE
		SET property_id = EXCLUDED.property_id,
		    version     = EXCLUDED.version,
		    payload     = EXCLUDED.payload,
		    updated_at  = EXCLUDED.updated_at`,
		runID, bp.PropertyID, bp.Version, payload, bp.UpdatedAt)
	if err != nil {
		return err
	}
	s.cache.Add(runID, bp)
	return nil
}

func (s *PGBlueprintStore) Get(ctx context.Context, runID string) (*t.SiteBlueprint, error) {
	if bp, ok := s.cache.Get(runID); ok {
		return bp, nil
	}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM site_blueprints WHERE run_id = $1`, runID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("blueprint %s: %w", runID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var bp t.SiteBlueprint
	if err := json.Unmarshal(payload, &bp); err != nil {
		return nil, fmt.Errorf("blueprint %s: decode: %w", runID, err)
	}
	s.cache.Add(runID, &bp)
	return &bp, nil
}

func (s *PGBlueprintStore) Close() error { return s.db.Close() }

// MemoryBlueprintStore is the in-process fallback when no DSN is configured.
type MemoryBlueprintStore struct {
	mu   sync.RWMutex
	byID map[string]*t.SiteBlueprint
}

func NewMemoryBlueprintStore() *MemoryBlueprintStore {
	return &MemoryBlueprintStore{byID: make(map[string]*t.SiteBlueprint)}
}

func (s *MemoryBlueprintStore) Put(ctx context.Context, runID string, bp *t.SiteBlueprint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[runID] = bp
	return nil
}

func (s *MemoryBlueprintStore) Get(ctx context.Context, runID string) (*t.SiteBlueprint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bp, ok := s.byID[runID]
	if !ok {
		return nil, fmt.Errorf("blueprint %s: %w", runID, ErrNotFound)
	}
	return bp, nil
}
