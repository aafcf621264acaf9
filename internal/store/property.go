package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"

	t "siteforge/internal/types"
)

var ErrNotFound = errors.New("store: not found")

// PropertyStore is the read-only source of property facts and, optionally,
// an authoritative BrandForge record.
type PropertyStore interface {
	// Facts returns the basic facts every run requires. Failure is fatal
	// to the caller.
	Facts(ctx context.Context, propertyID string) (*t.PropertyFacts, error)

	// BrandRecord returns the authoritative brand record, or (nil, nil)
	// when none exists or its generation never completed.
	BrandRecord(ctx context.Context, propertyID string) (*t.BrandForgeRecord, error)
}

// PGPropertyStore reads from Postgres. Facts and brand records are stored
// as jsonb payloads keyed by property id.
type PGPropertyStore struct {
	db *sql.DB
}

func NewPGPropertyStore(dsn string) (*PGPropertyStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PGPropertyStore{db: db}, nil
}

func (s *PGPropertyStore) Facts(ctx context.Context, propertyID string) (*t.PropertyFacts, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM properties WHERE id = $1`, propertyID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("property %s: %w", propertyID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var facts t.PropertyFacts
	if err := json.Unmarshal(payload, &facts); err != nil {
		return nil, fmt.Errorf("property %s: decode: %w", propertyID, err)
	}
	if facts.ID == "" {
		facts.ID = propertyID
	}
	return &facts, nil
}

func (s *PGPropertyStore) BrandRecord(ctx context.Context, propertyID string) (*t.BrandForgeRecord, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM brandforge_records WHERE property_id = $1`, propertyID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec t.BrandForgeRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("brand record %s: decode: %w", propertyID, err)
	}
	if !rec.Usable() {
		// Incomplete generation runs are treated as absent.
		return nil, nil
	}
	return &rec, nil
}

func (s *PGPropertyStore) Close() error { return s.db.Close() }

// DB exposes the underlying handle so sibling stores (knowledge search)
// can share the connection pool.
func (s *PGPropertyStore) DB() *sql.DB { return s.db }

// MemoryPropertyStore keeps everything in maps; used by tests and local runs.
type MemoryPropertyStore struct {
	mu      sync.RWMutex
	facts   map[string]*t.PropertyFacts
	records map[string]*t.BrandForgeRecord

	FactsErr  error
	RecordErr error
}

func NewMemoryPropertyStore() *MemoryPropertyStore {
	return &MemoryPropertyStore{
		facts:   make(map[string]*t.PropertyFacts),
		records: make(map[string]*t.BrandForgeRecord),
	}
}

func (s *MemoryPropertyStore) PutFacts(f *t.PropertyFacts) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facts[f.ID] = f
}

func (s *MemoryPropertyStore) PutBrandRecord(r *t.BrandForgeRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[r.PropertyID] = r
}

func (s *MemoryPropertyStore) Facts(ctx context.Context, propertyID string) (*t.PropertyFacts, error) {
	if s.FactsErr != nil {
		return nil, s.FactsErr
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.facts[propertyID]
	if !ok {
		return nil, fmt.Errorf("property %s: %w", propertyID, ErrNotFound)
	}
	return f, nil
}

func (s *MemoryPropertyStore) BrandRecord(ctx context.Context, propertyID string) (*t.BrandForgeRecord, error) {
	if s.RecordErr != nil {
		return nil, s.RecordErr
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[propertyID]
	if !ok || !r.Usable() {
		return nil, nil
	}
	return r, nil
}
