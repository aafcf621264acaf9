package knowledge

import (
	"context"
	"log"
	"time"

	"siteforge/internal/llm"
	"siteforge/internal/retry"
	t "siteforge/internal/types"
)

const (
	DefaultTopK      = 5
	DefaultThreshold = 0.7

	searchAttempts = 2
	searchBackoff  = 500 * time.Millisecond
)

// Searcher is the nearest-neighbor provider behind the knowledge store.
type Searcher interface {
	Match(ctx context.Context, embedding []float32, threshold float64, topK int, propertyID string) ([]t.Passage, error)
}

// Client issues semantic queries against a property-scoped knowledge store.
// Retrieval is an enrichment signal, never a hard dependency: after retry
// exhaustion every failure collapses to an empty result set.
type Client struct {
	Embedder llm.EmbeddingClient
	Searcher Searcher
}

// Search runs one query with default topK/threshold.
func (c *Client) Search(ctx context.Context, propertyID, query string) []t.Passage {
	return c.SearchK(ctx, propertyID, query, DefaultTopK, DefaultThreshold)
}

// SearchK runs one query. Zero results means "no grounding available",
// not an error state.
func (c *Client) SearchK(ctx context.Context, propertyID, query string, topK int, threshold float64) []t.Passage {
	if topK <= 0 {
		topK = DefaultTopK
	}
	passages, err := retry.Do(ctx, "knowledge_search", searchAttempts, searchBackoff,
		func(ctx context.Context) ([]t.Passage, error) {
			emb, err := c.Embedder.Embed(ctx, query)
			if err != nil {
				return nil, err
			}
			return c.Searcher.Match(ctx, emb, threshold, topK, propertyID)
		})
	if err != nil {
		log.Printf("knowledge: search %q for property %s degraded to empty: %v", query, propertyID, err)
		return nil
	}
	return passages
}

// SearchAll fans out the given queries concurrently and returns results
// keyed by query. Queries share no state and have no ordering requirement.
func (c *Client) SearchAll(ctx context.Context, propertyID string, queries []string) map[string][]t.Passage {
	type res struct {
		q string
		p []t.Passage
	}
	ch := make(chan res, len(queries))
	for _, q := range queries {
		go func(q string) {
			ch <- res{q: q, p: c.Search(ctx, propertyID, q)}
		}(q)
	}
	out := make(map[string][]t.Passage, len(queries))
	for range queries {
		r := <-ch
		out[r.q] = r.p
	}
	return out
}
