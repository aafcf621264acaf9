package knowledge

import (
	"context"
	"errors"
	"testing"

	"siteforge/internal/llm"
	"siteforge/internal/tester"
	t_ "siteforge/internal/types"
)

type stubSearcher struct {
	passages []t_.Passage
	err      error
	calls    int
}

func (s *stubSearcher) Match(ctx context.Context, emb []float32, threshold float64, topK int, propertyID string) ([]t_.Passage, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.passages, nil
}

func TestSearchReturnsRanked(t *testing.T) {
	st := &stubSearcher{passages: []t_.Passage{{ID: "p1", Content: "pool open year round", Similarity: 0.91}}}
	c := &Client{Embedder: &llm.FakeEmbedder{}, Searcher: st}
	got := c.Search(context.Background(), "prop-1", "amenities")
	tester.Eq(t, len(got), 1)
	tester.Eq(t, got[0].ID, "p1")
}

func TestSearchDegradesToEmpty(t *testing.T) {
	st := &stubSearcher{err: errors.New("connection refused")}
	c := &Client{Embedder: &llm.FakeEmbedder{}, Searcher: st}
	got := c.Search(context.Background(), "prop-1", "amenities")
	tester.Eq(t, len(got), 0)
	tester.Eq(t, st.calls, searchAttempts, "search retried before degrading")
}

func TestSearchEmbedFailureDegrades(t *testing.T) {
	c := &Client{Embedder: &llm.FakeEmbedder{Err: errors.New("quota")}, Searcher: &stubSearcher{}}
	tester.Eq(t, len(c.Search(context.Background(), "prop-1", "q")), 0)
}

func TestSearchAllFansOut(t *testing.T) {
	st := &stubSearcher{passages: []t_.Passage{{ID: "x", Similarity: 0.8}}}
	c := &Client{Embedder: &llm.FakeEmbedder{}, Searcher: st}
	out := c.SearchAll(context.Background(), "prop-1", []string{"a", "b", "c"})
	tester.Eq(t, len(out), 3)
	tester.Eq(t, len(out["b"]), 1)
}

func TestVectorLiteral(t *testing.T) {
	tester.Eq(t, vectorLiteral([]float32{0.5, 1, 0.25}), "[0.5,1,0.25]")
}
