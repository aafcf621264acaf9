package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	t_ "siteforge/internal/types"
)

func section(id string, order int) t_.GeneratedSection {
	return t_.GeneratedSection{
		Section: t_.Section{ID: id, Type: "generic", Block: "generic", Order: order},
		Content: t_.SectionContent{Headline: "Headline for " + id},
	}
}

func blueprint(secs ...t_.GeneratedSection) *t_.SiteBlueprint {
	return &t_.SiteBlueprint{
		Version:    1,
		PropertyID: "prop-1",
		Pages:      []t_.GeneratedPage{{Slug: "home", Sections: secs}},
	}
}

func sectionIDs(p t_.GeneratedPage) []string {
	ids := make([]string, len(p.Sections))
	for i, s := range p.Sections {
		ids[i] = s.ID
	}
	return ids
}

func TestApplyRenormalizesSparseOrders(t *testing.T) {
	bp := blueprint(section("a", 30), section("b", 10), section("c", 20))

	out := Apply(bp, nil)

	require.Len(t, out.Pages, 1)
	assert.Equal(t, []string{"b", "c", "a"}, sectionIDs(out.Pages[0]), "relative order by prior values")
	for i, s := range out.Pages[0].Sections {
		assert.Equal(t, i+1, s.Order, "orders are dense and 1-based")
	}
}

func TestUpdateSectionIsPartial(t *testing.T) {
	bp := blueprint(section("a", 1))
	bp.Pages[0].Sections[0].Variant = "wide"

	newContent := t_.SectionContent{Headline: "Replaced headline", Body: "New body"}
	out := Apply(bp, []t_.PatchOperation{{
		Kind:      t_.OpUpdateSection,
		SectionID: "a",
		Content:   &newContent,
	}})

	got := out.Pages[0].Sections[0]
	assert.Equal(t, "Replaced headline", got.Content.Headline)
	assert.Equal(t, "wide", got.Variant, "fields absent from the op are untouched")
}

func TestAddSectionAfterAnchor(t *testing.T) {
	bp := blueprint(section("a", 1), section("b", 2), section("c", 3))
	add := section("x", 0)

	out := Apply(bp, []t_.PatchOperation{{
		Kind:           t_.OpAddSection,
		PageSlug:       "home",
		AfterSectionID: "a",
		NewSection:     &add,
	}})

	assert.Equal(t, []string{"a", "x", "b", "c"}, sectionIDs(out.Pages[0]))
}

func TestAddSectionUnmatchedAnchorAppends(t *testing.T) {
	bp := blueprint(section("a", 1), section("b", 2))
	add := section("x", 0)

	out := Apply(bp, []t_.PatchOperation{{
		Kind:           t_.OpAddSection,
		PageSlug:       "home",
		AfterSectionID: "missing",
		NewSection:     &add,
	}})

	assert.Equal(t, []string{"a", "b", "x"}, sectionIDs(out.Pages[0]))
}

func TestAddSectionGeneratesID(t *testing.T) {
	bp := blueprint(section("a", 1))
	add := section("", 0)

	out := Apply(bp, []t_.PatchOperation{{
		Kind:       t_.OpAddSection,
		PageSlug:   "home",
		NewSection: &add,
	}})

	require.Len(t, out.Pages[0].Sections, 2)
	assert.NotEmpty(t, out.Pages[0].Sections[1].ID)
}

func TestRemoveSectionIsIdempotent(t *testing.T) {
	bp := blueprint(section("a", 1), section("b", 2))

	ops := []t_.PatchOperation{
		{Kind: t_.OpRemoveSection, SectionID: "a"},
		{Kind: t_.OpRemoveSection, SectionID: "a"},
		{Kind: t_.OpRemoveSection, SectionID: "never-existed"},
	}
	out := Apply(bp, ops)

	assert.Equal(t, []string{"b"}, sectionIDs(out.Pages[0]))
	assert.Equal(t, 1, out.Pages[0].Sections[0].Order)
}

func TestMoveSectionReorders(t *testing.T) {
	bp := blueprint(section("a", 1), section("b", 2), section("c", 3))

	out := Apply(bp, []t_.PatchOperation{{
		Kind:        t_.OpMoveSection,
		SectionID:   "c",
		TargetOrder: 1,
	}})

	// c ties with a at order 1; stable sort keeps a first among equals.
	assert.Equal(t, []string{"a", "c", "b"}, sectionIDs(out.Pages[0]))
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	orig := section("a", 1)
	orig.Fields = map[string]any{"cols": 3}
	orig.Content.Items = []map[string]any{{"label": "Pool"}}
	bp := blueprint(orig, section("b", 2))

	newContent := t_.SectionContent{Headline: "Changed"}
	out := Apply(bp, []t_.PatchOperation{
		{Kind: t_.OpUpdateSection, SectionID: "a", Content: &newContent},
		{Kind: t_.OpRemoveSection, SectionID: "b"},
	})

	require.Len(t, out.Pages[0].Sections, 1)
	assert.Equal(t, "Headline for a", bp.Pages[0].Sections[0].Content.Headline, "input untouched")
	assert.Len(t, bp.Pages[0].Sections, 2, "input section list untouched")

	out.Pages[0].Sections[0].Fields["cols"] = 4
	assert.Equal(t, 3, bp.Pages[0].Sections[0].Fields["cols"], "nested maps are independent copies")
}
