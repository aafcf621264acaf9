// Package patch applies typed structural edits to a persisted blueprint.
// Apply is a pure transform over deep-copied pages: safe to retry, trivial
// to test, never mutates its input.
package patch

import (
	"sort"
	"time"

	"github.com/google/uuid"

	t "siteforge/internal/types"
)

// provisionalOrder places an added section past any real order value until
// renormalization runs.
const provisionalOrder = 1 << 20

// Apply returns a new blueprint with the operations applied in array
// order. After the batch, every page's section orders are renormalized to
// a dense 1..N sequence preserving relative order; relative order, not the
// absolute values, is the contract. UpdatedAt is bumped; Version is the
// caller's concern.
func Apply(bp *t.SiteBlueprint, ops []t.PatchOperation) *t.SiteBlueprint {
	out := *bp
	out.Pages = deepCopyPages(bp.Pages)

	for _, op := range ops {
		switch op.Kind {
		case t.OpUpdateSection:
			applyUpdate(out.Pages, op)
		case t.OpAddSection:
			applyAdd(out.Pages, op)
		case t.OpRemoveSection:
			applyRemove(out.Pages, op)
		case t.OpMoveSection:
			applyMove(out.Pages, op)
		}
	}

	for pi := range out.Pages {
		renormalize(out.Pages[pi].Sections)
	}
	out.UpdatedAt = time.Now()
	return &out
}

// applyUpdate mutates only the fields explicitly present in the operation.
func applyUpdate(pages []t.GeneratedPage, op t.PatchOperation) {
	sec := findSection(pages, op.SectionID)
	if sec == nil {
		return
	}
	if op.Content != nil {
		sec.Content = *op.Content
	}
	if op.Variant != nil {
		sec.Variant = *op.Variant
	}
	if op.Classes != nil {
		sec.StyleClasses = append([]string(nil), op.Classes...)
	}
	if op.Rationale != nil {
		sec.Rationale = *op.Rationale
	}
}

// applyAdd appends with a provisional order, then splices after the anchor
// if one is named and found. An unmatched anchor falls back to append.
func applyAdd(pages []t.GeneratedPage, op t.PatchOperation) {
	if op.NewSection == nil {
		return
	}
	for pi := range pages {
		if pages[pi].Slug != op.PageSlug {
			continue
		}
		sec := *op.NewSection
		if sec.ID == "" {
			sec.ID = uuid.NewString()
		}
		sec.Order = provisionalOrder
		if op.AfterSectionID != "" {
			for _, existing := range pages[pi].Sections {
				if existing.ID == op.AfterSectionID {
					// Equal order plus a later slice position: the stable
					// renormalization sort lands it immediately after the
					// anchor.
					sec.Order = existing.Order
					break
				}
			}
		}
		pages[pi].Sections = append(pages[pi].Sections, sec)
		return
	}
}

// applyRemove filters by id across all pages; removing a nonexistent id is
// a no-op.
func applyRemove(pages []t.GeneratedPage, op t.PatchOperation) {
	for pi := range pages {
		secs := pages[pi].Sections[:0]
		for _, s := range pages[pi].Sections {
			if s.ID != op.SectionID {
				secs = append(secs, s)
			}
		}
		pages[pi].Sections = secs
	}
}

// applyMove sets a target order meaningful only relative to siblings.
func applyMove(pages []t.GeneratedPage, op t.PatchOperation) {
	if sec := findSection(pages, op.SectionID); sec != nil {
		sec.Order = op.TargetOrder
	}
}

// renormalize reassigns dense 1..N orders sorted by the prior values,
// stably, so pre-existing relative order survives.
func renormalize(secs []t.GeneratedSection) {
	sort.SliceStable(secs, func(i, j int) bool { return secs[i].Order < secs[j].Order })
	for i := range secs {
		secs[i].Order = i + 1
	}
}

func findSection(pages []t.GeneratedPage, id string) *t.GeneratedSection {
	for pi := range pages {
		for si := range pages[pi].Sections {
			if pages[pi].Sections[si].ID == id {
				return &pages[pi].Sections[si]
			}
		}
	}
	return nil
}

func deepCopyPages(pages []t.GeneratedPage) []t.GeneratedPage {
	out := make([]t.GeneratedPage, len(pages))
	for i, p := range pages {
		out[i] = p
		out[i].Sections = make([]t.GeneratedSection, len(p.Sections))
		for j, s := range p.Sections {
			out[i].Sections[j] = s
			if s.Fields != nil {
				f := make(map[string]any, len(s.Fields))
				for k, v := range s.Fields {
					f[k] = v
				}
				out[i].Sections[j].Fields = f
			}
			out[i].Sections[j].StyleClasses = append([]string(nil), s.StyleClasses...)
			if s.PhotoReq != nil {
				pr := *s.PhotoReq
				out[i].Sections[j].PhotoReq = &pr
			}
			out[i].Sections[j].Content.Items = copyItems(s.Content.Items)
		}
	}
	return out
}

func copyItems(items []map[string]any) []map[string]any {
	if items == nil {
		return nil
	}
	out := make([]map[string]any, len(items))
	for i, it := range items {
		m := make(map[string]any, len(it))
		for k, v := range it {
			m[k] = v
		}
		out[i] = m
	}
	return out
}
