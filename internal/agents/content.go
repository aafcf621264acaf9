package agents

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"siteforge/internal/jsonx"
	"siteforge/internal/llm"
	t "siteforge/internal/types"
)

// ContentAgent writes per-section copy grounded in retrieved facts and the
// brand voice. Sections are independent; generation fans out maximally.
type ContentAgent struct {
	Ctx AgentContext
}

func (a *ContentAgent) GenerateAll(ctx context.Context, arch *t.ArchitectureProposal, brand *t.BrandContext) ([]t.GeneratedPage, error) {
	pages := make([]t.GeneratedPage, len(arch.Pages))
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for pi, page := range arch.Pages {
		pages[pi] = t.GeneratedPage{
			Slug:     page.Slug,
			Title:    page.Title,
			Purpose:  page.Purpose,
			Priority: page.Priority,
			Sections: make([]t.GeneratedSection, len(page.Sections)),
		}
		for si, sec := range page.Sections {
			wg.Add(1)
			go func(pi, si int, page t.Page, sec t.Section) {
				defer wg.Done()
				content, err := a.generateSection(ctx, page, sec, brand)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("content: section %s: %w", sec.ID, err)
					}
					mu.Unlock()
					return
				}
				pages[pi].Sections[si] = t.GeneratedSection{Section: sec, Content: content}
			}(pi, si, page, sec)
		}
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return pages, nil
}

func (a *ContentAgent) generateSection(ctx context.Context, page t.Page, sec t.Section, brand *t.BrandContext) (t.SectionContent, error) {
	grounding := a.Ctx.Knowledge.Search(ctx, a.Ctx.PropertyID, sec.Purpose+" "+page.Purpose)
	var facts []string
	for _, p := range grounding {
		facts = append(facts, p.Content)
	}

	input := map[string]any{
		"section": map[string]any{
			"type":    sec.Type,
			"purpose": sec.Purpose,
			"block":   sec.Block,
		},
		"page_purpose": page.Purpose,
		"facts":        facts,
		"voice": map[string]any{
			"voice":          brand.ContentStrategy.Voice,
			"tone":           brand.ContentStrategy.Tone,
			"vocabulary":     brand.ContentStrategy.Vocabulary,
			"avoid_words":    brand.ContentStrategy.AvoidWords,
			"headline_style": brand.ContentStrategy.HeadlineStyle,
		},
	}
	in, _ := jsonx.MarshalNoEscape(input)

	prompt := `You are a copywriter for property marketing websites.
Write the content for one section.

Return STRICT JSON ONLY:
{"headline":"string","subheadline":"string","body":"string",
 "cta_text":"string","cta_link":"string",
 "items":[{}],
 "rationale":"string"}

Hard constraints:
- Use ONLY facts present in the "facts" list. Do not invent amenities,
  prices, dimensions or policies. If facts are empty, stay generic.
- Never use any word from avoid_words.
- Prefer vocabulary words where natural.
- headline follows the given headline_style.

[INPUT JSON]
` + string(in)

	// Engine and parse failures are fatal for this stage: there is no safe
	// synthetic copy. Only parsed-but-empty output gets the placeholder.
	raw, err := a.Ctx.Reasoner.Complete(ctx, llm.CompleteRequest{Prompt: prompt, Structured: true})
	if err != nil {
		return t.SectionContent{}, err
	}
	var content t.SectionContent
	if err := jsonx.Unmarshal([]byte(raw), "section_content", &content); err != nil {
		return t.SectionContent{}, err
	}
	if content.Empty() {
		log.Printf("content: section %s parsed empty, using placeholder", sec.ID)
		return placeholderContent(sec), nil
	}
	return content, nil
}

// placeholderContent derives human-readable filler from the section type.
func placeholderContent(sec t.Section) t.SectionContent {
	label := strings.ReplaceAll(sec.Type, "_", " ")
	label = strings.ReplaceAll(label, "-", " ")
	if label == "" {
		label = "section"
	}
	headline := strings.ToUpper(label[:1]) + label[1:]
	return t.SectionContent{
		Headline:  headline,
		Body:      fmt.Sprintf("Content for the %s section is being prepared.", label),
		Rationale: "placeholder: generation produced no usable content",
	}
}
