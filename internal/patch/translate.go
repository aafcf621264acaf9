package patch

import (
	"context"
	"fmt"

	"siteforge/internal/jsonx"
	"siteforge/internal/llm"
	t "siteforge/internal/types"
)

// Translate turns a free-form edit instruction into patch operations
// against the given blueprint. The section inventory is handed to the
// model so it can target real ids; unknown kinds are dropped.
func Translate(ctx context.Context, client llm.ReasoningClient, bp *t.SiteBlueprint, instruction string) ([]t.PatchOperation, error) {
	type secRef struct {
		ID      string `json:"id"`
		Page    string `json:"page"`
		Type    string `json:"type"`
		Purpose string `json:"purpose"`
		Order   int    `json:"order"`
	}
	var inventory []secRef
	for _, page := range bp.Pages {
		for _, sec := range page.Sections {
			inventory = append(inventory, secRef{
				ID:      sec.ID,
				Page:    page.Slug,
				Type:    sec.Type,
				Purpose: sec.Purpose,
				Order:   sec.Order,
			})
		}
	}
	in, _ := jsonx.MarshalNoEscape(map[string]any{
		"instruction": instruction,
		"sections":    inventory,
	})

	prompt := `You translate a website edit request into structural patch operations.

Return STRICT JSON ONLY:
{"operations":[
  {"kind":"update_section","section_id":"string","content":{"headline":"string","body":"string","cta_text":"string"},"variant":"string","rationale":"string"},
  {"kind":"add_section","page_slug":"string","after_section_id":"string","new_section":{"type":"string","purpose":"string","block":"string","content":{"headline":"string","body":"string"}}},
  {"kind":"remove_section","section_id":"string"},
  {"kind":"move_section","section_id":"string","target_order":1}
]}

Constraints:
- section_id MUST come from the provided sections inventory.
- Emit the smallest set of operations that satisfies the instruction.
- For update_section include only the fields being changed.

[INPUT JSON]
` + string(in)

	raw, err := client.Complete(ctx, llm.CompleteRequest{Prompt: prompt, Structured: true})
	if err != nil {
		return nil, fmt.Errorf("translate edit: %w", err)
	}
	var out struct {
		Operations []t.PatchOperation `json:"operations"`
	}
	if err := jsonx.Unmarshal([]byte(raw), "patch_translation", &out); err != nil {
		return nil, err
	}

	ops := out.Operations[:0]
	for _, op := range out.Operations {
		switch op.Kind {
		case t.OpUpdateSection, t.OpAddSection, t.OpRemoveSection, t.OpMoveSection:
			ops = append(ops, op)
		}
	}
	if len(ops) == 0 {
		return nil, fmt.Errorf("translate edit: no applicable operations for %q", instruction)
	}
	return ops, nil
}
