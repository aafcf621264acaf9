package patch

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteforge/internal/llm"
	t_ "siteforge/internal/types"
)

func TestTranslateFiltersUnknownKinds(t *testing.T) {
	fake := &llm.FakeClient{Responses: []string{`{
		"operations": [
			{"kind":"update_section","section_id":"a","content":{"headline":"Better headline"}},
			{"kind":"repaint_site","section_id":"a"},
			{"kind":"remove_section","section_id":"b"}
		]
	}`}}
	bp := blueprint(section("a", 1), section("b", 2))

	ops, err := Translate(context.Background(), fake, bp, "tighten the hero and drop the banner")
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, t_.OpUpdateSection, ops[0].Kind)
	assert.Equal(t, t_.OpRemoveSection, ops[1].Kind)
}

func TestTranslateErrorsWhenNothingApplicable(t *testing.T) {
	fake := &llm.FakeClient{Responses: []string{`{"operations":[{"kind":"noop"}]}`}}
	bp := blueprint(section("a", 1))

	_, err := Translate(context.Background(), fake, bp, "do something odd")
	assert.Error(t, err)
}

func TestTranslateSendsSectionInventory(t *testing.T) {
	fake := &llm.FakeClient{Responses: []string{`{"operations":[{"kind":"remove_section","section_id":"a"}]}`}}
	bp := blueprint(section("a", 1), section("b", 2))

	_, err := Translate(context.Background(), fake, bp, "remove the first section")
	require.NoError(t, err)
	require.Len(t, fake.Calls, 1)
	prompt := fake.Calls[0].Prompt
	assert.True(t, strings.Contains(prompt, `"id":"a"`), "inventory lists real ids")
	assert.True(t, strings.Contains(prompt, "remove the first section"), "instruction forwarded")
}
