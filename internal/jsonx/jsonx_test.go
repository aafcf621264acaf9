package jsonx

import (
	"errors"
	"testing"

	"siteforge/internal/tester"
)

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		`{"a":1}`,
		`{"a":1,}`,
		`{"a": "x" (note)}`,
		`{"a":{"b":[1,2,],},}`,
	}
	for _, in := range inputs {
		once := Clean(in)
		twice := Clean(once)
		tester.Eq(t, twice, once, in)
	}
}

func TestUnmarshalTrailingComma(t *testing.T) {
	var got map[string]int
	tester.NoErr(t, Unmarshal([]byte(`{"a":1,}`), "test", &got))
	tester.Eq(t, got["a"], 1)
}

func TestUnmarshalAnnotation(t *testing.T) {
	var got map[string]string
	tester.NoErr(t, Unmarshal([]byte(`{"a": "x" (note),}`), "test", &got))
	tester.Eq(t, got["a"], "x (note)")
}

func TestUnmarshalFencedBlock(t *testing.T) {
	raw := "Here is the result:\n```json\n{\n  \"a\": 1,\n  \"b\": [1, 2]\n}\n```\nDone."
	var got map[string]any
	tester.NoErr(t, Unmarshal([]byte(raw), "test", &got))
	tester.Eq[any](t, got["a"], float64(1))
}

func TestUnmarshalBareKeys(t *testing.T) {
	var got map[string]any
	tester.NoErr(t, Unmarshal([]byte(`{name: "x", items: [1,,2]}`), "test", &got))
	tester.Eq(t, got["name"], "x")
}

func TestUnmarshalLineComments(t *testing.T) {
	raw := "{\n  \"a\": 1, // the a value\n  \"b\": \"with // inside\",\n}"
	var got map[string]any
	tester.NoErr(t, Unmarshal([]byte(raw), "test", &got))
	tester.Eq(t, got["b"], "with // inside")
}

func TestUnmarshalNestedTrailingCommas(t *testing.T) {
	var got map[string]any
	tester.NoErr(t, Unmarshal([]byte(`{"a":{"b":[1,2,],},}`), "test", &got))
}

func TestUnmarshalFailureDiagnostics(t *testing.T) {
	err := Unmarshal([]byte("no json here at all"), "brand_synthesis", &map[string]any{})
	var pf *ParseFailure
	tester.True(t, errors.As(err, &pf), "expected ParseFailure")
	tester.Eq(t, pf.Label, "brand_synthesis")
	tester.Eq(t, pf.Length, len("no json here at all"))
}

func TestUnmarshalEquivalentToClean(t *testing.T) {
	var a, b map[string]any
	tester.NoErr(t, Unmarshal([]byte(`{"x": "y" (hint), "z": [1,],}`), "test", &a))
	tester.NoErr(t, Unmarshal([]byte(`{"x": "y (hint)", "z": [1]}`), "test", &b))
	tester.Eq(t, a, b)
}
