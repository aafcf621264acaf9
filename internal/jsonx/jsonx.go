package jsonx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseFailure is returned when every recovery strategy fails. Head and Tail
// are excerpts of the offending text for diagnosis.
type ParseFailure struct {
	Label  string
	Length int
	Head   string
	Tail   string
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("jsonx: %s: cannot recover JSON (%d bytes) head=%q tail=%q", e.Label, e.Length, e.Head, e.Tail)
}

var (
	// `"value" (note)` -> `"value (note)"`. Models like to annotate values
	// with parentheticals outside the quotes.
	reAnnotation = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"\s*\(([^()]*)\)`)

	reTrailingComma = regexp.MustCompile(`,\s*([}\]])`)
	reDoubledComma  = regexp.MustCompile(`,\s*,`)
	reLeadingComma  = regexp.MustCompile(`([{\[])\s*,`)

	// Bare identifier keys. Quoted keys start with `"` so they cannot match.
	reBareKey = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
)

// Clean applies the light normalization shared with the reasoning client:
// parenthetical annotations are folded into the preceding string and
// trailing commas before a closing bracket are collapsed. Repeated until a
// fixed point since nested structures need multiple passes. Clean is
// idempotent: Clean(Clean(s)) == Clean(s).
func Clean(s string) string {
	s = reAnnotation.ReplaceAllString(s, `"$1 ($2)"`)
	for {
		next := reTrailingComma.ReplaceAllString(s, "$1")
		if next == s {
			return s
		}
		s = next
	}
}

// Unmarshal decodes raw into v, repairing common model damage first. The
// strategies run in order, first success wins:
//
//  1. Clean, then direct parse.
//  2. Extract the first balanced {...} or [...] span, fix doubled/leading
//     commas and bare keys, parse.
//  3. Slice to the line window between the first opening and last closing
//     bracket line, strip //-comments, re-fix commas, parse.
//
// On total failure a *ParseFailure names label and the text extremities.
func Unmarshal(raw []byte, label string, v any) error {
	text := string(raw)

	if s := Clean(text); tryParse(s, v) {
		return nil
	}

	if span, ok := balancedSpan(text); ok {
		s := Clean(span)
		s = reDoubledComma.ReplaceAllString(s, ",")
		s = reLeadingComma.ReplaceAllString(s, "$1")
		s = reBareKey.ReplaceAllString(s, `$1"$2":`)
		s = Clean(s)
		if tryParse(s, v) {
			return nil
		}
	}

	if s, ok := lineWindow(text); ok {
		s = stripLineComments(s)
		s = Clean(s)
		s = reDoubledComma.ReplaceAllString(s, ",")
		s = reLeadingComma.ReplaceAllString(s, "$1")
		if tryParse(s, v) {
			return nil
		}
	}

	return &ParseFailure{
		Label:  label,
		Length: len(text),
		Head:   excerpt(text, 120, false),
		Tail:   excerpt(text, 120, true),
	}
}

// UnmarshalRaw is Unmarshal over a json.RawMessage.
func UnmarshalRaw(raw json.RawMessage, label string, v any) error {
	return Unmarshal([]byte(raw), label, v)
}

// MarshalNoEscape encodes v without escaping <, >, & into < etc.
// Prompts read better without HTML escapes.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func tryParse(s string, v any) bool {
	return json.Unmarshal([]byte(s), v) == nil
}

// balancedSpan returns the first top-level {...} or [...] span, tracking
// strings and escapes so brackets inside values don't confuse the depth.
func balancedSpan(s string) (string, bool) {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", false
	}
	open := s[start]
	var close byte = '}'
	if open == '[' {
		close = ']'
	}
	depth := 0
	inStr := false
	esc := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inStr {
			if esc {
				esc = false
			} else if c == '\\' {
				esc = true
			} else if c == '"' {
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// lineWindow slices to the lines between the first line starting a bracket
// and the last line ending one.
func lineWindow(s string) (string, bool) {
	lines := strings.Split(s, "\n")
	first, last := -1, -1
	for i, ln := range lines {
		t := strings.TrimSpace(ln)
		if strings.HasPrefix(t, "{") || strings.HasPrefix(t, "[") {
			first = i
			break
		}
	}
	for i := len(lines) - 1; i >= 0; i-- {
		t := strings.TrimSpace(lines[i])
		if strings.HasSuffix(t, "}") || strings.HasSuffix(t, "]") ||
			strings.HasSuffix(t, "},") || strings.HasSuffix(t, "],") {
			last = i
			break
		}
	}
	if first < 0 || last < first {
		return "", false
	}
	return strings.Join(lines[first:last+1], "\n"), true
}

// stripLineComments removes //-comments that are not inside a string.
func stripLineComments(s string) string {
	var out []string
	for _, ln := range strings.Split(s, "\n") {
		inStr := false
		esc := false
		cut := -1
		for i := 0; i < len(ln); i++ {
			c := ln[i]
			if inStr {
				if esc {
					esc = false
				} else if c == '\\' {
					esc = true
				} else if c == '"' {
					inStr = false
				}
				continue
			}
			if c == '"' {
				inStr = true
			} else if c == '/' && i+1 < len(ln) && ln[i+1] == '/' {
				cut = i
				break
			}
		}
		if cut >= 0 {
			ln = strings.TrimRight(ln[:cut], " \t")
		}
		out = append(out, ln)
	}
	return strings.Join(out, "\n")
}

func excerpt(s string, n int, tail bool) string {
	if len(s) <= n {
		return s
	}
	if tail {
		return s[len(s)-n:]
	}
	return s[:n]
}
