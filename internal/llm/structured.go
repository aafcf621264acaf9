package llm

import (
	"regexp"
	"strings"

	"siteforge/internal/jsonx"
)

var (
	reFenceOpen  = regexp.MustCompile("(?m)^```[a-zA-Z]*[ \t]*$")
	reWrapperTag = regexp.MustCompile(`(?s)^<([a-zA-Z_][a-zA-Z0-9_-]*)>\s*(.*?)\s*</[a-zA-Z_][a-zA-Z0-9_-]*>$`)
)

// CleanStructured strips XML-style wrapper tags and fenced code-block
// wrappers from a structured-mode response, then applies the shared
// annotation/trailing-comma cleanup.
func CleanStructured(s string) string {
	s = strings.TrimSpace(s)

	// Unwrap <json>...</json> style tags, possibly nested once.
	for {
		m := reWrapperTag.FindStringSubmatch(s)
		if m == nil {
			break
		}
		s = strings.TrimSpace(m[2])
	}

	// Unwrap a fenced code block spanning the whole payload.
	if strings.HasPrefix(s, "```") {
		s = reFenceOpen.ReplaceAllString(s, "")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}

	return jsonx.Clean(s)
}
