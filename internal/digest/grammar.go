package digest

import (
	"fmt"
	"regexp"
	"strings"
)

// Wire format between generator output and parser: one call per line, exact
// shape toolName("query text") with plain double quotes and no escapes.
var callPattern = regexp.MustCompile(`^\s*([a-z_]+)\(\s*"([^"]+)"\s*\)\s*$`)

// ParseCall matches a single line against the call grammar for the platform
// the session is constrained to. Wrong tool names, malformed quoting and
// empty query text are all rejected.
func ParseCall(line string, p Platform) (ToolCall, bool) {
	m := callPattern.FindStringSubmatch(line)
	if m == nil {
		return ToolCall{}, false
	}
	if m[1] != p.Tool() {
		return ToolCall{}, false
	}
	query := strings.TrimSpace(m[2])
	if query == "" {
		return ToolCall{}, false
	}
	return ToolCall{Platform: p, Query: query}, true
}

// String renders the canonical wire form; it round-trips through ParseCall
// for any non-empty query without embedded quotes.
func (c ToolCall) String() string {
	return fmt.Sprintf(`%s("%s")`, c.Platform.Tool(), c.Query)
}

// ContainsCondition reports whether the query mentions the condition term,
// case-insensitively. Enforcement is a policy toggle: it keeps the generator
// from drifting off-topic but some deployments prefer looser phrasing.
func (c ToolCall) ContainsCondition(condition string) bool {
	return strings.Contains(strings.ToLower(c.Query), strings.ToLower(condition))
}
