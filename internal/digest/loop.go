package digest

import (
	"context"
	"log"
	"strings"

	"docbot/internal/profile"
)

// Loop converges on Target distinct, grammar-valid tool calls for the
// session's platform, or fewer if the extra-attempt budget runs out. It
// never errors: a shortfall is padded downstream by the assembler.
type Loop struct {
	Gen              *Generator
	Target           int
	ExtraAttempts    int
	RequireCondition bool
	Logger           *log.Logger
}

func (l *Loop) accept(call ToolCall, condition string, seen map[string]bool) bool {
	if l.RequireCondition && !call.ContainsCondition(condition) {
		return false
	}
	if seen[call.Query] {
		return false
	}
	seen[call.Query] = true
	return true
}

// CollectCalls runs one batch request, then bounded one-more follow-ups
// until it has Target distinct calls or the budget is spent. Duplicate
// detection is first-occurrence-wins on the exact query text, and accepted
// order is preserved.
func (l *Loop) CollectCalls(ctx context.Context, p Platform, prof profile.Profile) []ToolCall {
	seen := make(map[string]bool)
	var accepted []ToolCall

	lines, err := l.Gen.Candidates(ctx, p, prof, l.Target)
	if err != nil {
		l.Logger.Printf("batch generation failed, falling back to singles: %v", err)
	}
	for _, line := range lines {
		if len(accepted) >= l.Target {
			break
		}
		call, ok := ParseCall(line, p)
		if !ok {
			continue
		}
		if l.accept(call, prof.Condition, seen) {
			accepted = append(accepted, call)
		}
	}

	// Bounded follow-ups: a successful acceptance is free, every dud
	// (error, unparsable, off-condition, duplicate) burns one attempt.
	budget := l.ExtraAttempts
	for len(accepted) < l.Target && budget > 0 {
		raw, err := l.Gen.OneMore(ctx, p, prof, callStrings(accepted))
		if err != nil {
			l.Logger.Printf("follow-up generation failed: %v", err)
			budget--
			continue
		}
		call, ok := firstCall(raw, p)
		if ok && l.accept(call, prof.Condition, seen) {
			accepted = append(accepted, call)
			continue
		}
		budget--
	}

	if len(accepted) < l.Target {
		l.Logger.Printf("accepted %d/%d calls after exhausting retries", len(accepted), l.Target)
	}
	return accepted
}

// firstCall scans a possibly multi-line response for the first valid call.
func firstCall(raw string, p Platform) (ToolCall, bool) {
	for _, line := range strings.Split(raw, "\n") {
		if call, ok := ParseCall(line, p); ok {
			return call, true
		}
	}
	return ToolCall{}, false
}

func callStrings(calls []ToolCall) []string {
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}
