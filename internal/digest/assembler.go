package digest

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// Searcher executes one query against a platform and returns filtered,
// ranked result URLs.
type Searcher interface {
	Search(ctx context.Context, p Platform, query string) ([]string, error)
}

// Assembler turns accepted tool calls into a rendered digest of exactly
// Target entries. Failures below the per-call granularity are absorbed into
// sentinel links; the digest always renders in full.
type Assembler struct {
	Searcher Searcher
	Target   int
	Logger   *log.Logger
}

// Assemble executes each call in acceptance order and pads any shortfall
// with synthetic entries carrying the bare condition string.
func (a *Assembler) Assemble(ctx context.Context, condition string, calls []ToolCall) Digest {
	entries := make([]Entry, 0, a.Target)
	for _, call := range calls {
		if len(entries) >= a.Target {
			break
		}
		link := LinkNoResults
		urls, err := a.Searcher.Search(ctx, call.Platform, call.Query)
		switch {
		case err != nil:
			a.Logger.Printf("search failed for %s: %v", call, err)
			link = LinkFetchError
		case len(urls) > 0:
			link = urls[0]
		}
		entries = append(entries, Entry{Query: call.String(), Link: link})
	}

	for len(entries) < a.Target {
		entries = append(entries, Entry{Query: condition, Link: LinkNoCall})
	}

	return Digest{Text: Render(entries), Results: entries}
}

// Render is a pure function of the entries: a header naming the search
// count, then one bullet per entry.
func Render(entries []Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Here is your weekly health content digest with %d unique searches:", len(entries))
	for _, e := range entries {
		fmt.Fprintf(&b, "\n• %s: %s", e.Query, e.Link)
	}
	return b.String()
}
