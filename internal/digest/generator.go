package digest

import (
	"context"
	"fmt"
	"strings"

	"docbot/internal/profile"
	"docbot/provider"
)

const sessionTag = "HEALTH_UPDATE_AGENT"

// Generator elicits call-grammar lines from the generative model. It is
// stateless between requests: every prompt restates the platform constraint
// and the output-format instruction.
type Generator struct {
	Provider    provider.Provider
	Temperature float64
}

func toolExample(p Platform) string {
	switch p {
	case PlatformVideo:
		return `video_search("crohn's anti-inflammatory meals")`
	case PlatformShortVideo:
		return `short_video_search("what I eat with IBS")`
	case PlatformPhoto:
		return `photo_search("gut healing routine")`
	default:
		return `web_search("latest Crohn's breakthroughs site:nytimes.com")`
	}
}

func systemPrompt(p Platform, prof profile.Profile, count int) string {
	var b strings.Builder
	b.WriteString(`You are an AI agent designed to handle weekly health content updates for users with specific health conditions.

You are given access to a single search tool that fetches personalized health content from the user's preferred platform.

Your job is to craft search queries that deliver helpful and engaging content recommendations based on the user's health condition and preferences.

`)
	fmt.Fprintf(&b, "ONLY respond with tool calls like: %s\n\n", toolExample(p))
	b.WriteString("### USER INFORMATION ###\n")
	fmt.Fprintf(&b, "- Health condition: %s\n", prof.Condition)
	fmt.Fprintf(&b, "- Preferred platform: %s\n", prof.NewsPref)
	fmt.Fprintf(&b, "- Preferred news sources: %s\n\n", strings.Join(prof.NewsSources, ", "))
	b.WriteString("### PROVIDED TOOL INFORMATION ###\n")
	fmt.Fprintf(&b, "Name: %s\nParameters: query\nExample usage: %s\n\n", p.Tool(), toolExample(p))
	fmt.Fprintf(&b, "ONLY respond with %d unique tool calls, one per line, and do NOT add any extra text.\n", count)
	fmt.Fprintf(&b, "Each query must mention %s. Make the queries varied and distinct from each other.\n", prof.Condition)
	return b.String()
}

// Candidates issues one batch request for count unique calls and returns the
// raw response split into lines. No retries here; the uniqueness loop owns
// the retry budget.
func (g *Generator) Candidates(ctx context.Context, p Platform, prof profile.Profile, count int) ([]string, error) {
	user := fmt.Sprintf("Generate %d unique tool calls, one per line.", count)
	raw, err := g.Provider.Complete(ctx, systemPrompt(p, prof, count), user, g.Temperature, sessionTag)
	if err != nil {
		return nil, fmt.Errorf("candidate generation failed: %w", err)
	}
	return strings.Split(raw, "\n"), nil
}

// OneMore issues a single-call follow-up that lists every already-accepted
// call so the model can avoid them.
func (g *Generator) OneMore(ctx context.Context, p Platform, prof profile.Profile, alreadySeen []string) (string, error) {
	user := fmt.Sprintf("Generate one additional unique tool call distinct from these: %s", strings.Join(alreadySeen, ", "))
	raw, err := g.Provider.Complete(ctx, systemPrompt(p, prof, 1), user, g.Temperature, sessionTag)
	if err != nil {
		return "", fmt.Errorf("follow-up generation failed: %w", err)
	}
	return raw, nil
}
