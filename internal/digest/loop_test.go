package digest

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"docbot/internal/profile"
)

// fakeProvider returns scripted responses in order; once exhausted it
// repeats the last one.
type fakeProvider struct {
	responses []string
	errs      []error
	calls     int
}

func (f *fakeProvider) Complete(_ context.Context, _, _ string, _ float64, _ string) (string, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	if i < 0 {
		return "", errors.New("no scripted response")
	}
	return f.responses[i], nil
}

func testProfile() profile.Profile {
	return profile.Profile{
		UserID:      "alice",
		Condition:   "Crohn's disease",
		NewsPref:    "YouTube",
		NewsSources: []string{"bbc.com"},
		Stage:       profile.StageDone,
	}
}

func newLoop(p *fakeProvider, target, extra int, requireCondition bool) *Loop {
	return &Loop{
		Gen:              &Generator{Provider: p, Temperature: 0.9},
		Target:           target,
		ExtraAttempts:    extra,
		RequireCondition: requireCondition,
		Logger:           log.New(io.Discard, "", 0),
	}
}

func TestCollectCallsHappyBatch(t *testing.T) {
	fp := &fakeProvider{responses: []string{
		`video_search("Crohn's disease meal prep")
video_search("Crohn's disease flare tips")
video_search("Crohn's disease exercise")`,
	}}
	loop := newLoop(fp, 3, 5, true)

	calls := loop.CollectCalls(context.Background(), PlatformVideo, testProfile())
	if len(calls) != 3 {
		t.Fatalf("expected 3 calls, got %d", len(calls))
	}
	if fp.calls != 1 {
		t.Fatalf("expected a single batch request, got %d", fp.calls)
	}
	if calls[0].Query != "Crohn's disease meal prep" {
		t.Fatalf("acceptance order not preserved: %+v", calls)
	}
}

func TestCollectCallsSuppressesDuplicates(t *testing.T) {
	// 5 lines for a 3-target digest, two exact duplicates; the follow-up
	// request supplies the missing third call.
	fp := &fakeProvider{responses: []string{
		`video_search("Crohn's disease meal prep")
video_search("Crohn's disease meal prep")
video_search("Crohn's disease flare tips")
video_search("Crohn's disease flare tips")
not a call`,
		`video_search("Crohn's disease exercise")`,
	}}
	loop := newLoop(fp, 3, 5, true)

	calls := loop.CollectCalls(context.Background(), PlatformVideo, testProfile())
	if len(calls) != 3 {
		t.Fatalf("expected 3 distinct calls, got %d: %+v", len(calls), calls)
	}
	queries := map[string]bool{}
	for _, c := range calls {
		if queries[c.Query] {
			t.Fatalf("duplicate query accepted: %q", c.Query)
		}
		queries[c.Query] = true
	}
}

func TestCollectCallsBudgetBound(t *testing.T) {
	// Generator only ever produces garbage: the loop must stop after the
	// batch plus exactly ExtraAttempts follow-ups.
	fp := &fakeProvider{responses: []string{"nothing useful here"}}
	loop := newLoop(fp, 3, 5, true)

	calls := loop.CollectCalls(context.Background(), PlatformVideo, testProfile())
	if len(calls) != 0 {
		t.Fatalf("expected no accepted calls, got %d", len(calls))
	}
	if fp.calls != 1+5 {
		t.Fatalf("expected 6 model round trips (1 batch + 5 extra), got %d", fp.calls)
	}
}

func TestCollectCallsGenerationErrorsAbsorbed(t *testing.T) {
	boom := errors.New("model unavailable")
	fp := &fakeProvider{
		responses: []string{"", "", "", "", "", ""},
		errs:      []error{boom, boom, boom, boom, boom, boom},
	}
	loop := newLoop(fp, 3, 2, true)

	calls := loop.CollectCalls(context.Background(), PlatformVideo, testProfile())
	if len(calls) != 0 {
		t.Fatalf("expected shortfall, got %d calls", len(calls))
	}
	// 1 failed batch + 2 budgeted follow-ups.
	if fp.calls != 3 {
		t.Fatalf("expected 3 round trips, got %d", fp.calls)
	}
}

func TestCollectCallsConditionPolicy(t *testing.T) {
	fp := &fakeProvider{responses: []string{
		`video_search("generic gut health tips")
video_search("Crohn's disease recipes")`,
	}}

	strict := newLoop(fp, 2, 0, true)
	calls := strict.CollectCalls(context.Background(), PlatformVideo, testProfile())
	if len(calls) != 1 || calls[0].Query != "Crohn's disease recipes" {
		t.Fatalf("strict policy should drop off-condition query, got %+v", calls)
	}

	fp2 := &fakeProvider{responses: fp.responses}
	loose := newLoop(fp2, 2, 0, false)
	calls = loose.CollectCalls(context.Background(), PlatformVideo, testProfile())
	if len(calls) != 2 {
		t.Fatalf("loose policy should keep both queries, got %+v", calls)
	}
}

func TestCollectCallsIgnoresWrongTool(t *testing.T) {
	fp := &fakeProvider{responses: []string{
		`web_search("Crohn's disease news")
video_search("Crohn's disease recipes")`,
	}}
	loop := newLoop(fp, 2, 0, true)

	calls := loop.CollectCalls(context.Background(), PlatformVideo, testProfile())
	if len(calls) != 1 {
		t.Fatalf("expected only the platform's tool to be accepted, got %+v", calls)
	}
}
