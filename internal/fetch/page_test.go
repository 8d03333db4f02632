package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

const samplePage = `<html><head><title>Gut Health</title>
<script>var tracking = true;</script>
<style>body { color: red; }</style></head>
<body>
<nav>Home | About</nav>
<header>Site header</header>
<p>Fiber-rich meals can help people managing Crohn's disease keep
flare-ups at bay, according to several dietitians.</p>
<p>Always consult your own care team before changing your diet.</p>
<footer>Copyright</footer>
</body></html>`

func servePage(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPageTextExtractsContent(t *testing.T) {
	srv := servePage(t, http.StatusOK, samplePage)
	f := NewFetcher(5 * time.Second)

	text, err := f.PageText(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("PageText: %v", err)
	}
	if !strings.Contains(text, "Fiber-rich meals") {
		t.Fatalf("content missing from extraction: %q", text)
	}
	if strings.Contains(text, "tracking") || strings.Contains(text, "color: red") {
		t.Fatalf("script/style leaked into text: %q", text)
	}
	if strings.Contains(text, "\n") {
		t.Fatalf("whitespace not collapsed: %q", text)
	}
}

func TestPageTextCapsLength(t *testing.T) {
	long := "<html><body><p>" + strings.Repeat("word ", 1000) + "</p></body></html>"
	srv := servePage(t, http.StatusOK, long)
	f := NewFetcher(5 * time.Second)

	text, err := f.PageText(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("PageText: %v", err)
	}
	if len(text) > 1500 {
		t.Fatalf("text not capped: %d chars", len(text))
	}
}

func TestClipKeepsRuneBoundary(t *testing.T) {
	// One ASCII byte shifts the multi-byte runes off the cap boundary, so a
	// byte-indexed cut would land mid-rune.
	text := "x" + strings.Repeat("健", 600)
	got := clip(text)
	if len(got) > 1500 {
		t.Fatalf("text not capped: %d bytes", len(got))
	}
	if !utf8.ValidString(got) {
		t.Fatalf("clip produced invalid UTF-8 tail: %q", got[len(got)-6:])
	}
}

func TestPageTextNonOKStatus(t *testing.T) {
	srv := servePage(t, http.StatusServiceUnavailable, "down")
	f := NewFetcher(5 * time.Second)

	if _, err := f.PageText(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestPageTextInvalidURL(t *testing.T) {
	f := NewFetcher(5 * time.Second)
	if _, err := f.PageText(context.Background(), "not a url"); err == nil {
		t.Fatal("expected error for invalid url")
	}
}
