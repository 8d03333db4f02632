// Package fetch extracts readable text from a web page, for previewing
// digest links. Readability handles article-shaped pages; anything it
// cannot parse falls back to stripping boilerplate tags wholesale.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

const (
	// maxChars caps the preview so chat replies stay readable.
	maxChars = 1500
	// maxBody bounds how much of a page is downloaded.
	maxBody = 2 << 20
)

type Fetcher struct {
	Client *http.Client
}

func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{Client: &http.Client{Timeout: timeout}}
}

// PageText fetches the URL and returns cleaned, whitespace-collapsed body
// text capped at maxChars.
func (f *Fetcher) PageText(ctx context.Context, pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid url: %q", pageURL)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch %s, status code: %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", err
	}

	if article, err := readability.FromReader(bytes.NewReader(body), parsed); err == nil {
		if text := strings.TrimSpace(article.TextContent); text != "" {
			return clip(text), nil
		}
	}
	return f.stripped(body)
}

// stripped removes non-content tags and flattens the remaining text.
func (f *Fetcher) stripped(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %w", err)
	}
	doc.Find("script, style, header, footer, nav, aside").Remove()
	return clip(doc.Find("body").Text()), nil
}

func clip(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= maxChars {
		return text
	}
	// Back off to a rune boundary so the cut never splits a character.
	cut := maxChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
