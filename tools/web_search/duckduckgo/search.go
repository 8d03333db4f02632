package duckduckgo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"docbot/tools/web_search/models"
)

const endpoint = "https://html.duckduckgo.com/html/"

// Domain is the backend's own host; the general-web platform filter
// excludes links back into it.
const Domain = "duckduckgo.com"

type Search struct {
	Timeout time.Duration
}

// RawSearch queries the HTML endpoint and scrapes the organic result links.
// DuckDuckGo signals throttling with 429 or a 202 challenge page.
func (s Search) RawSearch(ctx context.Context, q string, k int) ([]models.Result, error) {
	form := url.Values{"q": {q}}
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "Mozilla/5.0")

	client := &http.Client{Timeout: s.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusAccepted:
		return nil, models.ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("duckduckgo returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse results page: %w", err)
	}

	var out []models.Result
	doc.Find("div.result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		a := sel.Find("a.result__a").First()
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return true
		}
		out = append(out, models.Result{Title: strings.TrimSpace(a.Text()), URL: resolveRedirect(href)})
		return len(out) < k
	})
	return out, nil
}

// resolveRedirect unwraps the uddg redirect links the HTML endpoint emits.
func resolveRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}
