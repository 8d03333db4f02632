// Package search adapts the raw search backend to the four content
// platforms: per-platform query augmentation, URL filtering, rate-limit
// backoff and an optional widened retry when a filter yields nothing.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"docbot/config"
	"docbot/internal/digest"
	"docbot/tools/web_search"
	"docbot/tools/web_search/duckduckgo"
	"docbot/tools/web_search/models"
)

type platformRules struct {
	site       string              // appended as a site: restriction
	urlAllowed func(u string) bool // platform-specific path filter
}

var rules = map[digest.Platform]platformRules{
	digest.PlatformWeb: {
		urlAllowed: func(u string) bool { return !strings.Contains(u, duckduckgo.Domain) },
	},
	digest.PlatformVideo: {
		site:       "youtube.com",
		urlAllowed: func(u string) bool { return strings.Contains(u, "youtube.com/watch") },
	},
	digest.PlatformShortVideo: {
		site:       "tiktok.com",
		urlAllowed: func(u string) bool { return strings.Contains(u, "tiktok.com/") && strings.Contains(u, "/video") },
	},
	digest.PlatformPhoto: {
		site: "instagram.com",
		urlAllowed: func(u string) bool {
			return strings.Contains(u, "instagram.com/p/") || strings.Contains(u, "instagram.com/reel")
		},
	},
}

// Adapter implements digest.Searcher over a shared backend.
type Adapter struct {
	Backend      web_search.Backend
	MaxResults   int
	Backoff      BackoffPolicy
	WidenOnEmpty bool
}

func NewAdapter(cfg config.SearchConfig, backend web_search.Backend) *Adapter {
	return &Adapter{
		Backend:      backend,
		MaxResults:   cfg.MaxResults,
		Backoff:      NewBackoffPolicy(cfg.MaxAttempts, cfg.BackoffBase),
		WidenOnEmpty: cfg.WidenOnEmpty,
	}
}

func augment(p digest.Platform, query string) string {
	r := rules[p]
	if r.site == "" {
		return query
	}
	if p == digest.PlatformPhoto {
		// Instagram discovery works by hashtag, not phrase.
		query = "#" + strings.ReplaceAll(query, " ", "")
	}
	return fmt.Sprintf("%s site:%s", query, r.site)
}

// Search runs the augmented query, filters URLs to the platform, and caps
// the result count. On an empty filtered set it may widen once: the plain
// query with only the site restriction, admitting any URL on the platform's
// host rather than just platform-shaped paths. When the widened query is
// the same string the backend already answered, the existing results are
// re-filtered instead of burning a second round trip.
func (a *Adapter) Search(ctx context.Context, p digest.Platform, query string) ([]string, error) {
	r, ok := rules[p]
	if !ok {
		return nil, fmt.Errorf("unknown platform: %s", p)
	}

	augmented := augment(p, query)
	results, err := a.rawSearch(ctx, augmented)
	if err != nil {
		return nil, err
	}
	urls := a.filter(results, r.urlAllowed)
	if len(urls) > 0 || !a.WidenOnEmpty || r.site == "" {
		return urls, nil
	}

	onHost := func(u string) bool { return strings.Contains(u, r.site) }
	widened := fmt.Sprintf("%s site:%s", query, r.site)
	if widened == augmented {
		return a.filter(results, onHost), nil
	}
	results, err = a.rawSearch(ctx, widened)
	if err != nil {
		return nil, err
	}
	return a.filter(results, onHost), nil
}

func (a *Adapter) filter(results []models.Result, allowed func(string) bool) []string {
	var urls []string
	for _, res := range results {
		if !allowed(res.URL) {
			continue
		}
		urls = append(urls, res.URL)
		if len(urls) >= a.MaxResults {
			break
		}
	}
	return urls
}

// rawSearch wraps the backend call with the backoff policy: only a
// rate-limit signal is retried, anything else propagates immediately.
func (a *Adapter) rawSearch(ctx context.Context, q string) ([]models.Result, error) {
	var results []models.Result
	err := a.Backoff.Retry(ctx, func() error {
		var err error
		results, err = a.Backend.RawSearch(ctx, q, a.MaxResults)
		return err
	}, func(err error) bool { return errors.Is(err, models.ErrRateLimited) })
	return results, err
}
