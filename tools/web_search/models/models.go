package models

import "errors"

// Result is one raw hit from a search backend, before any platform filtering.
type Result struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ErrRateLimited distinguishes backend throttling from generic failure so
// callers can retry with backoff. Any other error should propagate as-is.
var ErrRateLimited = errors.New("search backend rate limited")
