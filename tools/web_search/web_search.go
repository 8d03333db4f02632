package web_search

import (
	"context"
	"errors"

	"docbot/config"
	"docbot/tools/web_search/duckduckgo"
	"docbot/tools/web_search/models"
	"docbot/tools/web_search/serper"
)

// Backend executes a free-text search and returns raw ranked results.
type Backend interface {
	RawSearch(ctx context.Context, q string, k int) ([]models.Result, error)
}

type Provider string

const (
	DuckDuckGoProvider Provider = "duckduckgo"
	SerperProvider     Provider = "serper"
)

var ErrUnsupportedProvider = errors.New("unsupported search provider")

func NewBackend(cfg config.SearchConfig) (Backend, error) {
	switch Provider(cfg.Backend) {
	case DuckDuckGoProvider:
		return duckduckgo.Search{Timeout: cfg.Timeout}, nil
	case SerperProvider:
		return serper.Search{ApiKey: cfg.SerperAPIKey, Timeout: cfg.Timeout}, nil
	default:
		return nil, ErrUnsupportedProvider
	}
}
