package serper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"docbot/tools/web_search/models"
)

// https://serper.dev/ docs
const endpoint = "https://google.serper.dev/search"

type Search struct {
	ApiKey  string
	Timeout time.Duration
}

func (s Search) RawSearch(ctx context.Context, q string, k int) ([]models.Result, error) {
	payload := map[string]any{"q": q, "num": k}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", s.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: s.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, models.ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serper returned status %d", resp.StatusCode)
	}

	var raw struct {
		Organic []struct {
			Title string `json:"title"`
			Link  string `json:"link"`
		} `json:"organic"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	var out []models.Result
	for i, r := range raw.Organic {
		if i >= k {
			break
		}
		out = append(out, models.Result{Title: r.Title, URL: r.Link})
	}
	return out, nil
}
