// Package deezer adapts the public Deezer search API to the catalog ports.
package deezer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ewilliams-labs/timbre/internal/core/domain"
	"github.com/ewilliams-labs/timbre/internal/core/ports"
)

const (
	defaultBaseURL = "https://api.deezer.com"
	searchPageSize = 25
)

// Client is an HTTP client for the Deezer adapter. The search endpoint needs
// no authentication.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// compile-time interface assertion
var _ ports.TrackSearcher = (*Client)(nil)

// NewClient constructs a new Deezer client. A nil httpClient falls back to a
// client with a 10 second timeout; an empty baseURL falls back to the public
// API.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Search pages through results until limit tracks are collected or the API
// runs out.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.Track, error) {
	if limit <= 0 {
		limit = searchPageSize
	}
	searchURL := fmt.Sprintf("%s/search?q=%s&limit=%d", c.baseURL, url.QueryEscape(query), min(limit, searchPageSize))

	var tracks []domain.Track
	for searchURL != "" && len(tracks) < limit {
		page, err := c.fetchSearchPage(ctx, searchURL)
		if err != nil {
			return nil, err
		}
		if page.Error != nil {
			return nil, fmt.Errorf("deezer adapter: api error %d: %s", page.Error.Code, page.Error.Message)
		}
		if len(page.Data) == 0 {
			break
		}
		for _, dt := range page.Data {
			if len(tracks) >= limit {
				break
			}
			tracks = append(tracks, mapTrackToDomain(dt))
		}
		searchURL = page.Next
	}

	log.Printf("DEBUG deezer adapter: query %q resolved to %d tracks", query, len(tracks))
	return tracks, nil
}

func (c *Client) fetchSearchPage(ctx context.Context, searchURL string) (searchPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return searchPage{}, fmt.Errorf("deezer adapter: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return searchPage{}, fmt.Errorf("deezer adapter: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return searchPage{}, fmt.Errorf("deezer adapter: status %d", resp.StatusCode)
	}

	var page searchPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return searchPage{}, fmt.Errorf("deezer adapter: %w", err)
	}
	return page, nil
}
