// Package spotify adapts the Spotify Web API to the catalog ports.
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/ewilliams-labs/timbre/internal/core/domain"
	"github.com/ewilliams-labs/timbre/internal/core/ports"
)

const (
	defaultBaseURL = "https://api.spotify.com/v1"
	tokenURL       = "https://accounts.spotify.com/api/token"
	pageLimit      = 100
)

// Client is an HTTP client for the Spotify adapter.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	maxRetries  int
	baseBackoff time.Duration
}

// compile-time interface assertion
var _ ports.PlaylistProvider = (*Client)(nil)

// NewClient constructs a client that authenticates with the client
// credentials flow. The underlying transport fetches and refreshes the
// bearer token transparently.
func NewClient(ctx context.Context, clientID, clientSecret string) *Client {
	conf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	return NewClientWithBaseURL(conf.Client(ctx), defaultBaseURL)
}

// NewClientWithBaseURL constructs a client against an explicit base URL with
// no authentication of its own. Tests point it at a local server.
func NewClientWithBaseURL(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	maxRetries, baseBackoff := getRetryConfig()
	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxRetries:  maxRetries,
		baseBackoff: baseBackoff,
	}
}

// PlaylistTracks walks every page of a playlist and returns its tracks.
// Items Spotify nulls out, such as removed tracks and podcast episodes, are
// skipped.
func (c *Client) PlaylistTracks(ctx context.Context, playlistID string) ([]domain.Track, error) {
	url := fmt.Sprintf("%s/playlists/%s/tracks?limit=%d", c.baseURL, playlistID, pageLimit)

	var tracks []domain.Track
	for url != "" {
		page, err := c.fetchPlaylistPage(ctx, url)
		if err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			if item.Track == nil || item.Track.ID == "" {
				continue
			}
			tracks = append(tracks, mapTrackToDomain(*item.Track))
		}
		url = page.Next
	}

	log.Printf("DEBUG spotify adapter: playlist %s resolved to %d tracks", playlistID, len(tracks))
	return tracks, nil
}

func (c *Client) fetchPlaylistPage(ctx context.Context, url string) (playlistPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return playlistPage{}, fmt.Errorf("spotify adapter: %w", err)
	}

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return playlistPage{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return playlistPage{}, fmt.Errorf("spotify adapter: status %d", resp.StatusCode)
	}

	var page playlistPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return playlistPage{}, fmt.Errorf("spotify adapter: %w", err)
	}
	return page, nil
}
