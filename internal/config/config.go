// Package config loads runtime configuration from environment variables.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	// Server
	Addr string

	// Spotify API credentials (client-credentials flow)
	SpotifyClientID     string
	SpotifyClientSecret string

	// Deezer API base URL, empty means the public endpoint
	DeezerBaseURL string

	// Persistence
	DBPath string

	// Google ID-token audience; empty leaves token verification unconfigured
	GoogleAudience string

	// Preview fetching
	PreviewTimeout    time.Duration // per-download HTTP timeout
	PreviewMaxSeconds int           // decoded audio cap per preview

	// Batch analysis
	WorkerCount int // concurrent pipeline workers
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	return Config{
		Addr:                envStr("TIMBRE_ADDR", ":8080"),
		SpotifyClientID:     envStr("SPOTIFY_CLIENT_ID", ""),
		SpotifyClientSecret: envStr("SPOTIFY_CLIENT_SECRET", ""),
		DeezerBaseURL:       envStr("DEEZER_BASE_URL", ""),
		DBPath:              envStr("TIMBRE_DB_PATH", "timbre.db"),
		GoogleAudience:      envStr("GOOGLE_AUDIENCE", ""),
		PreviewTimeout:      time.Duration(envInt("PREVIEW_TIMEOUT", 15)) * time.Second,
		PreviewMaxSeconds:   envInt("PREVIEW_MAX_SECONDS", 30),
		WorkerCount:         envInt("WORKER_COUNT", 4),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
