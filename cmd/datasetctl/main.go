// Package main provides the dataset builder CLI.
//
// Usage:
//
//	datasetctl [flags] <command> [args]
//
// Commands:
//
//	deezer  - build a labeled dataset from Deezer search results
//	spotify - build a labeled dataset from Spotify playlists
//
// Configuration:
//
//	Credentials and tuning come from environment variables (or a .env
//	file): SPOTIFY_CLIENT_ID, SPOTIFY_CLIENT_SECRET, DEEZER_BASE_URL,
//	PREVIEW_TIMEOUT, PREVIEW_MAX_SECONDS, WORKER_COUNT.
package main

import (
	"fmt"
	"os"

	"github.com/ewilliams-labs/timbre/cmd/datasetctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
