package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/timbre/internal/adapters/spotify"
	"github.com/ewilliams-labs/timbre/internal/core/domain"
)

// labeledPlaylist pairs a genre label with the Spotify playlist that
// exemplifies it.
type labeledPlaylist struct {
	Label      string
	PlaylistID string
}

// defaultPlaylists seed the build when no genre=playlistID pairs are given.
var defaultPlaylists = []labeledPlaylist{
	{Label: "afrobeats", PlaylistID: "2DfNaw9Z1nuddjI6NczTXS"},
	{Label: "amapiano", PlaylistID: "4Ymf8eaPQGT7HMTymoX82f"},
}

var spotifyCmd = &cobra.Command{
	Use:   "spotify [genre=playlistID...]",
	Short: "Build a dataset from labeled Spotify playlists",
	Long: `Pull every track of each playlist and analyze its preview under the
given genre label. Without arguments the legacy afrobeats and amapiano
playlists are used.

Requires SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET in the environment
or a .env file.

Examples:
  datasetctl spotify
  datasetctl spotify highlife=37i9dQZF1DWSiyIBdVQrkk gqom=6qXSWvYmGBW6AIpxbx1Tsd`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.SpotifyClientID == "" || cfg.SpotifyClientSecret == "" {
			return errors.New("SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET are required")
		}
		playlists, err := parsePlaylistArgs(args)
		if err != nil {
			return err
		}

		client := spotify.NewClient(cmd.Context(), cfg.SpotifyClientID, cfg.SpotifyClientSecret)
		builder := newBuilder()

		var results []domain.TrackResult
		for _, pl := range playlists {
			color.Cyan("fetching playlist %s (%s)", pl.PlaylistID, pl.Label)
			tracks, err := client.PlaylistTracks(cmd.Context(), pl.PlaylistID)
			if err != nil {
				return err
			}
			if trackLimit > 0 && len(tracks) > trackLimit {
				tracks = tracks[:trackLimit]
			}
			fmt.Printf("  %d tracks\n", len(tracks))
			results = append(results, analyzeAll(cmd.Context(), builder, tracks, pl.Label)...)
		}

		path := outPath
		if path == "" {
			path = "african_music_dataset.csv"
		}
		summary, err := builder.WriteDataset(path, results)
		if err != nil {
			return err
		}
		printSummary(path, summary)
		return nil
	},
}

func parsePlaylistArgs(args []string) ([]labeledPlaylist, error) {
	if len(args) == 0 {
		return defaultPlaylists, nil
	}
	out := make([]labeledPlaylist, 0, len(args))
	for _, arg := range args {
		label, id, found := strings.Cut(arg, "=")
		if !found || label == "" || id == "" {
			return nil, fmt.Errorf("invalid argument %q, want genre=playlistID", arg)
		}
		out = append(out, labeledPlaylist{Label: label, PlaylistID: id})
	}
	return out, nil
}
