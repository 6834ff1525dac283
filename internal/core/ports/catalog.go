package ports

import (
	"context"

	"github.com/ewilliams-labs/timbre/internal/core/domain"
)

// TrackSearcher finds tracks matching a free-text query. Results carry
// preview URLs when the catalog has them; a track without one is still
// returned and the caller decides whether to skip it.
type TrackSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]domain.Track, error)
}

// PlaylistProvider lists every track of a catalog playlist, following the
// provider's pagination to the end.
type PlaylistProvider interface {
	PlaylistTracks(ctx context.Context, playlistID string) ([]domain.Track, error)
}
