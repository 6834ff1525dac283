package spotify

import (
	"strings"

	"github.com/ewilliams-labs/timbre/internal/core/domain"
)

// mapTrackToDomain flattens a wire track into the domain shape. Artist lists
// collapse to a single comma separated string.
func mapTrackToDomain(st spotifyTrack) domain.Track {
	var artistNames []string
	for _, a := range st.Artists {
		artistNames = append(artistNames, a.Name)
	}

	return domain.Track{
		ID:         st.ID,
		Title:      st.Name,
		Artist:     strings.Join(artistNames, ", "),
		Album:      st.Album.Name,
		PreviewURL: st.PreviewURL,
	}
}
