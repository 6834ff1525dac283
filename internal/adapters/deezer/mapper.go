package deezer

import (
	"strconv"

	"github.com/ewilliams-labs/timbre/internal/core/domain"
)

func mapTrackToDomain(dt deezerTrack) domain.Track {
	return domain.Track{
		ID:         strconv.FormatInt(dt.ID, 10),
		Title:      dt.Title,
		Artist:     dt.Artist.Name,
		Album:      dt.Album.Title,
		PreviewURL: dt.Preview,
	}
}
