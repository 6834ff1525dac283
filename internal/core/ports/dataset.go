package ports

import "github.com/ewilliams-labs/timbre/internal/core/domain"

// DatasetWriter persists labeled feature rows as a tabular file, one row per
// track, columns = feature keys plus the genre/track_name/artist labels.
type DatasetWriter interface {
	Write(path string, rows []domain.DatasetRow) error
}
