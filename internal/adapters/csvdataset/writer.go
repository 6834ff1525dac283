// Package csvdataset writes labeled feature rows as CSV for model training.
package csvdataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/ewilliams-labs/timbre/internal/core/domain"
	"github.com/ewilliams-labs/timbre/internal/core/ports"
)

// Writer persists dataset rows as a CSV file with one column per feature.
type Writer struct{}

// compile-time interface assertion
var _ ports.DatasetWriter = (*Writer)(nil)

// NewWriter constructs a Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write renders rows to path. Feature columns are sorted by name so runs with
// the same options produce identical headers; the label columns come last. A
// feature missing from a row becomes an empty cell.
func (w *Writer) Write(path string, rows []domain.DatasetRow) error {
	if len(rows) == 0 {
		return fmt.Errorf("csvdataset: no rows to write")
	}

	keys := featureColumns(rows)
	header := append(append([]string{}, keys...), "genre", "track_name", "artist")

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csvdataset: %w", err)
	}

	cw := csv.NewWriter(f)
	writeErr := cw.Write(header)
	record := make([]string, 0, len(header))
	for _, row := range rows {
		if writeErr != nil {
			break
		}
		record = record[:0]
		for _, key := range keys {
			value, ok := row.Features[key]
			if !ok {
				record = append(record, "")
				continue
			}
			record = append(record, strconv.FormatFloat(value, 'g', -1, 64))
		}
		record = append(record, row.Genre, row.TrackName, row.Artist)
		writeErr = cw.Write(record)
	}
	cw.Flush()
	if writeErr == nil {
		writeErr = cw.Error()
	}
	if writeErr != nil {
		f.Close()
		return fmt.Errorf("csvdataset: %w", writeErr)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("csvdataset: %w", err)
	}
	return nil
}

func featureColumns(rows []domain.DatasetRow) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for key := range row.Features {
			seen[key] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
