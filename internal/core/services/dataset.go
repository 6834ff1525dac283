package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ewilliams-labs/timbre/internal/core/domain"
	"github.com/ewilliams-labs/timbre/internal/core/ports"
)

// DatasetBuilder feeds catalog tracks through the analysis pipeline and
// accumulates labeled feature rows for a tabular dataset.
type DatasetBuilder struct {
	loader    ports.AudioLoader
	extractor *Extractor
	writer    ports.DatasetWriter
	opts      ExtractOptions
}

// NewDatasetBuilder constructs a DatasetBuilder analyzing tracks with the
// given extraction options.
func NewDatasetBuilder(loader ports.AudioLoader, extractor *Extractor, writer ports.DatasetWriter, opts ExtractOptions) *DatasetBuilder {
	return &DatasetBuilder{
		loader:    loader,
		extractor: extractor,
		writer:    writer,
		opts:      opts,
	}
}

// AnalyzeTrack runs the pipeline for one catalog track under the given
// genre label and returns an explicit outcome. A track without a preview
// URL is a skip, not an error; a pipeline failure is reported in the result
// and never aborts the surrounding build.
func (b *DatasetBuilder) AnalyzeTrack(ctx context.Context, track domain.Track, label string) domain.TrackResult {
	if track.PreviewURL == "" {
		return domain.TrackResult{Track: track, Status: domain.TrackSkipped}
	}

	wave, err := b.loader.Load(ctx, track.PreviewURL)
	if err != nil {
		return domain.TrackResult{Track: track, Status: domain.TrackFailed, Err: err}
	}

	features, err := b.extractor.Extract(ctx, wave, b.opts)
	if err != nil {
		return domain.TrackResult{Track: track, Status: domain.TrackFailed, Err: err}
	}

	return domain.TrackResult{
		Track:  track,
		Status: domain.TrackAnalyzed,
		Row: domain.DatasetRow{
			Features:  features,
			Genre:     label,
			TrackName: track.Title,
			Artist:    track.Artist,
		},
	}
}

// BuildSummary tallies the outcomes of one dataset build.
type BuildSummary struct {
	Analyzed int
	Skipped  int
	Failed   int
}

// WriteDataset tallies results, logs failures, and persists the analyzed
// rows. It refuses to write when no track produced features.
func (b *DatasetBuilder) WriteDataset(path string, results []domain.TrackResult) (BuildSummary, error) {
	var summary BuildSummary
	rows := make([]domain.DatasetRow, 0, len(results))
	for _, r := range results {
		switch r.Status {
		case domain.TrackAnalyzed:
			summary.Analyzed++
			rows = append(rows, r.Row)
		case domain.TrackSkipped:
			summary.Skipped++
		case domain.TrackFailed:
			summary.Failed++
			log.Printf("WARN dataset: %s - %s: %v", r.Track.Artist, r.Track.Title, r.Err)
		}
	}
	if len(rows) == 0 {
		return summary, errors.New("service: no tracks produced features, not writing an empty dataset")
	}
	if err := b.writer.Write(path, rows); err != nil {
		return summary, fmt.Errorf("service: write dataset: %w", err)
	}
	return summary, nil
}
