package domain

// DatasetRow is one labeled example in a training dataset: the extracted
// features plus the caller-supplied genre label and track identity.
type DatasetRow struct {
	Features  FeatureVector
	Genre     string
	TrackName string
	Artist    string
}

// TrackStatus classifies the outcome of one track in a dataset build.
// Skip-vs-failure is an explicit value consumed by the build loop, never an
// exception-style side effect.
type TrackStatus int

const (
	// TrackAnalyzed means the preview went through the full pipeline and
	// produced a dataset row.
	TrackAnalyzed TrackStatus = iota
	// TrackSkipped means the catalog exposes no preview audio for the track.
	TrackSkipped
	// TrackFailed means the pipeline errored; the build logs and continues.
	TrackFailed
)

func (s TrackStatus) String() string {
	switch s {
	case TrackAnalyzed:
		return "analyzed"
	case TrackSkipped:
		return "skipped"
	case TrackFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TrackResult is the explicit per-track outcome of a dataset build. Row is
// only populated for TrackAnalyzed, Err only for TrackFailed.
type TrackResult struct {
	Track  Track
	Row    DatasetRow
	Status TrackStatus
	Err    error
}
