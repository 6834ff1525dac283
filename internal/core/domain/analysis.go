package domain

import "time"

// UnknownGenre is the sentinel label returned when no genre rule scores at
// least 0.5 for a feature vector.
const UnknownGenre = "Unknown"

// AnalysisRequest describes one preview analysis. Transports apply the
// documented defaults (MFCC and genre on, structure off) before handing the
// request to the service.
type AnalysisRequest struct {
	SongID        string
	AudioURL      string
	WithMFCC      bool
	WithStructure bool
	PredictGenre  bool
}

// Classification is the classifier verdict: a configured genre name or
// UnknownGenre, with confidence in [0, 1] rounded to two decimals.
type Classification struct {
	Genre      string
	Confidence float64
}

// AnalysisReport is the terminal artifact of the pipeline for one song.
// Classification is nil when genre prediction was not requested.
type AnalysisReport struct {
	SongID         string
	Features       FeatureVector
	Classification *Classification
	AnalyzedAt     time.Time
}
