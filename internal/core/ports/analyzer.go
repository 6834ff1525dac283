package ports

import "github.com/ewilliams-labs/timbre/internal/core/domain"

// SignalAnalyzer exposes the signal-processing primitives the feature
// extractor consumes. Frame-series results come back unreduced; time
// averaging is the extractor's job. Implementations must be deterministic
// and safe for concurrent use.
type SignalAnalyzer interface {
	// Tempo estimates the dominant tempo in beats per minute.
	Tempo(w domain.Waveform) float64
	// Chroma returns per-frame energy for the 12 pitch classes, indexed
	// [class][frame].
	Chroma(w domain.Waveform) [][]float64
	// HarmonicPercussive splits the signal into tonal and transient
	// components of the same length as the input.
	HarmonicPercussive(w domain.Waveform) (harmonic, percussive []float64)
	// Pulse returns a normalized beat-salience curve derived from the
	// onset-strength envelope.
	Pulse(w domain.Waveform) []float64
	// MFCC returns the first n mel cepstral coefficients per frame,
	// indexed [coefficient][frame].
	MFCC(w domain.Waveform, n int) [][]float64
	SpectralCentroid(w domain.Waveform) []float64
	SpectralBandwidth(w domain.Waveform) []float64
	SpectralRolloff(w domain.Waveform) []float64
	ZeroCrossingRate(w domain.Waveform) []float64
	RMSEnergy(w domain.Waveform) []float64
}
