package services

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/ewilliams-labs/timbre/internal/core/domain"
	"github.com/ewilliams-labs/timbre/internal/core/ports"
)

// eps guards logs and divisions against all-zero signals.
const eps = 1e-10

// DefaultMFCCCount is how many cepstral coefficients an extraction keeps.
const DefaultMFCCCount = 13

// ExtractOptions selects optional work for one extraction.
type ExtractOptions struct {
	MFCCCount int  // coefficients to compute, DefaultMFCCCount when zero
	Structure bool // include rhythm/structure descriptors
}

// Extractor turns a waveform into the named feature vector consumed by the
// classifier and the dataset builders. The signal primitives come from the
// injected analyzer; this component owns only the derived quantities and the
// finiteness guarantee.
type Extractor struct {
	analyzer ports.SignalAnalyzer
}

// NewExtractor constructs an Extractor.
func NewExtractor(analyzer ports.SignalAnalyzer) *Extractor {
	return &Extractor{analyzer: analyzer}
}

// Extract derives the feature vector for one waveform. The vector always
// carries the required keys; structure descriptors appear only when
// opts.Structure is set. Any non-finite value aborts the extraction with a
// FeatureComputationError instead of leaking into the result.
func (e *Extractor) Extract(ctx context.Context, w domain.Waveform, opts ExtractOptions) (domain.FeatureVector, error) {
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("service: extract: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mfccCount := opts.MFCCCount
	if mfccCount <= 0 {
		mfccCount = DefaultMFCCCount
	}

	fv := domain.FeatureVector{
		domain.FeatTempo:    e.analyzer.Tempo(w),
		domain.FeatDuration: w.Duration(),
		domain.FeatKey:      float64(dominantPitchClass(e.analyzer.Chroma(w))),
	}

	rms := e.analyzer.RMSEnergy(w)
	fv[domain.FeatLoudness] = 10 * math.Log10(stat.Mean(rms, nil)+eps)

	fv[domain.FeatSpectralCentroid] = stat.Mean(e.analyzer.SpectralCentroid(w), nil)
	fv[domain.FeatSpectralBandwidth] = stat.Mean(e.analyzer.SpectralBandwidth(w), nil)
	fv[domain.FeatSpectralRolloff] = stat.Mean(e.analyzer.SpectralRolloff(w), nil)
	fv[domain.FeatZeroCrossing] = stat.Mean(e.analyzer.ZeroCrossingRate(w), nil)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for i, series := range e.analyzer.MFCC(w, mfccCount) {
		fv[domain.MFCCKey(i)] = stat.Mean(series, nil)
	}

	if opts.Structure {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		harmonic, percussive := e.analyzer.HarmonicPercussive(w)
		fv[domain.FeatPercussiveStrength] = meanSquare(percussive)
		fv[domain.FeatHarmonicRatio] = guardedRatioMean(harmonic, w.Samples)

		pulse := e.analyzer.Pulse(w)
		fv[domain.FeatPolyrhythmScore] = stat.StdDev(pulse, nil)
		fv[domain.FeatOffbeatEmphasis] = meanOdd(pulse) / (stat.Mean(pulse, nil) + eps)
	}

	for key, v := range fv {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ports.FeatureComputationError{Key: key, Value: v}
		}
	}
	return fv, nil
}

// dominantPitchClass returns the index of the pitch class with the highest
// time-averaged energy. Ties keep the lowest index, an empty profile maps to
// class 0.
func dominantPitchClass(chroma [][]float64) int {
	best, bestEnergy := 0, math.Inf(-1)
	for pc, series := range chroma {
		var acc float64
		for _, v := range series {
			acc += v
		}
		if len(series) > 0 {
			acc /= float64(len(series))
		}
		if acc > bestEnergy {
			best, bestEnergy = pc, acc
		}
	}
	return best
}

func meanSquare(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var acc float64
	for _, v := range xs {
		acc += v * v
	}
	return acc / float64(len(xs))
}

// guardedRatioMean averages num_i / (den_i + eps) elementwise over the
// shorter of the two series.
func guardedRatioMean(num, den []float64) float64 {
	n := len(num)
	if len(den) < n {
		n = len(den)
	}
	if n == 0 {
		return 0
	}
	var acc float64
	for i := 0; i < n; i++ {
		acc += num[i] / (den[i] + eps)
	}
	return acc / float64(n)
}

func meanOdd(xs []float64) float64 {
	var acc float64
	count := 0
	for i := 1; i < len(xs); i += 2 {
		acc += xs[i]
		count++
	}
	if count == 0 {
		return 0
	}
	return acc / float64(count)
}
