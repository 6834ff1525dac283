package dsp

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Tempo bounds considered by the estimator.
const (
	minBPM = 30.0
	maxBPM = 300.0
)

// Tempo estimates the dominant tempo in beats per minute via
// autocorrelation of the onset envelope. Returns 0 for a signal with no
// usable periodicity (too short or flat).
func Tempo(samples []float64, sampleRate, window, hop int) float64 {
	env := OnsetEnvelope(samples, window, hop)
	lag := tempoLag(env, sampleRate, hop)
	if lag <= 0 {
		return 0
	}
	frameRate := float64(sampleRate) / float64(hop)
	return 60.0 * frameRate / float64(lag)
}

// tempoLag picks the autocorrelation lag with the strongest periodicity
// inside the BPM bounds, weighted by a log-normal prior centered on 120 BPM
// to damp octave errors.
func tempoLag(env []float64, sampleRate, hop int) int {
	frameRate := float64(sampleRate) / float64(hop)
	minLag := int(60.0 * frameRate / maxBPM)
	maxLag := int(60.0 * frameRate / minBPM)
	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= len(env) {
		maxLag = len(env) - 1
	}
	if maxLag < minLag {
		return 0
	}

	mean := stat.Mean(env, nil)
	bestLag, bestScore := 0, 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		var acc float64
		for i := 0; i+lag < len(env); i++ {
			acc += (env[i] - mean) * (env[i+lag] - mean)
		}
		acc /= float64(len(env) - lag)

		bpm := 60.0 * frameRate / float64(lag)
		logDev := math.Log2(bpm / 120.0)
		score := acc * math.Exp(-0.5*logDev*logDev)
		if score > bestScore {
			bestScore = score
			bestLag = lag
		}
	}
	return bestLag
}
