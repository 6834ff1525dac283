package dsp

import "math"

// OnsetEnvelope measures spectral flux per frame: the mean positive change
// in bin magnitude since the previous frame, normalized to peak 1.
func OnsetEnvelope(samples []float64, window, hop int) []float64 {
	mags := MagnitudeSpectrogram(samples, window, hop)
	out := make([]float64, len(mags))
	for t := 1; t < len(mags); t++ {
		var flux float64
		for k := range mags[t] {
			if d := mags[t][k] - mags[t-1][k]; d > 0 {
				flux += d
			}
		}
		out[t] = flux / float64(len(mags[t]))
	}
	normalizePeak(out)
	return out
}

// Pulse converts the onset envelope into a beat-salience curve: each point
// is the local correlation of the envelope with a cosine at the dominant
// tempo lag, half-wave rectified and normalized to peak 1. A flat envelope
// yields an all-zero curve.
func Pulse(samples []float64, sampleRate, window, hop int) []float64 {
	env := OnsetEnvelope(samples, window, hop)
	lag := tempoLag(env, sampleRate, hop)
	return pulseFromEnvelope(env, lag)
}

func pulseFromEnvelope(env []float64, lag int) []float64 {
	n := len(env)
	out := make([]float64, n)
	if n == 0 || lag <= 0 {
		return out
	}
	span := 2 * lag
	for t := 0; t < n; t++ {
		lo := t - span
		if lo < 0 {
			lo = 0
		}
		hi := t + span
		if hi > n {
			hi = n
		}
		var acc float64
		for i := lo; i < hi; i++ {
			acc += env[i] * math.Cos(2*math.Pi*float64(i-t)/float64(lag))
		}
		if acc > 0 {
			out[t] = acc
		}
	}
	normalizePeak(out)
	return out
}

// normalizePeak scales xs so its maximum is 1; all-zero input is left as is.
func normalizePeak(xs []float64) {
	peak := 0.0
	for _, v := range xs {
		if v > peak {
			peak = v
		}
	}
	if peak > 0 {
		for i := range xs {
			xs[i] /= peak
		}
	}
}
