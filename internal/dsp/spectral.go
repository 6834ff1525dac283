package dsp

import "math"

// SpectralCentroid returns the magnitude-weighted mean frequency per frame.
func SpectralCentroid(samples []float64, sampleRate, window, hop int) []float64 {
	mags := MagnitudeSpectrogram(samples, window, hop)
	out := make([]float64, len(mags))
	for t, mag := range mags {
		var num, den float64
		for k, m := range mag {
			num += binFreq(k, window, sampleRate) * m
			den += m
		}
		if den > 0 {
			out[t] = num / den
		}
	}
	return out
}

// SpectralBandwidth returns the magnitude-weighted standard deviation of
// frequency around the per-frame centroid.
func SpectralBandwidth(samples []float64, sampleRate, window, hop int) []float64 {
	mags := MagnitudeSpectrogram(samples, window, hop)
	out := make([]float64, len(mags))
	for t, mag := range mags {
		var num, den float64
		for k, m := range mag {
			num += binFreq(k, window, sampleRate) * m
			den += m
		}
		if den == 0 {
			continue
		}
		centroid := num / den
		var acc float64
		for k, m := range mag {
			d := binFreq(k, window, sampleRate) - centroid
			acc += m * d * d
		}
		out[t] = math.Sqrt(acc / den)
	}
	return out
}

// SpectralRolloff returns, per frame, the lowest frequency below which pct of
// the total spectral magnitude sits.
func SpectralRolloff(samples []float64, sampleRate, window, hop int, pct float64) []float64 {
	mags := MagnitudeSpectrogram(samples, window, hop)
	out := make([]float64, len(mags))
	for t, mag := range mags {
		var total float64
		for _, m := range mag {
			total += m
		}
		if total == 0 {
			continue
		}
		target := pct * total
		var cum float64
		for k, m := range mag {
			cum += m
			if cum >= target {
				out[t] = binFreq(k, window, sampleRate)
				break
			}
		}
	}
	return out
}

// ZeroCrossingRate returns the fraction of adjacent-sample sign changes per
// frame.
func ZeroCrossingRate(samples []float64, window, hop int) []float64 {
	samples = framePadded(samples, window)
	frames := frameCount(len(samples), window, hop)
	out := make([]float64, frames)
	for t := 0; t < frames; t++ {
		start := t * hop
		crossings := 0
		for i := start + 1; i < start+window; i++ {
			if (samples[i-1] >= 0) != (samples[i] >= 0) {
				crossings++
			}
		}
		out[t] = float64(crossings) / float64(window)
	}
	return out
}

// RMSEnergy returns the root-mean-square amplitude per frame.
func RMSEnergy(samples []float64, window, hop int) []float64 {
	samples = framePadded(samples, window)
	frames := frameCount(len(samples), window, hop)
	out := make([]float64, frames)
	for t := 0; t < frames; t++ {
		start := t * hop
		var acc float64
		for i := start; i < start+window; i++ {
			acc += samples[i] * samples[i]
		}
		out[t] = math.Sqrt(acc / float64(window))
	}
	return out
}
