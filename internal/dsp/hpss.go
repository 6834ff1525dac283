package dsp

import "sort"

// HarmonicPercussive splits a signal into tonal and transient components by
// median filtering the magnitude spectrogram along time (harmonic) and
// frequency (percussive) and resynthesizing through soft Wiener masks.
// Both outputs are trimmed or zero-padded to the input length.
func HarmonicPercussive(samples []float64, window, hop, medianTime, medianFreq int) (harmonic, percussive []float64) {
	spec := STFT(samples, window, hop)
	if len(spec) == 0 {
		return make([]float64, len(samples)), make([]float64, len(samples))
	}
	mags := Magnitudes(spec)
	frames, bins := len(mags), len(mags[0])

	harmEnh := make([][]float64, frames)
	for t := range harmEnh {
		harmEnh[t] = make([]float64, bins)
	}
	percEnh := make([][]float64, frames)
	for t := range percEnh {
		percEnh[t] = make([]float64, bins)
	}

	buf := make([]float64, 0, medianTime+medianFreq)
	for k := 0; k < bins; k++ {
		for t := 0; t < frames; t++ {
			buf = buf[:0]
			for dt := -medianTime / 2; dt <= medianTime/2; dt++ {
				if tt := t + dt; tt >= 0 && tt < frames {
					buf = append(buf, mags[tt][k])
				}
			}
			harmEnh[t][k] = median(buf)
		}
	}
	for t := 0; t < frames; t++ {
		for k := 0; k < bins; k++ {
			buf = buf[:0]
			for dk := -medianFreq / 2; dk <= medianFreq/2; dk++ {
				if kk := k + dk; kk >= 0 && kk < bins {
					buf = append(buf, mags[t][kk])
				}
			}
			percEnh[t][k] = median(buf)
		}
	}

	hSpec := make([][]complex128, frames)
	pSpec := make([][]complex128, frames)
	for t := 0; t < frames; t++ {
		hRow := make([]complex128, bins)
		pRow := make([]complex128, bins)
		for k := 0; k < bins; k++ {
			hh := harmEnh[t][k] * harmEnh[t][k]
			pp := percEnh[t][k] * percEnh[t][k]
			if den := hh + pp; den > 0 {
				hRow[k] = spec[t][k] * complex(hh/den, 0)
				pRow[k] = spec[t][k] * complex(pp/den, 0)
			}
		}
		hSpec[t] = hRow
		pSpec[t] = pRow
	}

	harmonic = fitLength(ISTFT(hSpec, window, hop), len(samples))
	percussive = fitLength(ISTFT(pSpec, window, hop), len(samples))
	return harmonic, percussive
}

// median returns the middle value of xs, averaging the two central values
// for even lengths. xs is reordered in place.
func median(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	sort.Float64s(xs)
	if n%2 == 1 {
		return xs[n/2]
	}
	return (xs[n/2-1] + xs[n/2]) / 2
}

// fitLength trims or zero-pads xs to length n.
func fitLength(xs []float64, n int) []float64 {
	if len(xs) == n {
		return xs
	}
	out := make([]float64, n)
	copy(out, xs)
	return out
}
