package dsp

import "math"

// MFCC computes the first n mel-frequency cepstral coefficients per frame,
// returned coefficient-major: mfcc[i][frame]. Mel energies are taken to
// decibels with a 1e-10 floor before the cosine transform, so silent bands
// contribute a finite -100 dB instead of -Inf.
func MFCC(samples []float64, sampleRate, window, hop, numMels, n int, lowFreq, highFreq float64) [][]float64 {
	power := PowerSpectrogram(samples, window, hop)
	bank := melFilterBank(numMels, window, sampleRate, lowFreq, highFreq)

	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, len(power))
	}
	logMel := make([]float64, numMels)
	for t, frame := range power {
		for m, filter := range bank {
			var acc float64
			for k, w := range filter {
				if w != 0 {
					acc += w * frame[k]
				}
			}
			logMel[m] = 10 * math.Log10(acc+1e-10)
		}
		coeffs := dct2(logMel, n)
		for i := 0; i < n; i++ {
			out[i][t] = coeffs[i]
		}
	}
	return out
}
