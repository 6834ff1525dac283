package dsp

import "math"

// Audible pitch range considered by the chroma projection, A0 to C8.
const (
	chromaMinHz = 27.5
	chromaMaxHz = 4186.0
)

// Chroma maps spectral energy onto the 12 pitch classes per frame, returned
// class-major: chroma[class][frame], with class 0 = C. Bins outside the
// musical range are ignored.
func Chroma(samples []float64, sampleRate, window, hop int) [][]float64 {
	mags := MagnitudeSpectrogram(samples, window, hop)
	out := make([][]float64, 12)
	for pc := range out {
		out[pc] = make([]float64, len(mags))
	}
	for t, mag := range mags {
		for k := 1; k < len(mag); k++ {
			f := binFreq(k, window, sampleRate)
			if f < chromaMinHz || f > chromaMaxHz {
				continue
			}
			midi := 69.0 + 12.0*math.Log2(f/440.0)
			pc := ((int(math.Round(midi)) % 12) + 12) % 12
			out[pc][t] += mag[k] * mag[k]
		}
	}
	return out
}
