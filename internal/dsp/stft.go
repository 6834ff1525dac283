package dsp

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// hammingWindow generates a Hamming window of the given length.
func hammingWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

// framePadded returns samples, zero-padded to at least window length so that
// short or silent clips still produce one analysis frame.
func framePadded(samples []float64, window int) []float64 {
	if len(samples) >= window {
		return samples
	}
	padded := make([]float64, window)
	copy(padded, samples)
	return padded
}

// frameCount returns how many full windows fit with the given hop.
func frameCount(n, window, hop int) int {
	if n < window {
		return 0
	}
	return (n-window)/hop + 1
}

// STFT computes a time-major complex spectrogram over the positive-frequency
// bins: spec[frame][bin], with window/2+1 bins per frame.
func STFT(samples []float64, window, hop int) [][]complex128 {
	samples = framePadded(samples, window)
	win := hammingWindow(window)
	frames := frameCount(len(samples), window, hop)
	half := window/2 + 1
	spec := make([][]complex128, frames)
	frame := make([]float64, window)
	for t := 0; t < frames; t++ {
		start := t * hop
		for i := 0; i < window; i++ {
			frame[i] = samples[start+i] * win[i]
		}
		full := fft.FFTReal(frame)
		row := make([]complex128, half)
		copy(row, full[:half])
		spec[t] = row
	}
	return spec
}

// Magnitudes converts a complex spectrogram to per-bin magnitudes.
func Magnitudes(spec [][]complex128) [][]float64 {
	mags := make([][]float64, len(spec))
	for t, row := range spec {
		m := make([]float64, len(row))
		for k, c := range row {
			m[k] = cmplx.Abs(c)
		}
		mags[t] = m
	}
	return mags
}

// MagnitudeSpectrogram returns |STFT| per frame and bin.
func MagnitudeSpectrogram(samples []float64, window, hop int) [][]float64 {
	return Magnitudes(STFT(samples, window, hop))
}

// PowerSpectrogram returns |STFT|^2 per frame and bin.
func PowerSpectrogram(samples []float64, window, hop int) [][]float64 {
	mags := MagnitudeSpectrogram(samples, window, hop)
	for _, row := range mags {
		for k, m := range row {
			row[k] = m * m
		}
	}
	return mags
}

// ISTFT reconstructs a time signal from a positive-frequency complex
// spectrogram produced by STFT, using overlap-add with window-sum
// normalization. The result has length (frames-1)*hop + window.
func ISTFT(spec [][]complex128, window, hop int) []float64 {
	if len(spec) == 0 {
		return nil
	}
	win := hammingWindow(window)
	n := (len(spec)-1)*hop + window
	out := make([]float64, n)
	norm := make([]float64, n)
	full := make([]complex128, window)
	for t, row := range spec {
		copy(full, row)
		// rebuild the conjugate-symmetric upper half
		for k := len(row); k < window; k++ {
			full[k] = cmplx.Conj(full[window-k])
		}
		frame := fft.IFFT(full)
		start := t * hop
		for i := 0; i < window; i++ {
			out[start+i] += real(frame[i]) * win[i]
			norm[start+i] += win[i] * win[i]
		}
	}
	for i := range out {
		if norm[i] > 1e-12 {
			out[i] /= norm[i]
		}
	}
	return out
}

// binFreq returns the center frequency in Hz of FFT bin k.
func binFreq(k, window, sampleRate int) float64 {
	return float64(k) * float64(sampleRate) / float64(window)
}
