package dsp

import "math"

// hzToMel converts frequency in Hz to the mel scale.
func hzToMel(hz float64) float64 {
	return 2595.0 * math.Log10(1.0+hz/700.0)
}

// melToHz converts a mel value back to Hz.
func melToHz(mel float64) float64 {
	return 700.0 * (math.Pow(10.0, mel/2595.0) - 1.0)
}

// melFilterBank builds numMels triangular filters over the positive FFT
// bins. Returns [numMels][window/2+1] weights.
func melFilterBank(numMels, window, sampleRate int, lowFreq, highFreq float64) [][]float64 {
	if highFreq <= 0 || highFreq > float64(sampleRate)/2 {
		highFreq = float64(sampleRate) / 2
	}
	half := window/2 + 1
	lowMel := hzToMel(lowFreq)
	highMel := hzToMel(highFreq)

	// numMels + 2 equally spaced mel points
	melPoints := make([]float64, numMels+2)
	step := (highMel - lowMel) / float64(numMels+1)
	for i := range melPoints {
		melPoints[i] = lowMel + float64(i)*step
	}

	// mel points to FFT bin indices, forced strictly increasing
	bins := make([]int, numMels+2)
	for i, m := range melPoints {
		bin := int(math.Round(melToHz(m) * float64(window) / float64(sampleRate)))
		if bin >= half {
			bin = half - 1
		}
		bins[i] = bin
	}
	for i := 1; i < len(bins); i++ {
		if bins[i] <= bins[i-1] {
			bins[i] = bins[i-1] + 1
		}
	}

	bank := make([][]float64, numMels)
	for m := 0; m < numMels; m++ {
		filter := make([]float64, half)
		left, center, right := bins[m], bins[m+1], bins[m+2]
		for k := left; k < center && k < half; k++ {
			filter[k] = float64(k-left) / float64(center-left)
		}
		for k := center; k <= right && k < half; k++ {
			filter[k] = float64(right-k) / float64(right-center)
		}
		bank[m] = filter
	}
	return bank
}

// dct2 computes the orthonormal DCT-II of x and returns the first n
// coefficients.
func dct2(x []float64, n int) []float64 {
	m := len(x)
	out := make([]float64, n)
	if m == 0 {
		return out
	}
	scale0 := math.Sqrt(1.0 / float64(m))
	scale := math.Sqrt(2.0 / float64(m))
	for k := 0; k < n; k++ {
		var acc float64
		for i := 0; i < m; i++ {
			acc += x[i] * math.Cos(math.Pi*float64(k)*(float64(i)+0.5)/float64(m))
		}
		if k == 0 {
			out[k] = acc * scale0
		} else {
			out[k] = acc * scale
		}
	}
	return out
}
