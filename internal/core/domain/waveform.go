package domain

import "errors"

// Waveform is a mono audio signal sampled at a fixed rate, amplitudes in
// [-1, 1]. It lives for a single analysis request: the loader produces it,
// the extractor consumes it, nothing persists it.
type Waveform struct {
	Samples    []float64
	SampleRate int
}

func (w Waveform) Validate() error {
	if len(w.Samples) == 0 {
		return errors.New("domain: empty waveform")
	}
	if w.SampleRate <= 0 {
		return errors.New("domain: invalid sample rate")
	}
	return nil
}

// Duration returns the signal length in seconds.
func (w Waveform) Duration() float64 {
	if w.SampleRate <= 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}
