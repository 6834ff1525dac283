// Package dsp implements the signal-processing primitives behind feature
// extraction: short-time Fourier analysis, spectral shape descriptors,
// chroma, mel cepstral coefficients, harmonic/percussive separation and
// onset-based tempo and pulse estimation. Everything operates on mono
// float64 samples in [-1, 1].
package dsp

import (
	"github.com/ewilliams-labs/timbre/internal/core/domain"
	"github.com/ewilliams-labs/timbre/internal/core/ports"
)

// Config controls the analysis frame geometry and filterbank shape.
type Config struct {
	WindowSize int     // STFT window length in samples
	HopSize    int     // STFT hop length in samples
	NumMels    int     // mel bands feeding the cepstral transform
	LowFreq    float64 // lowest filterbank frequency in Hz
	HighFreq   float64 // highest filterbank frequency in Hz, 0 = Nyquist
	MedianTime int     // HPSS median width across frames
	MedianFreq int     // HPSS median width across bins
	RolloffPct float64 // spectral rolloff energy fraction
}

// DefaultConfig returns the preview-analysis defaults.
func DefaultConfig() Config {
	return Config{
		WindowSize: 2048,
		HopSize:    512,
		NumMels:    40,
		LowFreq:    20,
		HighFreq:   0,
		MedianTime: 17,
		MedianFreq: 17,
		RolloffPct: 0.85,
	}
}

// Analyzer adapts the package primitives to the analysis surface consumed by
// the feature extractor. It is stateless apart from its config and safe for
// concurrent use.
type Analyzer struct {
	cfg Config
}

var _ ports.SignalAnalyzer = (*Analyzer)(nil)

// New returns an Analyzer, filling zero config fields from DefaultConfig.
func New(cfg Config) *Analyzer {
	def := DefaultConfig()
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = def.WindowSize
	}
	if cfg.HopSize <= 0 {
		cfg.HopSize = def.HopSize
	}
	if cfg.NumMels <= 0 {
		cfg.NumMels = def.NumMels
	}
	if cfg.LowFreq <= 0 {
		cfg.LowFreq = def.LowFreq
	}
	if cfg.MedianTime <= 0 {
		cfg.MedianTime = def.MedianTime
	}
	if cfg.MedianFreq <= 0 {
		cfg.MedianFreq = def.MedianFreq
	}
	if cfg.RolloffPct <= 0 || cfg.RolloffPct > 1 {
		cfg.RolloffPct = def.RolloffPct
	}
	return &Analyzer{cfg: cfg}
}

func (a *Analyzer) Tempo(w domain.Waveform) float64 {
	return Tempo(w.Samples, w.SampleRate, a.cfg.WindowSize, a.cfg.HopSize)
}

func (a *Analyzer) Chroma(w domain.Waveform) [][]float64 {
	return Chroma(w.Samples, w.SampleRate, a.cfg.WindowSize, a.cfg.HopSize)
}

func (a *Analyzer) HarmonicPercussive(w domain.Waveform) ([]float64, []float64) {
	return HarmonicPercussive(w.Samples, a.cfg.WindowSize, a.cfg.HopSize, a.cfg.MedianTime, a.cfg.MedianFreq)
}

func (a *Analyzer) Pulse(w domain.Waveform) []float64 {
	return Pulse(w.Samples, w.SampleRate, a.cfg.WindowSize, a.cfg.HopSize)
}

func (a *Analyzer) MFCC(w domain.Waveform, n int) [][]float64 {
	return MFCC(w.Samples, w.SampleRate, a.cfg.WindowSize, a.cfg.HopSize, a.cfg.NumMels, n, a.cfg.LowFreq, a.cfg.HighFreq)
}

func (a *Analyzer) SpectralCentroid(w domain.Waveform) []float64 {
	return SpectralCentroid(w.Samples, w.SampleRate, a.cfg.WindowSize, a.cfg.HopSize)
}

func (a *Analyzer) SpectralBandwidth(w domain.Waveform) []float64 {
	return SpectralBandwidth(w.Samples, w.SampleRate, a.cfg.WindowSize, a.cfg.HopSize)
}

func (a *Analyzer) SpectralRolloff(w domain.Waveform) []float64 {
	return SpectralRolloff(w.Samples, w.SampleRate, a.cfg.WindowSize, a.cfg.HopSize, a.cfg.RolloffPct)
}

func (a *Analyzer) ZeroCrossingRate(w domain.Waveform) []float64 {
	return ZeroCrossingRate(w.Samples, a.cfg.WindowSize, a.cfg.HopSize)
}

func (a *Analyzer) RMSEnergy(w domain.Waveform) []float64 {
	return RMSEnergy(w.Samples, a.cfg.WindowSize, a.cfg.HopSize)
}
