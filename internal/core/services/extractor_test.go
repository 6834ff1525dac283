package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/ewilliams-labs/timbre/internal/core/domain"
	"github.com/ewilliams-labs/timbre/internal/core/ports"
)

// stubAnalyzer returns canned series so derived quantities can be checked by
// hand. calls counts invocations of Tempo, the first primitive consulted.
type stubAnalyzer struct {
	calls      int
	tempo      float64
	chroma     [][]float64
	harmonic   []float64
	percussive []float64
	pulse      []float64
	mfcc       [][]float64
	centroid   []float64
	bandwidth  []float64
	rolloff    []float64
	zcr        []float64
	rms        []float64
}

func newStubAnalyzer() *stubAnalyzer {
	chroma := make([][]float64, 12)
	for pc := range chroma {
		chroma[pc] = []float64{0.1, 0.1}
	}
	chroma[8] = []float64{0.9, 0.9} // G# dominates
	return &stubAnalyzer{
		tempo:      110,
		chroma:     chroma,
		harmonic:   []float64{0.25, 0.25, 0.25, 0.25},
		percussive: []float64{0.1, -0.1, 0.2, 0},
		pulse:      []float64{0.2, 0.8, 0.2, 0.8},
		mfcc:       [][]float64{{-150, -160}, {125, 135}},
		centroid:   []float64{2000, 2400},
		bandwidth:  []float64{1800, 2200},
		rolloff:    []float64{4000, 4400},
		zcr:        []float64{0.03, 0.05},
		rms:        []float64{0.1, 0.1},
	}
}

func (s *stubAnalyzer) Tempo(domain.Waveform) float64 {
	s.calls++
	return s.tempo
}
func (s *stubAnalyzer) Chroma(domain.Waveform) [][]float64 { return s.chroma }
func (s *stubAnalyzer) HarmonicPercussive(domain.Waveform) ([]float64, []float64) {
	return s.harmonic, s.percussive
}
func (s *stubAnalyzer) Pulse(domain.Waveform) []float64             { return s.pulse }
func (s *stubAnalyzer) MFCC(domain.Waveform, int) [][]float64       { return s.mfcc }
func (s *stubAnalyzer) SpectralCentroid(domain.Waveform) []float64  { return s.centroid }
func (s *stubAnalyzer) SpectralBandwidth(domain.Waveform) []float64 { return s.bandwidth }
func (s *stubAnalyzer) SpectralRolloff(domain.Waveform) []float64   { return s.rolloff }
func (s *stubAnalyzer) ZeroCrossingRate(domain.Waveform) []float64  { return s.zcr }
func (s *stubAnalyzer) RMSEnergy(domain.Waveform) []float64         { return s.rms }

var _ ports.SignalAnalyzer = (*stubAnalyzer)(nil)

func testWaveform() domain.Waveform {
	return domain.Waveform{Samples: []float64{0.5, 0.5, 0.5, 0.5}, SampleRate: 4}
}

func approx(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s: got %v, want %v", name, got, want)
	}
}

func TestExtractor_RequiredKeys(t *testing.T) {
	e := NewExtractor(newStubAnalyzer())
	fv, err := e.Extract(context.Background(), testWaveform(), ExtractOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	required := []string{
		domain.FeatTempo, domain.FeatKey, domain.FeatDuration,
		domain.FeatLoudness, domain.FeatSpectralCentroid,
		domain.FeatZeroCrossing, domain.MFCCKey(0), domain.MFCCKey(1),
	}
	for _, key := range required {
		if _, ok := fv[key]; !ok {
			t.Fatalf("missing required key %q in %v", key, fv)
		}
	}

	structural := []string{
		domain.FeatPercussiveStrength, domain.FeatPolyrhythmScore,
		domain.FeatOffbeatEmphasis, domain.FeatHarmonicRatio,
	}
	for _, key := range structural {
		if _, ok := fv[key]; ok {
			t.Fatalf("structure key %q present without the structure option", key)
		}
	}
}

func TestExtractor_DerivedQuantities(t *testing.T) {
	e := NewExtractor(newStubAnalyzer())
	fv, err := e.Extract(context.Background(), testWaveform(), ExtractOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	approx(t, "tempo", fv[domain.FeatTempo], 110, 1e-9)
	approx(t, "key", fv[domain.FeatKey], 8, 1e-9)
	approx(t, "duration", fv[domain.FeatDuration], 1.0, 1e-9)
	// 10*log10(mean(rms)+eps) with mean 0.1
	approx(t, "loudness_db", fv[domain.FeatLoudness], -10, 1e-6)
	approx(t, "spectral_centroid", fv[domain.FeatSpectralCentroid], 2200, 1e-9)
	approx(t, "spectral_bandwidth", fv[domain.FeatSpectralBandwidth], 2000, 1e-9)
	approx(t, "spectral_rolloff", fv[domain.FeatSpectralRolloff], 4200, 1e-9)
	approx(t, "zero_crossing_rate", fv[domain.FeatZeroCrossing], 0.04, 1e-9)
	approx(t, "mfcc_0", fv[domain.MFCCKey(0)], -155, 1e-9)
	approx(t, "mfcc_1", fv[domain.MFCCKey(1)], 130, 1e-9)
}

func TestExtractor_StructureQuantities(t *testing.T) {
	e := NewExtractor(newStubAnalyzer())
	fv, err := e.Extract(context.Background(), testWaveform(), ExtractOptions{Structure: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// mean(percussive^2) over {0.1, -0.1, 0.2, 0}
	approx(t, "percussive_strength", fv[domain.FeatPercussiveStrength], 0.015, 1e-9)
	// mean(0.25 / (0.5+eps))
	approx(t, "harmonic_ratio", fv[domain.FeatHarmonicRatio], 0.5, 1e-6)
	// sample stddev of {0.2, 0.8, 0.2, 0.8}
	approx(t, "polyrhythm_score", fv[domain.FeatPolyrhythmScore], math.Sqrt(0.12), 1e-9)
	// mean at odd indices / (mean + eps) = 0.8 / 0.5
	approx(t, "offbeat_emphasis", fv[domain.FeatOffbeatEmphasis], 1.6, 1e-6)
}

func TestExtractor_NonFiniteValueFails(t *testing.T) {
	stub := newStubAnalyzer()
	stub.tempo = math.NaN()
	e := NewExtractor(stub)

	_, err := e.Extract(context.Background(), testWaveform(), ExtractOptions{})
	if !errors.Is(err, ports.ErrFeatureComputation) {
		t.Fatalf("expected feature computation error, got %v", err)
	}
	var fce ports.FeatureComputationError
	if !errors.As(err, &fce) {
		t.Fatalf("expected FeatureComputationError, got %T", err)
	}
	if fce.Key != domain.FeatTempo {
		t.Fatalf("offending key: got %q, want %q", fce.Key, domain.FeatTempo)
	}
}

func TestExtractor_SilentSignalStaysFinite(t *testing.T) {
	stub := newStubAnalyzer()
	stub.rms = []float64{0, 0}
	stub.harmonic = []float64{0, 0, 0, 0}
	stub.percussive = []float64{0, 0, 0, 0}
	stub.pulse = []float64{0, 0, 0, 0}
	e := NewExtractor(stub)

	wave := domain.Waveform{Samples: []float64{0, 0, 0, 0}, SampleRate: 4}
	fv, err := e.Extract(context.Background(), wave, ExtractOptions{Structure: true})
	if err != nil {
		t.Fatalf("silent signal should extract, got %v", err)
	}
	// 10*log10(eps) floor
	approx(t, "loudness_db", fv[domain.FeatLoudness], -100, 1e-6)
	for key, v := range fv {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("key %q not finite: %v", key, v)
		}
	}
}

func TestExtractor_RejectsInvalidWaveform(t *testing.T) {
	e := NewExtractor(newStubAnalyzer())
	if _, err := e.Extract(context.Background(), domain.Waveform{}, ExtractOptions{}); err == nil {
		t.Fatal("expected error for empty waveform")
	}
}
