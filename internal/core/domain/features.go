package domain

import "strconv"

// Feature names produced by the extractor. Every vector carries the required
// set; the rhythm/structure keys appear only when structural analysis is on.
const (
	FeatTempo             = "tempo"
	FeatKey               = "key"
	FeatDuration          = "duration"
	FeatLoudness          = "loudness_db"
	FeatSpectralCentroid  = "spectral_centroid"
	FeatSpectralBandwidth = "spectral_bandwidth"
	FeatSpectralRolloff   = "spectral_rolloff"
	FeatZeroCrossing      = "zero_crossing_rate"

	FeatPercussiveStrength = "percussive_strength"
	FeatPolyrhythmScore    = "polyrhythm_score"
	FeatOffbeatEmphasis    = "offbeat_emphasis"
	FeatHarmonicRatio      = "harmonic_ratio"
)

// FeatureVector maps feature names to scalar values. It is produced once per
// request and treated as read-only afterwards; absent keys read as zero.
type FeatureVector map[string]float64

// MFCCKey returns the feature name of the i-th mel cepstral coefficient.
func MFCCKey(i int) string { return "mfcc_" + strconv.Itoa(i) }

// PitchClasses is the fixed key-label table; FeatKey holds an index into it.
var PitchClasses = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// KeyLabel maps a pitch-class index to its label. The second return is false
// for an out-of-range index.
func KeyLabel(i int) (string, bool) {
	if i < 0 || i >= len(PitchClasses) {
		return "", false
	}
	return PitchClasses[i], true
}
