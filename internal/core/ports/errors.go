package ports

import (
	"errors"
	"fmt"
)

// Pipeline error taxonomy. Each stage fails fast with its own kind and the
// handler maps the kind to a caller-visible failure; no stage substitutes a
// default value for a failed computation.
var (
	ErrDownload           = errors.New("audio download failed")
	ErrDecode             = errors.New("audio decode failed")
	ErrFeatureComputation = errors.New("feature computation failed")
	ErrUnauthorized       = errors.New("unauthorized")
)

// DownloadError reports a failed preview fetch. StatusCode is zero when the
// transport failed before any response arrived.
type DownloadError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e DownloadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("download %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e DownloadError) Is(target error) bool { return target == ErrDownload }

func (e DownloadError) Unwrap() error { return e.Err }

// DecodeError reports bytes that could not be decoded as an audio stream.
type DecodeError struct {
	Err error
}

func (e DecodeError) Error() string { return fmt.Sprintf("decode audio: %v", e.Err) }

func (e DecodeError) Is(target error) bool { return target == ErrDecode }

func (e DecodeError) Unwrap() error { return e.Err }

// FeatureComputationError reports a non-finite value produced during feature
// derivation, naming the offending feature.
type FeatureComputationError struct {
	Key   string
	Value float64
}

func (e FeatureComputationError) Error() string {
	return fmt.Sprintf("feature %q is not finite (%v)", e.Key, e.Value)
}

func (e FeatureComputationError) Is(target error) bool { return target == ErrFeatureComputation }
