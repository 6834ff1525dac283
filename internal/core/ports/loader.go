package ports

import (
	"context"

	"github.com/ewilliams-labs/timbre/internal/core/domain"
)

// AudioLoader fetches a preview clip over HTTP and decodes it into a
// waveform. Implementations return DownloadError for transport or status
// failures and DecodeError when the body is not a playable audio stream.
type AudioLoader interface {
	Load(ctx context.Context, url string) (domain.Waveform, error)
}
