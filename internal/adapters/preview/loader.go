// Package preview fetches preview clips over HTTP and decodes them into
// waveforms for analysis.
package preview

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/ewilliams-labs/timbre/internal/core/domain"
	"github.com/ewilliams-labs/timbre/internal/core/ports"
)

// DefaultMaxSeconds caps how much audio a single request decodes.
const DefaultMaxSeconds = 30

// maxBodyBytes bounds the fetched payload; a preview clip is never this big.
const maxBodyBytes = 32 << 20

// Loader fetches a URL and decodes the body into a mono waveform.
type Loader struct {
	client     *http.Client
	maxSeconds int
}

var _ ports.AudioLoader = (*Loader)(nil)

// NewLoader constructs a Loader. A nil client falls back to a client with a
// 15 second timeout; maxSeconds <= 0 falls back to DefaultMaxSeconds.
func NewLoader(client *http.Client, maxSeconds int) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if maxSeconds <= 0 {
		maxSeconds = DefaultMaxSeconds
	}
	return &Loader{client: client, maxSeconds: maxSeconds}
}

// Load fetches the clip and decodes it. The body lives in a request-scoped
// buffer that is garbage after the call returns, on every path.
func (l *Loader) Load(ctx context.Context, url string) (domain.Waveform, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Waveform{}, ports.DownloadError{URL: url, Err: err}
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return domain.Waveform{}, ports.DownloadError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain a little so the connection can be reused
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return domain.Waveform{}, ports.DownloadError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.Waveform{}, ports.DownloadError{URL: url, Err: err}
	}
	if len(body) == 0 {
		return domain.Waveform{}, ports.DecodeError{Err: errors.New("empty response body")}
	}

	wave, err := decode(body, l.maxSeconds)
	if err != nil {
		return domain.Waveform{}, err
	}
	log.Printf("DEBUG preview: decoded %.1fs at %d Hz from %s", wave.Duration(), wave.SampleRate, url)
	return wave, nil
}
