package preview

import (
	"bytes"
	"errors"
	"io"

	"github.com/go-audio/wav"
	mp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ewilliams-labs/timbre/internal/core/domain"
	"github.com/ewilliams-labs/timbre/internal/core/ports"
)

// decode sniffs the container format and decodes up to maxSeconds of audio.
// Deezer and Spotify serve previews as MP3; WAV is accepted for local files
// and fixtures.
func decode(body []byte, maxSeconds int) (domain.Waveform, error) {
	if isWAV(body) {
		return decodeWAV(body, maxSeconds)
	}
	return decodeMP3(body, maxSeconds)
}

func isWAV(body []byte) bool {
	return len(body) >= 12 &&
		bytes.Equal(body[0:4], []byte("RIFF")) &&
		bytes.Equal(body[8:12], []byte("WAVE"))
}

// decodeMP3 streams the decoder output and downmixes the interleaved stereo
// int16 frames to mono in [-1, 1].
func decodeMP3(body []byte, maxSeconds int) (domain.Waveform, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(body))
	if err != nil {
		return domain.Waveform{}, ports.DecodeError{Err: err}
	}

	rate := decoder.SampleRate()
	if rate <= 0 {
		return domain.Waveform{}, ports.DecodeError{Err: errors.New("mp3 reports no sample rate")}
	}
	maxSamples := rate * maxSeconds

	samples := make([]float64, 0, min(maxSamples, rate*5))
	buf := make([]byte, 4096)
	for len(samples) < maxSamples {
		n, err := io.ReadFull(decoder, buf)
		// the decoder emits whole 4 byte frames: L int16, R int16, little endian
		for i := 0; i+3 < n && len(samples) < maxSamples; i += 4 {
			left := int16(buf[i]) | int16(buf[i+1])<<8
			right := int16(buf[i+2]) | int16(buf[i+3])<<8
			samples = append(samples, (float64(left)+float64(right))/2/32768.0)
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return domain.Waveform{}, ports.DecodeError{Err: err}
		}
	}
	if len(samples) == 0 {
		return domain.Waveform{}, ports.DecodeError{Err: errors.New("mp3 decoded to zero samples")}
	}
	return domain.Waveform{Samples: samples, SampleRate: rate}, nil
}

// decodeWAV reads the whole PCM payload and downmixes it to mono in [-1, 1].
func decodeWAV(body []byte, maxSeconds int) (domain.Waveform, error) {
	decoder := wav.NewDecoder(bytes.NewReader(body))
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return domain.Waveform{}, ports.DecodeError{Err: err}
	}
	if buf == nil || buf.Format == nil || len(buf.Data) == 0 {
		return domain.Waveform{}, ports.DecodeError{Err: errors.New("wav has no pcm data")}
	}

	rate := buf.Format.SampleRate
	if rate <= 0 {
		return domain.Waveform{}, ports.DecodeError{Err: errors.New("wav reports no sample rate")}
	}
	channels := buf.Format.NumChannels
	if channels <= 0 {
		channels = 1
	}
	bitDepth := int(decoder.BitDepth)
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))

	frames := len(buf.Data) / channels
	if maxFrames := rate * maxSeconds; frames > maxFrames {
		frames = maxFrames
	}
	if frames == 0 {
		return domain.Waveform{}, ports.DecodeError{Err: errors.New("wav decoded to zero frames")}
	}

	samples := make([]float64, frames)
	for f := 0; f < frames; f++ {
		var acc float64
		for c := 0; c < channels; c++ {
			acc += float64(buf.Data[f*channels+c])
		}
		samples[f] = acc / float64(channels) / scale
	}
	return domain.Waveform{Samples: samples, SampleRate: rate}, nil
}
