// Package audio decodes the raw PCM payloads returned by the speech model
// into normalized sample buffers and frames them for playback or export.
package audio

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/hammamikhairi/yojana/internal/domain"
)

// Audio parameters of the speech model output.
const (
	SampleRate   = 24000
	ChannelCount = 1
	BitDepth     = 16
)

// Buffer is a decoded mono sample buffer. Samples are in [-1, 1].
type Buffer struct {
	SampleRate int
	Channels   int
	Samples    []float32
}

// Len returns the number of frames in the buffer.
func (b *Buffer) Len() int { return len(b.Samples) }

// Duration returns the playback length of the buffer.
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate == 0 {
		return 0
	}
	return time.Duration(len(b.Samples)) * time.Second / time.Duration(b.SampleRate)
}

// DecodePCM decodes a base64 payload of 16-bit signed little-endian mono
// PCM into a 24 kHz buffer. Each sample s maps to s / 32768.
func DecodePCM(payload string) (*Buffer, error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, domain.NewError(domain.ErrDecode, "decode pcm", fmt.Errorf("base64: %w", err))
	}
	return DecodePCMBytes(raw)
}

// DecodePCMBytes is DecodePCM for an already base64-decoded payload.
func DecodePCMBytes(raw []byte) (*Buffer, error) {
	if len(raw)%2 != 0 {
		return nil, domain.NewError(domain.ErrDecode, "decode pcm", fmt.Errorf("odd byte length %d", len(raw)))
	}

	frames := len(raw) / 2
	samples := make([]float32, frames)
	for i := 0; i < frames; i++ {
		s := int16(binary.LittleEndian.Uint16(raw[2*i:]))
		samples[i] = float32(s) / 32768.0
	}
	return &Buffer{
		SampleRate: SampleRate,
		Channels:   ChannelCount,
		Samples:    samples,
	}, nil
}

// EncodePCM quantizes samples to 16-bit signed little-endian PCM. Values
// outside [-1, 1] are clamped.
func EncodePCM(samples []float32) []byte {
	out := make([]byte, 2*len(samples))
	for i, v := range samples {
		q := math.Round(float64(v) * 32768.0)
		if q > math.MaxInt16 {
			q = math.MaxInt16
		} else if q < math.MinInt16 {
			q = math.MinInt16
		}
		binary.LittleEndian.PutUint16(out[2*i:], uint16(int16(q)))
	}
	return out
}

// EncodeBase64PCM is the inverse of DecodePCM up to quantization error.
func EncodeBase64PCM(samples []float32) string {
	return base64.StdEncoding.EncodeToString(EncodePCM(samples))
}

// Float32LE serializes the buffer as interleaved 32-bit float little-endian
// frames, the layout the playback device is opened with.
func (b *Buffer) Float32LE() []byte {
	out := make([]byte, 4*len(b.Samples))
	for i, v := range b.Samples {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(v))
	}
	return out
}
