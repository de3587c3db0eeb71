package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// WAV frames the buffer as a canonical 44-byte-header RIFF/WAVE file with
// 16-bit PCM data.
func WAV(b *Buffer) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteWAV(&buf, b); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteWAV writes the buffer to w in RIFF/WAVE format.
func WriteWAV(w io.Writer, b *Buffer) error {
	if b == nil {
		return errors.New("audio: nil buffer")
	}
	pcm := EncodePCM(b.Samples)
	channels := b.Channels
	if channels == 0 {
		channels = ChannelCount
	}
	rate := b.SampleRate
	if rate == 0 {
		rate = SampleRate
	}
	byteRate := rate * channels * BitDepth / 8
	blockAlign := channels * BitDepth / 8
	dataLen := uint32(len(pcm))

	header := []any{
		[4]byte{'R', 'I', 'F', 'F'},
		uint32(36 + dataLen),
		[4]byte{'W', 'A', 'V', 'E'},
		[4]byte{'f', 'm', 't', ' '},
		uint32(16),
		uint16(1), // PCM
		uint16(channels),
		uint32(rate),
		uint32(byteRate),
		uint16(blockAlign),
		uint16(BitDepth),
		[4]byte{'d', 'a', 't', 'a'},
		dataLen,
	}
	for _, v := range header {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	_, err := w.Write(pcm)
	return err
}

// ExtractPCM strips the RIFF header from WAV data and returns the raw PCM
// bytes of the data chunk.
func ExtractPCM(wav []byte) ([]byte, error) {
	if len(wav) < 44 {
		return nil, errors.New("audio: wav data too short")
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		return nil, errors.New("audio: not a valid WAV file")
	}

	// Walk chunks to find "data".
	pos := 12
	for pos < len(wav)-8 {
		chunkID := string(wav[pos : pos+4])
		chunkSize := int(binary.LittleEndian.Uint32(wav[pos+4 : pos+8]))

		if chunkID == "data" {
			start := pos + 8
			end := start + chunkSize
			if end > len(wav) {
				end = len(wav)
			}
			return wav[start:end], nil
		}

		pos += 8 + chunkSize
		// Chunks are word-aligned.
		if chunkSize%2 != 0 {
			pos++
		}
	}
	return nil, errors.New("audio: data chunk not found in WAV")
}
