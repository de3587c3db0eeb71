package audio

import (
	"encoding/binary"
	"testing"
)

func TestWAVHeaderAndExtract(t *testing.T) {
	buf := &Buffer{SampleRate: SampleRate, Channels: 1, Samples: []float32{0, 0.5, -0.5}}
	wav, err := WAV(buf)
	if err != nil {
		t.Fatalf("wav: %v", err)
	}
	if len(wav) != 44+6 {
		t.Fatalf("len = %d, want 50", len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" || string(wav[36:40]) != "data" {
		t.Fatalf("bad header % x", wav[:44])
	}
	if rate := binary.LittleEndian.Uint32(wav[24:28]); rate != SampleRate {
		t.Fatalf("sample rate = %d", rate)
	}

	pcm, err := ExtractPCM(wav)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	back, err := DecodePCMBytes(pcm)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for i, s := range buf.Samples {
		if back.Samples[i] != s {
			t.Fatalf("sample %d = %v, want %v", i, back.Samples[i], s)
		}
	}
}

func TestExtractPCMRejectsGarbage(t *testing.T) {
	if _, err := ExtractPCM([]byte("short")); err == nil {
		t.Fatal("expected error for short input")
	}
	junk := make([]byte, 64)
	copy(junk, "JUNK")
	if _, err := ExtractPCM(junk); err == nil {
		t.Fatal("expected error for non-RIFF input")
	}
}
