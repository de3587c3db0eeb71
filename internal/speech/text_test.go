package speech

import (
	"errors"
	"strings"
	"testing"

	"github.com/hammamikhairi/yojana/internal/domain"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "PM-Kisan gives income support.", "PM-Kisan gives income support."},
		{"crlf", "line one\r\nline two\rline three", "line one\nline two\nline three"},
		{"controls", "a\x00b\x07c\x7f", "abc"},
		{"ansi", "\x1b[1mbold\x1b[0m text", "bold text"},
		{"blank runs", "first\n\n\n\nsecond  \n", "first\n\nsecond"},
		{"unicode", "  પીએમ કિસાન યોજના  ", "પીએમ કિસાન યોજના"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeText(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeTextRejects(t *testing.T) {
	for _, in := range []string{"", "   \n\t ", "\x00\x01", strings.Repeat("a", MaxTextBytes+1)} {
		_, err := NormalizeText(in)
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("NormalizeText(%.20q): expected ErrValidation, got %v", in, err)
		}
	}
}

func TestInstruction(t *testing.T) {
	got := Instruction("Free gas connection.", domain.LangHindi)
	want := "Read this information for a villager in Hindi clearly: Free gas connection."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
