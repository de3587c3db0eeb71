package speech

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/hammamikhairi/yojana/internal/domain"
	"github.com/hammamikhairi/yojana/internal/logger"
)

// DefaultVoice is the prebuilt voice used for every language.
const DefaultVoice = "Kore"

var _ domain.Synthesizer = (*Synthesizer)(nil)

// SynthOption configures the Synthesizer.
type SynthOption func(*Synthesizer)

// WithVoice overrides the prebuilt voice.
func WithVoice(voice string) SynthOption {
	return func(s *Synthesizer) {
		if voice != "" {
			s.voice = voice
		}
	}
}

// Synthesizer turns scheme text into base64 PCM16 audio via a speech
// generator.
type Synthesizer struct {
	gen   domain.SpeechGenerator
	voice string
	log   *logger.Logger
}

// NewSynthesizer creates a Synthesizer on top of gen.
func NewSynthesizer(gen domain.SpeechGenerator, log *logger.Logger, opts ...SynthOption) *Synthesizer {
	s := &Synthesizer{
		gen:   gen,
		voice: DefaultVoice,
		log:   log.Named("speech"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Voice returns the configured voice name.
func (s *Synthesizer) Voice() string { return s.voice }

// SynthesizeSpeech asks the model to read text aloud in lang and returns
// the audio as standard base64. A response without audio is a
// SpeechGenerationError.
func (s *Synthesizer) SynthesizeSpeech(ctx context.Context, text string, lang domain.Language) (string, error) {
	const op = "synthesize speech"

	if !lang.Valid() {
		return "", domain.Validationf(op, "unsupported language %q", string(lang))
	}
	clean, err := NormalizeText(text)
	if err != nil {
		return "", err
	}

	start := time.Now()
	pcm, err := s.gen.GenerateSpeech(ctx, Instruction(clean, lang), s.voice)
	if err != nil {
		return "", domain.NewError(domain.ErrSpeechGeneration, op, err)
	}
	if len(pcm) == 0 {
		return "", domain.NewError(domain.ErrSpeechGeneration, op, errors.New("no audio in response"))
	}
	s.log.Debug("synthesized %d bytes (%d chars, lang=%s) in %s",
		len(pcm), len(clean), lang, time.Since(start).Round(time.Millisecond))
	return base64.StdEncoding.EncodeToString(pcm), nil
}
