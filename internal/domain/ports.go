package domain

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
)

// StructuredGenerator is the remote text-generation endpoint. It returns
// the raw JSON text produced under the given output schema.
type StructuredGenerator interface {
	GenerateStructured(ctx context.Context, prompt string, schema *jsonschema.Schema) (string, error)
}

// SpeechGenerator is the remote speech-generation endpoint. It returns the
// raw audio bytes (PCM16 LE mono, 24 kHz) or nil when the response carried
// no audio.
type SpeechGenerator interface {
	GenerateSpeech(ctx context.Context, instruction, voice string) ([]byte, error)
}

// Recommender turns a profile into ranked scheme recommendations.
type Recommender interface {
	FetchRecommendations(ctx context.Context, profile UserProfile, lang Language) (*RecommendationResult, error)
}

// Synthesizer turns text into a base64 PCM16 payload.
type Synthesizer interface {
	SynthesizeSpeech(ctx context.Context, text string, lang Language) (string, error)
}

// SessionStore holds UI session snapshots by ID.
type SessionStore interface {
	Save(ctx context.Context, s *Session) error
	Load(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Session, error)
}
