// Package gemini is the adapter to the Gemini API used for both remote
// endpoints: schema-constrained text generation and speech generation.
// Calls are bounded by a per-attempt timeout, retried with backoff on
// transient failures and guarded by a circuit breaker.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/sony/gobreaker"
	"google.golang.org/genai"

	"github.com/hammamikhairi/yojana/internal/domain"
	"github.com/hammamikhairi/yojana/internal/logger"
)

// Default model identifiers and voice.
const (
	DefaultTextModel   = "gemini-3-flash-preview"
	DefaultSpeechModel = "gemini-2.5-flash-preview-tts"
	DefaultVoice       = "Kore"
)

// Env var names for the API credential. GEMINI_API_KEY wins when both are set.
const (
	EnvAPIKey       = "GEMINI_API_KEY"
	EnvAPIKeyLegacy = "API_KEY"
)

// Compile-time interface checks.
var (
	_ domain.StructuredGenerator = (*Client)(nil)
	_ domain.SpeechGenerator     = (*Client)(nil)
)

// ── Options ──────────────────────────────────────────────────────

// Option configures the Client.
type Option func(*Client)

// WithTextModel overrides the structured-generation model.
func WithTextModel(model string) Option {
	return func(c *Client) { c.textModel = model }
}

// WithSpeechModel overrides the speech-generation model.
func WithSpeechModel(model string) Option {
	return func(c *Client) { c.speechModel = model }
}

// WithTimeout bounds every single attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithMaxRetries sets how many times a transient failure is retried.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithBackOff replaces the retry backoff policy.
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(c *Client) { c.newBackOff = newBackOff }
}

// WithBreaker configures the circuit breaker: it opens after failures
// consecutive transient failures and half-opens after cooldown.
func WithBreaker(failures uint32, cooldown time.Duration) Option {
	return func(c *Client) {
		c.breakerFailures = failures
		c.breakerCooldown = cooldown
	}
}

// WithBaseURL points the client at a different API host (proxies, tests).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets the HTTP client used by the SDK.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// ── Client ───────────────────────────────────────────────────────

// Client wraps a genai.Client with retry, timeout and circuit breaking.
type Client struct {
	genai       *genai.Client
	textModel   string
	speechModel string
	timeout     time.Duration
	maxRetries  int
	newBackOff  func() backoff.BackOff

	breaker         *gobreaker.CircuitBreaker
	breakerFailures uint32
	breakerCooldown time.Duration

	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient creates a Gemini client authenticated with apiKey.
func NewClient(ctx context.Context, apiKey string, log *logger.Logger, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini: missing api key")
	}
	c := &Client{
		textModel:       DefaultTextModel,
		speechModel:     DefaultSpeechModel,
		timeout:         60 * time.Second,
		maxRetries:      2,
		newBackOff:      defaultBackOff,
		breakerFailures: 5,
		breakerCooldown: 30 * time.Second,
		log:             log.Named("gemini"),
	}
	for _, o := range opts {
		o(c)
	}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
	}
	if c.baseURL != "" {
		cfg.HTTPOptions.BaseURL = c.baseURL
	}
	gc, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: client init: %w", err)
	}
	c.genai = gc
	c.breaker = c.newBreaker()

	c.log.Debug("client ready (text=%s, speech=%s, timeout=%s, retries=%d)",
		c.textModel, c.speechModel, c.timeout, c.maxRetries)
	return c, nil
}

// TextModel returns the structured-generation model name.
func (c *Client) TextModel() string { return c.textModel }

// SpeechModel returns the speech-generation model name.
func (c *Client) SpeechModel() string { return c.speechModel }

// GenerateStructured sends prompt with a JSON response schema and returns
// the concatenated text of the first candidate.
func (c *Client) GenerateStructured(ctx context.Context, prompt string, schema *jsonschema.Schema) (string, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   convSchema(schema),
	}
	contents := genai.Text(prompt)

	var text string
	err := c.call(ctx, "generate structured", func(ctx context.Context) error {
		resp, err := c.genai.Models.GenerateContent(ctx, c.textModel, contents, cfg)
		if err != nil {
			return err
		}
		text, err = candidateText(resp)
		return err
	})
	if err != nil {
		return "", c.wrap(domain.ErrGeneration, "generate structured", err)
	}
	c.log.Debug("structured reply (%d chars): %s", len(text), truncate(text, 120))
	return text, nil
}

// GenerateSpeech asks the speech model to read instruction aloud with the
// given prebuilt voice. Returns nil when the response has no audio parts.
func (c *Client) GenerateSpeech(ctx context.Context, instruction, voice string) ([]byte, error) {
	if voice == "" {
		voice = DefaultVoice
	}
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityAudio)},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	}
	contents := []*genai.Content{genai.NewContentFromText(instruction, genai.RoleUser)}

	var pcm []byte
	err := c.call(ctx, "generate speech", func(ctx context.Context) error {
		resp, err := c.genai.Models.GenerateContent(ctx, c.speechModel, contents, cfg)
		if err != nil {
			return err
		}
		pcm, err = candidateAudio(resp)
		return err
	})
	if err != nil {
		return nil, c.wrap(domain.ErrSpeechGeneration, "generate speech", err)
	}
	c.log.Debug("speech reply: %d bytes of audio (voice=%s)", len(pcm), voice)
	return pcm, nil
}

// ── Response helpers ─────────────────────────────────────────────

func firstCandidate(resp *genai.GenerateContentResponse) (*genai.Candidate, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return nil, fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return nil, errors.New("no candidates")
	}
	cand := resp.Candidates[0]
	switch cand.FinishReason {
	case genai.FinishReasonStop, genai.FinishReasonUnspecified, "":
	case genai.FinishReasonMaxTokens:
		return nil, errors.New("max tokens")
	default:
		return nil, fmt.Errorf("unexpected finish reason: %s", cand.FinishReason)
	}
	if cand.Content == nil {
		return nil, errors.New("candidate has no content")
	}
	return cand, nil
}

func candidateText(resp *genai.GenerateContentResponse) (string, error) {
	cand, err := firstCandidate(resp)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, p := range cand.Content.Parts {
		if p != nil && p.Text != "" {
			sb.WriteString(p.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("empty text response")
	}
	return sb.String(), nil
}

func candidateAudio(resp *genai.GenerateContentResponse) ([]byte, error) {
	cand, err := firstCandidate(resp)
	if err != nil {
		return nil, err
	}
	var pcm []byte
	for _, p := range cand.Content.Parts {
		if p != nil && p.InlineData != nil && len(p.InlineData.Data) > 0 {
			pcm = append(pcm, p.InlineData.Data...)
		}
	}
	return pcm, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
