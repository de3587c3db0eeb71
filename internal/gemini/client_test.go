package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/jsonschema-go/jsonschema"
	"google.golang.org/genai"

	"github.com/hammamikhairi/yojana/internal/domain"
	"github.com/hammamikhairi/yojana/internal/logger"
)

// fakeAPI serves generateContent requests from a handler func and records
// the decoded request bodies.
type fakeAPI struct {
	srv      *httptest.Server
	calls    atomic.Int32
	lastPath atomic.Value
	lastBody atomic.Value
}

func newFakeAPI(t *testing.T, handler func(n int32, w http.ResponseWriter)) *fakeAPI {
	t.Helper()
	f := &fakeAPI{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := f.calls.Add(1)
		body, _ := io.ReadAll(r.Body)
		f.lastPath.Store(r.URL.Path)
		f.lastBody.Store(string(body))
		w.Header().Set("Content-Type", "application/json")
		handler(n, w)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func newTestClient(t *testing.T, f *fakeAPI, opts ...Option) *Client {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	base := []Option{
		WithBaseURL(f.srv.URL),
		WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} }),
		WithTimeout(5 * time.Second),
	}
	c, err := NewClient(context.Background(), "test-key", log, append(base, opts...)...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func writeText(w http.ResponseWriter, text string) {
	resp := map[string]any{
		"candidates": []any{map[string]any{
			"content": map[string]any{
				"role":  "model",
				"parts": []any{map[string]any{"text": text}},
			},
			"finishReason": "STOP",
		}},
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeAudio(w http.ResponseWriter, pcm []byte) {
	parts := []any{}
	if pcm != nil {
		parts = append(parts, map[string]any{"inlineData": map[string]any{
			"mimeType": "audio/L16;codec=pcm;rate=24000",
			"data":     base64.StdEncoding.EncodeToString(pcm),
		}})
	}
	resp := map[string]any{
		"candidates": []any{map[string]any{
			"content":      map[string]any{"role": "model", "parts": parts},
			"finishReason": "STOP",
		}},
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeError(w http.ResponseWriter, code int) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": code, "message": "boom", "status": "UNAVAILABLE"},
	})
}

func testSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"summary": {Type: "string"},
		},
		Required: []string{"summary"},
	}
}

func TestGenerateStructured(t *testing.T) {
	f := newFakeAPI(t, func(_ int32, w http.ResponseWriter) {
		writeText(w, `{"summary":"ok"}`)
	})
	c := newTestClient(t, f)

	got, err := c.GenerateStructured(context.Background(), "recommend schemes", testSchema())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"summary":"ok"}` {
		t.Fatalf("got %q", got)
	}

	path, _ := f.lastPath.Load().(string)
	if !strings.Contains(path, DefaultTextModel) {
		t.Fatalf("request path %q does not name the text model", path)
	}
	body, _ := f.lastBody.Load().(string)
	for _, want := range []string{"recommend schemes", "application/json", "responseSchema"} {
		if !strings.Contains(body, want) {
			t.Fatalf("request body missing %q: %s", want, body)
		}
	}
}

func TestGenerateStructuredRetriesTransient(t *testing.T) {
	f := newFakeAPI(t, func(n int32, w http.ResponseWriter) {
		if n < 3 {
			writeError(w, http.StatusServiceUnavailable)
			return
		}
		writeText(w, `{"summary":"third time"}`)
	})
	c := newTestClient(t, f, WithMaxRetries(2))

	got, err := c.GenerateStructured(context.Background(), "p", testSchema())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "third time") {
		t.Fatalf("got %q", got)
	}
	if n := f.calls.Load(); n != 3 {
		t.Fatalf("calls = %d, want 3", n)
	}
}

func TestGenerateStructuredGivesUp(t *testing.T) {
	f := newFakeAPI(t, func(_ int32, w http.ResponseWriter) {
		writeError(w, http.StatusInternalServerError)
	})
	c := newTestClient(t, f, WithMaxRetries(1))

	_, err := c.GenerateStructured(context.Background(), "p", testSchema())
	if !errors.Is(err, domain.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
	if !domain.IsTransient(err) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if n := f.calls.Load(); n != 2 {
		t.Fatalf("calls = %d, want 2", n)
	}
}

func TestGenerateStructuredNoRetryOnBadRequest(t *testing.T) {
	f := newFakeAPI(t, func(_ int32, w http.ResponseWriter) {
		writeError(w, http.StatusBadRequest)
	})
	c := newTestClient(t, f, WithMaxRetries(3))

	_, err := c.GenerateStructured(context.Background(), "p", testSchema())
	if !errors.Is(err, domain.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
	if domain.IsTransient(err) {
		t.Fatal("bad request must not be transient")
	}
	if n := f.calls.Load(); n != 1 {
		t.Fatalf("calls = %d, want 1", n)
	}
}

func TestBreakerOpens(t *testing.T) {
	f := newFakeAPI(t, func(_ int32, w http.ResponseWriter) {
		writeError(w, http.StatusBadGateway)
	})
	c := newTestClient(t, f, WithMaxRetries(0), WithBreaker(2, time.Minute))

	for i := 0; i < 2; i++ {
		if _, err := c.GenerateStructured(context.Background(), "p", testSchema()); err == nil {
			t.Fatal("expected error")
		}
	}
	_, err := c.GenerateStructured(context.Background(), "p", testSchema())
	if !errors.Is(err, domain.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
	if n := f.calls.Load(); n != 2 {
		t.Fatalf("calls = %d, want 2 (third call should be short-circuited)", n)
	}
}

func TestGenerateSpeech(t *testing.T) {
	pcm := []byte{1, 0, 2, 0, 3, 0}
	f := newFakeAPI(t, func(_ int32, w http.ResponseWriter) {
		writeAudio(w, pcm)
	})
	c := newTestClient(t, f)

	got, err := c.GenerateSpeech(context.Background(), "Read this", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != string(pcm) {
		t.Fatalf("audio = %v, want %v", got, pcm)
	}

	path, _ := f.lastPath.Load().(string)
	if !strings.Contains(path, DefaultSpeechModel) {
		t.Fatalf("request path %q does not name the speech model", path)
	}
	body, _ := f.lastBody.Load().(string)
	for _, want := range []string{"AUDIO", DefaultVoice, "Read this"} {
		if !strings.Contains(body, want) {
			t.Fatalf("request body missing %q: %s", want, body)
		}
	}
}

func TestGenerateSpeechNoAudio(t *testing.T) {
	f := newFakeAPI(t, func(_ int32, w http.ResponseWriter) {
		writeAudio(w, nil)
	})
	c := newTestClient(t, f)

	got, err := c.GenerateSpeech(context.Background(), "Read this", "Kore")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no audio, got %d bytes", len(got))
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(context.Background(), " ", logger.New(logger.LevelOff, nil)); err == nil {
		t.Fatal("expected error for blank api key")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"deadline", context.DeadlineExceeded, true},
		{"canceled", context.Canceled, false},
		{"rate limit", genai.APIError{Code: 429}, true},
		{"server", genai.APIError{Code: 503}, true},
		{"bad request", genai.APIError{Code: 400}, false},
		{"plain", errors.New("no candidates"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.err); got != tt.want {
				t.Fatalf("classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
