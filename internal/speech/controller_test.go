package speech

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hammamikhairi/yojana/internal/audio"
	"github.com/hammamikhairi/yojana/internal/domain"
)

// fakeSynth returns a fixed payload. When gate is set it blocks until the
// gate is closed; honorCancel also lets ctx end the wait.
type fakeSynth struct {
	payload     string
	err         error
	gate        chan struct{}
	honorCancel bool
	calls       atomic.Int32
}

func (f *fakeSynth) SynthesizeSpeech(ctx context.Context, _ string, _ domain.Language) (string, error) {
	f.calls.Add(1)
	if f.gate != nil {
		if f.honorCancel {
			select {
			case <-f.gate:
			case <-ctx.Done():
				return "", ctx.Err()
			}
		} else {
			<-f.gate
		}
	}
	return f.payload, f.err
}

// fakeSink reports each Play on started and blocks until release is closed
// or ctx is cancelled.
type fakeSink struct {
	started  chan *audio.Buffer
	release  chan struct{}
	plays    atomic.Int32
	canceled atomic.Int32
	once     sync.Once
}

func newFakeSink() *fakeSink {
	return &fakeSink{started: make(chan *audio.Buffer, 8), release: make(chan struct{})}
}

func (f *fakeSink) Play(ctx context.Context, buf *audio.Buffer) error {
	f.plays.Add(1)
	f.started <- buf
	select {
	case <-f.release:
		return nil
	case <-ctx.Done():
		f.canceled.Add(1)
		return ctx.Err()
	}
}

func (f *fakeSink) finish() { f.once.Do(func() { close(f.release) }) }

func waitStarted(t *testing.T, s *fakeSink) *audio.Buffer {
	t.Helper()
	select {
	case buf := <-s.started:
		return buf
	case <-time.After(2 * time.Second):
		t.Fatal("playback never started")
		return nil
	}
}

func tone() string {
	return audio.EncodeBase64PCM([]float32{0.1, -0.1, 0.2, -0.2})
}

func TestControllerSpeakUntilCompletion(t *testing.T) {
	sink := newFakeSink()
	c := NewController(&fakeSynth{payload: tone()}, sink, quietLog())

	tok, started := c.Speak(context.Background(), "text", domain.LangEnglish)
	if !started || tok == 0 {
		t.Fatalf("Speak from idle: token=%d started=%v", tok, started)
	}

	buf := waitStarted(t, sink)
	if buf.SampleRate != audio.SampleRate || buf.Channels != audio.ChannelCount || buf.Len() != 4 {
		t.Fatalf("unexpected buffer %+v", buf)
	}
	if got := c.State(); got != domain.PlaybackSpeaking {
		t.Fatalf("state = %s, want speaking", got)
	}

	sink.finish()
	c.Wait()
	if got := c.State(); got != domain.PlaybackIdle {
		t.Fatalf("state after completion = %s, want idle", got)
	}
}

func TestControllerSpeakWhileSpeakingStops(t *testing.T) {
	sink := newFakeSink()
	synth := &fakeSynth{payload: tone()}
	c := NewController(synth, sink, quietLog())

	c.Speak(context.Background(), "first", domain.LangEnglish)
	waitStarted(t, sink)

	if _, started := c.Speak(context.Background(), "second", domain.LangEnglish); started {
		t.Fatal("Speak while speaking must not start a new stream")
	}
	if got := c.State(); got != domain.PlaybackIdle {
		t.Fatalf("state = %s, want idle", got)
	}

	c.Wait()
	if n := sink.plays.Load(); n != 1 {
		t.Fatalf("plays = %d, want 1", n)
	}
	if n := sink.canceled.Load(); n != 1 {
		t.Fatalf("canceled = %d, want 1", n)
	}
	if n := synth.calls.Load(); n != 1 {
		t.Fatalf("synth calls = %d, want 1", n)
	}
}

func TestControllerStopDuringSynthesis(t *testing.T) {
	sink := newFakeSink()
	synth := &fakeSynth{payload: tone(), gate: make(chan struct{}), honorCancel: true}
	c := NewController(synth, sink, quietLog())

	c.Speak(context.Background(), "text", domain.LangHindi)
	if got := c.State(); got != domain.PlaybackSynthesizing {
		t.Fatalf("state = %s, want synthesizing", got)
	}

	c.Stop()
	c.Wait()
	if got := c.State(); got != domain.PlaybackIdle {
		t.Fatalf("state = %s, want idle", got)
	}
	if n := sink.plays.Load(); n != 0 {
		t.Fatalf("plays = %d, want 0", n)
	}
}

func TestControllerSupersededRunCannotPlay(t *testing.T) {
	sink := newFakeSink()
	gate := make(chan struct{})
	synth := &fakeSynth{payload: tone(), gate: gate}
	c := NewController(synth, sink, quietLog())

	first, _ := c.Speak(context.Background(), "first", domain.LangEnglish)
	c.Speak(context.Background(), "toggle off", domain.LangEnglish)
	second, started := c.Speak(context.Background(), "second", domain.LangEnglish)
	if !started || second == first {
		t.Fatalf("expected a fresh run, got token=%d started=%v", second, started)
	}

	close(gate)
	waitStarted(t, sink)
	if got := c.State(); got != domain.PlaybackSpeaking {
		t.Fatalf("state = %s, want speaking", got)
	}

	c.Close()
	if n := sink.plays.Load(); n != 1 {
		t.Fatalf("plays = %d, want 1 (the superseded run must not play)", n)
	}
	if got := c.State(); got != domain.PlaybackIdle {
		t.Fatalf("state = %s, want idle", got)
	}
}

func TestControllerErrorReturnsToIdle(t *testing.T) {
	tests := []struct {
		name  string
		synth *fakeSynth
		kind  error
	}{
		{"synthesis", &fakeSynth{err: domain.NewError(domain.ErrSpeechGeneration, "synthesize speech", errors.New("boom"))}, domain.ErrSpeechGeneration},
		{"decode", &fakeSynth{payload: "not base64!"}, domain.ErrDecode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(tt.synth, newFakeSink(), quietLog())
			c.Speak(context.Background(), "text", domain.LangEnglish)
			c.Wait()

			if got := c.State(); got != domain.PlaybackIdle {
				t.Fatalf("state = %s, want idle", got)
			}
			var last domain.PlaybackEvent
			for done := false; !done; {
				select {
				case ev := <-c.Events():
					last = ev
				default:
					done = true
				}
			}
			if last.State != domain.PlaybackIdle || !errors.Is(last.Err, tt.kind) {
				t.Fatalf("last event = %+v, want idle with %v", last, tt.kind)
			}
		})
	}
}

func TestControllerEvents(t *testing.T) {
	sink := newFakeSink()
	c := NewController(&fakeSynth{payload: tone()}, sink, quietLog())

	tok, _ := c.Speak(context.Background(), "text", domain.LangGujarati)
	waitStarted(t, sink)
	sink.finish()
	c.Wait()

	want := []domain.PlaybackState{domain.PlaybackSynthesizing, domain.PlaybackSpeaking, domain.PlaybackIdle}
	for i, w := range want {
		select {
		case ev := <-c.Events():
			if ev.State != w || ev.Token != tok || ev.Err != nil {
				t.Fatalf("event %d = %+v, want %s for token %d", i, ev, w, tok)
			}
		default:
			t.Fatalf("missing event %d (%s)", i, w)
		}
	}
}

func TestSilentSink(t *testing.T) {
	buf := &audio.Buffer{SampleRate: audio.SampleRate, Channels: 1, Samples: make([]float32, 240)}
	if err := (Silent{}).Play(context.Background(), buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	long := &audio.Buffer{SampleRate: audio.SampleRate, Channels: 1, Samples: make([]float32, audio.SampleRate*60)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (Silent{}).Play(ctx, long); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
