package speech

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/hammamikhairi/yojana/internal/audio"
	"github.com/hammamikhairi/yojana/internal/logger"
)

// Sink plays a decoded buffer. Play blocks until the audio finishes or ctx
// is cancelled, in which case it stops output and returns ctx.Err().
type Sink interface {
	Play(ctx context.Context, buf *audio.Buffer) error
}

// ── Session ──────────────────────────────────────────────────────

// Session owns the process-wide audio output context. The device is
// opened on first use and reused afterwards; oto allows only one context
// per process.
type Session struct {
	once sync.Once
	ctx  *oto.Context
	err  error
	log  *logger.Logger
}

// NewSession creates an unopened audio session.
func NewSession(log *logger.Logger) *Session {
	return &Session{log: log}
}

// Context returns the shared oto context, opening the device on the first
// call. A failure to open is sticky.
func (s *Session) Context() (*oto.Context, error) {
	s.once.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   audio.SampleRate,
			ChannelCount: audio.ChannelCount,
			Format:       oto.FormatFloat32LE,
		}
		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			s.err = fmt.Errorf("speech: open audio device: %w", err)
			return
		}
		<-ready
		s.ctx = ctx
		s.log.Debug("audio session opened (rate=%d, channels=%d)", audio.SampleRate, audio.ChannelCount)
	})
	return s.ctx, s.err
}

// ── Player ───────────────────────────────────────────────────────

var _ Sink = (*Player)(nil)

// Player plays buffers through the session's oto context.
type Player struct {
	session *Session
	log     *logger.Logger
	mu      sync.Mutex
	active  *oto.Player // currently playing, nil when idle
}

// NewPlayer creates a player bound to session.
func NewPlayer(session *Session, log *logger.Logger) *Player {
	return &Player{session: session, log: log}
}

// Play plays buf synchronously.
func (p *Player) Play(ctx context.Context, buf *audio.Buffer) error {
	if buf.SampleRate != audio.SampleRate || buf.Channels != audio.ChannelCount {
		return fmt.Errorf("speech: unsupported format %d Hz x%d", buf.SampleRate, buf.Channels)
	}
	octx, err := p.session.Context()
	if err != nil {
		return err
	}

	player := octx.NewPlayer(bytes.NewReader(buf.Float32LE()))

	p.mu.Lock()
	p.active = player
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.active = nil
		p.mu.Unlock()
	}()

	player.Play()
	p.log.Debug("playing %s of audio", buf.Duration().Round(time.Millisecond))

	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			p.log.Debug("playback interrupted")
			_ = player.Close()
			return ctx.Err()
		case <-tick.C:
		}
	}
	return player.Close()
}

// Stop interrupts the currently playing audio, if any.
func (p *Player) Stop() {
	p.mu.Lock()
	active := p.active
	p.mu.Unlock()

	if active != nil {
		active.Pause()
	}
}

// ── Silent ───────────────────────────────────────────────────────

var _ Sink = Silent{}

// Silent is a Sink that produces no sound. It waits for the buffer's
// duration so callers observe the same timing as real playback.
type Silent struct {
	Log *logger.Logger
}

// Play waits for buf's duration or until ctx is done.
func (s Silent) Play(ctx context.Context, buf *audio.Buffer) error {
	if s.Log != nil {
		s.Log.Debug("silent playback of %s", buf.Duration().Round(time.Millisecond))
	}
	t := time.NewTimer(buf.Duration())
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
