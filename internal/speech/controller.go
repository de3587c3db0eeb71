package speech

import (
	"context"
	"errors"
	"sync"

	"github.com/hammamikhairi/yojana/internal/audio"
	"github.com/hammamikhairi/yojana/internal/domain"
	"github.com/hammamikhairi/yojana/internal/logger"
)

// ControllerOption configures the Controller.
type ControllerOption func(*Controller)

// WithEventBuffer sets the capacity of the events channel.
func WithEventBuffer(n int) ControllerOption {
	return func(c *Controller) {
		c.events = make(chan domain.PlaybackEvent, n)
	}
}

// Controller owns the single playback slot. Speak acts as a toggle: while
// something is synthesizing or playing it stops it, otherwise it starts a
// new synthesize, decode and play run. Every run has its own token and
// cancel func; a run whose token is no longer current cannot change state.
type Controller struct {
	synth domain.Synthesizer
	sink  Sink
	log   *logger.Logger

	mu     sync.Mutex
	state  domain.PlaybackState
	token  uint64
	cancel context.CancelFunc
	events chan domain.PlaybackEvent
	wg     sync.WaitGroup
}

// NewController creates an idle controller.
func NewController(synth domain.Synthesizer, sink Sink, log *logger.Logger, opts ...ControllerOption) *Controller {
	c := &Controller{
		synth:  synth,
		sink:   sink,
		log:    log.Named("playback"),
		events: make(chan domain.PlaybackEvent, 16),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Events returns the channel of state transitions. Events are dropped when
// nobody drains the channel.
func (c *Controller) Events() <-chan domain.PlaybackEvent { return c.events }

// State returns the current playback state.
func (c *Controller) State() domain.PlaybackState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Speak toggles playback. When busy it stops the active run and returns
// started=false. When idle it starts reading text in lang and returns the
// new run's token. The run is bound to ctx.
func (c *Controller) Speak(ctx context.Context, text string, lang domain.Language) (token uint64, started bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Busy() {
		c.stopLocked()
		return c.token, false
	}

	c.token++
	tok := c.token
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.setLocked(tok, domain.PlaybackSynthesizing, nil)

	c.wg.Add(1)
	go c.run(runCtx, cancel, tok, text, lang)
	return tok, true
}

// Stop cancels the active run, if any, and returns to idle.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Busy() {
		c.stopLocked()
	}
}

// Wait blocks until every started run has returned.
func (c *Controller) Wait() { c.wg.Wait() }

// Close stops playback and waits for the active run to exit.
func (c *Controller) Close() {
	c.Stop()
	c.Wait()
}

func (c *Controller) run(ctx context.Context, cancel context.CancelFunc, tok uint64, text string, lang domain.Language) {
	defer c.wg.Done()
	defer cancel()

	payload, err := c.synth.SynthesizeSpeech(ctx, text, lang)
	if err != nil {
		c.finish(tok, err)
		return
	}
	buf, err := audio.DecodePCM(payload)
	if err != nil {
		c.finish(tok, err)
		return
	}
	if !c.advance(tok, domain.PlaybackSynthesizing, domain.PlaybackSpeaking) {
		return
	}

	err = c.sink.Play(ctx, buf)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	c.finish(tok, err)
}

// advance moves run tok from one state to the next if it is still current.
func (c *Controller) advance(tok uint64, from, to domain.PlaybackState) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tok != c.token || c.state != from {
		return false
	}
	c.setLocked(tok, to, nil)
	return true
}

// finish returns run tok to idle unless it was already stopped or
// superseded.
func (c *Controller) finish(tok uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tok != c.token || !c.state.Busy() {
		return
	}
	if err != nil {
		c.log.Warn("playback %d failed: %v", tok, err)
	}
	c.cancel = nil
	c.setLocked(tok, domain.PlaybackIdle, err)
}

func (c *Controller) stopLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.log.Debug("playback %d stopped", c.token)
	c.setLocked(c.token, domain.PlaybackIdle, nil)
}

func (c *Controller) setLocked(tok uint64, state domain.PlaybackState, err error) {
	c.state = state
	ev := domain.PlaybackEvent{Token: tok, State: state, Err: err}
	select {
	case c.events <- ev:
	default:
		c.log.Debug("event channel full, dropped %s for %d", state, tok)
	}
}
