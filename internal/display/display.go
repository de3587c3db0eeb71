// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] drives one engine session through login, profile entry,
// loading, results and scheme detail, and toggles read-aloud playback of
// the selected scheme. Blocking calls (the recommendation request) run as
// Bubble Tea commands so the event loop keeps animating the spinner.
package display

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/yojana/internal/domain"
	"github.com/hammamikhairi/yojana/internal/logger"
)

// Engine is the session state machine the UI drives.
type Engine interface {
	StartSession(ctx context.Context) (*domain.Session, error)
	Session(ctx context.Context, id string) (*domain.Session, error)
	EndSession(ctx context.Context, id string) error
	Login(ctx context.Context, id, mobile string) (*domain.Session, error)
	Continue(ctx context.Context, id string) (*domain.Session, error)
	Back(ctx context.Context, id string) (*domain.Session, error)
	TryAgain(ctx context.Context, id string) (*domain.Session, error)
	SetLanguage(ctx context.Context, id string, lang domain.Language) (*domain.Session, error)
	Select(ctx context.Context, id, schemeID string) (*domain.Session, error)
	Submit(ctx context.Context, id string, profile domain.UserProfile) (*domain.Session, error)
	Cancel(ctx context.Context, id string) (*domain.Session, error)
}

// Player is the read-aloud toggle.
type Player interface {
	Speak(ctx context.Context, text string, lang domain.Language) (uint64, bool)
	Stop()
	State() domain.PlaybackState
	Events() <-chan domain.PlaybackEvent
}

// Option configures the UI.
type Option func(*UI)

// WithDarkTheme starts the UI in dark mode.
func WithDarkTheme(dark bool) Option {
	return func(u *UI) { u.dark = dark }
}

// WithAltScreen runs the UI in the terminal's alternate screen.
func WithAltScreen() Option {
	return func(u *UI) { u.altScreen = true }
}

// WithProgramOptions passes extra options to tea.NewProgram (input and
// output redirection in tests).
func WithProgramOptions(opts ...tea.ProgramOption) Option {
	return func(u *UI) { u.programOpts = append(u.programOpts, opts...) }
}

// UI manages the terminal through Bubble Tea.
type UI struct {
	eng         Engine
	player      Player
	log         *logger.Logger
	dark        bool
	altScreen   bool
	programOpts []tea.ProgramOption
}

// NewUI creates the display. player may be nil when speech is disabled.
func NewUI(eng Engine, player Player, log *logger.Logger, opts ...Option) *UI {
	u := &UI{eng: eng, player: player, log: log.Named("display")}
	for _, o := range opts {
		o(u)
	}
	return u
}

// Run starts a session and the Bubble Tea event loop. It blocks until the
// user quits or ctx is cancelled.
func (u *UI) Run(ctx context.Context) error {
	sess, err := u.eng.StartSession(ctx)
	if err != nil {
		return fmt.Errorf("display: %w", err)
	}
	defer func() {
		if u.player != nil {
			u.player.Stop()
		}
		if err := u.eng.EndSession(context.Background(), sess.ID); err != nil {
			u.log.Debug("end session: %v", err)
		}
	}()

	m := newModel(ctx, u.eng, u.player, sess, u.dark, u.log)

	opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, u.programOpts...)
	if u.altScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(m, opts...)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}
