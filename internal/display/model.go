package display

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/yojana/internal/domain"
	"github.com/hammamikhairi/yojana/internal/engine"
	"github.com/hammamikhairi/yojana/internal/i18n"
	"github.com/hammamikhairi/yojana/internal/logger"
)

// Profile form field order.
const (
	fieldAge = iota
	fieldGender
	fieldIncome
	fieldState
	fieldOccupation
	fieldCategory
	fieldCount
)

// ── Messages ─────────────────────────────────────────────────────

// sessionMsg carries the session after an engine call.
type sessionMsg struct {
	sess *domain.Session
	err  error
}

// submitMsg carries the outcome of a recommendation request.
type submitMsg struct {
	sess *domain.Session
	err  error
}

// playbackMsg wraps a playback state transition.
type playbackMsg domain.PlaybackEvent

// ── Model ────────────────────────────────────────────────────────

type model struct {
	ctx    context.Context
	eng    Engine
	player Player
	log    *logger.Logger

	sess  *domain.Session
	theme theme

	mobile  textinput.Model
	fields  [fieldCount]textinput.Model
	focus   int
	spinner spinner.Model
	cursor  int // highlighted scheme on the results list

	playing domain.PlaybackState
	flash   string // transient localized error line
	width   int
}

func newModel(ctx context.Context, eng Engine, player Player, sess *domain.Session, dark bool, log *logger.Logger) model {
	m := model{
		ctx:    ctx,
		eng:    eng,
		player: player,
		log:    log,
		sess:   sess,
		theme:  newTheme(dark),
	}

	m.mobile = newInput(engine.MobileDigits)
	m.mobile.Placeholder = "9876543210"
	m.mobile.Focus()

	for i := range m.fields {
		m.fields[i] = newInput(60)
	}
	m.fields[fieldAge].CharLimit = 3
	m.fields[fieldAge].Placeholder = "45"
	m.fields[fieldIncome].CharLimit = 12
	m.fields[fieldIncome].Placeholder = "50000"
	m.fields[fieldState].Placeholder = "Gujarat"
	m.applyHints()

	m.spinner = spinner.New(spinner.WithSpinner(spinner.Dot))
	m.restyle()
	return m
}

func newInput(limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.CharLimit = limit
	ti.Width = 40
	return ti
}

func (m *model) text() i18n.Text { return i18n.For(m.sess.Language) }

// applyHints refreshes placeholders that depend on the language.
func (m *model) applyHints() {
	t := m.text()
	m.fields[fieldGender].Placeholder = t.GenderHint
	m.fields[fieldOccupation].Placeholder = t.OccupationHint
	m.fields[fieldCategory].Placeholder = t.CategoryHint
}

// restyle applies the current theme to the widgets.
func (m *model) restyle() {
	m.spinner.Style = m.theme.accent
	inputs := []*textinput.Model{&m.mobile}
	for i := range m.fields {
		inputs = append(inputs, &m.fields[i])
	}
	for _, in := range inputs {
		in.PromptStyle = m.theme.accent
		in.TextStyle = m.theme.primary
		in.PlaceholderStyle = m.theme.secondary
		in.Cursor.Style = m.theme.accent
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitPlayback())
}

// waitPlayback blocks on the next playback event.
func (m model) waitPlayback() tea.Cmd {
	if m.player == nil {
		return nil
	}
	events := m.player.Events()
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return playbackMsg(ev)
	}
}

// ── Update ───────────────────────────────────────────────────────

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case sessionMsg:
		return m.applySession(msg.sess, msg.err), nil

	case submitMsg:
		if msg.err != nil {
			if errors.Is(msg.err, domain.ErrStaleResponse) {
				m.log.Debug("discarded stale recommendation response")
			} else {
				m.flash = i18n.ErrorMessage(m.sess.Language, msg.err)
			}
			return m, m.reload()
		}
		return m.applySession(msg.sess, nil), nil

	case playbackMsg:
		m.playing = msg.State
		if msg.Err != nil {
			m.flash = i18n.ErrorMessage(m.sess.Language, msg.Err)
		}
		return m, m.waitPlayback()

	case spinner.TickMsg:
		if m.sess.Step != domain.StepLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInputs(msg)
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.stopAudio()
		return m, tea.Quit
	case "ctrl+l":
		m.stopAudio()
		next := m.sess.Language.Next()
		return m, m.call(func(ctx context.Context, id string) (*domain.Session, error) {
			return m.eng.SetLanguage(ctx, id, next)
		})
	case "ctrl+t":
		m.theme = newTheme(!m.theme.dark)
		m.restyle()
		return m, nil
	}

	m.flash = ""
	switch m.sess.Step {
	case domain.StepLogin:
		if msg.Type == tea.KeyEnter {
			mobile := m.mobile.Value()
			return m, m.call(func(ctx context.Context, id string) (*domain.Session, error) {
				return m.eng.Login(ctx, id, mobile)
			})
		}

	case domain.StepWelcome:
		if msg.Type == tea.KeyEnter {
			return m, m.call(m.eng.Continue)
		}

	case domain.StepProfile:
		return m.handleProfileKey(msg)

	case domain.StepLoading:
		if msg.Type == tea.KeyEsc {
			return m, m.call(m.eng.Cancel)
		}
		return m, nil

	case domain.StepResults:
		return m.handleResultsKey(msg)

	case domain.StepError:
		if msg.Type == tea.KeyEnter {
			return m, m.call(m.eng.TryAgain)
		}
		return m, nil
	}

	return m.updateInputs(msg)
}

func (m model) handleProfileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, m.call(m.eng.Back)
	case tea.KeyTab, tea.KeyDown:
		cmd := m.setFocus((m.focus + 1) % fieldCount)
		return m, cmd
	case tea.KeyShiftTab, tea.KeyUp:
		cmd := m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, cmd
	case tea.KeyEnter:
		if m.focus < fieldCount-1 {
			cmd := m.setFocus(m.focus + 1)
			return m, cmd
		}
		return m.submit()
	case tea.KeyCtrlS:
		return m.submit()
	}
	return m.updateInputs(msg)
}

func (m model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	res := m.sess.Result
	if m.sess.Selected != "" {
		switch msg.String() {
		case "esc", "backspace":
			m.stopAudio()
			return m, m.call(m.eng.Back)
		case "l", " ":
			return m.toggleListen()
		}
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if res != nil && m.cursor < len(res.Schemes)-1 {
			m.cursor++
		}
	case "enter":
		if res != nil && m.cursor < len(res.Schemes) {
			schemeID := res.Schemes[m.cursor].ID
			return m, m.call(func(ctx context.Context, id string) (*domain.Session, error) {
				return m.eng.Select(ctx, id, schemeID)
			})
		}
	case "esc", "r":
		return m, m.call(m.eng.TryAgain)
	}
	return m, nil
}

// submit collects the form and issues the recommendation request. The
// loading screen is shown right away; the request itself runs as a
// command.
func (m model) submit() (tea.Model, tea.Cmd) {
	p := m.profile()
	if err := p.Validate(); err != nil {
		m.flash = i18n.ErrorMessage(m.sess.Language, err)
		return m, nil
	}

	ctx, eng, id := m.ctx, m.eng, m.sess.ID
	sess := m.sess.Clone()
	sess.Step = domain.StepLoading
	m.sess = sess

	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		s, err := eng.Submit(ctx, id, p)
		return submitMsg{sess: s, err: err}
	})
}

func (m model) toggleListen() (tea.Model, tea.Cmd) {
	if m.player == nil || m.sess.Result == nil {
		return m, nil
	}
	scheme, ok := m.sess.Result.Scheme(m.sess.Selected)
	if !ok {
		return m, nil
	}
	if _, started := m.player.Speak(m.ctx, scheme.Description, m.sess.Language); started {
		m.playing = domain.PlaybackSynthesizing
	} else {
		m.playing = domain.PlaybackIdle
	}
	return m, nil
}

func (m *model) stopAudio() {
	if m.player != nil && m.player.State().Busy() {
		m.player.Stop()
	}
	m.playing = domain.PlaybackIdle
}

// applySession installs a new session snapshot, or turns err into a
// flash message while keeping the current one.
func (m model) applySession(sess *domain.Session, err error) model {
	if err != nil {
		m.log.Debug("engine call failed: %v", err)
		m.flash = i18n.ErrorMessage(m.sess.Language, err)
		return m
	}
	if sess == nil {
		return m
	}
	prev := m.sess
	m.sess = sess

	if prev.Language != sess.Language {
		m.applyHints()
	}
	if sess.Step == domain.StepProfile && prev.Step != domain.StepProfile {
		m.prefill(sess.Profile)
		m.setFocus(0)
	}
	if sess.Step == domain.StepResults && prev.Step != domain.StepResults {
		m.cursor = 0
	}
	if sess.Step == domain.StepResults && sess.Result != nil && m.cursor >= len(sess.Result.Schemes) {
		m.cursor = 0
	}
	return m
}

// call runs an engine operation against the current session as a command.
func (m model) call(fn func(ctx context.Context, id string) (*domain.Session, error)) tea.Cmd {
	ctx, id := m.ctx, m.sess.ID
	return func() tea.Msg {
		s, err := fn(ctx, id)
		return sessionMsg{sess: s, err: err}
	}
}

func (m model) reload() tea.Cmd {
	return m.call(m.eng.Session)
}

func (m *model) setFocus(i int) tea.Cmd {
	m.focus = i
	var cmd tea.Cmd
	for j := range m.fields {
		if j == i {
			cmd = m.fields[j].Focus()
		} else {
			m.fields[j].Blur()
		}
	}
	return cmd
}

func (m *model) prefill(p *domain.UserProfile) {
	if p == nil {
		for i := range m.fields {
			m.fields[i].SetValue("")
		}
		return
	}
	m.fields[fieldAge].SetValue(p.Age)
	m.fields[fieldGender].SetValue(p.Gender)
	m.fields[fieldIncome].SetValue(p.AnnualIncome)
	m.fields[fieldState].SetValue(p.State)
	m.fields[fieldOccupation].SetValue(p.Occupation)
	m.fields[fieldCategory].SetValue(p.SocialCategory)
}

func (m model) profile() domain.UserProfile {
	return domain.UserProfile{
		Age:            m.fields[fieldAge].Value(),
		Gender:         m.fields[fieldGender].Value(),
		AnnualIncome:   m.fields[fieldIncome].Value(),
		State:          m.fields[fieldState].Value(),
		Occupation:     m.fields[fieldOccupation].Value(),
		SocialCategory: m.fields[fieldCategory].Value(),
	}
}

// updateInputs forwards msg to the focused input of the current step.
// Numeric inputs drop anything that is not a digit.
func (m model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.sess.Step {
	case domain.StepLogin:
		m.mobile, cmd = m.mobile.Update(msg)
		if v := engine.DigitsOnly(m.mobile.Value()); v != m.mobile.Value() {
			m.mobile.SetValue(v)
		}
	case domain.StepProfile:
		f := &m.fields[m.focus]
		*f, cmd = f.Update(msg)
		if m.focus == fieldAge || m.focus == fieldIncome {
			if v := engine.DigitsOnly(f.Value()); v != f.Value() {
				f.SetValue(v)
			}
		}
	}
	return m, cmd
}
