// Package engine implements the UI session state machine: login, profile
// entry, the single in-flight recommendation request and result browsing.
package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hammamikhairi/yojana/internal/domain"
	"github.com/hammamikhairi/yojana/internal/logger"
)

// MobileDigits is the length of an accepted mobile number.
const MobileDigits = 10

// Option configures the engine.
type Option func(*Engine)

// WithDefaultLanguage sets the language of new sessions.
func WithDefaultLanguage(lang domain.Language) Option {
	return func(e *Engine) {
		if lang.Valid() {
			e.defaultLang = lang
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine manages UI sessions. It depends only on interfaces and is fully
// testable with fakes.
//
// Every recommendation request is issued under a Ticket. Language changes,
// back navigation, resets and cancellation bump the session generation, and
// a response whose ticket is no longer current is discarded.
type Engine struct {
	rec         domain.Recommender
	store       domain.SessionStore
	log         *logger.Logger
	defaultLang domain.Language
	now         func() time.Time

	mu       sync.Mutex
	inflight map[string]context.CancelFunc // session id -> request cancel
}

// New creates an engine with the given dependencies and options.
func New(rec domain.Recommender, store domain.SessionStore, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		rec:         rec,
		store:       store,
		log:         log.Named("engine"),
		defaultLang: domain.DefaultLanguage,
		now:         time.Now,
		inflight:    make(map[string]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ── Session lifecycle ────────────────────────────────────────────

// StartSession creates a session on the login step.
func (e *Engine) StartSession(ctx context.Context) (*domain.Session, error) {
	s := &domain.Session{
		ID:        generateID(),
		Step:      domain.StepLogin,
		Language:  e.defaultLang,
		UpdatedAt: e.now(),
	}
	if err := e.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("engine: saving session: %w", err)
	}
	e.log.Info("started session %s (lang=%s)", s.ID, s.Language)
	return s, nil
}

// Session returns the current snapshot of a session.
func (e *Engine) Session(ctx context.Context, id string) (*domain.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.load(ctx, id)
}

// EndSession cancels any in-flight request and forgets the session.
func (e *Engine) EndSession(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelLocked(id)
	if err := e.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("engine: deleting session: %w", err)
	}
	e.log.Info("ended session %s", id)
	return nil
}

// ── Navigation ───────────────────────────────────────────────────

// Login accepts a mobile number and moves to the welcome step. Non-digits
// are ignored; exactly MobileDigits digits must remain. No verification is
// performed.
func (e *Engine) Login(ctx context.Context, id, mobile string) (*domain.Session, error) {
	digits := DigitsOnly(mobile)
	if len(digits) != MobileDigits {
		return nil, domain.Validationf("login", "mobile number must have %d digits, got %d", MobileDigits, len(digits))
	}
	return e.update(ctx, id, func(s *domain.Session) error {
		if s.Step != domain.StepLogin {
			return stepError("login", s.Step)
		}
		s.Mobile = digits
		s.Step = domain.StepWelcome
		return nil
	})
}

// Continue moves from the welcome step to profile entry.
func (e *Engine) Continue(ctx context.Context, id string) (*domain.Session, error) {
	return e.update(ctx, id, func(s *domain.Session) error {
		if s.Step != domain.StepWelcome {
			return stepError("continue", s.Step)
		}
		s.Step = domain.StepProfile
		return nil
	})
}

// Back steps backwards: detail to list, results or error to profile,
// profile to welcome (dropping the profile). Any in-flight request is
// cancelled and its response will be discarded.
func (e *Engine) Back(ctx context.Context, id string) (*domain.Session, error) {
	return e.update(ctx, id, func(s *domain.Session) error {
		switch {
		case s.Step == domain.StepResults && s.Selected != "":
			s.Selected = ""
			return nil
		case s.Step == domain.StepResults, s.Step == domain.StepError, s.Step == domain.StepLoading:
			e.resetToProfileLocked(s)
		case s.Step == domain.StepProfile:
			s.Profile = nil
			s.Step = domain.StepWelcome
			s.Generation++
		default:
			return stepError("back", s.Step)
		}
		return nil
	})
}

// TryAgain leaves the error step for profile entry, discarding the failed
// request's state. The profile is kept so the form can be prefilled.
func (e *Engine) TryAgain(ctx context.Context, id string) (*domain.Session, error) {
	return e.update(ctx, id, func(s *domain.Session) error {
		if s.Step != domain.StepError && s.Step != domain.StepResults {
			return stepError("try again", s.Step)
		}
		e.resetToProfileLocked(s)
		return nil
	})
}

// SetLanguage switches the session language. A request issued under the
// previous language is cancelled and the session returns to profile entry;
// loaded results are kept as they are.
func (e *Engine) SetLanguage(ctx context.Context, id string, lang domain.Language) (*domain.Session, error) {
	if !lang.Valid() {
		return nil, domain.Validationf("set language", "unsupported language %q", string(lang))
	}
	return e.update(ctx, id, func(s *domain.Session) error {
		if s.Language == lang {
			return nil
		}
		s.Language = lang
		s.Generation++
		if s.Step == domain.StepLoading {
			e.resetToProfileLocked(s)
		}
		return nil
	})
}

// Select opens the detail view of a recommended scheme. An empty id
// returns to the list.
func (e *Engine) Select(ctx context.Context, id, schemeID string) (*domain.Session, error) {
	return e.update(ctx, id, func(s *domain.Session) error {
		if s.Step != domain.StepResults || s.Result == nil {
			return domain.ErrNoResults
		}
		if schemeID != "" {
			if _, ok := s.Result.Scheme(schemeID); !ok {
				return fmt.Errorf("engine: scheme %q: %w", schemeID, domain.ErrNotFound)
			}
		}
		s.Selected = schemeID
		return nil
	})
}

// ── Recommendation request ───────────────────────────────────────

// Submit runs one recommendation request for the session: Begin, fetch,
// Complete. It blocks until the request settles or is superseded. The
// returned session is the state after the response was applied; a
// superseded response yields ErrStaleResponse and leaves the session as
// it is.
func (e *Engine) Submit(ctx context.Context, id string, profile domain.UserProfile) (*domain.Session, error) {
	ticket, reqCtx, err := e.begin(ctx, id, profile)
	if err != nil {
		return nil, err
	}

	start := e.now()
	res, fetchErr := e.rec.FetchRecommendations(reqCtx, ticket.Profile, ticket.Language)
	e.log.Debug("ticket %s settled in %s (err=%v)", ticket.ID, e.now().Sub(start).Round(time.Millisecond), fetchErr)

	return e.Complete(ctx, id, ticket, res, fetchErr)
}

// Begin validates the profile and moves the session to the loading step
// under a fresh ticket. Only one request may be in flight per session.
func (e *Engine) Begin(ctx context.Context, id string, profile domain.UserProfile) (*domain.Ticket, error) {
	t, _, err := e.begin(ctx, id, profile)
	return t, err
}

func (e *Engine) begin(ctx context.Context, id string, profile domain.UserProfile) (*domain.Ticket, context.Context, error) {
	profile = trimProfile(profile)

	e.mu.Lock()
	defer e.mu.Unlock()

	s, err := e.load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if s.Pending != nil {
		return nil, nil, domain.ErrRequestInFlight
	}
	if s.Step != domain.StepProfile {
		return nil, nil, stepError("submit", s.Step)
	}
	if err := profile.Validate(); err != nil {
		return nil, nil, err
	}

	s.Generation++
	t := &domain.Ticket{
		ID:         generateID(),
		Generation: s.Generation,
		Profile:    profile,
		Language:   s.Language,
		IssuedAt:   e.now(),
	}
	s.Profile = &profile
	s.Pending = t
	s.Result = nil
	s.Selected = ""
	s.Err = nil
	s.Step = domain.StepLoading
	if err := e.save(ctx, s); err != nil {
		return nil, nil, err
	}

	reqCtx, cancel := context.WithCancel(ctx)
	e.inflight[id] = cancel
	e.log.Info("session %s: request %s issued (gen=%d, lang=%s)", id, t.ID, t.Generation, t.Language)
	return t, reqCtx, nil
}

// Complete applies the outcome of the request identified by ticket. If the
// ticket is no longer the session's pending one the outcome is dropped and
// ErrStaleResponse is returned. A failure moves to the error step with no
// partial result; success moves to the results list.
func (e *Engine) Complete(ctx context.Context, id string, ticket *domain.Ticket, res *domain.RecommendationResult, fetchErr error) (*domain.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Pending == nil || s.Pending.ID != ticket.ID || s.Generation != ticket.Generation {
		e.log.Debug("session %s: dropping stale response for %s (gen %d, current %d)",
			id, ticket.ID, ticket.Generation, s.Generation)
		return nil, domain.ErrStaleResponse
	}
	if cancel, ok := e.inflight[id]; ok {
		cancel()
		delete(e.inflight, id)
	}

	s.Pending = nil
	switch {
	case fetchErr != nil:
		s.Err = fetchErr
		s.Result = nil
		s.Step = domain.StepError
		e.log.Warn("session %s: request %s failed: %v", id, ticket.ID, fetchErr)
	case res == nil:
		s.Err = domain.NewError(domain.ErrGeneration, "complete", domain.ErrNoResults)
		s.Step = domain.StepError
	default:
		s.Result = res
		s.Selected = ""
		s.Step = domain.StepResults
		e.log.Info("session %s: %d schemes loaded", id, len(res.Schemes))
	}
	if err := e.save(ctx, s); err != nil {
		return nil, err
	}
	return s.Clone(), nil
}

// Cancel abandons the in-flight request and returns to profile entry.
// It is a no-op when nothing is pending.
func (e *Engine) Cancel(ctx context.Context, id string) (*domain.Session, error) {
	return e.update(ctx, id, func(s *domain.Session) error {
		if s.Pending == nil {
			return nil
		}
		e.resetToProfileLocked(s)
		return nil
	})
}

// ── Internals ────────────────────────────────────────────────────

// update loads a session, applies fn and saves it under the engine lock.
func (e *Engine) update(ctx context.Context, id string, fn func(*domain.Session) error) (*domain.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	prevGen := s.Generation
	if err := fn(s); err != nil {
		return nil, err
	}
	if s.Generation != prevGen {
		e.cancelLocked(id)
	}
	if err := e.save(ctx, s); err != nil {
		return nil, err
	}
	return s.Clone(), nil
}

// resetToProfileLocked drops pending and loaded state and bumps the
// generation so outstanding responses go stale.
func (e *Engine) resetToProfileLocked(s *domain.Session) {
	s.Pending = nil
	s.Result = nil
	s.Selected = ""
	s.Err = nil
	s.Generation++
	s.Step = domain.StepProfile
}

func (e *Engine) cancelLocked(id string) {
	if cancel, ok := e.inflight[id]; ok {
		cancel()
		delete(e.inflight, id)
		e.log.Debug("session %s: in-flight request cancelled", id)
	}
}

func (e *Engine) load(ctx context.Context, id string) (*domain.Session, error) {
	s, err := e.store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("engine: loading session %s: %w", id, err)
	}
	return s, nil
}

func (e *Engine) save(ctx context.Context, s *domain.Session) error {
	s.UpdatedAt = e.now()
	if err := e.store.Save(ctx, s); err != nil {
		return fmt.Errorf("engine: saving session %s: %w", s.ID, err)
	}
	return nil
}

func stepError(op string, step domain.Step) error {
	return fmt.Errorf("engine: %s at step %s: %w", op, step, domain.ErrWrongStep)
}

// DigitsOnly strips every non-digit from s.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func trimProfile(p domain.UserProfile) domain.UserProfile {
	return domain.UserProfile{
		Age:            strings.TrimSpace(p.Age),
		Gender:         strings.TrimSpace(p.Gender),
		AnnualIncome:   strings.TrimSpace(p.AnnualIncome),
		State:          strings.TrimSpace(p.State),
		Occupation:     strings.TrimSpace(p.Occupation),
		SocialCategory: strings.TrimSpace(p.SocialCategory),
	}
}
