package domain

import "time"

// Step is the screen the UI session is on.
type Step int

const (
	StepLogin Step = iota
	StepWelcome
	StepProfile
	StepLoading
	StepResults
	StepError
)

// String returns a human-readable step name.
func (s Step) String() string {
	switch s {
	case StepLogin:
		return "login"
	case StepWelcome:
		return "welcome"
	case StepProfile:
		return "profile"
	case StepLoading:
		return "loading"
	case StepResults:
		return "results"
	case StepError:
		return "error"
	default:
		return "unknown"
	}
}

// Ticket identifies one recommendation request. A response is applied only
// while its ticket's generation is still the session's current one.
type Ticket struct {
	ID         string
	Generation uint64
	Profile    UserProfile
	Language   Language
	IssuedAt   time.Time
}

// Session is a snapshot of the UI session state.
type Session struct {
	ID         string
	Mobile     string
	Step       Step
	Language   Language
	Profile    *UserProfile
	Result     *RecommendationResult
	Selected   string // scheme id on the detail view, empty on the list
	Err        error
	Generation uint64
	Pending    *Ticket
	UpdatedAt  time.Time
}

// PlaybackState is the state of the single audio playback slot.
type PlaybackState int

const (
	PlaybackIdle PlaybackState = iota
	PlaybackSynthesizing
	PlaybackSpeaking
)

// String returns a human-readable playback state.
func (p PlaybackState) String() string {
	switch p {
	case PlaybackIdle:
		return "idle"
	case PlaybackSynthesizing:
		return "synthesizing"
	case PlaybackSpeaking:
		return "speaking"
	default:
		return "unknown"
	}
}

// Busy reports whether a listen action would stop rather than start audio.
func (p PlaybackState) Busy() bool { return p != PlaybackIdle }

// PlaybackEvent is published on every playback state transition. Err is set
// when the transition to idle was caused by a failure.
type PlaybackEvent struct {
	Token uint64
	State PlaybackState
	Err   error
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.Profile != nil {
		p := *s.Profile
		c.Profile = &p
	}
	if s.Pending != nil {
		t := *s.Pending
		c.Pending = &t
	}
	if s.Result != nil {
		r := RecommendationResult{Summary: s.Result.Summary, Schemes: make([]Scheme, len(s.Result.Schemes))}
		for i, sc := range s.Result.Schemes {
			if sc.EligibilityCriteria != nil {
				crit := make([]string, len(sc.EligibilityCriteria))
				copy(crit, sc.EligibilityCriteria)
				sc.EligibilityCriteria = crit
			}
			r.Schemes[i] = sc
		}
		c.Result = &r
	}
	return &c
}
