package scoreboard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/preston-bernstein/hoops-league-service/internal/domain/games"
)

// Limits bounds the session counters.
type Limits struct {
	MaxFouls     int
	MaxTimeouts  int
	MaxPeriods   int
	PeriodLength time.Duration
}

// DefaultLimits returns five fouls, three timeouts, four periods of twelve minutes.
func DefaultLimits() Limits {
	return Limits{
		MaxFouls:     5,
		MaxTimeouts:  3,
		MaxPeriods:   4,
		PeriodLength: 12 * time.Minute,
	}
}

func (l Limits) withDefaults() Limits {
	def := DefaultLimits()
	if l.MaxFouls <= 0 {
		l.MaxFouls = def.MaxFouls
	}
	if l.MaxTimeouts <= 0 {
		l.MaxTimeouts = def.MaxTimeouts
	}
	if l.MaxPeriods <= 0 {
		l.MaxPeriods = def.MaxPeriods
	}
	if l.PeriodLength <= 0 {
		l.PeriodLength = def.PeriodLength
	}
	return l
}

// Phase is the clock state of a session.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseRunning Phase = "running"
	PhaseExpired Phase = "expired"
)

// Config wires a session to its collaborators. Persister and Observer are optional.
type Config struct {
	Limits         Limits
	TimeSource     clockwork.Clock
	Persister      Persister
	Observer       Observer
	PersistTimeout time.Duration
}

// State is a point-in-time copy of a session.
type State struct {
	GameID           string `json:"gameId"`
	SessionID        string `json:"sessionId"`
	TeamA            string `json:"teamA"`
	TeamB            string `json:"teamB"`
	ScoreA           int    `json:"scoreA"`
	ScoreB           int    `json:"scoreB"`
	FoulsA           int    `json:"foulsA"`
	FoulsB           int    `json:"foulsB"`
	TimeoutsA        int    `json:"timeoutsA"`
	TimeoutsB        int    `json:"timeoutsB"`
	Period           int    `json:"period"`
	Possession       Team   `json:"possession"`
	ClockRemainingMS int64  `json:"clockRemainingMs"`
	Clock            string `json:"clock"`
	Running          bool   `json:"running"`
	Phase            Phase  `json:"phase"`
	Locked           bool   `json:"locked"`
	PendingPersist   bool   `json:"pendingPersist"`
	PersistInFlight  bool   `json:"persistInFlight"`
}

// Session is the live state of one game. Commands are serialized by a mutex;
// observers are notified after it is released.
type Session struct {
	id       string
	gameID   string
	teamA    string
	teamB    string
	limits   Limits
	source   clockwork.Clock
	observer Observer
	persist  *Coalescer

	mu         sync.Mutex
	locked     bool
	closed     bool
	scoreA     int
	scoreB     int
	foulsA     int
	foulsB     int
	timeoutsA  int
	timeoutsB  int
	period     int
	possession Team
	clock      *Clock
	expired    bool
	timer      clockwork.Timer
	timerGen   uint64
}

// NewSession seeds a session from a game record.
func NewSession(game games.Game, cfg Config) *Session {
	game = game.Normalize()
	limits := cfg.Limits.withDefaults()
	source := cfg.TimeSource
	if source == nil {
		source = clockwork.NewRealClock()
	}
	observer := cfg.Observer
	if observer == nil {
		observer = NopObserver{}
	}

	return &Session{
		id:         uuid.NewString(),
		gameID:     game.ID,
		teamA:      game.TeamA,
		teamB:      game.TeamB,
		limits:     limits,
		source:     source,
		observer:   observer,
		persist:    NewCoalescer(game.ID, cfg.Persister, observer, cfg.PersistTimeout),
		locked:     game.IsLocked,
		scoreA:     game.ScoreA,
		scoreB:     game.ScoreB,
		period:     1,
		possession: TeamA,
		clock:      NewClock(source, limits.PeriodLength),
	}
}

// ID is the session's unique id.
func (s *Session) ID() string { return s.id }

// GameID is the id of the game the session tracks.
func (s *Session) GameID() string { return s.gameID }

// Limits returns the counter bounds in effect.
func (s *Session) Limits() Limits { return s.limits }

// mutate runs fn under the lock after the closed and locked checks.
func (s *Session) mutate(fn func() error) error {
	s.mu.Lock()
	expired := s.settleLocked()
	err := s.guardLocked()
	if err == nil {
		err = fn()
	}
	s.mu.Unlock()

	if expired {
		s.observer.TimeExpired(s.gameID)
	}
	return err
}

func (s *Session) guardLocked() error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.locked {
		return &LockedGameError{GameID: s.gameID}
	}
	return nil
}

// AdjustScore adds delta to a team's score, never going below zero.
func (s *Session) AdjustScore(team Team, delta int) error {
	return s.changeScore(team, func(cur int) (int, error) {
		return max(0, cur+delta), nil
	})
}

// SetScore replaces a team's score.
func (s *Session) SetScore(team Team, value int) error {
	return s.changeScore(team, func(int) (int, error) {
		if value < 0 {
			return 0, ErrInvalidValue
		}
		return value, nil
	})
}

// changeScore queues the persistence snapshot before releasing the session
// lock so concurrent commands reach the coalescer in the order they applied.
func (s *Session) changeScore(team Team, next func(int) (int, error)) error {
	var change ScoreChange
	var superseded bool
	err := s.mutate(func() error {
		ptr, err := s.scoreFor(team)
		if err != nil {
			return err
		}
		v, err := next(*ptr)
		if err != nil {
			return err
		}
		*ptr = v
		change = ScoreChange{
			GameID:   s.gameID,
			Team:     team,
			NewScore: v,
			Score:    Score{A: s.scoreA, B: s.scoreB},
		}
		superseded = s.persist.offer(change.Score)
		return nil
	})
	if err != nil {
		return err
	}
	if superseded {
		s.persist.notifyCoalesced()
	}
	s.observer.ScoreChanged(change)
	return nil
}

func (s *Session) scoreFor(team Team) (*int, error) {
	switch team {
	case TeamA:
		return &s.scoreA, nil
	case TeamB:
		return &s.scoreB, nil
	default:
		return nil, ErrUnknownTeam
	}
}

// AdjustFoul changes a team's foul count within [0, MaxFouls].
func (s *Session) AdjustFoul(team Team, delta int) error {
	return s.mutate(func() error {
		switch team {
		case TeamA:
			s.foulsA = clamp(s.foulsA+delta, 0, s.limits.MaxFouls)
		case TeamB:
			s.foulsB = clamp(s.foulsB+delta, 0, s.limits.MaxFouls)
		default:
			return ErrUnknownTeam
		}
		return nil
	})
}

// ResetFouls clears a team's fouls.
func (s *Session) ResetFouls(team Team) error {
	return s.AdjustFoul(team, -s.limits.MaxFouls)
}

// AdjustTimeout changes a team's timeouts taken within [0, MaxTimeouts].
func (s *Session) AdjustTimeout(team Team, delta int) error {
	return s.mutate(func() error {
		switch team {
		case TeamA:
			s.timeoutsA = clamp(s.timeoutsA+delta, 0, s.limits.MaxTimeouts)
		case TeamB:
			s.timeoutsB = clamp(s.timeoutsB+delta, 0, s.limits.MaxTimeouts)
		default:
			return ErrUnknownTeam
		}
		return nil
	})
}

// ResetTimeouts clears a team's timeouts.
func (s *Session) ResetTimeouts(team Team) error {
	return s.AdjustTimeout(team, -s.limits.MaxTimeouts)
}

// AdjustPeriod moves the period within [1, MaxPeriods].
func (s *Session) AdjustPeriod(delta int) error {
	return s.mutate(func() error {
		s.period = clamp(s.period+delta, 1, s.limits.MaxPeriods)
		return nil
	})
}

// ResetPeriod returns to the first period.
func (s *Session) ResetPeriod() error {
	return s.mutate(func() error {
		s.period = 1
		return nil
	})
}

// TogglePossession flips the possession arrow.
func (s *Session) TogglePossession() error {
	return s.mutate(func() error {
		s.possession = s.possession.Other()
		return nil
	})
}

// Start runs the clock. It fails with ErrClockExpired when no time is left.
func (s *Session) Start() error {
	return s.mutate(func() error {
		if s.clock.Running() {
			return nil
		}
		if !s.clock.Start() {
			return ErrClockExpired
		}
		s.expired = false
		s.armTimerLocked()
		return nil
	})
}

// Stop pauses the clock.
func (s *Session) Stop() error {
	return s.mutate(func() error {
		s.clock.Stop()
		s.stopTimerLocked()
		return nil
	})
}

// Reset stops the clock and sets it to minutes:seconds.
func (s *Session) Reset(minutes, seconds int) error {
	d, err := ClockDuration(minutes, seconds)
	if err != nil {
		return err
	}
	return s.mutate(func() error {
		s.clock.Stop()
		s.stopTimerLocked()
		s.clock.Set(d)
		s.expired = false
		return nil
	})
}

// SetClock sets the remaining time and keeps the clock running if it was.
func (s *Session) SetClock(minutes, seconds int) error {
	d, err := ClockDuration(minutes, seconds)
	if err != nil {
		return err
	}
	var expired bool
	err = s.mutate(func() error {
		s.clock.Set(d)
		s.expired = false
		if s.clock.Running() {
			expired = s.settleLocked()
			if !expired {
				s.armTimerLocked()
			}
		}
		return nil
	})
	if expired {
		s.observer.TimeExpired(s.gameID)
	}
	return err
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	expired := s.settleLocked()
	remaining := s.clock.Remaining()
	state := State{
		GameID:           s.gameID,
		SessionID:        s.id,
		TeamA:            s.teamA,
		TeamB:            s.teamB,
		ScoreA:           s.scoreA,
		ScoreB:           s.scoreB,
		FoulsA:           s.foulsA,
		FoulsB:           s.foulsB,
		TimeoutsA:        s.timeoutsA,
		TimeoutsB:        s.timeoutsB,
		Period:           s.period,
		Possession:       s.possession,
		ClockRemainingMS: remaining.Milliseconds(),
		Clock:            FormatClock(remaining),
		Running:          s.clock.Running(),
		Phase:            s.phaseLocked(),
		Locked:           s.locked,
	}
	s.mu.Unlock()

	state.PendingPersist, state.PersistInFlight = s.persist.Status()
	if expired {
		s.observer.TimeExpired(s.gameID)
	}
	return state
}

// Drain retries the waiting or last failed score snapshot now.
func (s *Session) Drain(ctx context.Context) error {
	return s.persist.Drain(ctx)
}

// Close stops the clock timer and persistence. Later commands fail with ErrSessionClosed.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.stopTimerLocked()
	s.mu.Unlock()
	s.persist.Close()
}

// Wait blocks until the session's persist calls have returned. After Close
// this means no call can still reach the store.
func (s *Session) Wait() {
	s.persist.Wait()
}

func (s *Session) phaseLocked() Phase {
	switch {
	case s.clock.Running():
		return PhaseRunning
	case s.expired:
		return PhaseExpired
	default:
		return PhaseIdle
	}
}

// settleLocked moves a running clock that hit zero into the expired phase.
// It returns true for the call that made the transition.
func (s *Session) settleLocked() bool {
	if !s.clock.Running() || s.clock.Remaining() > 0 {
		return false
	}
	s.clock.Stop()
	s.stopTimerLocked()
	s.expired = true
	return true
}

func (s *Session) armTimerLocked() {
	s.stopTimerLocked()
	s.timerGen++
	gen := s.timerGen
	s.timer = s.source.AfterFunc(s.clock.Remaining(), func() { s.onTimer(gen) })
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) onTimer(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.timerGen {
		s.mu.Unlock()
		return
	}
	expired := s.settleLocked()
	if !expired && s.clock.Running() {
		s.armTimerLocked()
	}
	s.mu.Unlock()

	if expired {
		s.observer.TimeExpired(s.gameID)
	}
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
