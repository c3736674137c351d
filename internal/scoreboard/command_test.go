package scoreboard

import (
	"errors"
	"testing"

	"github.com/preston-bernstein/hoops-league-service/internal/domain/games"
)

func TestApplyDispatchesCommands(t *testing.T) {
	s := newTestSession(t, games.Game{ID: "g1", TeamA: "X", TeamB: "Y"}, Config{})

	cmds := []Command{
		{Name: "adjustScore", Team: "a", Value: 3},
		{Name: "setScore", Team: "B", Value: 7},
		{Name: "adjustFoul", Team: "B", Value: 2},
		{Name: "adjustTimeout", Team: "A", Value: 1},
		{Name: "adjustPeriod", Value: 2},
		{Name: "togglePossession"},
		{Name: "setClock", Minutes: 8, Seconds: 30},
	}
	for _, cmd := range cmds {
		if err := Apply(s, cmd); err != nil {
			t.Fatalf("%s: unexpected error %v", cmd.Name, err)
		}
	}

	st := s.Snapshot()
	if st.ScoreA != 3 || st.ScoreB != 7 || st.FoulsB != 2 || st.TimeoutsA != 1 || st.Period != 3 {
		t.Fatalf("unexpected counters %+v", st)
	}
	if st.Possession != TeamB || st.Clock != "08:30:00" {
		t.Fatalf("unexpected possession/clock %+v", st)
	}

	for _, cmd := range []Command{{Name: "resetFouls", Team: "b"}, {Name: "resetTimeouts", Team: "a"}, {Name: "resetPeriod"}} {
		if err := Apply(s, cmd); err != nil {
			t.Fatalf("%s: unexpected error %v", cmd.Name, err)
		}
	}
	st = s.Snapshot()
	if st.FoulsB != 0 || st.TimeoutsA != 0 || st.Period != 1 {
		t.Fatalf("expected resets to apply, got %+v", st)
	}
}

func TestApplyRejectsBadInput(t *testing.T) {
	s := newTestSession(t, games.Game{ID: "g1", TeamA: "X", TeamB: "Y"}, Config{})

	if err := Apply(s, Command{Name: "dunk"}); !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand, got %v", err)
	}
	if err := Apply(s, Command{Name: "adjustScore", Team: "C", Value: 1}); !errors.Is(err, ErrUnknownTeam) {
		t.Fatalf("expected ErrUnknownTeam, got %v", err)
	}
	if err := Apply(s, Command{Name: "reset", Minutes: 1, Seconds: 99}); !errors.Is(err, ErrInvalidClock) {
		t.Fatalf("expected ErrInvalidClock, got %v", err)
	}
}

func TestObserversFanOut(t *testing.T) {
	a, b := newRecordingObserver(), newRecordingObserver()
	obs := Observers{a, b}

	obs.TimeExpired("g1")
	obs.Coalesced("g1")
	obs.PersistFailed(&PersistenceFailedError{GameID: "g1", Err: errors.New("x")})

	for _, o := range []*recordingObserver{a, b} {
		if len(o.expired) != 1 || len(o.coalesced) != 1 || len(o.failed) != 1 {
			t.Fatalf("expected each observer to receive every notification")
		}
	}
}

func TestParseTeam(t *testing.T) {
	if team, err := ParseTeam(" b "); err != nil || team != TeamB {
		t.Fatalf("expected B, got %q %v", team, err)
	}
	if _, err := ParseTeam(""); !errors.Is(err, ErrUnknownTeam) {
		t.Fatalf("expected ErrUnknownTeam, got %v", err)
	}
}
