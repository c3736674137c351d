package scoreboard

import (
	"errors"
	"fmt"
)

// ErrUnknownCommand is returned by Apply for an unrecognized command name.
var ErrUnknownCommand = errors.New("unknown scoreboard command")

// Command is the wire form of a session command.
type Command struct {
	Name    string `json:"command"`
	Team    string `json:"team,omitempty"`
	Value   int    `json:"value,omitempty"`
	Minutes int    `json:"minutes,omitempty"`
	Seconds int    `json:"seconds,omitempty"`
}

// Apply dispatches cmd to s.
func Apply(s *Session, cmd Command) error {
	switch cmd.Name {
	case "adjustScore", "setScore", "adjustFoul", "resetFouls", "adjustTimeout", "resetTimeouts":
		team, err := ParseTeam(cmd.Team)
		if err != nil {
			return err
		}
		return applyTeam(s, cmd.Name, team, cmd.Value)
	case "adjustPeriod":
		return s.AdjustPeriod(cmd.Value)
	case "resetPeriod":
		return s.ResetPeriod()
	case "togglePossession":
		return s.TogglePossession()
	case "start":
		return s.Start()
	case "stop":
		return s.Stop()
	case "reset":
		return s.Reset(cmd.Minutes, cmd.Seconds)
	case "setClock":
		return s.SetClock(cmd.Minutes, cmd.Seconds)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Name)
	}
}

func applyTeam(s *Session, name string, team Team, value int) error {
	switch name {
	case "adjustScore":
		return s.AdjustScore(team, value)
	case "setScore":
		return s.SetScore(team, value)
	case "adjustFoul":
		return s.AdjustFoul(team, value)
	case "resetFouls":
		return s.ResetFouls(team)
	case "adjustTimeout":
		return s.AdjustTimeout(team, value)
	default:
		return s.ResetTimeouts(team)
	}
}
