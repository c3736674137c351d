package scoreboard

import (
	"fmt"
	"strings"
)

// Team identifies one side of a game.
type Team string

const (
	TeamA Team = "A"
	TeamB Team = "B"
)

// ParseTeam accepts "A" or "B" in any case.
func ParseTeam(raw string) (Team, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(TeamA):
		return TeamA, nil
	case string(TeamB):
		return TeamB, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTeam, raw)
	}
}

// Other returns the opposing side.
func (t Team) Other() Team {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

// Score is a persisted score pair.
type Score struct {
	A int `json:"scoreA"`
	B int `json:"scoreB"`
}
