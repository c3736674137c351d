package testutil

import (
	"time"

	"github.com/preston-bernstein/hoops-league-service/internal/domain/games"
)

// SampleGame returns a minimal unlocked U14 game with the provided id.
func SampleGame(id string) games.Game {
	at := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	return games.Game{
		ID:              id,
		GameNumber:      1,
		TeamA:           "Northside Hawks",
		TeamB:           "Riverside Rockets",
		AgeGroup:        "U14",
		Venue:           "Community Hall",
		CourtNumber:     "1",
		FixtureDateTime: &at,
	}
}

// LockedGame returns SampleGame marked locked with a final score.
func LockedGame(id string, scoreA, scoreB int) games.Game {
	g := SampleGame(id)
	g.ScoreA, g.ScoreB = scoreA, scoreB
	g.IsLocked = true
	return g
}
