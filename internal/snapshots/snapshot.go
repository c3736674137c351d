// Package snapshots keeps dated on-disk copies of the games list so the
// service can answer reads before the first successful poll.
package snapshots

import (
	"time"

	"github.com/preston-bernstein/hoops-league-service/internal/domain/games"
)

// GamesSnapshot is the payload stored per date.
type GamesSnapshot struct {
	Date      string       `json:"date"`
	FetchedAt time.Time    `json:"fetchedAt"`
	Count     int          `json:"count"`
	Games     []games.Game `json:"games"`
}

// NewGamesSnapshot builds a snapshot payload.
func NewGamesSnapshot(date string, fetchedAt time.Time, list []games.Game) GamesSnapshot {
	if list == nil {
		list = []games.Game{}
	}
	return GamesSnapshot{Date: date, FetchedAt: fetchedAt.UTC(), Count: len(list), Games: list}
}
