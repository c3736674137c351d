// Package contentstore reaches the external content store that owns games.
package contentstore

import (
	"context"
	"time"

	"github.com/preston-bernstein/hoops-league-service/internal/domain/games"
)

// Store reads games and writes scores and results back.
type Store interface {
	FetchGames(ctx context.Context, filter Filter) ([]games.Game, error)
	// PersistScore overwrites a game's score. Repeating a call is harmless.
	PersistScore(ctx context.Context, gameID string, scoreA, scoreB int) (games.PersistResult, error)
	PersistResult(ctx context.Context, gameID string, resultA, resultB games.Result) error
}

// Filter narrows FetchGames. Zero values match everything.
type Filter struct {
	AgeGroup   string
	From       time.Time
	To         time.Time
	LockedOnly bool
}

// Match reports whether g passes the filter. Stores that cannot filter
// upstream apply it client-side.
func (f Filter) Match(g games.Game) bool {
	if f.AgeGroup != "" && g.AgeGroup != f.AgeGroup {
		return false
	}
	if f.LockedOnly && !g.IsLocked {
		return false
	}
	if !f.From.IsZero() || !f.To.IsZero() {
		if g.FixtureDateTime == nil {
			return false
		}
		at := *g.FixtureDateTime
		if !f.From.IsZero() && at.Before(f.From) {
			return false
		}
		if !f.To.IsZero() && !at.Before(f.To) {
			return false
		}
	}
	return true
}

// Apply returns the games that match f.
func (f Filter) Apply(list []games.Game) []games.Game {
	out := make([]games.Game, 0, len(list))
	for _, g := range list {
		if f.Match(g) {
			out = append(out, g)
		}
	}
	return out
}

// key identifies a filter for request sharing.
func (f Filter) key() string {
	return f.AgeGroup + "|" + f.From.UTC().Format(time.RFC3339) + "|" + f.To.UTC().Format(time.RFC3339) + "|" + boolKey(f.LockedOnly)
}

func boolKey(b bool) string {
	if b {
		return "locked"
	}
	return "any"
}
