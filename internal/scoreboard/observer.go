package scoreboard

import "github.com/preston-bernstein/hoops-league-service/internal/domain/games"

// ScoreChange describes one applied score command.
type ScoreChange struct {
	GameID   string
	Team     Team
	NewScore int
	Score    Score
}

// Observer receives session notifications. Calls happen outside the session
// lock and may arrive from the persistence or clock goroutines.
type Observer interface {
	ScoreChanged(change ScoreChange)
	TimeExpired(gameID string)
	Persisted(gameID string, result games.PersistResult)
	PersistFailed(err *PersistenceFailedError)
	// Coalesced reports a queued snapshot replaced by a newer one before it was sent.
	Coalesced(gameID string)
}

// NopObserver ignores every notification. Embed it to implement a subset.
type NopObserver struct{}

func (NopObserver) ScoreChanged(ScoreChange) {}
func (NopObserver) TimeExpired(string) {}
func (NopObserver) Persisted(string, games.PersistResult) {}
func (NopObserver) PersistFailed(*PersistenceFailedError) {}
func (NopObserver) Coalesced(string) {}

// Observers fans notifications out to every member in order.
type Observers []Observer

func (o Observers) ScoreChanged(change ScoreChange) {
	for _, obs := range o {
		obs.ScoreChanged(change)
	}
}

func (o Observers) TimeExpired(gameID string) {
	for _, obs := range o {
		obs.TimeExpired(gameID)
	}
}

func (o Observers) Persisted(gameID string, result games.PersistResult) {
	for _, obs := range o {
		obs.Persisted(gameID, result)
	}
}

func (o Observers) PersistFailed(err *PersistenceFailedError) {
	for _, obs := range o {
		obs.PersistFailed(err)
	}
}

func (o Observers) Coalesced(gameID string) {
	for _, obs := range o {
		obs.Coalesced(gameID)
	}
}
