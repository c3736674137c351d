// Package broadcast fans live score updates out to viewers of a game.
// Delivery is best-effort and unordered.
package broadcast

import (
	"context"
	"errors"
)

// ErrClosed is returned after the channel has been closed.
var ErrClosed = errors.New("broadcast channel closed")

// ScoreUpdate is one score change as seen by viewers.
type ScoreUpdate struct {
	GameID   string `json:"gameId"`
	Team     string `json:"team"`
	NewScore int    `json:"newScore"`
	ScoreA   int    `json:"scoreA"`
	ScoreB   int    `json:"scoreB"`
}

// Handler receives updates for a subscribed game. It must not block.
type Handler func(ScoreUpdate)

// Subscription ends a Subscribe call.
type Subscription interface {
	Close() error
}

// Channel publishes and subscribes to per-game updates.
type Channel interface {
	Publish(ctx context.Context, gameID string, update ScoreUpdate) error
	Subscribe(ctx context.Context, gameID string, handler Handler) (Subscription, error)
	Close() error
}

type subscriptionFunc func() error

func (f subscriptionFunc) Close() error { return f() }
