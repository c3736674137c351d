package broadcast

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/hoops-league-service/internal/logging"
	"github.com/preston-bernstein/hoops-league-service/internal/metrics"
	"github.com/preston-bernstein/hoops-league-service/internal/scoreboard"
)

// DefaultPublishTimeout bounds one publish.
const DefaultPublishTimeout = 2 * time.Second

// Observer publishes scoreboard score changes to a Channel. Publishing runs
// in the background and never blocks the command that caused it.
type Observer struct {
	scoreboard.NopObserver

	channel  Channel
	logger   *slog.Logger
	recorder *metrics.Recorder
	timeout  time.Duration
	wg       sync.WaitGroup
}

// NewObserver builds a publishing observer.
func NewObserver(channel Channel, logger *slog.Logger, recorder *metrics.Recorder, timeout time.Duration) *Observer {
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	return &Observer{channel: channel, logger: logger, recorder: recorder, timeout: timeout}
}

func (o *Observer) ScoreChanged(change scoreboard.ScoreChange) {
	if o.channel == nil {
		return
	}
	update := ScoreUpdate{
		GameID:   change.GameID,
		Team:     string(change.Team),
		NewScore: change.NewScore,
		ScoreA:   change.Score.A,
		ScoreB:   change.Score.B,
	}
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
		defer cancel()
		err := o.channel.Publish(ctx, change.GameID, update)
		o.recorder.RecordBroadcast(err)
		if err != nil {
			logging.Warn(o.logger, "score broadcast failed",
				logging.FieldGameID, change.GameID,
				"err", err,
			)
		}
	}()
}

// Wait blocks until in-flight publishes finish.
func (o *Observer) Wait() {
	o.wg.Wait()
}
