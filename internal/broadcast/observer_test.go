package broadcast

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/preston-bernstein/hoops-league-service/internal/metrics"
	"github.com/preston-bernstein/hoops-league-service/internal/scoreboard"
)

type failingChannel struct{ Memory }

func (*failingChannel) Publish(context.Context, string, ScoreUpdate) error {
	return errors.New("down")
}

func TestObserverPublishesScoreChanges(t *testing.T) {
	ch := NewMemory()
	got := make(chan ScoreUpdate, 1)
	if _, err := ch.Subscribe(context.Background(), "g1", func(u ScoreUpdate) { got <- u }); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	rec := metrics.NewRecorder()
	obs := NewObserver(ch, nil, rec, 0)

	obs.ScoreChanged(scoreboard.ScoreChange{GameID: "g1", Team: scoreboard.TeamB, NewScore: 3, Score: scoreboard.Score{A: 1, B: 3}})
	obs.Wait()

	select {
	case u := <-got:
		if u.Team != "B" || u.NewScore != 3 || u.ScoreA != 1 || u.ScoreB != 3 {
			t.Fatalf("unexpected update %+v", u)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected a published update")
	}
	if snap := rec.Live(); snap.Broadcasts != 1 || snap.BroadcastErrors != 0 {
		t.Fatalf("unexpected live metrics %+v", snap)
	}
}

func TestObserverRecordsPublishFailures(t *testing.T) {
	rec := metrics.NewRecorder()
	obs := NewObserver(&failingChannel{}, nil, rec, time.Second)

	obs.ScoreChanged(scoreboard.ScoreChange{GameID: "g1", Team: scoreboard.TeamA, NewScore: 1})
	obs.Wait()

	if snap := rec.Live(); snap.BroadcastErrors != 1 {
		t.Fatalf("expected a broadcast error, got %+v", snap)
	}
}

func TestObserverWithoutChannelIsNoop(t *testing.T) {
	obs := NewObserver(nil, nil, nil, 0)
	obs.ScoreChanged(scoreboard.ScoreChange{GameID: "g1"})
	obs.Wait()
}
