package poller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/preston-bernstein/hoops-league-service/internal/domain/games"
	"github.com/preston-bernstein/hoops-league-service/internal/metrics"
	"github.com/preston-bernstein/hoops-league-service/internal/store"
	"github.com/preston-bernstein/hoops-league-service/internal/teststubs"
)

type sinkFunc func([]games.Game)

func (f sinkFunc) ReplaceGames(list []games.Game) { f(list) }

func TestPollerFetchesAndWritesSnapshot(t *testing.T) {
	g := games.Game{ID: "poll-game", TeamA: "Hawks", TeamB: "Rockets", AgeGroup: "U14"}
	src := &teststubs.StubStore{Games: []games.Game{g}, Notify: make(chan struct{})}
	cache := store.NewMemoryStore()
	writer := &teststubs.StubSnapshotWriter{}

	p := New(src, sinkFunc(cache.SetGames), writer, nil, nil, 10*time.Millisecond)
	p.now = func() time.Time { return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p.Start(ctx)

	select {
	case <-src.Notify:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for initial fetch")
	}

	deadline := time.After(time.Second)
	for p.Status().LastSuccess.IsZero() {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for first refresh")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	_ = p.Stop(context.Background())

	list, ok := writer.Snapshot("2024-01-15")
	if !ok || len(list) != 1 || list[0].ID != "poll-game" {
		t.Fatalf("unexpected snapshot: %+v ok=%v", list, ok)
	}
	if _, ok := cache.GetGame("poll-game"); !ok {
		t.Fatalf("expected cache refreshed")
	}
	if p.Status().LastCount != 1 {
		t.Fatalf("expected last count 1, got %d", p.Status().LastCount)
	}
}

func TestPollerStopsOnContextCancel(t *testing.T) {
	src := &teststubs.StubStore{Notify: make(chan struct{})}

	p := New(src, nil, nil, nil, nil, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	p.Start(ctx)

	select {
	case <-src.Notify:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for initial fetch")
	}

	cancel()
	_ = p.Stop(context.Background())
	time.Sleep(10 * time.Millisecond)

	callsAfterStop := src.Calls.Load()
	time.Sleep(20 * time.Millisecond)
	if src.Calls.Load() != callsAfterStop {
		t.Fatalf("expected no additional fetches after stop; before=%d after=%d", callsAfterStop, src.Calls.Load())
	}
}

func TestPollerStopIsIdempotent(t *testing.T) {
	p := New(&teststubs.StubStore{}, nil, nil, nil, nil, time.Hour)

	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("first stop returned error: %v", err)
	}
	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("second stop returned error: %v", err)
	}
}

func TestPollerStartIsIdempotent(t *testing.T) {
	p := New(&teststubs.StubStore{}, nil, nil, nil, nil, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p.Start(ctx)
	p.Start(ctx)

	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("stop returned error: %v", err)
	}
}

func TestPollerDefaultsInterval(t *testing.T) {
	p := New(&teststubs.StubStore{}, nil, nil, nil, nil, 0)
	if p.interval != defaultInterval {
		t.Fatalf("expected default interval %s, got %s", defaultInterval, p.interval)
	}
}

func TestPollerStatusTracksFailuresAndSuccess(t *testing.T) {
	src := &teststubs.StubStore{Err: errors.New("boom")}
	rec := metrics.NewRecorder()
	p := New(src, nil, &teststubs.StubSnapshotWriter{}, nil, rec, time.Millisecond)
	ctx := context.Background()

	if err := p.Refresh(ctx); err == nil {
		t.Fatalf("expected refresh error")
	}
	status := p.Status()
	if status.ConsecutiveFailures != 1 || status.LastError == "" {
		t.Fatalf("expected failure recorded, got %+v", status)
	}
	if !status.LastSuccess.IsZero() || status.IsReady() {
		t.Fatalf("expected not ready after failure")
	}

	src.SetErr(nil)
	if err := p.Refresh(ctx); err != nil {
		t.Fatalf("unexpected refresh error: %v", err)
	}
	status = p.Status()
	if status.ConsecutiveFailures != 0 || status.LastSuccess.IsZero() || !status.IsReady() {
		t.Fatalf("expected ready after success, got %+v", status)
	}
}

func TestStatusIsReadyThreshold(t *testing.T) {
	s := Status{LastSuccess: time.Now(), ConsecutiveFailures: 2}
	if !s.IsReady() {
		t.Fatalf("expected ready with 2 failures")
	}
	s.ConsecutiveFailures = 3
	if s.IsReady() {
		t.Fatalf("expected not ready with 3 failures")
	}
}

func TestPollerWriteErrorLogsButContinues(t *testing.T) {
	src := &teststubs.StubStore{Games: []games.Game{{ID: "g1"}}}
	writer := &teststubs.StubSnapshotWriter{Err: errors.New("write failed")}
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	p := New(src, nil, writer, logger, nil, time.Minute)
	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status().ConsecutiveFailures != 0 {
		t.Fatalf("expected success despite write error")
	}
}

func TestPollerStoreExposesWrappedStore(t *testing.T) {
	src := &teststubs.StubStore{}
	p := New(src, nil, nil, nil, nil, time.Minute)
	if got := p.Store(); got != src {
		t.Fatalf("expected store returned")
	}
}
