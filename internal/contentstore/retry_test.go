package contentstore

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/preston-bernstein/hoops-league-service/internal/domain/games"
	"github.com/preston-bernstein/hoops-league-service/internal/metrics"
)

type flakeyStore struct {
	failures int
	err      error
	calls    int
}

func (f *flakeyStore) fail() error {
	f.calls++
	if f.calls <= f.failures {
		if f.err != nil {
			return f.err
		}
		return errors.New("boom")
	}
	return nil
}

func (f *flakeyStore) FetchGames(context.Context, Filter) ([]games.Game, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return []games.Game{{ID: "ok"}}, nil
}

func (f *flakeyStore) PersistScore(_ context.Context, _ string, a, b int) (games.PersistResult, error) {
	if err := f.fail(); err != nil {
		return games.PersistResult{}, err
	}
	return games.PersistResult{ScoreA: a, ScoreB: b}, nil
}

func (f *flakeyStore) PersistResult(context.Context, string, games.Result, games.Result) error {
	return f.fail()
}

func TestRetryingStoreRetriesAndSucceeds(t *testing.T) {
	fs := &flakeyStore{failures: 2}
	rec := metrics.NewRecorder()
	rs := NewRetryingStore(fs, "flakey", slog.Default(), rec, 3, time.Millisecond)

	list, err := rs.FetchGames(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("expected success, got error %v", err)
	}
	if len(list) != 1 || list[0].ID != "ok" {
		t.Fatalf("unexpected games %+v", list)
	}
	if fs.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", fs.calls)
	}
	if snap := rec.Store("flakey"); snap.Calls != 3 || snap.Errors != 2 {
		t.Fatalf("unexpected metrics %+v", snap)
	}
}

func TestRetryingStoreStopsAfterMaxAttempts(t *testing.T) {
	fs := &flakeyStore{failures: 5}
	rs := NewRetryingStore(fs, "flakey", nil, metrics.NewRecorder(), 2, time.Millisecond)

	if _, err := rs.PersistScore(context.Background(), "g1", 1, 2); err == nil {
		t.Fatal("expected error after retries")
	}
	if fs.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", fs.calls)
	}
}

func TestRetryingStoreDoesNotRetryPermanentErrors(t *testing.T) {
	fs := &flakeyStore{failures: 5, err: &StatusError{Store: "flakey", StatusCode: http.StatusUnauthorized}}
	rs := NewRetryingStore(fs, "flakey", nil, nil, 3, time.Millisecond)

	err := rs.PersistResult(context.Background(), "g1", games.ResultWin, games.ResultLoss)
	if se, ok := AsStatusError(err); !ok || se.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected the unauthorized status error, got %v", err)
	}
	if fs.calls != 1 {
		t.Fatalf("expected a single attempt, got %d", fs.calls)
	}
}

func TestRetryingStoreRecordsThrottles(t *testing.T) {
	fs := &flakeyStore{failures: 1, err: &StatusError{Store: "flakey", StatusCode: http.StatusTooManyRequests, RetryAfter: 5 * time.Millisecond}}
	rec := metrics.NewRecorder()
	rs := NewRetryingStore(fs, "flakey", nil, rec, 3, time.Millisecond)

	start := time.Now()
	if _, err := rs.PersistScore(context.Background(), "g1", 3, 4); err != nil {
		t.Fatalf("expected success after throttle, got %v", err)
	}
	if time.Since(start) < 5*time.Millisecond {
		t.Fatalf("expected retry to wait for Retry-After")
	}
	if snap := rec.Store("flakey"); snap.Throttled != 1 || snap.LastRetryAfter != 5*time.Millisecond {
		t.Fatalf("unexpected throttle metrics %+v", snap)
	}
}

func TestRetryingStoreRespectsContextCancel(t *testing.T) {
	fs := &flakeyStore{failures: 5}
	rs := NewRetryingStore(fs, "flakey", nil, nil, 3, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := rs.FetchGames(ctx, Filter{}); err == nil {
		t.Fatal("expected context error")
	}
	if fs.calls > 1 {
		t.Fatalf("expected no retries after cancel, got %d calls", fs.calls)
	}
}

func TestRetryingStoreWithoutInnerIsUnavailable(t *testing.T) {
	rs := NewRetryingStore(nil, "none", nil, nil, 0, 0)
	if _, err := rs.FetchGames(context.Background(), Filter{}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
