package contentstore

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/preston-bernstein/hoops-league-service/internal/domain/games"
)

type gatedStore struct {
	flakeyStore
	fetches atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStore) FetchGames(context.Context, Filter) ([]games.Game, error) {
	g.fetches.Add(1)
	g.entered <- struct{}{}
	<-g.release
	return []games.Game{{ID: "shared"}}, nil
}

func TestSharedStoreCollapsesConcurrentFetches(t *testing.T) {
	inner := &gatedStore{entered: make(chan struct{}, 4), release: make(chan struct{})}
	s := NewSharedStore(inner)

	var wg sync.WaitGroup
	results := make([][]games.Game, 3)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = s.FetchGames(context.Background(), Filter{AgeGroup: "U14"})
	}()
	<-inner.entered

	for i := 1; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = s.FetchGames(context.Background(), Filter{AgeGroup: "U14"})
		}(i)
	}
	// Give joiners time to block inside singleflight behind the first call.
	time.Sleep(50 * time.Millisecond)
	close(inner.release)
	wg.Wait()

	if got := inner.fetches.Load(); got != 1 {
		t.Fatalf("expected 1 upstream fetch, got %d", got)
	}
	for i, r := range results {
		if len(r) != 1 || r[0].ID != "shared" {
			t.Fatalf("caller %d got %+v", i, r)
		}
	}
	results[0][0].ID = "mutated"
	if results[1][0].ID != "shared" {
		t.Fatalf("callers should not share the same backing slice")
	}
}

func TestSharedStorePassesWritesThrough(t *testing.T) {
	inner := &flakeyStore{}
	s := NewSharedStore(inner)
	if _, err := s.PersistScore(context.Background(), "g1", 1, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.PersistResult(context.Background(), "g1", games.ResultWin, games.ResultLoss); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("expected 2 inner calls, got %d", inner.calls)
	}
}
