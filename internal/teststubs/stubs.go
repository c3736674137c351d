package teststubs

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/hoops-league-service/internal/contentstore"
	"github.com/preston-bernstein/hoops-league-service/internal/domain/games"
)

// StubStore is a test double for contentstore.Store.
type StubStore struct {
	mu      sync.Mutex
	Games   []games.Game
	Err     error
	Calls   atomic.Int32
	Saves   atomic.Int32
	Notify  chan struct{}
	Scores  map[string]games.PersistResult
	Results map[string][2]games.Result
}

// FetchGames returns the configured games and error while tracking calls.
func (s *StubStore) FetchGames(_ context.Context, filter contentstore.Filter) ([]games.Game, error) {
	s.mu.Lock()
	if s.Notify != nil {
		select {
		case <-s.Notify:
		default:
			close(s.Notify)
		}
	}
	list, err := s.Games, s.Err
	s.mu.Unlock()
	s.Calls.Add(1)
	if err != nil {
		return nil, err
	}
	return filter.Apply(list), nil
}

// PersistScore records the write.
func (s *StubStore) PersistScore(_ context.Context, gameID string, scoreA, scoreB int) (games.PersistResult, error) {
	s.Saves.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return games.PersistResult{}, s.Err
	}
	if s.Scores == nil {
		s.Scores = make(map[string]games.PersistResult)
	}
	res := games.PersistResult{ScoreA: scoreA, ScoreB: scoreB}
	s.Scores[gameID] = res
	return res, nil
}

// PersistResult records the write.
func (s *StubStore) PersistResult(_ context.Context, gameID string, resultA, resultB games.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if s.Results == nil {
		s.Results = make(map[string][2]games.Result)
	}
	s.Results[gameID] = [2]games.Result{resultA, resultB}
	return nil
}

// PersistCalls counts PersistScore calls, failed ones included.
func (s *StubStore) PersistCalls() int {
	return int(s.Saves.Load())
}

// SetErr swaps the configured error.
func (s *StubStore) SetErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Err = err
}

// SetGames swaps the configured games.
func (s *StubStore) SetGames(list []games.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Games = list
}

// StubSnapshotWriter is a test double for poller.SnapshotWriter.
type StubSnapshotWriter struct {
	mu      sync.Mutex
	Written map[string][]games.Game // keyed by date
	Err     error
}

// WriteGames records the snapshot for verification in tests.
func (w *StubSnapshotWriter) WriteGames(date string, list []games.Game) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Err != nil {
		return w.Err
	}
	if w.Written == nil {
		w.Written = make(map[string][]games.Game)
	}
	w.Written[date] = list
	return nil
}

// Snapshot returns what was written for date.
func (w *StubSnapshotWriter) Snapshot(date string) ([]games.Game, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	list, ok := w.Written[date]
	return list, ok
}
