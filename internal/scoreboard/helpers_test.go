package scoreboard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/preston-bernstein/hoops-league-service/internal/domain/games"
)

// recordingObserver captures notifications on buffered channels.
type recordingObserver struct {
	changes   chan ScoreChange
	expired   chan string
	persisted chan games.PersistResult
	failed    chan *PersistenceFailedError
	coalesced chan string
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{
		changes:   make(chan ScoreChange, 32),
		expired:   make(chan string, 8),
		persisted: make(chan games.PersistResult, 8),
		failed:    make(chan *PersistenceFailedError, 8),
		coalesced: make(chan string, 8),
	}
}

func (o *recordingObserver) ScoreChanged(c ScoreChange) { o.changes <- c }

func (o *recordingObserver) TimeExpired(id string) { o.expired <- id }

func (o *recordingObserver) Persisted(_ string, r games.PersistResult) { o.persisted <- r }

func (o *recordingObserver) PersistFailed(err *PersistenceFailedError) { o.failed <- err }

func (o *recordingObserver) Coalesced(id string) { o.coalesced <- id }

// gatedPersister blocks each call until the test releases it.
type gatedPersister struct {
	mu      sync.Mutex
	calls   []Score
	started chan Score
	release chan error
}

func newGatedPersister() *gatedPersister {
	return &gatedPersister{started: make(chan Score), release: make(chan error)}
}

func (p *gatedPersister) PersistScore(_ context.Context, _ string, a, b int) (games.PersistResult, error) {
	p.mu.Lock()
	p.calls = append(p.calls, Score{A: a, B: b})
	p.mu.Unlock()
	p.started <- Score{A: a, B: b}
	err := <-p.release
	return games.PersistResult{ScoreA: a, ScoreB: b}, err
}

func (p *gatedPersister) Calls() []Score {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Score(nil), p.calls...)
}

// funcPersister delegates to fn.
type funcPersister func(ctx context.Context, gameID string, a, b int) (games.PersistResult, error)

func (f funcPersister) PersistScore(ctx context.Context, gameID string, a, b int) (games.PersistResult, error) {
	return f(ctx, gameID, a, b)
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for notification")
	}
	var zero T
	return zero
}
