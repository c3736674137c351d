package scoreboard

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/preston-bernstein/hoops-league-service/internal/domain/games"
)

func TestCoalescerSendsOnlyLatestSnapshotAfterInFlightCall(t *testing.T) {
	persister := newGatedPersister()
	obs := newRecordingObserver()
	s := newTestSession(t, games.Game{ID: "g1", TeamA: "X", TeamB: "Y"}, Config{Persister: persister, Observer: obs})

	if err := s.SetScore(TeamB, 2); err != nil {
		t.Fatalf("set score: %v", err)
	}
	if first := receive(t, persister.started); first != (Score{A: 0, B: 2}) {
		t.Fatalf("unexpected first call %+v", first)
	}

	for i := 0; i < 3; i++ {
		if err := s.AdjustScore(TeamA, 1); err != nil {
			t.Fatalf("adjust score: %v", err)
		}
	}
	if st := s.Snapshot(); st.ScoreA != 3 || !st.PendingPersist || !st.PersistInFlight {
		t.Fatalf("expected optimistic score with a queued snapshot, got %+v", st)
	}

	persister.release <- nil
	if second := receive(t, persister.started); second != (Score{A: 3, B: 2}) {
		t.Fatalf("expected second call to carry 3-2, got %+v", second)
	}
	persister.release <- nil

	receive(t, obs.persisted)
	if last := receive(t, obs.persisted); last.ScoreA != 3 || last.ScoreB != 2 {
		t.Fatalf("unexpected persisted result %+v", last)
	}
	s.persist.Wait()

	want := []Score{{A: 0, B: 2}, {A: 3, B: 2}}
	if got := persister.Calls(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected exactly two calls %v, got %v", want, got)
	}
	if len(obs.coalesced) != 2 {
		t.Fatalf("expected two superseded snapshots, got %d", len(obs.coalesced))
	}
}

func TestCoalescerFailureKeepsLocalStateAndAllowsDrain(t *testing.T) {
	storeErr := errors.New("content store unavailable")
	var fail atomic.Bool
	fail.Store(true)
	var calls atomic.Int32
	persister := funcPersister(func(_ context.Context, _ string, a, b int) (games.PersistResult, error) {
		calls.Add(1)
		if fail.Load() {
			return games.PersistResult{}, storeErr
		}
		return games.PersistResult{ScoreA: a, ScoreB: b, ResultTeamA: games.ResultWin, ResultTeamB: games.ResultLoss}, nil
	})
	obs := newRecordingObserver()
	s := newTestSession(t, games.Game{ID: "g1", TeamA: "X", TeamB: "Y"}, Config{Persister: persister, Observer: obs})

	if err := s.AdjustScore(TeamA, 4); err != nil {
		t.Fatalf("adjust score: %v", err)
	}
	perr := receive(t, obs.failed)
	if !errors.Is(perr, ErrPersistenceFailed) || !errors.Is(perr, storeErr) {
		t.Fatalf("expected persistence failure wrapping the store error, got %v", perr)
	}
	if perr.Score != (Score{A: 4, B: 0}) {
		t.Fatalf("unexpected failed score %+v", perr.Score)
	}
	s.persist.Wait()

	st := s.Snapshot()
	if st.ScoreA != 4 || !st.PendingPersist || st.PersistInFlight {
		t.Fatalf("expected optimistic state with a retry candidate, got %+v", st)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected no automatic retry, got %d calls", calls.Load())
	}

	err := s.Drain(context.Background())
	if pe, ok := AsPersistenceFailed(err); !ok || pe.GameID != "g1" {
		t.Fatalf("expected drain to report the failure, got %v", err)
	}
	receive(t, obs.failed)

	fail.Store(false)
	if err := s.Drain(context.Background()); err != nil {
		t.Fatalf("expected drain to succeed, got %v", err)
	}
	if res := receive(t, obs.persisted); res.ResultTeamA != games.ResultWin {
		t.Fatalf("unexpected persisted result %+v", res)
	}
	if st := s.Snapshot(); st.PendingPersist {
		t.Fatalf("expected nothing pending after a successful drain")
	}
	if err := s.Drain(context.Background()); err != nil {
		t.Fatalf("expected empty drain to be a no-op, got %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 calls, got %d", calls.Load())
	}
}

func TestCoalescerNewerSnapshotSupersedesFailure(t *testing.T) {
	persister := newGatedPersister()
	obs := newRecordingObserver()
	c := NewCoalescer("g1", persister, obs, 0)
	t.Cleanup(c.Close)

	c.Enqueue(Score{A: 1})
	receive(t, persister.started)
	persister.release <- errors.New("boom")
	receive(t, obs.failed)
	c.Wait()

	c.Enqueue(Score{A: 2})
	if got := receive(t, persister.started); got != (Score{A: 2}) {
		t.Fatalf("expected the newer snapshot, got %+v", got)
	}
	persister.release <- nil
	receive(t, obs.persisted)
	c.Wait()

	if pending, inFlight := c.Status(); pending || inFlight {
		t.Fatalf("expected idle coalescer, got pending=%v inFlight=%v", pending, inFlight)
	}
}

func TestCoalescerCloseDropsOutcome(t *testing.T) {
	persister := newGatedPersister()
	obs := newRecordingObserver()
	c := NewCoalescer("g1", persister, obs, 0)

	c.Enqueue(Score{A: 1})
	receive(t, persister.started)
	c.Enqueue(Score{A: 2})
	c.Close()
	persister.release <- nil
	c.Wait()

	if len(obs.persisted) != 0 || len(obs.failed) != 0 {
		t.Fatalf("expected no notifications after close")
	}
	if got := persister.Calls(); len(got) != 1 {
		t.Fatalf("expected queued snapshot dropped on close, got %v", got)
	}
	c.Enqueue(Score{A: 3})
	if pending, _ := c.Status(); pending {
		t.Fatalf("closed coalescer should ignore new snapshots")
	}
}

func TestCoalescerWithoutPersisterIsNoop(t *testing.T) {
	c := NewCoalescer("g1", nil, nil, 0)
	c.Enqueue(Score{A: 1})
	if err := c.Drain(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pending, inFlight := c.Status(); pending || inFlight {
		t.Fatalf("expected idle coalescer")
	}
}

// skewClock reports a time shifted by skew so a running period can be pushed
// past expiry without firing the armed timer.
type skewClock struct {
	clockwork.Clock
	skew atomic.Int64
}

func (c *skewClock) Now() time.Time { return c.Clock.Now().Add(time.Duration(c.skew.Load())) }

func (c *skewClock) Since(t time.Time) time.Duration { return c.Now().Sub(t) }

// blockingExpiryObserver holds the first TimeExpired call until released.
type blockingExpiryObserver struct {
	NopObserver
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (o *blockingExpiryObserver) TimeExpired(string) {
	o.once.Do(func() {
		close(o.entered)
		<-o.release
	})
}

// recordingPersister saves instantly and remembers every call.
type recordingPersister struct {
	mu    sync.Mutex
	calls []Score
}

func (p *recordingPersister) PersistScore(_ context.Context, _ string, a, b int) (games.PersistResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, Score{A: a, B: b})
	return games.PersistResult{ScoreA: a, ScoreB: b}, nil
}

func (p *recordingPersister) last() (Score, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.calls) == 0 {
		return Score{}, false
	}
	return p.calls[len(p.calls)-1], true
}

func TestScoreSnapshotQueuedBeforeObserversRun(t *testing.T) {
	clock := &skewClock{Clock: clockwork.NewFakeClock()}
	obs := &blockingExpiryObserver{entered: make(chan struct{}), release: make(chan struct{})}
	persister := &recordingPersister{}
	s := newTestSession(t, games.Game{ID: "g1", TeamA: "X", TeamB: "Y"}, Config{
		TimeSource: clock,
		Persister:  persister,
		Observer:   obs,
	})

	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.skew.Store(int64(time.Hour))

	done := make(chan error, 1)
	go func() { done <- s.AdjustScore(TeamA, 1) }()
	receive(t, obs.entered)

	// The first command has applied and is parked in the expiry notification.
	if err := s.AdjustScore(TeamA, 1); err != nil {
		t.Fatalf("second adjust: %v", err)
	}
	close(obs.release)
	if err := receive(t, done); err != nil {
		t.Fatalf("first adjust: %v", err)
	}
	s.persist.Wait()

	last, ok := persister.last()
	if want := s.Snapshot().ScoreA; !ok || last.A != want {
		t.Fatalf("expected last saved score %d, got %+v (saved=%v)", want, last, ok)
	}
}

func TestConcurrentScoreCommandsPersistLatestScore(t *testing.T) {
	persister := &recordingPersister{}
	s := newTestSession(t, games.Game{ID: "g1", TeamA: "X", TeamB: "Y"}, Config{Persister: persister})

	const workers, perWorker = 8, 25
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			team := TeamA
			if w%2 == 1 {
				team = TeamB
			}
			for i := 0; i < perWorker; i++ {
				if err := s.AdjustScore(team, 1); err != nil {
					t.Errorf("adjust score: %v", err)
					return
				}
			}
		}(w)
	}
	wg.Wait()
	s.persist.Wait()

	st := s.Snapshot()
	if st.ScoreA != workers/2*perWorker || st.ScoreB != workers/2*perWorker {
		t.Fatalf("unexpected session score %d-%d", st.ScoreA, st.ScoreB)
	}
	last, ok := persister.last()
	if !ok || last != (Score{A: st.ScoreA, B: st.ScoreB}) {
		t.Fatalf("expected last saved snapshot %d-%d, got %+v", st.ScoreA, st.ScoreB, last)
	}
}
