package scoreboard

import (
	"context"
	"sync"
	"time"

	"github.com/preston-bernstein/hoops-league-service/internal/domain/games"
)

// Persister saves a game's score. Implementations must treat the call as an
// idempotent overwrite.
type Persister interface {
	PersistScore(ctx context.Context, gameID string, scoreA, scoreB int) (games.PersistResult, error)
}

// DefaultPersistTimeout bounds one background persist call.
const DefaultPersistTimeout = 10 * time.Second

// Coalescer keeps at most one persist call in flight for a game and at most
// one snapshot waiting behind it. A newer snapshot replaces the waiting one.
type Coalescer struct {
	gameID    string
	persister Persister
	observer  Observer
	timeout   time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	inFlight bool
	pending  *Score
	failed   *Score
	closed   bool
	wg       sync.WaitGroup
}

// NewCoalescer builds a coalescer for one game.
func NewCoalescer(gameID string, persister Persister, observer Observer, timeout time.Duration) *Coalescer {
	if observer == nil {
		observer = NopObserver{}
	}
	if timeout <= 0 {
		timeout = DefaultPersistTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Coalescer{
		gameID:    gameID,
		persister: persister,
		observer:  observer,
		timeout:   timeout,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Enqueue stores score as the latest snapshot and starts a drain when idle.
func (c *Coalescer) Enqueue(score Score) {
	if c.offer(score) {
		c.notifyCoalesced()
	}
}

// offer queues score without calling observers, so callers may hold their
// own lock and keep snapshots in the order they were taken. It reports
// whether a waiting snapshot was replaced.
func (c *Coalescer) offer(score Score) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.persister == nil {
		return false
	}
	superseded := c.pending != nil
	c.pending = &score
	c.failed = nil
	if !c.inFlight {
		c.inFlight = true
		c.wg.Add(1)
		go c.run()
	}
	return superseded
}

func (c *Coalescer) notifyCoalesced() {
	c.observer.Coalesced(c.gameID)
}

func (c *Coalescer) run() {
	defer c.wg.Done()
	for {
		c.mu.Lock()
		if c.closed || c.pending == nil {
			c.inFlight = false
			c.mu.Unlock()
			return
		}
		score := *c.pending
		c.pending = nil
		c.mu.Unlock()

		ctx, cancel := context.WithTimeout(c.ctx, c.timeout)
		result, err := c.persister.PersistScore(ctx, c.gameID, score.A, score.B)
		cancel()
		c.finish(score, result, err)
	}
}

// finish records the outcome of one call and notifies observers unless the
// coalescer was closed meanwhile.
func (c *Coalescer) finish(score Score, result games.PersistResult, err error) *PersistenceFailedError {
	c.mu.Lock()
	closed := c.closed
	if err != nil && !closed && c.pending == nil {
		c.failed = &score
	}
	c.mu.Unlock()

	if err == nil {
		if !closed {
			c.observer.Persisted(c.gameID, result)
		}
		return nil
	}
	perr := &PersistenceFailedError{GameID: c.gameID, Score: score, Err: err}
	if !closed {
		c.observer.PersistFailed(perr)
	}
	return perr
}

// Drain synchronously persists the waiting snapshot, or the last failed one.
// It returns nil when nothing is queued or a call is already in flight.
func (c *Coalescer) Drain(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrSessionClosed
	}
	if c.inFlight || c.persister == nil {
		c.mu.Unlock()
		return nil
	}
	next := c.pending
	if next == nil {
		next = c.failed
	}
	if next == nil {
		c.mu.Unlock()
		return nil
	}
	score := *next
	c.pending, c.failed = nil, nil
	c.inFlight = true
	c.wg.Add(1)
	c.mu.Unlock()
	defer c.wg.Done()

	// Close cancels a drain the same way it cancels the background call.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(c.ctx, cancel)
	defer stop()

	result, err := c.persister.PersistScore(ctx, c.gameID, score.A, score.B)
	perr := c.finish(score, result, err)

	c.mu.Lock()
	restart := c.pending != nil && !c.closed
	if restart {
		c.wg.Add(1)
	} else {
		c.inFlight = false
	}
	c.mu.Unlock()
	if restart {
		go c.run()
	}

	if perr != nil {
		return perr
	}
	return nil
}

// Status reports whether a snapshot is waiting and whether a call is running.
func (c *Coalescer) Status() (pending, inFlight bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil || c.failed != nil, c.inFlight
}

// Close drops queued snapshots and cancels the in-flight call. Its outcome is
// discarded.
func (c *Coalescer) Close() {
	c.mu.Lock()
	c.closed = true
	c.pending, c.failed = nil, nil
	c.mu.Unlock()
	c.cancel()
}

// Wait blocks until no persist call is running.
func (c *Coalescer) Wait() {
	c.wg.Wait()
}
