package metrics

import (
	"sync"
	"time"
)

type storeStats struct {
	calls           int
	errors          int
	throttled       int
	lastRetryAfter  time.Duration
	lastCallLatency time.Duration
}

type liveStats struct {
	persisted       int
	persistFailures int
	coalesced       int
	expired         int
	broadcasts      int
	broadcastErrors int
}

type reconcileStats struct {
	runs    int
	updated int
	failed  int
}

// Recorder keeps in-memory counters for content-store calls and the live
// scoreboard, mirrored to OpenTelemetry instruments when Setup enabled them.
type Recorder struct {
	mu        sync.Mutex
	stores    map[string]*storeStats
	live      liveStats
	reconcile reconcileStats
	otel      *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stores: make(map[string]*storeStats),
		otel:   otel,
	}
}

// RecordStoreAttempt counts one content-store call and keeps its latency.
func (r *Recorder) RecordStoreAttempt(store string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(store)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordStoreAttempt(store, duration, err)
	}
}

// RecordThrottle tracks a throttled content-store response and its Retry-After.
func (r *Recorder) RecordThrottle(store string, retryAfter time.Duration) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(store)
	stats.throttled++
	if retryAfter > 0 {
		stats.lastRetryAfter = retryAfter
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordThrottle(store, retryAfter)
	}
}

// StoreSnapshot is a copy of one store's counters.
type StoreSnapshot struct {
	Calls           int
	Errors          int
	Throttled       int
	LastRetryAfter  time.Duration
	LastCallLatency time.Duration
}

// Store returns the counters recorded for a content store.
func (r *Recorder) Store(store string) StoreSnapshot {
	if r == nil {
		return StoreSnapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stores[store]
	if !ok {
		return StoreSnapshot{}
	}
	return StoreSnapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		Throttled:       stats.throttled,
		LastRetryAfter:  stats.lastRetryAfter,
		LastCallLatency: stats.lastCallLatency,
	}
}

// RecordPersist counts a scoreboard persist outcome.
func (r *Recorder) RecordPersist(err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	if err != nil {
		r.live.persistFailures++
	} else {
		r.live.persisted++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordPersist(err)
	}
}

// RecordCoalesced counts a score snapshot replaced before it was sent.
func (r *Recorder) RecordCoalesced() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.live.coalesced++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordCounter(r.otel.coalesced, 1)
	}
}

// RecordClockExpired counts game clocks that ran out.
func (r *Recorder) RecordClockExpired() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.live.expired++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordCounter(r.otel.clockExpired, 1)
	}
}

// RecordBroadcast counts a score-update publish.
func (r *Recorder) RecordBroadcast(err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.live.broadcasts++
	if err != nil {
		r.live.broadcastErrors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordBroadcast(err)
	}
}

// LiveSnapshot is a copy of the scoreboard counters.
type LiveSnapshot struct {
	Persisted       int
	PersistFailures int
	Coalesced       int
	Expired         int
	Broadcasts      int
	BroadcastErrors int
}

// Live returns the scoreboard counters.
func (r *Recorder) Live() LiveSnapshot {
	if r == nil {
		return LiveSnapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return LiveSnapshot{
		Persisted:       r.live.persisted,
		PersistFailures: r.live.persistFailures,
		Coalesced:       r.live.coalesced,
		Expired:         r.live.expired,
		Broadcasts:      r.live.broadcasts,
		BroadcastErrors: r.live.broadcastErrors,
	}
}

// RecordReconcile tracks one results reconciler run.
func (r *Recorder) RecordReconcile(duration time.Duration, updated, failed int) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.reconcile.runs++
	r.reconcile.updated += updated
	r.reconcile.failed += failed
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordReconcile(duration, updated, failed)
	}
}

// ReconcileSnapshot is a copy of the reconciler counters.
type ReconcileSnapshot struct {
	Runs    int
	Updated int
	Failed  int
}

// Reconcile returns the reconciler counters.
func (r *Recorder) Reconcile() ReconcileSnapshot {
	if r == nil {
		return ReconcileSnapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return ReconcileSnapshot{Runs: r.reconcile.runs, Updated: r.reconcile.updated, Failed: r.reconcile.failed}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordPollerCycle tracks poller cycles and errors.
func (r *Recorder) RecordPollerCycle(duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordPoller(duration, err)
}

// ensureStats requires r.mu.
func (r *Recorder) ensureStats(store string) *storeStats {
	stats, ok := r.stores[store]
	if !ok {
		stats = &storeStats{}
		r.stores[store] = stats
	}
	return stats
}
