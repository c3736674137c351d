package contentstore

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/preston-bernstein/hoops-league-service/internal/domain/games"
	"github.com/preston-bernstein/hoops-league-service/internal/logging"
	"github.com/preston-bernstein/hoops-league-service/internal/metrics"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
)

// retryingStore wraps a Store with exponential backoff and per-attempt metrics.
type retryingStore struct {
	inner       Store
	name        string
	logger      *slog.Logger
	metrics     *metrics.Recorder
	maxAttempts int
	newBackOff  func() backoff.BackOff
}

// NewRetryingStore retries temporary failures. If maxAttempts/initial are <= 0, defaults are used.
func NewRetryingStore(inner Store, name string, logger *slog.Logger, recorder *metrics.Recorder, maxAttempts int, initial time.Duration) Store {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if initial <= 0 {
		initial = defaultBackoff
	}
	return &retryingStore{
		inner:       inner,
		name:        name,
		logger:      logger,
		metrics:     recorder,
		maxAttempts: maxAttempts,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = initial
			b.MaxElapsedTime = 0
			return b
		},
	}
}

func (r *retryingStore) FetchGames(ctx context.Context, filter Filter) ([]games.Game, error) {
	return retry(ctx, r, "fetch games", func() ([]games.Game, error) {
		return r.inner.FetchGames(ctx, filter)
	})
}

func (r *retryingStore) PersistScore(ctx context.Context, gameID string, scoreA, scoreB int) (games.PersistResult, error) {
	return retry(ctx, r, "persist score", func() (games.PersistResult, error) {
		return r.inner.PersistScore(ctx, gameID, scoreA, scoreB)
	})
}

func (r *retryingStore) PersistResult(ctx context.Context, gameID string, resultA, resultB games.Result) error {
	_, err := retry(ctx, r, "persist result", func() (struct{}, error) {
		return struct{}{}, r.inner.PersistResult(ctx, gameID, resultA, resultB)
	})
	return err
}

func retry[T any](ctx context.Context, r *retryingStore, op string, call func() (T, error)) (T, error) {
	if r.inner == nil {
		var zero T
		return zero, ErrUnavailable
	}
	attempt := 0
	policy := &retryAfterBackOff{BackOff: r.newBackOff()}
	operation := func() (T, error) {
		attempt++
		policy.hint = 0
		start := time.Now()
		out, err := call()
		r.metrics.RecordStoreAttempt(r.name, time.Since(start), err)
		if se, ok := AsStatusError(err); ok {
			policy.hint = se.RetryAfter
			if se.Throttled() {
				r.metrics.RecordThrottle(r.name, se.RetryAfter)
			}
		}
		if err != nil && !Retryable(err) {
			return out, backoff.Permanent(err)
		}
		return out, err
	}
	notify := func(err error, delay time.Duration) {
		r.log(ctx, slog.LevelWarn, "content store retry", "op", op, "attempt", attempt, "max_attempts", r.maxAttempts, "delay_ms", delay.Milliseconds(), "error", err)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(r.maxAttempts-1)), ctx)
	out, err := backoff.RetryNotifyWithData(operation, b, notify)
	if err != nil {
		r.log(ctx, slog.LevelWarn, "content store call failed", "op", op, "attempts", attempt, "error", err)
	}
	return out, err
}

func (r *retryingStore) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	logger := logging.FromContext(ctx, r.logger)
	if logger == nil {
		return
	}
	args = append(args, slog.String(logging.FieldStore, r.name))
	logger.Log(ctx, level, msg, args...)
}

// retryAfterBackOff waits at least as long as the store's Retry-After hint.
type retryAfterBackOff struct {
	backoff.BackOff
	hint time.Duration
}

func (b *retryAfterBackOff) NextBackOff() time.Duration {
	next := b.BackOff.NextBackOff()
	if next != backoff.Stop && b.hint > next {
		return b.hint
	}
	return next
}
