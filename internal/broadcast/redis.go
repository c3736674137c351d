package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/preston-bernstein/hoops-league-service/internal/logging"
)

// DefaultRedisPrefix namespaces pub/sub channels.
const DefaultRedisPrefix = "scoreboard"

// Redis relays updates through Redis pub/sub so every instance sees them.
type Redis struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
	owned  bool

	mu     sync.Mutex
	subs   map[*redis.PubSub]struct{}
	wg     sync.WaitGroup
	closed bool
}

// NewRedis publishes through client. The caller keeps ownership of client.
func NewRedis(client *redis.Client, prefix string, logger *slog.Logger) *Redis {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &Redis{
		client: client,
		prefix: prefix,
		logger: logger,
		subs:   make(map[*redis.PubSub]struct{}),
	}
}

// DialRedis parses url, pings the server and returns a channel that owns the client.
func DialRedis(ctx context.Context, url, prefix string, logger *slog.Logger) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	r := NewRedis(client, prefix, logger)
	r.owned = true
	return r, nil
}

func (r *Redis) topic(gameID string) string {
	return r.prefix + ":" + gameID
}

func (r *Redis) Publish(ctx context.Context, gameID string, update ScoreUpdate) error {
	if update.GameID == "" {
		update.GameID = gameID
	}
	data, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("marshal score update: %w", err)
	}
	if err := r.client.Publish(ctx, r.topic(gameID), data).Err(); err != nil {
		return fmt.Errorf("publish score update: %w", err)
	}
	return nil
}

// Subscribe confirms the subscription with the server before returning.
func (r *Redis) Subscribe(ctx context.Context, gameID string, handler Handler) (Subscription, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrClosed
	}
	r.mu.Unlock()

	ps := r.client.Subscribe(ctx, r.topic(gameID))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", gameID, err)
	}

	r.mu.Lock()
	r.subs[ps] = struct{}{}
	r.wg.Add(1)
	r.mu.Unlock()

	go r.relay(ps, handler)

	var once sync.Once
	return subscriptionFunc(func() error {
		var err error
		once.Do(func() { err = r.drop(ps) })
		return err
	}), nil
}

func (r *Redis) relay(ps *redis.PubSub, handler Handler) {
	defer r.wg.Done()
	for msg := range ps.Channel() {
		var update ScoreUpdate
		if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
			logging.Warn(r.logger, "dropping malformed score update", "channel", msg.Channel, "err", err)
			continue
		}
		handler(update)
	}
}

func (r *Redis) drop(ps *redis.PubSub) error {
	r.mu.Lock()
	delete(r.subs, ps)
	r.mu.Unlock()
	return ps.Close()
}

// Close ends every subscription and, when the channel dialed the client, closes it.
func (r *Redis) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	open := r.subs
	r.subs = make(map[*redis.PubSub]struct{})
	r.mu.Unlock()

	for ps := range open {
		_ = ps.Close()
	}
	r.wg.Wait()
	if r.owned {
		return r.client.Close()
	}
	return nil
}
