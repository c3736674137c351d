package broadcast

import (
	"context"
	"sync"
)

// Memory delivers updates to subscribers in the same process.
type Memory struct {
	mu     sync.RWMutex
	subs   map[string]map[uint64]Handler
	next   uint64
	closed bool
}

// NewMemory builds an in-process channel.
func NewMemory() *Memory {
	return &Memory{subs: make(map[string]map[uint64]Handler)}
}

// Publish calls every handler subscribed to gameID on the caller's goroutine.
func (m *Memory) Publish(ctx context.Context, gameID string, update ScoreUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return ErrClosed
	}
	handlers := make([]Handler, 0, len(m.subs[gameID]))
	for _, h := range m.subs[gameID] {
		handlers = append(handlers, h)
	}
	m.mu.RUnlock()

	if update.GameID == "" {
		update.GameID = gameID
	}
	for _, h := range handlers {
		h(update)
	}
	return nil
}

func (m *Memory) Subscribe(_ context.Context, gameID string, handler Handler) (Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	id := m.next
	m.next++
	if m.subs[gameID] == nil {
		m.subs[gameID] = make(map[uint64]Handler)
	}
	m.subs[gameID][id] = handler

	var once sync.Once
	return subscriptionFunc(func() error {
		once.Do(func() { m.remove(gameID, id) })
		return nil
	}), nil
}

// Subscribers counts handlers for gameID.
func (m *Memory) Subscribers(gameID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subs[gameID])
}

// Close drops every subscriber.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.subs = make(map[string]map[uint64]Handler)
	return nil
}

func (m *Memory) remove(gameID string, id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subs[gameID], id)
	if len(m.subs[gameID]) == 0 {
		delete(m.subs, gameID)
	}
}
