package store

import (
	"sync"
	"time"

	"github.com/preston-bernstein/hoops-league-service/internal/domain/games"
)

// MemoryStore keeps a thread-safe copy of the league's games in fetch order.
type MemoryStore struct {
	mu        sync.RWMutex
	games     []games.Game
	index     map[string]int
	updatedAt time.Time
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{index: make(map[string]int)}
}

// ListGames returns a copy of the games in the order they were set.
func (s *MemoryStore) ListGames() []games.Game {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]games.Game, len(s.games))
	copy(out, s.games)
	return out
}

// GetGame retrieves a game by ID.
func (s *MemoryStore) GetGame(id string) (games.Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return games.Game{}, false
	}
	return s.games[i], true
}

// SetGames replaces the cached games. Later duplicates of an id replace earlier ones in place.
func (s *MemoryStore) SetGames(list []games.Game) {
	next := make([]games.Game, 0, len(list))
	index := make(map[string]int, len(list))
	for _, g := range list {
		if i, ok := index[g.ID]; ok {
			next[i] = g
			continue
		}
		index[g.ID] = len(next)
		next = append(next, g)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.games = next
	s.index = index
	s.updatedAt = time.Now()
}

// UpdateGame applies fn to the cached game with id. It reports false when the id is unknown.
func (s *MemoryStore) UpdateGame(id string, fn func(*games.Game)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false
	}
	fn(&s.games[i])
	return true
}

// UpdatedAt reports when SetGames last ran. Zero means never.
func (s *MemoryStore) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}
