package scoreboard

import (
	"errors"
	"sync"

	"github.com/preston-bernstein/hoops-league-service/internal/domain/games"
)

// ErrMissingGameID is returned by Open for a game without an id.
var ErrMissingGameID = errors.New("game id is required")

// Registry owns the open sessions, one per game id.
type Registry struct {
	cfg Config

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry builds a registry whose sessions share cfg.
func NewRegistry(cfg Config) *Registry {
	return &Registry{
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
}

// Open returns the session for game, creating it from the record when none is open.
// The boolean is true when a new session was created.
func (r *Registry) Open(game games.Game) (*Session, bool, error) {
	if game.ID == "" {
		return nil, false, ErrMissingGameID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[game.ID]; ok {
		return s, false, nil
	}
	s := NewSession(game, r.cfg)
	r.sessions[game.ID] = s
	return s, true, nil
}

// Get returns the open session for gameID.
func (r *Registry) Get(gameID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[gameID]
	return s, ok
}

// Close tears down and forgets the session for gameID.
func (r *Registry) Close(gameID string) bool {
	r.mu.Lock()
	s, ok := r.sessions[gameID]
	delete(r.sessions, gameID)
	r.mu.Unlock()
	if ok {
		s.Close()
	}
	return ok
}

// CloseAll tears down every session and waits for their in-flight persist
// calls to return, so the store can be closed afterwards.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	open := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()
	for _, s := range open {
		s.Close()
	}
	for _, s := range open {
		s.Wait()
	}
}

// Len counts open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
