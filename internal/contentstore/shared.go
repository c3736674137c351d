package contentstore

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/preston-bernstein/hoops-league-service/internal/domain/games"
)

// sharedStore collapses concurrent FetchGames calls with the same filter into
// one upstream request. Writes pass through.
type sharedStore struct {
	inner Store
	group singleflight.Group
}

// NewSharedStore wraps inner with request sharing for reads.
func NewSharedStore(inner Store) Store {
	return &sharedStore{inner: inner}
}

func (s *sharedStore) FetchGames(ctx context.Context, filter Filter) ([]games.Game, error) {
	v, err, _ := s.group.Do(filter.key(), func() (any, error) {
		return s.inner.FetchGames(ctx, filter)
	})
	if err != nil {
		return nil, err
	}
	shared := v.([]games.Game)
	out := make([]games.Game, len(shared))
	copy(out, shared)
	return out, nil
}

func (s *sharedStore) PersistScore(ctx context.Context, gameID string, scoreA, scoreB int) (games.PersistResult, error) {
	return s.inner.PersistScore(ctx, gameID, scoreA, scoreB)
}

func (s *sharedStore) PersistResult(ctx context.Context, gameID string, resultA, resultB games.Result) error {
	return s.inner.PersistResult(ctx, gameID, resultA, resultB)
}
