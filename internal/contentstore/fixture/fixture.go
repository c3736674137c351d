// Package fixture serves a small deterministic league for local runs and tests.
package fixture

import (
	"context"
	"sync"
	"time"

	"github.com/preston-bernstein/hoops-league-service/internal/contentstore"
	"github.com/preston-bernstein/hoops-league-service/internal/domain/games"
)

// Name identifies this store in logs and metrics.
const Name = "fixture"

// Store keeps the fixture league in memory. Writes are applied to the copy.
type Store struct {
	mu    sync.RWMutex
	games []games.Game
}

// New builds the fixture league around now.
func New(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{games: League(now().UTC().Truncate(time.Hour))}
}

// NewWithGames serves the given games.
func NewWithGames(list []games.Game) *Store {
	out := make([]games.Game, len(list))
	copy(out, list)
	return &Store{games: out}
}

// League returns the fixture games anchored at start.
func League(start time.Time) []games.Game {
	at := func(d time.Duration) *time.Time {
		t := start.Add(d)
		return &t
	}
	return []games.Game{
		{ID: "fixture-1", GameNumber: 1, TeamA: "Northside Hawks", TeamB: "Riverside Rockets", AgeGroup: "U14", Venue: "Community Hall", CourtNumber: "1", FixtureDateTime: at(-72 * time.Hour), ScoreA: 20, ScoreB: 0, IsLocked: true, HasScoresheet: true},
		{ID: "fixture-2", GameNumber: 2, TeamA: "Northside Hawks", TeamB: "Eastwood Eagles", AgeGroup: "U14", Venue: "Community Hall", CourtNumber: "2", FixtureDateTime: at(-48 * time.Hour), ScoreA: 31, ScoreB: 36, ResultTeamA: games.ResultLoss, ResultTeamB: games.ResultWin, IsLocked: true, HasScoresheet: true},
		{ID: "fixture-3", GameNumber: 3, TeamA: "Riverside Rockets", TeamB: "Eastwood Eagles", AgeGroup: "U14", Venue: "Westgate Gym", CourtNumber: "1", FixtureDateTime: at(-24 * time.Hour), ScoreA: 28, ScoreB: 22, IsLocked: true, HasScoresheet: true},
		{ID: "fixture-4", GameNumber: 4, TeamA: "Harbour Heat", TeamB: "Valley Vipers", AgeGroup: "U16", Venue: "Westgate Gym", CourtNumber: "2", FixtureDateTime: at(-24 * time.Hour), ScoreA: 44, ScoreB: 40, ResultTeamA: games.ResultWin, ResultTeamB: games.ResultLoss, IsLocked: true},
		{ID: "fixture-5", GameNumber: 5, TeamA: "Valley Vipers", TeamB: "Harbour Heat", AgeGroup: "U16", Venue: "Community Hall", CourtNumber: "1", FixtureDateTime: at(2 * time.Hour)},
		{ID: "fixture-6", GameNumber: 6, TeamA: "Northside Hawks", TeamB: "Riverside Rockets", AgeGroup: "U14", Venue: "Community Hall", CourtNumber: "2", FixtureDateTime: at(26 * time.Hour)},
	}
}

func (s *Store) FetchGames(ctx context.Context, filter contentstore.Filter) ([]games.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter.Apply(s.games), nil
}

func (s *Store) PersistScore(ctx context.Context, gameID string, scoreA, scoreB int) (games.PersistResult, error) {
	if err := ctx.Err(); err != nil {
		return games.PersistResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.find(gameID)
	if !ok {
		return games.PersistResult{}, contentstore.ErrNotFound
	}
	g.ScoreA, g.ScoreB = scoreA, scoreB
	return games.PersistResult{ScoreA: g.ScoreA, ScoreB: g.ScoreB, ResultTeamA: g.ResultTeamA, ResultTeamB: g.ResultTeamB}, nil
}

func (s *Store) PersistResult(ctx context.Context, gameID string, resultA, resultB games.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.find(gameID)
	if !ok {
		return contentstore.ErrNotFound
	}
	g.ResultTeamA, g.ResultTeamB = resultA, resultB
	return nil
}

// find requires s.mu.
func (s *Store) find(gameID string) (*games.Game, bool) {
	for i := range s.games {
		if s.games[i].ID == gameID {
			return &s.games[i], true
		}
	}
	return nil, false
}
