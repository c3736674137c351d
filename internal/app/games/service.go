package games

import (
	"log/slog"
	"time"

	domaingames "github.com/preston-bernstein/hoops-league-service/internal/domain/games"
	"github.com/preston-bernstein/hoops-league-service/internal/logging"
	"github.com/preston-bernstein/hoops-league-service/internal/snapshots"
	"github.com/preston-bernstein/hoops-league-service/internal/standings"
)

// Store defines the contract for persisting and retrieving games.
type Store interface {
	ListGames() []domaingames.Game
	GetGame(id string) (domaingames.Game, bool)
	SetGames(games []domaingames.Game)
	UpdateGame(id string, fn func(*domaingames.Game)) bool
	UpdatedAt() time.Time
}

// When narrows a listing to past or upcoming fixtures.
type When string

const (
	WhenAny      When = ""
	WhenPast     When = "past"
	WhenUpcoming When = "upcoming"
)

// ListFilter narrows Games.
type ListFilter struct {
	AgeGroup string
	When     When
}

// Source reports where a listing came from.
type Source string

const (
	SourceCache    Source = "cache"
	SourceSnapshot Source = "snapshot"
)

// Options configure a Service.
type Options struct {
	Snapshots  snapshots.Store
	GroupOrder standings.Order
	Logger     *slog.Logger
	Now        func() time.Time
}

// Service coordinates game reads and standings over the cache.
type Service struct {
	store     Store
	snapshots snapshots.Store
	order     standings.Order
	logger    *slog.Logger
	now       func() time.Time
}

// NewService constructs a Service with the provided Store.
func NewService(store Store, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.GroupOrder == "" {
		opts.GroupOrder = standings.OrderDescending
	}
	return &Service{
		store:     store,
		snapshots: opts.Snapshots,
		order:     opts.GroupOrder,
		logger:    opts.Logger,
		now:       opts.Now,
	}
}

// Games returns the current games, falling back to the latest snapshot
// before the cache has been filled.
func (s *Service) Games() ([]domaingames.Game, Source) {
	if !s.store.UpdatedAt().IsZero() || s.snapshots == nil {
		return s.store.ListGames(), SourceCache
	}
	snap, err := s.snapshots.LoadLatest()
	if err != nil {
		logging.Warn(s.logger, "games snapshot unavailable", "err", err)
		return s.store.ListGames(), SourceCache
	}
	return snap.Games, SourceSnapshot
}

// ListGames applies filter to Games.
func (s *Service) ListGames(filter ListFilter) ([]domaingames.Game, Source) {
	list, source := s.Games()
	now := s.now()
	out := make([]domaingames.Game, 0, len(list))
	for _, g := range list {
		if filter.AgeGroup != "" && g.AgeGroup != filter.AgeGroup {
			continue
		}
		switch filter.When {
		case WhenPast:
			if !g.IsPast(now) {
				continue
			}
		case WhenUpcoming:
			if g.FixtureDateTime == nil || g.IsPast(now) {
				continue
			}
		}
		out = append(out, g)
	}
	return out, source
}

// GameByID returns a single game if present.
func (s *Service) GameByID(id string) (domaingames.Game, bool) {
	if g, ok := s.store.GetGame(id); ok {
		return g, true
	}
	list, source := s.Games()
	if source != SourceSnapshot {
		return domaingames.Game{}, false
	}
	for _, g := range list {
		if g.ID == id {
			return g, true
		}
	}
	return domaingames.Game{}, false
}

// ReplaceGames swaps the cached games with a new fetch.
func (s *Service) ReplaceGames(games []domaingames.Game) {
	s.store.SetGames(games)
}

// ApplyPersisted folds a saved score back into the cache so standings see it
// before the next poll.
func (s *Service) ApplyPersisted(gameID string, result domaingames.PersistResult) bool {
	return s.store.UpdateGame(gameID, func(g *domaingames.Game) {
		g.ScoreA, g.ScoreB = result.ScoreA, result.ScoreB
		if result.ResultTeamA.IsValid() || result.ResultTeamB.IsValid() {
			g.ResultTeamA, g.ResultTeamB = result.ResultTeamA, result.ResultTeamB
		}
	})
}

// Standings computes the tables for group ("" or "all" for every group).
// Skipped records are logged here since the engine does not log.
func (s *Service) Standings(group string) standings.Result {
	list, _ := s.Games()
	res := standings.Compute(list, standings.Options{Group: group, GroupOrder: s.order})
	for _, skipped := range res.Skipped {
		logging.Warn(s.logger, "standings skipped malformed game",
			logging.FieldGameID, skipped.GameID,
			"field", skipped.Field,
		)
	}
	return res
}

// Groups lists the group filter values, "all" first.
func (s *Service) Groups() []string {
	list, _ := s.Games()
	return standings.Groups(list, s.order)
}

// TeamGames returns the games a team played or will play, in cache order.
func (s *Service) TeamGames(team string) []domaingames.Game {
	list, _ := s.Games()
	out := make([]domaingames.Game, 0)
	for _, g := range list {
		if g.Involves(team) {
			out = append(out, g)
		}
	}
	return out
}
