package teams

import (
	"github.com/preston-bernstein/hoops-league-service/internal/domain/games"
	"github.com/preston-bernstein/hoops-league-service/internal/domain/teams"
)

// GameLister is the part of the game cache the team views read.
type GameLister interface {
	ListGames() []games.Game
}

// Service derives team views from the cached games.
type Service struct {
	games GameLister
}

// NewService constructs a Service over the game cache.
func NewService(games GameLister) *Service {
	return &Service{games: games}
}

// Teams returns every team named in the cached games.
func (s *Service) Teams() []teams.Team {
	return teams.FromGames(s.games.ListGames())
}

// TeamBySlug finds a team by its URL slug.
func (s *Service) TeamBySlug(slug string) (teams.Team, bool) {
	for _, t := range s.Teams() {
		if t.Slug == slug {
			return t, true
		}
	}
	return teams.Team{}, false
}
