package testutil

import (
	appgames "github.com/preston-bernstein/hoops-league-service/internal/app/games"
	"github.com/preston-bernstein/hoops-league-service/internal/domain/games"
	"github.com/preston-bernstein/hoops-league-service/internal/store"
)

// NewServiceWithGames builds a games service backed by an in-memory store preloaded with games.
func NewServiceWithGames(g []games.Game) *appgames.Service {
	ms := store.NewMemoryStore()
	if len(g) > 0 {
		ms.SetGames(g)
	}
	return appgames.NewService(ms, appgames.Options{})
}
