package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi/v5"

	appgames "github.com/preston-bernstein/hoops-league-service/internal/app/games"
	appteams "github.com/preston-bernstein/hoops-league-service/internal/app/teams"
	"github.com/preston-bernstein/hoops-league-service/internal/contentstore/fixture"
	"github.com/preston-bernstein/hoops-league-service/internal/store"
	"github.com/preston-bernstein/hoops-league-service/internal/testutil"
)

var leagueStart = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

type league struct {
	store *store.MemoryStore
	games *appgames.Service
	teams *appteams.Service
}

// newLeague loads the fixture league into a fresh cache with the clock at leagueStart.
func newLeague() league {
	ms := store.NewMemoryStore()
	ms.SetGames(fixture.League(leagueStart))
	return league{
		store: ms,
		games: appgames.NewService(ms, appgames.Options{Now: testutil.NowAt(leagueStart)}),
		teams: appteams.NewService(ms),
	}
}

// serveRoute mounts h on a chi router so URL params resolve as in production.
func serveRoute(method, pattern string, h http.HandlerFunc, target string, body io.Reader) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Method(method, pattern, h)
	return testutil.Serve(r, method, target, body)
}
