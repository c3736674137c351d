package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appgames "github.com/preston-bernstein/hoops-league-service/internal/app/games"
	appteams "github.com/preston-bernstein/hoops-league-service/internal/app/teams"
	"github.com/preston-bernstein/hoops-league-service/internal/broadcast"
	"github.com/preston-bernstein/hoops-league-service/internal/contentstore/fixture"
	"github.com/preston-bernstein/hoops-league-service/internal/http/handlers"
	"github.com/preston-bernstein/hoops-league-service/internal/metrics"
	"github.com/preston-bernstein/hoops-league-service/internal/scoreboard"
	"github.com/preston-bernstein/hoops-league-service/internal/store"
	"github.com/preston-bernstein/hoops-league-service/internal/testutil"
)

func newTestRouter(withAdmin bool) http.Handler {
	ms := store.NewMemoryStore()
	ms.SetGames(fixture.League(time.Now().UTC()))
	games := appgames.NewService(ms, appgames.Options{})
	registry := scoreboard.NewRegistry(scoreboard.Config{})

	rt := Routes{
		Public:     handlers.NewHandler(games, appteams.NewService(ms), nil, nil),
		Scoreboard: handlers.NewScoreboardHandler(registry, games, nil, time.Second),
		Live:       handlers.NewLiveHandler(broadcast.NewMemory(), nil, nil),
		Recorder:   metrics.NewRecorder(),
	}
	if withAdmin {
		rt.Admin = handlers.NewAdminHandler(nil, nil, "secret", nil)
	}
	return NewRouter(rt)
}

func TestRouterRoutesKnownPaths(t *testing.T) {
	router := newTestRouter(true)

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/ready", http.StatusOK},
		{http.MethodGet, "/games", http.StatusOK},
		{http.MethodGet, "/games/fixture-1", http.StatusOK},
		{http.MethodGet, "/games/missing", http.StatusNotFound},
		{http.MethodGet, "/standings", http.StatusOK},
		{http.MethodGet, "/standings/groups", http.StatusOK},
		{http.MethodGet, "/teams", http.StatusOK},
		{http.MethodGet, "/teams/valley-vipers", http.StatusOK},
		{http.MethodGet, "/scoreboard/fixture-5", http.StatusNotFound},
		{http.MethodPost, "/scoreboard/fixture-5", http.StatusCreated},
		{http.MethodGet, "/scoreboard/fixture-5", http.StatusOK},
		{http.MethodDelete, "/scoreboard/fixture-5", http.StatusNoContent},
		{http.MethodPost, "/admin/games/refresh", http.StatusUnauthorized},
		{http.MethodPost, "/admin/results/reconcile", http.StatusUnauthorized},
		{http.MethodGet, "/unknown", http.StatusNotFound},
		{http.MethodPost, "/games", http.StatusMethodNotAllowed},
	}

	for _, tc := range cases {
		rr := testutil.Serve(router, tc.method, tc.path, nil)
		if rr.Code != tc.want {
			t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.path, tc.want, rr.Code)
		}
	}
}

func TestRouterScoreboardCommandRoute(t *testing.T) {
	router := newTestRouter(false)
	testutil.AssertStatus(t, testutil.Serve(router, http.MethodPost, "/scoreboard/fixture-6", nil), http.StatusCreated)

	rr := testutil.Serve(router, http.MethodPost, "/scoreboard/fixture-6/commands", strings.NewReader(`{"command":"adjustPeriod","value":1}`))
	testutil.AssertStatus(t, rr, http.StatusOK)
	if !strings.Contains(rr.Body.String(), `"period":2`) {
		t.Fatalf("expected period 2, got %s", rr.Body.String())
	}
}

func TestRouterSkipsAdminWhenUnset(t *testing.T) {
	router := newTestRouter(false)
	rr := testutil.Serve(router, http.MethodPost, "/admin/games/refresh", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestRouterSetsRequestIDAndCORS(t *testing.T) {
	router := newTestRouter(false)
	req := httptest.NewRequest(http.MethodGet, "/games", nil)
	req.Header.Set("Origin", "https://league.example")
	rr := testutil.ServeRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard CORS origin, got %q", got)
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	router := NewRouter(Routes{
		Public:         handlers.NewHandler(appgames.NewService(store.NewMemoryStore(), appgames.Options{}), nil, nil, nil),
		AllowedOrigins: []string{"https://league.example"},
	})
	req := httptest.NewRequest(http.MethodOptions, "/games", nil)
	req.Header.Set("Origin", "https://league.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := testutil.ServeRequest(router, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://league.example" {
		t.Fatalf("expected configured origin echoed, got %q", got)
	}
}
