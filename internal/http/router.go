package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/preston-bernstein/hoops-league-service/internal/http/handlers"
	"github.com/preston-bernstein/hoops-league-service/internal/http/middleware"
	"github.com/preston-bernstein/hoops-league-service/internal/metrics"
)

// Routes groups the handlers mounted by NewRouter. Scoreboard, Live and Admin
// are optional; their routes are skipped when nil.
type Routes struct {
	Public     *handlers.Handler
	Scoreboard *handlers.ScoreboardHandler
	Live       *handlers.LiveHandler
	Admin      *handlers.AdminHandler

	Logger         *slog.Logger
	Recorder       *metrics.Recorder
	AllowedOrigins []string
}

// NewRouter registers HTTP routes on a chi router.
func NewRouter(rt Routes) nethttp.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(corsOptions(rt.AllowedOrigins)))
	r.Use(middleware.Logging(rt.Logger, rt.Recorder))

	r.Get("/health", rt.Public.Health)
	r.Get("/ready", rt.Public.Ready)

	r.Get("/games", rt.Public.Games)
	r.Get("/games/{id}", rt.Public.GameByID)

	r.Get("/standings", rt.Public.Standings)
	r.Get("/standings/groups", rt.Public.StandingsGroups)

	r.Get("/teams", rt.Public.Teams)
	r.Get("/teams/{slug}", rt.Public.TeamBySlug)

	if rt.Scoreboard != nil {
		r.Route("/scoreboard/{gameID}", func(r chi.Router) {
			r.Post("/", rt.Scoreboard.Open)
			r.Get("/", rt.Scoreboard.State)
			r.Delete("/", rt.Scoreboard.Close)
			r.Post("/commands", rt.Scoreboard.Command)
			r.Post("/drain", rt.Scoreboard.Drain)
			if rt.Live != nil {
				r.Get("/live", rt.Live.Stream)
			}
		})
	}

	if rt.Admin != nil {
		r.Route("/admin", func(r chi.Router) {
			r.Post("/games/refresh", rt.Admin.RefreshGames)
			r.Post("/results/reconcile", rt.Admin.ReconcileResults)
		})
	}

	return r
}

func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}
}
