package handlers

import (
	"log/slog"
	nethttp "net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	appgames "github.com/preston-bernstein/hoops-league-service/internal/app/games"
	appteams "github.com/preston-bernstein/hoops-league-service/internal/app/teams"
	domaingames "github.com/preston-bernstein/hoops-league-service/internal/domain/games"
	"github.com/preston-bernstein/hoops-league-service/internal/logging"
	"github.com/preston-bernstein/hoops-league-service/internal/poller"
)

// Handler serves the public read endpoints over the game cache.
type Handler struct {
	games    *appgames.Service
	teams    *appteams.Service
	logger   *slog.Logger
	statusFn func() poller.Status
}

// NewHandler constructs a Handler. teams and statusFn may be nil.
func NewHandler(games *appgames.Service, teams *appteams.Service, logger *slog.Logger, statusFn func() poller.Status) *Handler {
	return &Handler{
		games:    games,
		teams:    teams,
		logger:   logger,
		statusFn: statusFn,
	}
}

type gamesResponse struct {
	domaingames.ListResponse
	Source appgames.Source `json:"source"`
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic based on the poller status.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.statusFn == nil {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		writeJSON(w, nethttp.StatusOK, map[string]any{"status": "ready", "poller": status}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
}

// Games lists cached games, optionally narrowed by ?ageGroup= and ?when=past|upcoming.
func (h *Handler) Games(w nethttp.ResponseWriter, r *nethttp.Request) {
	logger := loggerFromContext(r, h.logger)
	query := r.URL.Query()

	filter := appgames.ListFilter{AgeGroup: strings.TrimSpace(query.Get("ageGroup"))}
	switch when := appgames.When(strings.ToLower(strings.TrimSpace(query.Get("when")))); when {
	case appgames.WhenAny, appgames.WhenPast, appgames.WhenUpcoming:
		filter.When = when
	default:
		writeError(w, r, nethttp.StatusBadRequest, "invalid when (expected past or upcoming)", logger)
		return
	}

	list, source := h.games.ListGames(filter)
	logging.Info(logger, "served games",
		logging.FieldCount, len(list),
		"source", string(source),
	)
	writeJSON(w, nethttp.StatusOK, gamesResponse{
		ListResponse: domaingames.NewListResponse(list),
		Source:       source,
	}, logger)
}

// GameByID returns a specific game if present.
func (h *Handler) GameByID(w nethttp.ResponseWriter, r *nethttp.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, r, nethttp.StatusBadRequest, "invalid game id", h.logger)
		return
	}
	game, ok := h.games.GameByID(id)
	if !ok {
		writeError(w, r, nethttp.StatusNotFound, "game not found", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, game, h.logger)
}

// pathID reads a chi URL parameter and rejects blank or whitespace ids.
func pathID(r *nethttp.Request, key string) (string, bool) {
	id := chi.URLParam(r, key)
	if id == "" || strings.ContainsAny(id, " \t/") {
		return "", false
	}
	return id, true
}
