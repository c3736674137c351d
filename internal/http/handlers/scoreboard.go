package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	nethttp "net/http"
	"time"

	domaingames "github.com/preston-bernstein/hoops-league-service/internal/domain/games"
	"github.com/preston-bernstein/hoops-league-service/internal/logging"
	"github.com/preston-bernstein/hoops-league-service/internal/scoreboard"
)

const (
	maxCommandBytes     = 4 << 10
	defaultDrainTimeout = 10 * time.Second
	gameIDParam         = "gameID"
)

// GameFinder looks up the game record a session is seeded from.
type GameFinder interface {
	GameByID(id string) (domaingames.Game, bool)
}

// ScoreboardHandler drives live scoreboard sessions over HTTP.
type ScoreboardHandler struct {
	registry     *scoreboard.Registry
	games        GameFinder
	logger       *slog.Logger
	drainTimeout time.Duration
}

// NewScoreboardHandler constructs a ScoreboardHandler. A zero drainTimeout uses ten seconds.
func NewScoreboardHandler(registry *scoreboard.Registry, games GameFinder, logger *slog.Logger, drainTimeout time.Duration) *ScoreboardHandler {
	if drainTimeout <= 0 {
		drainTimeout = defaultDrainTimeout
	}
	return &ScoreboardHandler{
		registry:     registry,
		games:        games,
		logger:       logger,
		drainTimeout: drainTimeout,
	}
}

// Open starts a session for the game, or returns the one already open.
func (h *ScoreboardHandler) Open(w nethttp.ResponseWriter, r *nethttp.Request) {
	logger := loggerFromContext(r, h.logger)
	gameID, ok := pathID(r, gameIDParam)
	if !ok {
		writeError(w, r, nethttp.StatusBadRequest, "invalid game id", logger)
		return
	}
	game, ok := h.games.GameByID(gameID)
	if !ok {
		writeError(w, r, nethttp.StatusNotFound, "game not found", logger)
		return
	}
	session, created, err := h.registry.Open(game)
	if err != nil {
		writeError(w, r, nethttp.StatusBadRequest, err.Error(), logger)
		return
	}

	status := nethttp.StatusOK
	if created {
		status = nethttp.StatusCreated
		logging.Info(logger, "scoreboard session opened",
			logging.FieldGameID, gameID,
			logging.FieldSessionID, session.ID(),
			"locked", game.IsLocked,
		)
	}
	writeJSON(w, status, session.Snapshot(), logger)
}

// State returns the current state of an open session.
func (h *ScoreboardHandler) State(w nethttp.ResponseWriter, r *nethttp.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, nethttp.StatusOK, session.Snapshot(), h.logger)
}

// Command applies one scoreboard command and returns the resulting state.
func (h *ScoreboardHandler) Command(w nethttp.ResponseWriter, r *nethttp.Request) {
	logger := loggerFromContext(r, h.logger)
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var cmd scoreboard.Command
	dec := json.NewDecoder(nethttp.MaxBytesReader(w, r.Body, maxCommandBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cmd); err != nil {
		writeError(w, r, nethttp.StatusBadRequest, "invalid command body", logger)
		return
	}

	if err := scoreboard.Apply(session, cmd); err != nil {
		logging.Warn(logger, "scoreboard command rejected",
			logging.FieldGameID, session.GameID(),
			"command", cmd.Name,
			"err", err,
		)
		h.writeScoreboardError(w, r, err, logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, session.Snapshot(), logger)
}

// Drain persists the waiting or last failed score now.
func (h *ScoreboardHandler) Drain(w nethttp.ResponseWriter, r *nethttp.Request) {
	logger := loggerFromContext(r, h.logger)
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.drainTimeout)
	defer cancel()
	if err := session.Drain(ctx); err != nil {
		logging.Error(logger, "scoreboard drain failed", err, logging.FieldGameID, session.GameID())
		h.writeScoreboardError(w, r, err, logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, session.Snapshot(), logger)
}

// Close tears the session down. Queued scores are dropped.
func (h *ScoreboardHandler) Close(w nethttp.ResponseWriter, r *nethttp.Request) {
	gameID, ok := pathID(r, gameIDParam)
	if !ok {
		writeError(w, r, nethttp.StatusBadRequest, "invalid game id", h.logger)
		return
	}
	if !h.registry.Close(gameID) {
		writeError(w, r, nethttp.StatusNotFound, scoreboard.ErrSessionNotFound.Error(), h.logger)
		return
	}
	logging.Info(loggerFromContext(r, h.logger), "scoreboard session closed", logging.FieldGameID, gameID)
	w.WriteHeader(nethttp.StatusNoContent)
}

func (h *ScoreboardHandler) session(w nethttp.ResponseWriter, r *nethttp.Request) (*scoreboard.Session, bool) {
	gameID, ok := pathID(r, gameIDParam)
	if !ok {
		writeError(w, r, nethttp.StatusBadRequest, "invalid game id", h.logger)
		return nil, false
	}
	session, ok := h.registry.Get(gameID)
	if !ok {
		writeError(w, r, nethttp.StatusNotFound, scoreboard.ErrSessionNotFound.Error(), h.logger)
		return nil, false
	}
	return session, true
}

func (h *ScoreboardHandler) writeScoreboardError(w nethttp.ResponseWriter, r *nethttp.Request, err error, logger *slog.Logger) {
	status, msg := scoreboardStatus(err)
	writeError(w, r, status, msg, logger)
}

// scoreboardStatus maps a session error to an HTTP status and client message.
func scoreboardStatus(err error) (int, string) {
	switch {
	case scoreboard.IsLocked(err):
		return nethttp.StatusLocked, scoreboard.ErrGameLocked.Error()
	case errors.Is(err, scoreboard.ErrPersistenceFailed):
		return nethttp.StatusBadGateway, scoreboard.ErrPersistenceFailed.Error()
	case errors.Is(err, scoreboard.ErrClockExpired):
		return nethttp.StatusConflict, err.Error()
	case errors.Is(err, scoreboard.ErrSessionClosed):
		return nethttp.StatusGone, err.Error()
	case errors.Is(err, scoreboard.ErrInvalidClock),
		errors.Is(err, scoreboard.ErrInvalidValue),
		errors.Is(err, scoreboard.ErrUnknownTeam),
		errors.Is(err, scoreboard.ErrUnknownCommand):
		return nethttp.StatusBadRequest, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return nethttp.StatusGatewayTimeout, "timed out"
	default:
		return nethttp.StatusInternalServerError, "internal error"
	}
}
