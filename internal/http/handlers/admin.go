package handlers

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/preston-bernstein/hoops-league-service/internal/http/requestutil"
	"github.com/preston-bernstein/hoops-league-service/internal/logging"
	"github.com/preston-bernstein/hoops-league-service/internal/poller"
	"github.com/preston-bernstein/hoops-league-service/internal/results"
)

const defaultAdminTimeout = 30 * time.Second

// Refresher refetches the league's games on demand.
type Refresher interface {
	Refresh(ctx context.Context) error
	Status() poller.Status
}

// ResultsRunner runs one results reconcile pass.
type ResultsRunner interface {
	Run(ctx context.Context, opts results.Options) (results.Report, error)
}

// AdminHandler exposes admin-only endpoints behind a bearer token.
type AdminHandler struct {
	refresher  Refresher
	reconciler ResultsRunner
	token      string
	logger     *slog.Logger
	timeout    time.Duration
}

// NewAdminHandler constructs an AdminHandler. An empty token rejects every call.
func NewAdminHandler(refresher Refresher, reconciler ResultsRunner, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		refresher:  refresher,
		reconciler: reconciler,
		token:      token,
		logger:     logger,
		timeout:    defaultAdminTimeout,
	}
}

// RefreshGames refetches games from the content store, refilling the cache
// and today's snapshot.
func (h *AdminHandler) RefreshGames(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	if !h.authorize(w, r, logger) {
		return
	}
	if h.refresher == nil {
		writeError(w, r, http.StatusServiceUnavailable, "refresh not configured", logger)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	if err := h.refresher.Refresh(ctx); err != nil {
		logging.Warn(logger, "admin refresh failed", "err", err)
		writeError(w, r, http.StatusBadGateway, "failed to fetch games", logger)
		return
	}

	status := h.refresher.Status()
	logging.Info(logger, "admin refresh complete", logging.FieldCount, status.LastCount)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"count":  status.LastCount,
	}, logger)
}

// ReconcileResults infers and saves results for locked games. ?overwrite=true
// recomputes results that are already set. Per-game failures still return 200
// with the failed ids listed.
func (h *AdminHandler) ReconcileResults(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	if !h.authorize(w, r, logger) {
		return
	}
	if h.reconciler == nil {
		writeError(w, r, http.StatusServiceUnavailable, "reconciler not configured", logger)
		return
	}

	opts := results.Options{}
	if raw := strings.TrimSpace(r.URL.Query().Get("overwrite")); raw != "" {
		overwrite, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid overwrite flag", logger)
			return
		}
		opts.Overwrite = overwrite
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	report, err := h.reconciler.Run(ctx, opts)
	if err != nil && len(report.Failed) == 0 {
		logging.Warn(logger, "admin reconcile failed", "err", err)
		writeError(w, r, http.StatusBadGateway, "failed to reconcile results", logger)
		return
	}

	status := "ok"
	if len(report.Failed) > 0 {
		status = "partial"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": status,
		"report": report,
	}, logger)
}

func (h *AdminHandler) authorize(w http.ResponseWriter, r *http.Request, logger *slog.Logger) bool {
	got, hasBearer := requestutil.BearerToken(r)
	if hasBearer && h.token != "" && subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) == 1 {
		return true
	}
	logging.Warn(logger, "admin unauthorized",
		logging.FieldPath, r.URL.Path,
		logging.FieldClientIP, requestutil.ClientIP(r),
	)
	writeError(w, r, http.StatusUnauthorized, "unauthorized", logger)
	return false
}
