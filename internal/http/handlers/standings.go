package handlers

import (
	nethttp "net/http"
	"strings"

	"github.com/preston-bernstein/hoops-league-service/internal/logging"
	"github.com/preston-bernstein/hoops-league-service/internal/standings"
)

type standingsResponse struct {
	Group   string            `json:"group"`
	Groups  []standings.Group `json:"groups"`
	Skipped int               `json:"skipped"`
}

// Standings returns the ranked tables, optionally for one ?group=.
func (h *Handler) Standings(w nethttp.ResponseWriter, r *nethttp.Request) {
	logger := loggerFromContext(r, h.logger)
	group := strings.TrimSpace(r.URL.Query().Get("group"))
	if group == "" {
		group = standings.AllGroups
	}

	res := h.games.Standings(group)
	groups := res.Groups
	if groups == nil {
		groups = []standings.Group{}
	}
	logging.Info(logger, "served standings",
		logging.FieldGroup, group,
		logging.FieldCount, len(groups),
	)
	writeJSON(w, nethttp.StatusOK, standingsResponse{
		Group:   group,
		Groups:  groups,
		Skipped: len(res.Skipped),
	}, logger)
}

// StandingsGroups lists the values accepted by ?group=, "all" first.
func (h *Handler) StandingsGroups(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeJSON(w, nethttp.StatusOK, map[string][]string{"groups": h.games.Groups()}, h.logger)
}
