package handlers

import (
	nethttp "net/http"

	domaingames "github.com/preston-bernstein/hoops-league-service/internal/domain/games"
	"github.com/preston-bernstein/hoops-league-service/internal/domain/teams"
	"github.com/preston-bernstein/hoops-league-service/internal/standings"
)

type teamResponse struct {
	Team      teams.Team         `json:"team"`
	Standings []teamStanding     `json:"standings"`
	Games     []domaingames.Game `json:"games"`
}

type teamStanding struct {
	Group    string        `json:"group"`
	Position int           `json:"position"`
	Row      standings.Row `json:"row"`
}

// Teams lists every team named in the cached games.
func (h *Handler) Teams(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.teams == nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "teams not configured", h.logger)
		return
	}
	list := h.teams.Teams()
	if list == nil {
		list = []teams.Team{}
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{"count": len(list), "teams": list}, h.logger)
}

// TeamBySlug returns a team's fixtures and its line in each group table.
func (h *Handler) TeamBySlug(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.teams == nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "teams not configured", h.logger)
		return
	}
	slug, ok := pathID(r, "slug")
	if !ok {
		writeError(w, r, nethttp.StatusBadRequest, "invalid team", h.logger)
		return
	}
	team, ok := h.teams.TeamBySlug(slug)
	if !ok {
		writeError(w, r, nethttp.StatusNotFound, "team not found", h.logger)
		return
	}

	resp := teamResponse{
		Team:      team,
		Standings: []teamStanding{},
		Games:     h.games.TeamGames(team.Name),
	}
	for _, group := range h.games.Standings(standings.AllGroups).Groups {
		for i, row := range group.Rows {
			if row.Team == team.Name {
				resp.Standings = append(resp.Standings, teamStanding{Group: group.Key, Position: i + 1, Row: row})
				break
			}
		}
	}
	writeJSON(w, nethttp.StatusOK, resp, loggerFromContext(r, h.logger))
}
