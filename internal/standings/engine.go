// Package standings derives ranked league tables from a list of games.
// Compute is pure: no I/O, no logging, no clock.
package standings

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gosimple/slug"

	"github.com/preston-bernstein/hoops-league-service/internal/domain/games"
)

// AllGroups is the group filter value that keeps every group.
const AllGroups = "all"

// League points awarded per outcome.
const (
	PointsWin     = 2
	PointsLoss    = 1
	PointsForfeit = 0
)

// Order controls how groups are sorted by key.
type Order string

const (
	OrderAscending  Order = "asc"
	OrderDescending Order = "desc"
)

// ParseOrder maps a config value to an Order, defaulting to descending.
func ParseOrder(raw string) Order {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "asc", "ascending":
		return OrderAscending
	default:
		return OrderDescending
	}
}

// Options tune a Compute call.
type Options struct {
	// Group restricts output to one group key; empty or "all" keeps every group.
	Group      string
	GroupOrder Order
}

// Row is one team's line in a group table.
type Row struct {
	Team          string `json:"team"`
	Slug          string `json:"slug"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	Forfeits      int    `json:"forfeits"`
	PointsFor     int    `json:"pointsFor"`
	PointsAgainst int    `json:"pointsAgainst"`
	LeaguePoints  int    `json:"points"`
}

// GamesPlayed counts wins, losses and forfeits.
func (r Row) GamesPlayed() int {
	return r.Wins + r.Losses + r.Forfeits
}

// PointDifferential is points for minus points against.
func (r Row) PointDifferential() int {
	return r.PointsFor - r.PointsAgainst
}

// Group is a ranked table for one group key.
type Group struct {
	Key  string `json:"group"`
	Rows []Row  `json:"rows"`
}

// Result is the output of Compute.
type Result struct {
	Groups  []Group               `json:"groups"`
	Skipped []*MalformedGameError `json:"-"`
}

// ByGroup returns the tables keyed by group.
func (r Result) ByGroup() map[string][]Row {
	out := make(map[string][]Row, len(r.Groups))
	for _, g := range r.Groups {
		out[g.Key] = g.Rows
	}
	return out
}

// ErrMalformedGame marks games skipped for missing identifying fields.
var ErrMalformedGame = errors.New("malformed game record")

// MalformedGameError describes a game the engine skipped.
type MalformedGameError struct {
	GameID string
	Field  string
}

func (e *MalformedGameError) Error() string {
	id := e.GameID
	if id == "" {
		id = "<unknown>"
	}
	return fmt.Sprintf("malformed game %s: missing %s", id, e.Field)
}

func (e *MalformedGameError) Unwrap() error { return ErrMalformedGame }

// table accumulates rows for one group in first-seen order.
type table struct {
	order []string
	rows  map[string]*Row
}

func newTable() *table {
	return &table{rows: make(map[string]*Row)}
}

func (t *table) row(team string) *Row {
	if r, ok := t.rows[team]; ok {
		return r
	}
	r := &Row{Team: team, Slug: slug.Make(team)}
	t.rows[team] = r
	t.order = append(t.order, team)
	return r
}

// Compute builds ranked group tables from games.
func Compute(list []games.Game, opts Options) Result {
	filter := strings.TrimSpace(opts.Group)
	if strings.EqualFold(filter, AllGroups) {
		filter = ""
	}

	var (
		result Result
		tables = make(map[string]*table)
	)
	for _, g := range list {
		if g.AgeGroup == "" {
			continue
		}
		if filter != "" && g.AgeGroup != filter {
			continue
		}
		if field := missingField(g); field != "" {
			result.Skipped = append(result.Skipped, &MalformedGameError{GameID: g.ID, Field: field})
			continue
		}

		t, ok := tables[g.AgeGroup]
		if !ok {
			t = newTable()
			tables[g.AgeGroup] = t
		}
		apply(t.row(g.TeamA), t.row(g.TeamB), g)
	}

	keys := make([]string, 0, len(tables))
	for key := range tables {
		keys = append(keys, key)
	}
	sortKeys(keys, opts.GroupOrder)

	result.Groups = make([]Group, 0, len(keys))
	for _, key := range keys {
		rows := rank(tables[key])
		if len(rows) == 0 {
			continue
		}
		result.Groups = append(result.Groups, Group{Key: key, Rows: rows})
	}
	return result
}

// Groups lists the distinct group keys present in games, prefixed with "all".
func Groups(list []games.Game, order Order) []string {
	seen := make(map[string]struct{})
	keys := make([]string, 0)
	for _, g := range list {
		if g.AgeGroup == "" {
			continue
		}
		if _, ok := seen[g.AgeGroup]; ok {
			continue
		}
		seen[g.AgeGroup] = struct{}{}
		keys = append(keys, g.AgeGroup)
	}
	sortKeys(keys, order)
	return append([]string{AllGroups}, keys...)
}

func missingField(g games.Game) string {
	switch {
	case g.ID == "":
		return "id"
	case g.TeamA == "":
		return "teamA"
	case g.TeamB == "":
		return "teamB"
	default:
		return ""
	}
}

func apply(a, b *Row, g games.Game) {
	switch {
	case g.ScoreA == games.ForfeitScore && g.ScoreB == 0:
		a.Wins++
		a.LeaguePoints += PointsWin
		b.Forfeits++
	case g.ScoreA == 0 && g.ScoreB == games.ForfeitScore:
		b.Wins++
		b.LeaguePoints += PointsWin
		a.Forfeits++
	default:
		switch g.ResultTeamA {
		case games.ResultWin:
			a.Wins++
			a.LeaguePoints += PointsWin
			b.Losses++
			b.LeaguePoints += PointsLoss
		case games.ResultLoss:
			a.Losses++
			a.LeaguePoints += PointsLoss
			b.Wins++
			b.LeaguePoints += PointsWin
		case games.ResultForfeit:
			a.Forfeits++
			b.Wins++
			b.LeaguePoints += PointsWin
		}
	}

	a.PointsFor += g.ScoreA
	a.PointsAgainst += g.ScoreB
	b.PointsFor += g.ScoreB
	b.PointsAgainst += g.ScoreA
}

func rank(t *table) []Row {
	rows := make([]Row, 0, len(t.order))
	for _, team := range t.order {
		r := *t.rows[team]
		if r.GamesPlayed() == 0 {
			continue
		}
		rows = append(rows, r)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].LeaguePoints != rows[j].LeaguePoints {
			return rows[i].LeaguePoints > rows[j].LeaguePoints
		}
		return rows[i].PointDifferential() > rows[j].PointDifferential()
	})
	return rows
}

func sortKeys(keys []string, order Order) {
	if order == OrderAscending {
		sort.Strings(keys)
		return
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
}
