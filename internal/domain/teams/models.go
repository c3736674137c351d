package teams

import (
	"github.com/gosimple/slug"

	"github.com/preston-bernstein/hoops-league-service/internal/domain/games"
)

// Team is a club entry as it appears across the league's fixtures.
type Team struct {
	Name      string   `json:"name"`
	Slug      string   `json:"slug"`
	AgeGroups []string `json:"ageGroups"`
}

// SlugFor builds the URL slug for a team name.
func SlugFor(name string) string {
	return slug.Make(name)
}

// FromGames collects the teams named in list, in first-seen order. Placeholder
// names for missing clubs are not teams.
func FromGames(list []games.Game) []Team {
	var (
		out   []Team
		index = make(map[string]int)
	)
	add := func(name, group string) {
		if name == "" || name == games.UnknownTeamA || name == games.UnknownTeamB {
			return
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, Team{Name: name, Slug: SlugFor(name), AgeGroups: []string{}})
		}
		if group == "" {
			return
		}
		for _, g := range out[i].AgeGroups {
			if g == group {
				return
			}
		}
		out[i].AgeGroups = append(out[i].AgeGroups, group)
	}
	for _, g := range list {
		add(g.TeamA, g.AgeGroup)
		add(g.TeamB, g.AgeGroup)
	}
	return out
}
