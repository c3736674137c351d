package contentapi

import (
	"strings"
	"time"

	"github.com/preston-bernstein/hoops-league-service/internal/domain/games"
)

func mapGame(e entry, loc *time.Location) games.Game {
	f := e.Fields
	g := games.Game{
		ID:            e.Sys.ID,
		GameNumber:    f.GameNumber,
		TeamA:         clubName(f.TeamA),
		TeamB:         clubName(f.TeamB),
		AgeGroup:      name(f.AgeGroup),
		Venue:         name(f.Venue),
		CourtNumber:   strings.TrimSpace(f.CourtNumber),
		ScoreA:        f.ScoreA,
		ScoreB:        f.ScoreB,
		ResultTeamA:   games.Result(f.ResultTeamA),
		ResultTeamB:   games.Result(f.ResultTeamB),
		IsLocked:      f.IsLocked,
		HasScoresheet: f.Scoresheet != nil && f.Scoresheet.Fields.File.URL != "",
	}
	if at, ok := parseFixtureDate(f.FixtureDate, loc); ok {
		g.FixtureDateTime = &at
	}
	return g.Normalize()
}

func mapPersisted(e entry) games.PersistResult {
	return games.PersistResult{
		ScoreA:      e.Fields.ScoreA,
		ScoreB:      e.Fields.ScoreB,
		ResultTeamA: games.ParseResult(e.Fields.ResultTeamA),
		ResultTeamB: games.ParseResult(e.Fields.ResultTeamB),
	}
}

func clubName(l *linkClub) string {
	if l == nil {
		return ""
	}
	return l.Fields.ClubName
}

func name(l *linkNamed) string {
	if l == nil {
		return ""
	}
	return strings.TrimSpace(l.Fields.Name)
}

// parseFixtureDate accepts RFC3339 or a zone-less "2006-01-02T15:04" in loc.
func parseFixtureDate(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
