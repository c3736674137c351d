package games

import (
	"strings"
	"time"
)

// Result is the recorded outcome for one side of a game.
type Result string

const (
	ResultNone    Result = ""
	ResultWin     Result = "W"
	ResultLoss    Result = "L"
	ResultForfeit Result = "F"
)

// Placeholder names used when a game's club reference is missing.
const (
	UnknownTeamA = "Unknown Club A"
	UnknownTeamB = "Unknown Club B"
)

// ForfeitScore is the walkover score recorded for a forfeited game (20-0).
const ForfeitScore = 20

// ParseResult maps a raw result value onto a Result. Unrecognized values map to ResultNone.
func ParseResult(raw string) Result {
	switch Result(strings.ToUpper(strings.TrimSpace(raw))) {
	case ResultWin:
		return ResultWin
	case ResultLoss:
		return ResultLoss
	case ResultForfeit:
		return ResultForfeit
	default:
		return ResultNone
	}
}

// IsValid reports whether r is one of W, L or F.
func (r Result) IsValid() bool {
	return r == ResultWin || r == ResultLoss || r == ResultForfeit
}

// Game is the canonical league game shape shared by the standings and scoreboard engines.
type Game struct {
	ID              string     `json:"id"`
	GameNumber      int        `json:"gameNumber,omitempty"`
	TeamA           string     `json:"teamA"`
	TeamB           string     `json:"teamB"`
	AgeGroup        string     `json:"ageGroup,omitempty"`
	Venue           string     `json:"venue,omitempty"`
	CourtNumber     string     `json:"courtNumber,omitempty"`
	FixtureDateTime *time.Time `json:"fixtureDateTime,omitempty"`
	ScoreA          int        `json:"scoreA"`
	ScoreB          int        `json:"scoreB"`
	ResultTeamA     Result     `json:"resultTeamA,omitempty"`
	ResultTeamB     Result     `json:"resultTeamB,omitempty"`
	IsLocked        bool       `json:"isLocked"`
	HasScoresheet   bool       `json:"hasScoresheet,omitempty"`
}

// Normalize fills placeholders for missing team names, clamps negative scores
// and drops unrecognized result values so downstream rendering stays total.
func (g Game) Normalize() Game {
	g.ID = strings.TrimSpace(g.ID)
	g.TeamA = strings.TrimSpace(g.TeamA)
	g.TeamB = strings.TrimSpace(g.TeamB)
	g.AgeGroup = strings.TrimSpace(g.AgeGroup)
	if g.TeamA == "" {
		g.TeamA = UnknownTeamA
	}
	if g.TeamB == "" {
		g.TeamB = UnknownTeamB
	}
	if g.ScoreA < 0 {
		g.ScoreA = 0
	}
	if g.ScoreB < 0 {
		g.ScoreB = 0
	}
	g.ResultTeamA = ParseResult(string(g.ResultTeamA))
	g.ResultTeamB = ParseResult(string(g.ResultTeamB))
	return g
}

// HasResult reports whether either side has a recorded result.
func (g Game) HasResult() bool {
	return g.ResultTeamA.IsValid() || g.ResultTeamB.IsValid()
}

// IsPast reports whether the fixture started before now. Games without a fixture time are never past.
func (g Game) IsPast(now time.Time) bool {
	return g.FixtureDateTime != nil && g.FixtureDateTime.Before(now)
}

// Involves reports whether the named team played in the game.
func (g Game) Involves(team string) bool {
	return g.TeamA == team || g.TeamB == team
}

// IsForfeitScore reports whether the score pair is the 20-0 walkover pattern.
func IsForfeitScore(scoreA, scoreB int) bool {
	return (scoreA == ForfeitScore && scoreB == 0) || (scoreA == 0 && scoreB == ForfeitScore)
}

// InferResult derives both sides' results from a final score. A 20-0 score is
// a forfeit by the scoreless side; otherwise the higher score wins. Ties infer nothing.
func InferResult(scoreA, scoreB int) (Result, Result) {
	switch {
	case scoreA == ForfeitScore && scoreB == 0:
		return ResultWin, ResultForfeit
	case scoreA == 0 && scoreB == ForfeitScore:
		return ResultForfeit, ResultWin
	case scoreA > scoreB:
		return ResultWin, ResultLoss
	case scoreB > scoreA:
		return ResultLoss, ResultWin
	default:
		return ResultNone, ResultNone
	}
}

// ListResponse is the payload returned by /games.
type ListResponse struct {
	Count int    `json:"count"`
	Games []Game `json:"games"`
}

// NewListResponse builds a ListResponse payload.
func NewListResponse(games []Game) ListResponse {
	if games == nil {
		games = []Game{}
	}
	return ListResponse{
		Count: len(games),
		Games: games,
	}
}

// PersistResult is what the content store reports after saving a score.
type PersistResult struct {
	ScoreA      int    `json:"scoreA"`
	ScoreB      int    `json:"scoreB"`
	ResultTeamA Result `json:"resultTeamA,omitempty"`
	ResultTeamB Result `json:"resultTeamB,omitempty"`
}
