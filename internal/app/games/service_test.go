package games

import (
	"testing"
	"time"

	domaingames "github.com/preston-bernstein/hoops-league-service/internal/domain/games"
	"github.com/preston-bernstein/hoops-league-service/internal/snapshots"
	"github.com/preston-bernstein/hoops-league-service/internal/standings"
	"github.com/preston-bernstein/hoops-league-service/internal/store"
)

var now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

type stubSnapshots struct {
	snap snapshots.GamesSnapshot
	err  error
}

func (s stubSnapshots) LoadGames(string) (snapshots.GamesSnapshot, error) { return s.snap, s.err }
func (s stubSnapshots) LoadLatest() (snapshots.GamesSnapshot, error)      { return s.snap, s.err }

func at(d time.Duration) *time.Time {
	t := now.Add(d)
	return &t
}

func league() []domaingames.Game {
	return []domaingames.Game{
		{ID: "g1", TeamA: "X", TeamB: "Y", AgeGroup: "U14", ScoreA: 20, FixtureDateTime: at(-48 * time.Hour)},
		{ID: "g2", TeamA: "X", TeamB: "Z", AgeGroup: "U14", ScoreA: 10, ScoreB: 15, ResultTeamA: domaingames.ResultLoss, FixtureDateTime: at(-24 * time.Hour)},
		{ID: "g3", TeamA: "P", TeamB: "Q", AgeGroup: "U16", FixtureDateTime: at(24 * time.Hour)},
		{ID: "g4", TeamA: "P", TeamB: "X", AgeGroup: "U16"},
	}
}

func newService(list []domaingames.Game, snaps snapshots.Store) *Service {
	s := store.NewMemoryStore()
	if list != nil {
		s.SetGames(list)
	}
	return NewService(s, Options{Snapshots: snaps, Now: func() time.Time { return now }})
}

func TestListGamesFilters(t *testing.T) {
	svc := newService(league(), nil)

	all, source := svc.ListGames(ListFilter{})
	if len(all) != 4 || source != SourceCache {
		t.Fatalf("expected 4 cached games, got %d from %s", len(all), source)
	}
	if got, _ := svc.ListGames(ListFilter{AgeGroup: "U16"}); len(got) != 2 {
		t.Fatalf("expected 2 U16 games, got %d", len(got))
	}
	if got, _ := svc.ListGames(ListFilter{When: WhenPast}); len(got) != 2 {
		t.Fatalf("expected 2 past games, got %d", len(got))
	}
	upcoming, _ := svc.ListGames(ListFilter{When: WhenUpcoming})
	if len(upcoming) != 1 || upcoming[0].ID != "g3" {
		t.Fatalf("expected only g3 upcoming, got %+v", upcoming)
	}
}

func TestGamesFallsBackToSnapshot(t *testing.T) {
	snap := snapshots.GamesSnapshot{Date: "2024-03-09", Games: []domaingames.Game{{ID: "snap-1", TeamA: "A", TeamB: "B"}}}
	svc := newService(nil, stubSnapshots{snap: snap})

	list, source := svc.Games()
	if source != SourceSnapshot || len(list) != 1 {
		t.Fatalf("expected snapshot fallback, got %d from %s", len(list), source)
	}
	if g, ok := svc.GameByID("snap-1"); !ok || g.TeamA != "A" {
		t.Fatalf("expected snapshot lookup, got %+v ok=%v", g, ok)
	}

	missing := newService(nil, stubSnapshots{err: snapshots.ErrNoSnapshot})
	if list, source := missing.Games(); source != SourceCache || len(list) != 0 {
		t.Fatalf("expected empty cache result, got %d from %s", len(list), source)
	}
}

func TestStandingsFromCache(t *testing.T) {
	svc := newService(league(), nil)

	rows := svc.Standings("U14").ByGroup()["U14"]
	if len(rows) != 3 || rows[0].Team != "X" || rows[0].LeaguePoints != 3 {
		t.Fatalf("unexpected U14 standings %+v", rows)
	}
	if groups := svc.Groups(); len(groups) != 3 || groups[0] != standings.AllGroups || groups[1] != "U16" {
		t.Fatalf("unexpected groups %v", groups)
	}
}

func TestApplyPersistedUpdatesCache(t *testing.T) {
	svc := newService(league(), nil)

	ok := svc.ApplyPersisted("g3", domaingames.PersistResult{ScoreA: 40, ScoreB: 38})
	if !ok {
		t.Fatalf("expected cached game to update")
	}
	g, _ := svc.GameByID("g3")
	if g.ScoreA != 40 || g.ScoreB != 38 || g.ResultTeamA != domaingames.ResultNone {
		t.Fatalf("unexpected game %+v", g)
	}

	svc.ApplyPersisted("g3", domaingames.PersistResult{ScoreA: 40, ScoreB: 38, ResultTeamA: domaingames.ResultWin, ResultTeamB: domaingames.ResultLoss})
	if g, _ := svc.GameByID("g3"); g.ResultTeamA != domaingames.ResultWin {
		t.Fatalf("expected result to be applied, got %+v", g)
	}
	if svc.ApplyPersisted("missing", domaingames.PersistResult{}) {
		t.Fatalf("expected unknown game to report false")
	}
}

func TestTeamGames(t *testing.T) {
	svc := newService(league(), nil)
	if got := svc.TeamGames("X"); len(got) != 3 {
		t.Fatalf("expected 3 games for X, got %d", len(got))
	}
}
