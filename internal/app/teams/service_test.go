package teams

import (
	"testing"

	"github.com/preston-bernstein/hoops-league-service/internal/domain/games"
)

type stubLister []games.Game

func (s stubLister) ListGames() []games.Game { return s }

func TestServiceTeamsAndLookup(t *testing.T) {
	svc := NewService(stubLister{
		{ID: "1", TeamA: "Northside Hawks", TeamB: "Valley Vipers", AgeGroup: "U14"},
	})

	if got := svc.Teams(); len(got) != 2 {
		t.Fatalf("expected 2 teams, got %+v", got)
	}
	team, ok := svc.TeamBySlug("valley-vipers")
	if !ok || team.Name != "Valley Vipers" {
		t.Fatalf("expected Valley Vipers, got %+v ok=%v", team, ok)
	}
	if _, ok := svc.TeamBySlug("missing"); ok {
		t.Fatalf("expected missing slug to return false")
	}
}
