package snapshots

import (
	"os"
	"testing"
	"time"

	"github.com/preston-bernstein/hoops-league-service/internal/domain/games"
)

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestWriter(t *testing.T, retention int) *Writer {
	t.Helper()
	w := NewWriter(t.TempDir(), retention)
	w.now = func() time.Time { return fixedNow }
	return w
}

func simpleGames(ids ...string) []games.Game {
	out := make([]games.Game, 0, len(ids))
	for _, id := range ids {
		out = append(out, games.Game{ID: id, TeamA: "A", TeamB: "B", AgeGroup: "U14"})
	}
	return out
}

func writeGames(t *testing.T, w *Writer, date string, list []games.Game) {
	t.Helper()
	if err := w.WriteGames(date, list); err != nil {
		t.Fatalf("failed to write snapshot %s: %v", date, err)
	}
}

func requireSnapshotExists(t *testing.T, w *Writer, date string) {
	t.Helper()
	if _, err := os.Stat(GameSnapshotPath(w.BasePath(), date)); err != nil {
		t.Fatalf("expected snapshot for %s to be written: %v", date, err)
	}
}

func assertDatesEqual(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("dates length mismatch: got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("dates mismatch at %d: got %v, want %v", i, got, want)
		}
	}
}
