package snapshots

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/preston-bernstein/hoops-league-service/internal/domain/games"
	"github.com/preston-bernstein/hoops-league-service/internal/timeutil"
)

// DefaultRetentionDays is how long dated snapshots are kept.
const DefaultRetentionDays = 14

// Writer persists dated snapshots and the manifest, pruning old dates.
type Writer struct {
	basePath      string
	retentionDays int
	now           func() time.Time
}

// NewWriter constructs a writer rooted at basePath with a rolling retention window.
func NewWriter(basePath string, retentionDays int) *Writer {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	return &Writer{basePath: basePath, retentionDays: retentionDays, now: time.Now}
}

// BasePath exposes the writer root path.
func (w *Writer) BasePath() string {
	if w == nil {
		return ""
	}
	return w.basePath
}

// WriteGames stores list as the snapshot for date (YYYY-MM-DD). Identical
// content is not rewritten.
func (w *Writer) WriteGames(date string, list []games.Game) error {
	if w == nil {
		return errors.New("snapshot writer not configured")
	}
	if _, err := timeutil.ParseDate(date); err != nil {
		return fmt.Errorf("snapshot date %q: %w", date, err)
	}
	sorted := slices.Clone(list)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	target := GameSnapshotPath(w.basePath, date)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	changed, err := w.writeIfChanged(target, sorted, date)
	if err != nil {
		return err
	}
	return w.updateManifest(date, changed)
}

// writeIfChanged compares game content only so the fetch time does not force a rewrite.
func (w *Writer) writeIfChanged(target string, list []games.Game, date string) (bool, error) {
	if existing, err := os.ReadFile(target); err == nil {
		var prev GamesSnapshot
		if json.Unmarshal(existing, &prev) == nil {
			prevGames, _ := json.Marshal(prev.Games)
			nextGames, _ := json.Marshal(NewGamesSnapshot(date, time.Time{}, list).Games)
			if bytes.Equal(prevGames, nextGames) {
				return false, nil
			}
		}
	}

	data, err := json.MarshalIndent(NewGamesSnapshot(date, w.now(), list), "", "  ")
	if err != nil {
		return false, err
	}
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return false, err
	}
	return true, os.Rename(tmp, target)
}

func (w *Writer) updateManifest(date string, changed bool) error {
	now := w.now().UTC()
	m, err := readManifest(ManifestPath(w.basePath))
	if err != nil {
		m = defaultManifest(w.retentionDays, now)
	}

	dates, err := w.listDates()
	if err != nil {
		return err
	}
	if !slices.Contains(dates, date) {
		dates = append(dates, date)
		sort.Strings(dates)
	}

	m.Games.Dates = w.prune(dates, now)
	if changed || m.Games.LastRefreshed.IsZero() {
		m.Games.LastRefreshed = now
	}
	m.Retention.GamesDays = w.retentionDays
	m.GeneratedAt = now
	return writeManifest(w.basePath, m)
}

func (w *Writer) listDates() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(w.basePath, "games"))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	var dates []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		dates = append(dates, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(dates)
	return dates, nil
}

// prune removes snapshots older than the retention window. Names that are
// not dates are left alone.
func (w *Writer) prune(dates []string, now time.Time) []string {
	cutoff := timeutil.StartOfDay(now, time.UTC).AddDate(0, 0, -w.retentionDays)
	keep := make([]string, 0, len(dates))
	for _, d := range dates {
		parsed, err := timeutil.ParseDate(d)
		if err == nil && parsed.Before(cutoff) {
			_ = os.Remove(GameSnapshotPath(w.basePath, d))
			continue
		}
		keep = append(keep, d)
	}
	return keep
}
