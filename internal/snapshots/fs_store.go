package snapshots

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrNoSnapshot is returned when nothing has been written yet.
var ErrNoSnapshot = errors.New("no games snapshot available")

// Store defines how snapshots are loaded.
type Store interface {
	LoadGames(date string) (GamesSnapshot, error)
	LoadLatest() (GamesSnapshot, error)
}

// FSStore loads snapshots from the filesystem.
type FSStore struct {
	basePath string
}

// NewFSStore constructs an FS-backed snapshot store rooted at basePath.
func NewFSStore(basePath string) *FSStore {
	return &FSStore{basePath: basePath}
}

// LoadGames reads the snapshot for date (YYYY-MM-DD) from {basePath}/games/{date}.json.
func (s *FSStore) LoadGames(date string) (GamesSnapshot, error) {
	if s == nil {
		return GamesSnapshot{}, errors.New("snapshot store not configured")
	}
	if date == "" {
		return GamesSnapshot{}, errors.New("snapshot date required")
	}
	var payload GamesSnapshot
	if err := decodeFile(GameSnapshotPath(s.basePath, date), &payload); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return GamesSnapshot{}, fmt.Errorf("snapshot %s: %w", date, ErrNoSnapshot)
		}
		return GamesSnapshot{}, err
	}
	if payload.Date == "" {
		payload.Date = date
	}
	return payload, nil
}

// LoadLatest reads the newest snapshot listed in the manifest.
func (s *FSStore) LoadLatest() (GamesSnapshot, error) {
	if s == nil {
		return GamesSnapshot{}, errors.New("snapshot store not configured")
	}
	m, err := readManifest(ManifestPath(s.basePath))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return GamesSnapshot{}, ErrNoSnapshot
		}
		return GamesSnapshot{}, err
	}
	date, ok := m.Games.Latest()
	if !ok {
		return GamesSnapshot{}, ErrNoSnapshot
	}
	return s.LoadGames(date)
}

func decodeFile(path string, payload any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(payload)
}
