package snapshots

import (
	"fmt"
	"path/filepath"
)

const manifestFile = "manifest.json"

// GameSnapshotPath builds the path to a games snapshot for a given date.
func GameSnapshotPath(basePath, date string) string {
	return filepath.Join(basePath, "games", fmt.Sprintf("%s.json", date))
}

// ManifestPath is where the manifest lives under basePath.
func ManifestPath(basePath string) string {
	return filepath.Join(basePath, manifestFile)
}
