package config

// SnapshotConfig controls the on-disk copy of the latest games list.
type SnapshotConfig struct {
	Enabled bool
	Folder  string
}

// ResultsConfig schedules the daily results reconcile.
type ResultsConfig struct {
	Enabled    bool
	HourUTC    int
	RunTimeout Duration
}

func loadSnapshots() SnapshotConfig {
	return SnapshotConfig{
		Enabled: boolEnvOrDefault(envSnapshotsEnabled, true),
		Folder:  envOrDefault(envSnapshotsDir, defaultSnapshotsDir),
	}
}

func loadResults() ResultsConfig {
	return ResultsConfig{
		Enabled:    boolEnvOrDefault(envResultsEnabled, true),
		HourUTC:    hourEnvOrDefault(envResultsHour, defaultResultsHour),
		RunTimeout: durationEnvOrDefault(envResultsTimeout, defaultResultsTimeout),
	}
}
