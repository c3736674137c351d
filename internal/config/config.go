package config

import (
	"strings"
	"time"
)

// Config holds runtime configuration for the server.
type Config struct {
	Port           string
	PollInterval   Duration
	Store          StoreConfig
	Broadcast      BroadcastConfig
	Metrics        MetricsConfig
	Logging        LoggingConfig
	Results        ResultsConfig
	Snapshots      SnapshotConfig
	League         LeagueRules
	PersistTimeout time.Duration
	AdminToken     string
	AllowedOrigins []string
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with sensible defaults.
// The league rules file, when set, must parse.
func Load() (Config, error) {
	league, err := loadLeague()
	if err != nil {
		return Config{}, err
	}
	return Config{
		Port:         envOrDefault(envPort, defaultPort),
		PollInterval: durationEnvOrDefault(envPollInterval, defaultPollInterval),
		Store:        loadStore(),
		Broadcast:    loadBroadcast(),
		Metrics:      loadMetrics(),
		Logging: LoggingConfig{
			Level:  envOrDefault(envLogLevel, defaultLogLevel),
			Format: envOrDefault(envLogFormat, defaultLogFormat),
		},
		Results:        loadResults(),
		Snapshots:      loadSnapshots(),
		League:         league,
		PersistTimeout: durationEnvOrDefault(envPersistTimeout, defaultPersistTimeout),
		AdminToken:     envOrDefault(envAdminToken, ""),
		AllowedOrigins: listEnv(envAllowedOrigins),
	}, nil
}

func listEnv(key string) []string {
	raw := envOrDefault(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
