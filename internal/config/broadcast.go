package config

// BroadcastConfig selects how live score updates reach viewers.
type BroadcastConfig struct {
	Driver         string
	RedisURL       string
	RedisPrefix    string
	PublishTimeout Duration
}

func loadBroadcast() BroadcastConfig {
	return BroadcastConfig{
		Driver:         envOrDefault(envBroadcastDriver, defaultBroadcast),
		RedisURL:       envOrDefault(envRedisURL, ""),
		RedisPrefix:    envOrDefault(envRedisPrefix, defaultRedisPrefix),
		PublishTimeout: durationEnvOrDefault(envBroadcastTimeout, defaultPublishTimeout),
	}
}
