package config

// StoreConfig picks the content store and its connection settings.
type StoreConfig struct {
	Name         string
	MaxAttempts  int
	RetryBackoff Duration
	ContentAPI   ContentAPIConfig
	Postgres     PostgresConfig
}

// ContentAPIConfig controls how we talk to the hosted content API.
type ContentAPIConfig struct {
	BaseURL         string
	DeliveryToken   string
	ManagementToken string
	Timezone        string
}

// PostgresConfig points at a database holding the games table.
type PostgresConfig struct {
	DSN         string
	AutoMigrate bool
}

func loadStore() StoreConfig {
	return StoreConfig{
		Name:         envOrDefault(envStore, defaultStore),
		MaxAttempts:  intEnvOrDefault(envStoreRetries, defaultStoreRetries),
		RetryBackoff: durationEnvOrDefault(envStoreRetryBackoff, defaultStoreBackoff),
		ContentAPI: ContentAPIConfig{
			BaseURL:         envOrDefault(envContentBaseURL, ""),
			DeliveryToken:   envOrDefault(envContentDelivery, ""),
			ManagementToken: envOrDefault(envContentManagement, ""),
			Timezone:        envOrDefault(envContentTimezone, defaultContentTZ),
		},
		Postgres: PostgresConfig{
			DSN:         envOrDefault(envPostgresDSN, ""),
			AutoMigrate: boolEnvOrDefault(envPostgresMigrate, false),
		},
	}
}
