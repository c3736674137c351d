package config

import "time"

const (
	envPort           = "PORT"
	envPollInterval   = "POLL_INTERVAL"
	envStore          = "CONTENT_STORE"
	envMetricsPort    = "METRICS_PORT"
	envMetricsOn      = "METRICS_ENABLED"
	envOtelEndpoint   = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService    = "OTEL_SERVICE_NAME"
	envOtelInsecure   = "OTEL_EXPORTER_OTLP_INSECURE"
	envAdminToken     = "ADMIN_TOKEN"
	envAllowedOrigins = "ALLOWED_ORIGINS"
	envLogLevel       = "LOG_LEVEL"
	envLogFormat      = "LOG_FORMAT"

	envStoreRetries      = "CONTENT_STORE_MAX_ATTEMPTS"
	envStoreRetryBackoff = "CONTENT_STORE_RETRY_BACKOFF"
	envContentBaseURL    = "CONTENT_API_BASE_URL"
	envContentDelivery   = "CONTENT_API_DELIVERY_TOKEN"
	envContentManagement = "CONTENT_API_MANAGEMENT_TOKEN"
	envContentTimezone   = "CONTENT_API_TIMEZONE"
	envPostgresDSN       = "DATABASE_URL"
	envPostgresMigrate   = "DATABASE_AUTO_MIGRATE"

	envBroadcastDriver  = "BROADCAST_DRIVER"
	envRedisURL         = "REDIS_URL"
	envRedisPrefix      = "REDIS_CHANNEL_PREFIX"
	envBroadcastTimeout = "BROADCAST_PUBLISH_TIMEOUT"

	envResultsEnabled = "RESULTS_RECONCILE_ENABLED"
	envResultsHour    = "RESULTS_RECONCILE_HOUR"
	envResultsTimeout = "RESULTS_RECONCILE_TIMEOUT"

	envSnapshotsEnabled = "SNAPSHOTS_ENABLED"
	envSnapshotsDir     = "SNAPSHOTS_DIR"

	envLeagueRulesFile  = "LEAGUE_RULES_FILE"
	envLeagueGroupOrder = "LEAGUE_GROUP_ORDER"
	envPersistTimeout   = "SCOREBOARD_PERSIST_TIMEOUT"

	defaultPort = "4000"
	// The content store is the source of truth; games change a few times a day.
	defaultPollInterval   = Duration(time.Minute)
	defaultStore          = "fixture"
	defaultMetricsPort    = "9090"
	defaultServiceName    = "hoops-league-service"
	defaultLogLevel       = "info"
	defaultLogFormat      = "text"
	defaultStoreRetries   = 3
	defaultStoreBackoff   = 200 * Duration(time.Millisecond)
	defaultContentTZ      = "UTC"
	defaultBroadcast      = "memory"
	defaultRedisPrefix    = "scoreboard"
	defaultPublishTimeout = 2 * Duration(time.Second)
	// 03:00 UTC, after the evening fixtures have been locked.
	defaultResultsHour    = 3
	defaultResultsTimeout = 2 * Duration(time.Minute)
	defaultSnapshotsDir   = "data/snapshots"
	defaultPersistTimeout = 10 * Duration(time.Second)
)
