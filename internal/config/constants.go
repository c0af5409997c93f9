package config

import "time"

const (
	envPort              = "PORT"
	envPollInterval      = "POLL_INTERVAL"
	envProvider          = "PROVIDER"
	envSportDenylist     = "SPORT_DENYLIST"
	envKickoffHourOffset = "KICKOFF_HOUR_OFFSET"
	envAllowedOrigins    = "ALLOWED_ORIGINS"
	envMetricsPort       = "METRICS_PORT"
	envMetricsOn         = "METRICS_ENABLED"
	envOtelEndpoint      = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService       = "OTEL_SERVICE_NAME"
	envOtelInsecure      = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort = "3000"
	// Fast enough for a live overlay, slow enough for free upstream tiers.
	defaultPollInterval = 15 * time.Second
	defaultProvider     = "fixture"
	// Categories that never belong on the overlay, regardless of which field
	// the provider uses to carry them.
	defaultSportDenylist = "ufc,mma,boxing,esports,dota,counter-strike,league of legends"
	defaultMetricsPort   = "9090"
)
