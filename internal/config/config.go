package config

// Config holds runtime configuration for the server.
type Config struct {
	Port              string
	PollInterval      Duration
	Provider          string
	SportDenylist     []string
	KickoffHourOffset int
	AllowedOrigins    []string
	Sportsfeed        SportsfeedConfig
	Metrics           MetricsConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:              envOrDefault(envPort, defaultPort),
		PollInterval:      durationEnvOrDefault(envPollInterval, defaultPollInterval),
		Provider:          envOrDefault(envProvider, defaultProvider),
		SportDenylist:     listEnvOrDefault(envSportDenylist, defaultSportDenylist),
		KickoffHourOffset: intEnvOrDefault(envKickoffHourOffset, 0),
		AllowedOrigins:    listEnvOrDefault(envAllowedOrigins, "*"),
		Sportsfeed:        loadSportsfeed(),
		Metrics:           loadMetrics(),
	}
}
