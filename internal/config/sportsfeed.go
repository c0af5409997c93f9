package config

const (
	envSportsfeedBaseURL = "SPORTSFEED_BASE_URL"
	envSportsfeedAPIKey  = "SPORTSFEED_API_KEY"
)

// SportsfeedConfig controls how we talk to the sportsfeed API.
type SportsfeedConfig struct {
	BaseURL string
	APIKey  string
}

func loadSportsfeed() SportsfeedConfig {
	return SportsfeedConfig{
		BaseURL: envOrDefault(envSportsfeedBaseURL, ""),
		APIKey:  envOrDefault(envSportsfeedAPIKey, ""),
	}
}
