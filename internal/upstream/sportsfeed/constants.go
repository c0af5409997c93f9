package sportsfeed

import "time"

const (
	providerName   = "sportsfeed"
	defaultBaseURL = "https://api.sportsfeed.io/v1"
	// Bounded so a hung upstream cannot starve the poll cadence.
	defaultTimeout = 10 * time.Second
)
