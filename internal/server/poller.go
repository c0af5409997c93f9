package server

import (
	"context"

	"match-overlay-service/internal/poller"
)

// Poller defines the minimal poll loop behavior needed by the server.
type Poller interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Track(id string)
	Status() poller.Status
}
