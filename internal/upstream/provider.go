package upstream

import (
	"context"
	"errors"
)

// RawMatch is one unnormalized record as decoded from an upstream payload. Field
// names vary by provider and plan; the extract package probes these maps with
// ordered fallback strategies instead of binding a fixed schema.
type RawMatch = map[string]any

// MatchProvider fetches the full upstream match directory. Implementations must
// treat the upstream as untrusted: a transient failure returns an error and an
// empty result, never a partial crash.
type MatchProvider interface {
	FetchMatches(ctx context.Context) ([]RawMatch, error)
}

// ErrProviderUnavailable is returned when no usable provider is configured.
var ErrProviderUnavailable = errors.New("upstream provider unavailable")
