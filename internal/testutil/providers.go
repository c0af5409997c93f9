package testutil

import (
	"context"
	"sync/atomic"

	"match-overlay-service/internal/upstream"
)

// StubProvider returns canned raw matches and counts calls. Setting Err makes
// every fetch fail; Notify, when non-nil, is closed on the first fetch.
type StubProvider struct {
	Matches []upstream.RawMatch
	Err     error
	Calls   atomic.Int64
	Notify  chan struct{}

	notified atomic.Bool
}

func (p *StubProvider) FetchMatches(ctx context.Context) ([]upstream.RawMatch, error) {
	_ = ctx
	p.Calls.Add(1)
	if p.Notify != nil && p.notified.CompareAndSwap(false, true) {
		close(p.Notify)
	}
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Matches, nil
}

// SequenceProvider returns one response per call, repeating the last entry once
// the sequence is exhausted.
type SequenceProvider struct {
	Responses []SequenceResponse
	Calls     atomic.Int64
}

// SequenceResponse is one canned fetch result.
type SequenceResponse struct {
	Matches []upstream.RawMatch
	Err     error
}

func (p *SequenceProvider) FetchMatches(ctx context.Context) ([]upstream.RawMatch, error) {
	_ = ctx
	n := int(p.Calls.Add(1)) - 1
	if len(p.Responses) == 0 {
		return nil, nil
	}
	if n >= len(p.Responses) {
		n = len(p.Responses) - 1
	}
	resp := p.Responses[n]
	return resp.Matches, resp.Err
}
