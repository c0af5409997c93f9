package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"match-overlay-service/internal/extract"
	"match-overlay-service/internal/logging"
	"match-overlay-service/internal/metrics"
	"match-overlay-service/internal/state"
	"match-overlay-service/internal/upstream"
)

const defaultInterval = 15 * time.Second

// Directory resolves a tracked match id against the upstream directory.
type Directory interface {
	Resolve(ctx context.Context, id string, force bool) (upstream.RawMatch, bool, error)
}

// StateStore receives merges derived from poll results and operator actions.
type StateStore interface {
	ApplyOverride(state.Delta)
	ApplyPoll(state.Delta)
}

// Poller drives the fixed-interval poll loop. While a match id is tracked,
// every tick resolves the id and merges the extracted fields into the state
// store; with no tracked id the tick is a no-op. Ticks run on one goroutine so
// they never overlap each other.
type Poller struct {
	directory Directory
	store     StateStore
	logger    *slog.Logger
	metrics   *metrics.Recorder
	interval  time.Duration
	now       func() time.Time

	ticker   *time.Ticker
	kick     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	trackMu   sync.Mutex
	trackedID string

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the poll loop.
type Status struct {
	TrackedMatchID      string
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// IsReady reports whether the poller is idle or has had a recent success and is
// not failing repeatedly.
func (s Status) IsReady() bool {
	if s.TrackedMatchID == "" {
		return true
	}
	return s.ConsecutiveFailures < 3
}

// New constructs a Poller with sane defaults.
func New(directory Directory, store StateStore, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{
		directory: directory,
		store:     store,
		logger:    logger,
		metrics:   recorder,
		interval:  interval,
		now:       time.Now,
		kick:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
}

// Start begins the loop until the context is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	if p.started {
		p.startMu.Unlock()
		return
	}
	p.started = true
	p.startMu.Unlock()

	p.ticker = time.NewTicker(p.interval)

	go func() {
		p.logInfo("poller started", slog.Int64(logging.FieldDurationMS, p.interval.Milliseconds()))
		for {
			select {
			case <-ctx.Done():
				p.stopTicker()
				p.logInfo("poller stopped")
				return
			case <-p.done:
				p.stopTicker()
				p.logInfo("poller stopped")
				return
			case <-p.kick:
				// Operator just tracked a match; force a fresh directory so
				// the overlay updates without waiting a full interval.
				p.tick(ctx, true)
			case <-p.ticker.C:
				p.tick(ctx, false)
			}
		}
	}()
}

// Stop halts the loop.
func (p *Poller) Stop(ctx context.Context) error {
	_ = ctx
	p.stopOnce.Do(func() {
		close(p.done)
		p.stopTicker()
	})
	return nil
}

// Track selects the match to poll and triggers an immediate forced refresh. An
// empty id clears tracking and returns the loop to idle.
func (p *Poller) Track(id string) {
	p.trackMu.Lock()
	p.trackedID = id
	p.trackMu.Unlock()

	p.statusMu.Lock()
	p.status.TrackedMatchID = id
	p.statusMu.Unlock()

	p.store.ApplyOverride(state.Delta{TrackedMatchID: state.String(id)})

	if id == "" {
		p.logInfo("tracking cleared")
		return
	}
	p.logInfo("tracking match", slog.String(logging.FieldMatchID, id))

	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// TrackedID returns the currently tracked match id, empty when idle.
func (p *Poller) TrackedID() string {
	p.trackMu.Lock()
	defer p.trackMu.Unlock()
	return p.trackedID
}

func (p *Poller) tick(ctx context.Context, force bool) {
	id := p.TrackedID()
	if id == "" {
		return
	}

	start := p.now()
	p.recordAttempt(start)

	rec, ok, err := p.directory.Resolve(ctx, id, force)
	if p.metrics != nil {
		p.metrics.RecordPollCycle(time.Since(start), err)
	}
	if err != nil {
		// A failed tick never stops the schedule and never clears the display.
		p.logError("poll tick failed", err, slog.String(logging.FieldMatchID, id))
		p.recordFailure(err, start)
		return
	}
	if !ok {
		p.logInfo("tracked match missing from directory", slog.String(logging.FieldMatchID, id))
		p.recordSuccess(start)
		return
	}

	p.store.ApplyPoll(extract.ScoreDelta(rec))
	p.recordSuccess(start)
	p.logInfo("poll tick merged",
		slog.String(logging.FieldMatchID, id),
		slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()),
	)
}

func (p *Poller) stopTicker() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
}

func (p *Poller) logInfo(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Poller) logError(msg string, err error, attrs ...any) {
	if p.logger != nil {
		p.logger.Error(msg, append(attrs, "error", err)...)
	}
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
}

func (p *Poller) recordFailure(err error, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.LastAttempt = at
}

// Status returns a snapshot of the poll loop's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}
