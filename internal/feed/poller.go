package feed

import (
	"context"
	"log/slog"
	"time"
)

// DefaultInterval is the time between polls when none is configured.
const DefaultInterval = 30 * time.Second

// Counter counts the transactions of an address.
type Counter interface {
	TransactionCount(ctx context.Context, address string) (Count, error)
}

// Target is the engine side of the feed.
type Target interface {
	WalletTarget() (address string, gen uint64, ok bool)
	ApplyTxCount(gen uint64, address string, total int, newestSig string) bool
}

// Recorder counts poll outcomes.
type Recorder interface {
	FeedPoll(result string)
}

// Poll results
const (
	ResultApplied = "applied"
	ResultStale   = "stale"
	ResultIdle    = "idle"
	ResultError   = "error"
)

// Poller periodically counts the tracked wallet's transactions and hands the
// totals to the engine.
type Poller struct {
	Counter  Counter
	Target   Target
	Interval time.Duration
	Logger   *slog.Logger
	Recorder Recorder
}

// Run polls until ctx is done. A failed poll is logged and retried on the
// next interval.
func (p *Poller) Run(ctx context.Context) error {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	p.PollOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.PollOnce(ctx)
		}
	}
}

// PollOnce runs one poll and returns its result.
func (p *Poller) PollOnce(ctx context.Context) string {
	result := p.poll(ctx)
	if p.Recorder != nil {
		p.Recorder.FeedPoll(result)
	}
	return result
}

func (p *Poller) poll(ctx context.Context) string {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	address, gen, ok := p.Target.WalletTarget()
	if !ok {
		return ResultIdle
	}
	count, err := p.Counter.TransactionCount(ctx, address)
	if err != nil {
		logger.Warn("wallet transaction poll failed", slog.String("address", address), slog.Any("error", err))
		return ResultError
	}
	if !p.Target.ApplyTxCount(gen, address, count.Total, count.Newest) {
		logger.Debug("dropped stale wallet count", slog.String("address", address), slog.Uint64("generation", gen))
		return ResultStale
	}
	logger.Info("wallet transactions counted", slog.String("address", address), slog.Int("total", count.Total))
	return ResultApplied
}
