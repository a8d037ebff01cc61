// Package probe runs a periodic backend reachability check on a cron
// schedule and reflects the outcome in the metrics gauge.
package probe

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/flemzord/ollagate/internal/backend"
	"github.com/flemzord/ollagate/internal/metrics"
)

// Prober pings the inference server on a schedule. Each tick is
// bounded by the configured timeout; overlapping ticks are skipped.
type Prober struct {
	client   backend.Client
	recorder metrics.Recorder
	logger   *slog.Logger
	schedule string
	timeout  time.Duration

	mu     sync.Mutex // guards a running tick (TryLock skip)
	cron   *cron.Cron
	cancel context.CancelFunc
}

// New creates a prober. Schedule is a 5-field cron expression.
func New(client backend.Client, recorder metrics.Recorder, schedule string, timeout time.Duration, logger *slog.Logger) *Prober {
	if logger == nil {
		logger = slog.Default()
	}
	return &Prober{
		client:   client,
		recorder: recorder,
		logger:   logger,
		schedule: schedule,
		timeout:  timeout,
	}
}

// Start runs an immediate probe and begins the schedule.
func (p *Prober) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	p.cron = cron.New(cron.WithParser(parser))

	if _, err := p.cron.AddFunc(p.schedule, func() {
		// If the previous tick is still running, skip this one.
		if !p.mu.TryLock() {
			p.logger.Warn("probe still running, skipping tick")
			return
		}
		defer p.mu.Unlock()
		p.Run(ctx)
	}); err != nil {
		cancel()
		return fmt.Errorf("probe: invalid schedule %q: %w", p.schedule, err)
	}

	p.Run(ctx)
	p.cron.Start()
	p.logger.Info("probe scheduler started", "schedule", p.schedule)
	return nil
}

// Run executes a single probe and updates the gauge.
func (p *Prober) Run(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.client.Ping(probeCtx)
	p.recorder.SetBackendUp(err == nil)
	if err != nil {
		p.logger.Warn("backend probe failed", "error", err)
	}
}

// Stop halts the schedule, waiting for an in-flight tick.
func (p *Prober) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	if p.cron != nil {
		<-p.cron.Stop().Done()
		p.logger.Info("probe scheduler stopped")
	}
}
