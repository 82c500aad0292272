package lifecycle

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"mecarent/internal/clock"
)

// RunnerConfig holds configuration for the tick driver.
type RunnerConfig struct {
	// Interval is how often the engine re-evaluates open rentals.
	Interval time.Duration
}

// DefaultRunnerConfig returns the default runner configuration.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{Interval: 30 * time.Second}
}

// Runner drives the engine on a recurring timer, independent of any caller
// activity. A new tick is only scheduled after the previous one fully
// returned, so ticks never overlap.
type Runner struct {
	config  RunnerConfig
	engine  *Engine
	clock   clock.Clock
	logger  zerolog.Logger
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

// NewRunner creates a runner for the engine.
func NewRunner(config RunnerConfig, engine *Engine, clk clock.Clock, logger zerolog.Logger) *Runner {
	if config.Interval <= 0 {
		config.Interval = DefaultRunnerConfig().Interval
	}
	return &Runner{
		config: config,
		engine: engine,
		clock:  clk,
		logger: logger.With().Str("component", "lifecycle_runner").Logger(),
		stopCh: make(chan struct{}),
	}
}

// Start begins the tick loop. It runs one tick immediately so state left
// over from a previous process life converges before the first interval
// elapses, then blocks until the context is cancelled or Stop is called.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	r.logger.Info().Dur("interval", r.config.Interval).Msg("lifecycle runner started")

	r.tick(ctx)

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("lifecycle runner stopped by context")
			return
		case <-r.stopCh:
			r.logger.Info().Msg("lifecycle runner stopped")
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

// Stop stops the runner.
func (r *Runner) Stop() {
	r.mu.Lock()
	if r.running {
		r.running = false
		close(r.stopCh)
	}
	r.mu.Unlock()
}

// RunNow forces an immediate evaluation pass.
func (r *Runner) RunNow(ctx context.Context) TickStats {
	return r.tick(ctx)
}

// IsRunning reports whether the loop is active.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *Runner) tick(ctx context.Context) TickStats {
	stats := r.engine.Tick(ctx, r.clock.Now())
	if stats.Activated > 0 || stats.Completed > 0 || stats.Anomalies > 0 {
		r.logger.Info().
			Int("evaluated", stats.Evaluated).
			Int("activated", stats.Activated).
			Int("completed", stats.Completed).
			Int("anomalies", stats.Anomalies).
			Msg("lifecycle tick changed state")
	}
	return stats
}
