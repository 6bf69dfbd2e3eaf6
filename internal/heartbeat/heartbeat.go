// Package heartbeat logs a periodic liveness record, independent of polling progress.
package heartbeat

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// DefaultInterval is the time between two liveness records.
const DefaultInterval = 60 * time.Second

// Monitor emits a liveness log record every interval.
//
// The goroutine started by [Monitor.Start] is detached: nothing waits for
// it, and it holds no cleanup obligations, so it never delays process exit.
type Monitor struct {
	interval time.Duration
	logger   *slog.Logger
	beats    atomic.Int64
}

// New creates a [Monitor]. A non-positive interval falls back to [DefaultInterval].
func New(interval time.Duration, logger *slog.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{interval: interval, logger: logger}
}

// Start logs a first record immediately, then one per interval until ctx is done.
// Start returns without waiting.
func (m *Monitor) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			m.beat()
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func (m *Monitor) beat() {
	n := m.beats.Add(1)
	m.logger.Info("health check: slot checker still alive", "beat", n)
}

// Beats returns how many liveness records were emitted.
func (m *Monitor) Beats() int64 {
	return m.beats.Load()
}
