package database

import (
	"context"
	"sync/atomic"
	"time"

	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
)

// UnitMetrics is a snapshot of unit-of-work counters
type UnitMetrics struct {
	Units        int64
	Failed       int64
	Slow         int64
	LastDuration time.Duration
}

// MetricsCollector times units of work and logs the slow ones
type MetricsCollector struct {
	logger        coreport.Logger
	timeProvider  coreport.TimeProvider
	slowThreshold time.Duration

	units        atomic.Int64
	failed       atomic.Int64
	slow         atomic.Int64
	lastDuration atomic.Int64
}

// NewMetricsCollector creates a new metrics collector. A zero threshold disables slow logging.
func NewMetricsCollector(logger coreport.Logger, timeProvider coreport.TimeProvider, slowThreshold time.Duration) *MetricsCollector {
	return &MetricsCollector{
		logger:        logger,
		timeProvider:  timeProvider,
		slowThreshold: slowThreshold,
	}
}

// MeasureUnit runs fn and records how long it took
func (c *MetricsCollector) MeasureUnit(ctx context.Context, fn func() error) error {
	start := c.timeProvider.Now()
	err := fn()
	duration := c.timeProvider.Since(start)

	c.units.Add(1)
	c.lastDuration.Store(int64(duration))
	if err != nil {
		c.failed.Add(1)
	}

	if c.slowThreshold > 0 && duration > c.slowThreshold {
		c.slow.Add(1)
		fields := map[string]any{
			"duration_ms": duration.Milliseconds(),
			"failed":      err != nil,
			"request_id":  coreport.RequestIDFromContext(ctx),
		}
		if err != nil {
			fields["error"] = err.Error()
		}
		c.logger.Warn("Slow unit of work", fields)
	}

	return err
}

// Snapshot returns the current counters
func (c *MetricsCollector) Snapshot() UnitMetrics {
	return UnitMetrics{
		Units:        c.units.Load(),
		Failed:       c.failed.Load(),
		Slow:         c.slow.Load(),
		LastDuration: time.Duration(c.lastDuration.Load()),
	}
}
