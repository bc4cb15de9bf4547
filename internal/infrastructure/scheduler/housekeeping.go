package scheduler

import (
	"context"
	"time"

	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/persistence"
	"github.com/robfig/cron/v3"
)

// DefaultSchedule runs housekeeping every ten minutes
const DefaultSchedule = "@every 10m"

// Sweeper drops idle in-memory state, returning how many entries it removed
type Sweeper interface {
	Cleanup() int
}

// Housekeeper purges expired token revocations and idle rate limiter buckets
type Housekeeper struct {
	revoked      persistence.RevokedTokenRepository
	sweepers     []Sweeper
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	timeout      time.Duration
	cron         *cron.Cron
}

// NewHousekeeper creates a Housekeeper; sweepers may be empty
func NewHousekeeper(
	revoked persistence.RevokedTokenRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	sweepers ...Sweeper,
) *Housekeeper {
	return &Housekeeper{
		revoked:      revoked,
		sweepers:     sweepers,
		timeProvider: timeProvider,
		logger:       logger,
		timeout:      30 * time.Second,
	}
}

// RunOnce performs one cleanup pass
func (h *Housekeeper) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	start := h.timeProvider.Now()
	purged, err := h.revoked.DeleteExpired(ctx, start)
	if err != nil {
		h.logger.Error("Failed to purge expired token revocations", map[string]any{
			"error": err.Error(),
		})
	}

	swept := 0
	for _, s := range h.sweepers {
		swept += s.Cleanup()
	}

	h.logger.Info("Housekeeping finished", map[string]any{
		"revocations_purged": purged,
		"buckets_swept":      swept,
		"duration":           h.timeProvider.Since(start).String(),
	})
}

// Start schedules RunOnce with a cron expression such as "@every 10m" or "*/5 * * * *"
func (h *Housekeeper) Start(schedule string) error {
	if schedule == "" {
		schedule = DefaultSchedule
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(schedule, func() { h.RunOnce(context.Background()) }); err != nil {
		return err
	}
	c.Start()
	h.cron = c

	h.logger.Info("Housekeeping scheduler started", map[string]any{
		"schedule": schedule,
	})
	return nil
}

// Stop halts the scheduler and waits for a running pass to finish
func (h *Housekeeper) Stop() {
	if h.cron == nil {
		return
	}
	<-h.cron.Stop().Done()
	h.logger.Info("Housekeeping scheduler stopped", nil)
}
