package scheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/scheduler"
	"github.com/amirhossein-jamali/daily-earn/internal/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls int
}

func (s *countingSweeper) Cleanup() int {
	s.calls++
	return 2
}

func TestRunOnce(t *testing.T) {
	ctx := context.Background()
	env := testkit.NewEnv(t)
	revoked := env.RevokedTokens()
	now := env.Clock.Now()

	require.NoError(t, revoked.Revoke(ctx, "expired", now.Add(-time.Minute)))
	require.NoError(t, revoked.Revoke(ctx, "live", now.Add(time.Hour)))

	sweeper := &countingSweeper{}
	housekeeper := scheduler.NewHousekeeper(revoked, env.Clock, env.Logger, sweeper)
	housekeeper.RunOnce(ctx)

	assert.Equal(t, 1, sweeper.calls)

	var remaining int64
	require.NoError(t, env.DB.Table("revoked_tokens").Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)

	live, err := revoked.IsRevoked(ctx, "live")
	require.NoError(t, err)
	assert.True(t, live)
}

func TestStart(t *testing.T) {
	env := testkit.NewEnv(t)
	housekeeper := scheduler.NewHousekeeper(env.RevokedTokens(), env.Clock, env.Logger)

	assert.Error(t, housekeeper.Start("not a schedule"))

	require.NoError(t, housekeeper.Start(""))
	housekeeper.Stop()
}
