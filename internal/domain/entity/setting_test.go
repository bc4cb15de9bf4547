package entity

import (
	"testing"
	"time"

	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSettingsDefaults(t *testing.T) {
	settings := ResolveSettings(nil)

	assert.Equal(t, 10*time.Second, settings.RewardDelay)
	assert.Equal(t, 20*time.Second, settings.TaskCooldown)
	assert.Equal(t, int64(500000), settings.MinimumWithdrawal)
	assert.Equal(t, int64(1000), settings.ReferralReward)
}

func TestResolveSettingsStoredValues(t *testing.T) {
	settings := ResolveSettings(map[string]string{
		"task_cooldown_seconds": "60",
		"minimum_withdrawal":    "abc",
		"reward_delay_seconds":  "99999",
		"unrelated":             "1",
	})

	assert.Equal(t, 60*time.Second, settings.TaskCooldown)
	assert.Equal(t, int64(500000), settings.MinimumWithdrawal, "malformed value falls back to default")
	assert.Equal(t, 10*time.Second, settings.RewardDelay, "out of bounds value falls back to default")
}

func TestSettingDefinitionValidate(t *testing.T) {
	def, ok := LookupSetting("task_cooldown_seconds")
	require.True(t, ok)

	testCases := []struct {
		raw   string
		valid bool
	}{
		{"1", true},
		{"3600", true},
		{" 45 ", true},
		{"0", false},
		{"3601", false},
		{"2.5", false},
		{"", false},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			_, err := def.Validate(tc.raw)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, errs.ErrInvalidInput)
			}
		})
	}

	_, ok = LookupSetting("nope")
	assert.False(t, ok)
}

func TestMinimumWithdrawalBounds(t *testing.T) {
	def, ok := LookupSetting(string(SettingMinimumWithdrawal))
	require.True(t, ok)

	_, err := def.Validate("99")
	assert.Error(t, err)
	_, err = def.Validate("100001")
	assert.Error(t, err)
	value, err := def.Validate("100000")
	assert.NoError(t, err)
	assert.Equal(t, int64(100000), value)
}
