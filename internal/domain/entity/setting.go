package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
)

// SettingKey names a configurable value in the settings table
type SettingKey string

// Setting keys
const (
	SettingRewardDelay       SettingKey = "reward_delay_seconds"
	SettingTaskCooldown      SettingKey = "task_cooldown_seconds"
	SettingMinimumWithdrawal SettingKey = "minimum_withdrawal"
	SettingReferralReward    SettingKey = "referral_reward"
)

// SettingUnit describes how a setting's integer value is interpreted
type SettingUnit string

// Setting units
const (
	UnitSeconds SettingUnit = "seconds"
	UnitNaira   SettingUnit = "naira"
)

// SettingDefinition holds the default and inclusive bounds of a setting
type SettingDefinition struct {
	Key     SettingKey
	Default int64
	Min     int64
	Max     int64
	Unit    SettingUnit
	Public  bool
}

var settingDefinitions = []SettingDefinition{
	{Key: SettingRewardDelay, Default: 10, Min: 1, Max: 300, Unit: UnitSeconds, Public: true},
	{Key: SettingTaskCooldown, Default: 20, Min: 1, Max: 3600, Unit: UnitSeconds, Public: true},
	{Key: SettingMinimumWithdrawal, Default: 5000, Min: 100, Max: 100000, Unit: UnitNaira, Public: true},
	{Key: SettingReferralReward, Default: 10, Min: 0, Max: 10000, Unit: UnitNaira, Public: false},
}

// SettingDefinitions returns every known setting in display order
func SettingDefinitions() []SettingDefinition {
	defs := make([]SettingDefinition, len(settingDefinitions))
	copy(defs, settingDefinitions)
	return defs
}

// LookupSetting finds the definition for key
func LookupSetting(key string) (SettingDefinition, bool) {
	for _, def := range settingDefinitions {
		if string(def.Key) == key {
			return def, true
		}
	}
	return SettingDefinition{}, false
}

// Validate parses raw and checks it against the bounds
func (d SettingDefinition) Validate(raw string) (int64, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, errs.NewValidationError(string(d.Key), "must be a whole number")
	}
	if value < d.Min || value > d.Max {
		return 0, errs.NewValidationError(string(d.Key), fmt.Sprintf("must be between %d and %d", d.Min, d.Max))
	}
	return value, nil
}

// Resolve returns the stored value, or the default when absent or malformed
func (d SettingDefinition) Resolve(raw string, present bool) int64 {
	if !present {
		return d.Default
	}
	value, err := d.Validate(raw)
	if err != nil {
		return d.Default
	}
	return value
}

// Setting is a stored key/value pair
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Settings is the resolved view of every setting
type Settings struct {
	RewardDelay       time.Duration
	TaskCooldown      time.Duration
	MinimumWithdrawal int64 // kobo
	ReferralReward    int64 // kobo
	Values            map[SettingKey]int64
}

// ResolveSettings applies defaults to raw stored values
func ResolveSettings(stored map[string]string) Settings {
	values := make(map[SettingKey]int64, len(settingDefinitions))
	for _, def := range settingDefinitions {
		raw, ok := stored[string(def.Key)]
		values[def.Key] = def.Resolve(raw, ok)
	}

	return Settings{
		RewardDelay:       time.Duration(values[SettingRewardDelay]) * time.Second,
		TaskCooldown:      time.Duration(values[SettingTaskCooldown]) * time.Second,
		MinimumWithdrawal: NairaToMinor(values[SettingMinimumWithdrawal]),
		ReferralReward:    NairaToMinor(values[SettingReferralReward]),
		Values:            values,
	}
}
