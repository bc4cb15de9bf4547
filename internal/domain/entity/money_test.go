package entity

import (
	"testing"

	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	t.Run("Valid amounts", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected int64
		}{
			{"100.00", 10000},
			{"0.01", 1},
			{"0.10", 10},
			{"1", 100},
			{"1.5", 150},
			{"10.", 1000},
			{" 50 ", 5000},
			{"1234567.89", 123456789},
			{"0", 0},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				minor, err := ParseAmount(tc.input)
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, minor)
			})
		}
	})

	t.Run("Invalid amounts", func(t *testing.T) {
		testCases := []struct {
			input     string
			errorType error
		}{
			{"", errs.ErrInvalidAmount},
			{"abc", errs.ErrInvalidAmount},
			{"-1.00", errs.ErrInvalidAmount},
			{"+1.00", errs.ErrInvalidAmount},
			{"1e3", errs.ErrInvalidAmount},
			{"1.234", errs.ErrInvalidAmount},
			{"1.2.3", errs.ErrInvalidAmount},
			{"$100.00", errs.ErrInvalidAmount},
			{"99999999999999999999", errs.ErrAmountOverflow},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				_, err := ParseAmount(tc.input)
				assert.ErrorIs(t, err, tc.errorType)
			})
		}
	})
}

func TestParsePositiveAmount(t *testing.T) {
	minor, err := ParsePositiveAmount("5000")
	assert.NoError(t, err)
	assert.Equal(t, int64(500000), minor)

	_, err = ParsePositiveAmount("0.00")
	assert.ErrorIs(t, err, errs.ErrInvalidAmount)
}

func TestFormatAmount(t *testing.T) {
	testCases := []struct {
		minor    int64
		expected string
	}{
		{0, "0.00"},
		{1, "0.01"},
		{10, "0.10"},
		{1015, "10.15"},
		{500000, "5000.00"},
		{-500, "-5.00"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatAmount(tc.minor))
		})
	}
}

func TestNairaToMinor(t *testing.T) {
	assert.Equal(t, int64(1000), NairaToMinor(10))
	assert.Equal(t, int64(0), NairaToMinor(0))
}
