package entity

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	"github.com/shopspring/decimal"
)

// MaxDecimalPlaces defines the maximum number of decimal places allowed for money amounts
const MaxDecimalPlaces = 2

// MinorUnitsPerNaira is the number of kobo in one Naira
const MinorUnitsPerNaira = 100

var (
	amountPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]*)?$`)
	maxMinorUnits = decimal.NewFromInt(math.MaxInt64)
)

// ParseAmount validates a decimal Naira string and converts it to kobo.
// Signs, exponents and more than two decimal places are rejected.
func ParseAmount(amount string) (int64, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0, fmt.Errorf("%w: empty value", errs.ErrInvalidAmount)
	}
	if !amountPattern.MatchString(amount) {
		return 0, fmt.Errorf("%w: %q is not a plain decimal number", errs.ErrInvalidAmount, amount)
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errs.ErrInvalidAmount, err.Error())
	}
	if !value.Equal(value.Truncate(MaxDecimalPlaces)) {
		return 0, fmt.Errorf("%w: maximum %d decimal places allowed", errs.ErrInvalidAmount, MaxDecimalPlaces)
	}

	minor := value.Shift(MaxDecimalPlaces)
	if minor.GreaterThan(maxMinorUnits) {
		return 0, errs.ErrAmountOverflow
	}
	return minor.IntPart(), nil
}

// ParsePositiveAmount is ParseAmount with zero rejected
func ParsePositiveAmount(amount string) (int64, error) {
	minor, err := ParseAmount(amount)
	if err != nil {
		return 0, err
	}
	if minor == 0 {
		return 0, fmt.Errorf("%w: amount must be greater than zero", errs.ErrInvalidAmount)
	}
	return minor, nil
}

// FormatAmount renders kobo as a Naira string with exactly two decimal places.
// For example 1015 becomes "10.15" and -500 becomes "-5.00".
func FormatAmount(minor int64) string {
	return decimal.New(minor, -MaxDecimalPlaces).StringFixed(MaxDecimalPlaces)
}

// NairaToMinor converts a whole Naira value to kobo
func NairaToMinor(naira int64) int64 {
	return naira * MinorUnitsPerNaira
}
