package entity

import (
	"net/mail"
	"regexp"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
)

// Password length bounds; bcrypt ignores input past 72 bytes
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
	MaxNameLength     = 100
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// User is a DailyEarn account holder
type User struct {
	ID                uint64
	Email             string
	PasswordHash      string
	Name              string
	ReferralCode      string
	ReferredBy        *uint64
	balance           int64 // kobo; mutated only through ledger-affecting operations
	EmailVerified     bool
	VerificationToken *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewUser builds a user for signup. The password must already be hashed.
func NewUser(email, passwordHash, name, referralCode string, timeProvider coreport.TimeProvider) (*User, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, errs.NewValidationError("password", "is required")
	}
	if referralCode == "" {
		return nil, errs.NewValidationError("referral_code", "is required")
	}

	now := timeProvider.Now()
	return &User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		ReferralCode: referralCode,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Balance returns the current balance in kobo
func (u *User) Balance() int64 {
	return u.balance
}

// GetBalance returns the balance as a string with 2 decimal places
func (u *User) GetBalance() string {
	return FormatAmount(u.balance)
}

// SetBalance updates the balance directly (for repositories hydrating rows)
func (u *User) SetBalance(balance int64) {
	u.balance = balance
}

// CanDeduct checks if the user has enough balance for a debit
func (u *User) CanDeduct(amount int64) bool {
	return amount >= 0 && u.balance >= amount
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail applies the basic format check used by every email input
func ValidateEmail(email string) error {
	if email == "" {
		return errs.NewValidationError("email", "is required")
	}
	if !emailPattern.MatchString(email) {
		return errs.NewValidationError("email", "is not a valid address")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errs.NewValidationError("email", "is not a valid address")
	}
	return nil
}

// ValidateName checks a display name
func ValidateName(name string) error {
	if name == "" {
		return errs.NewValidationError("name", "is required")
	}
	if len([]rune(name)) > MaxNameLength {
		return errs.NewValidationError("name", "is too long")
	}
	return nil
}

// ValidatePassword checks a plain-text password before hashing
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return errs.NewValidationError("password", "must be at least 8 characters")
	}
	if len(password) > MaxPasswordLength {
		return errs.NewValidationError("password", "must be at most 72 bytes")
	}
	return nil
}
