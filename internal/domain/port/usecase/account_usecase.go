package usecase

import (
	"context"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
)

// SignupInput is a new account request
type SignupInput struct {
	Email        string
	Password     string
	Name         string
	ReferralCode string
}

// AuthResult is a freshly issued session. Profile is set for users, Admin for staff.
type AuthResult struct {
	Token   string
	Session *entity.Session
	Profile *entity.Profile
	Admin   *entity.AdminAccount
}

// SignupResult is the outcome of a signup
type SignupResult struct {
	AuthResult
	ReferralApplied bool
}

// AccountUseCase defines user account operations
type AccountUseCase interface {
	// Signup creates the account and, for a known referral code, credits the referrer.
	// Unknown referral codes are ignored.
	Signup(ctx context.Context, input SignupInput) (*SignupResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	VerifyEmail(ctx context.Context, token string) error
	Profile(ctx context.Context, userID uint64) (*entity.Profile, error)
	ListLedger(ctx context.Context, userID uint64, entryType entity.EntryType, page entity.Page) ([]*entity.LedgerEntry, int64, error)
	ListReferrals(ctx context.Context, userID uint64, page entity.Page) ([]*entity.Referral, int64, error)
}

// SessionUseCase verifies and ends sessions for every role
type SessionUseCase interface {
	// Authenticate verifies token and checks it was not revoked
	Authenticate(ctx context.Context, token string) (*entity.Session, error)
	Logout(ctx context.Context, session *entity.Session) error
}
