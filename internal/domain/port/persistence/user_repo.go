package persistence

import (
	"context"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
)

// UserRepository defines methods to interact with user accounts
type UserRepository interface {
	// Create saves a new user and sets its ID
	//
	// Possible errors:
	// - ErrDuplicateUser: If the email or referral code is taken
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, user *entity.User) error

	// GetByID retrieves a user by ID
	//
	// Possible errors:
	// - ErrUserNotFound: If user with specified ID doesn't exist
	GetByID(ctx context.Context, id uint64) (*entity.User, error)

	// GetByIDForUpdate retrieves a user and locks the row until the surrounding
	// transaction ends (where the database supports row locks)
	//
	// Possible errors:
	// - ErrUserNotFound: If user with specified ID doesn't exist
	GetByIDForUpdate(ctx context.Context, id uint64) (*entity.User, error)

	// GetByEmail retrieves a user by normalized email
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// GetByReferralCode retrieves the owner of a referral code
	GetByReferralCode(ctx context.Context, code string) (*entity.User, error)

	// GetByVerificationToken retrieves the user holding an email verification token
	GetByVerificationToken(ctx context.Context, token string) (*entity.User, error)

	// ReferralCodeExists reports whether a referral code is already assigned
	ReferralCodeExists(ctx context.Context, code string) (bool, error)

	// Update saves profile fields; the balance is never written here
	Update(ctx context.Context, user *entity.User) error

	// IncrementBalance atomically adds delta (> 0) to the balance and returns the new balance
	//
	// Possible errors:
	// - ErrUserNotFound: If user doesn't exist
	IncrementBalance(ctx context.Context, id uint64, delta int64) (int64, error)

	// DebitBalance atomically subtracts amount if the balance covers it and returns the new balance
	//
	// Possible errors:
	// - ErrUserNotFound: If user doesn't exist
	// - ErrInsufficientBalance: If the balance would become negative
	DebitBalance(ctx context.Context, id uint64, amount int64) (int64, error)

	// Delete removes a user permanently
	Delete(ctx context.Context, id uint64) error

	// List returns a page of users and the total match count
	List(ctx context.Context, filter UserFilter) ([]*entity.User, int64, error)

	// Totals returns the number of users and the sum of their balances
	Totals(ctx context.Context) (count int64, balance int64, err error)
}
