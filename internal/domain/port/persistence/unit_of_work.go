package persistence

import (
	"context"
)

// UnitOfWork defines an interface for coordinating transaction operations
// across multiple repositories to maintain data consistency.
// Repositories obtained with a transactional context take part in that transaction;
// with a plain context they run on their own.
type UnitOfWork interface {
	// Begin starts a new transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context
	Rollback(ctx context.Context) error

	// Do runs fn in one transaction, committing when fn returns nil and rolling back
	// otherwise. The whole unit is retried on transient database errors, so fn must
	// not have side effects outside the database.
	Do(ctx context.Context, fn func(txCtx context.Context) error) error

	GetUserRepository(ctx context.Context) UserRepository
	GetTaskRepository(ctx context.Context) TaskRepository
	GetLedgerRepository(ctx context.Context) LedgerRepository
	GetReferralRepository(ctx context.Context) ReferralRepository
	GetPayoutRepository(ctx context.Context) PayoutRepository
	GetSettingRepository(ctx context.Context) SettingRepository
	GetContactRepository(ctx context.Context) ContactRepository
	GetAdminRepository(ctx context.Context) AdminRepository
}
