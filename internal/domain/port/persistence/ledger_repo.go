package persistence

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
)

// LedgerRepository is the append-only store of balance changes.
// It deliberately has no update or delete.
type LedgerRepository interface {
	// Append saves a new entry and sets its ID
	//
	// Possible errors:
	// - ErrDuplicateEntry: If the idempotency key was already used
	Append(ctx context.Context, entry *entity.LedgerEntry) error

	// GetByIdempotencyKey retrieves the entry recorded under key
	//
	// Possible errors:
	// - ErrNotFound: If no entry carries the key
	GetByIdempotencyKey(ctx context.Context, key string) (*entity.LedgerEntry, error)

	// LatestTaskEntrySince returns the newest task entry for (userID, taskID)
	// created at or after since
	//
	// Possible errors:
	// - ErrNotFound: If there is none
	LatestTaskEntrySince(ctx context.Context, userID, taskID uint64, since time.Time) (*entity.LedgerEntry, error)

	// LatestTaskEntriesSince returns, per task, the newest task entry of userID created at or after since
	LatestTaskEntriesSince(ctx context.Context, userID uint64, since time.Time) (map[uint64]*entity.LedgerEntry, error)

	// ExistsForTask reports whether any entry references the task
	ExistsForTask(ctx context.Context, taskID uint64) (bool, error)

	// List returns a page of entries, newest first, and the total match count
	List(ctx context.Context, filter LedgerFilter) ([]*entity.LedgerEntry, int64, error)
}
