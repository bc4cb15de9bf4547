package persistence

import (
	"context"
	"time"
)

// RevokedTokenRepository remembers session tokens ended before their expiry
type RevokedTokenRepository interface {
	// Revoke marks tokenID as unusable until expiresAt
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error

	// IsRevoked reports whether tokenID was revoked
	IsRevoked(ctx context.Context, tokenID string) (bool, error)

	// DeleteExpired drops revocations whose token has expired anyway
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
