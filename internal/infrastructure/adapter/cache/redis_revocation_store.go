package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/persistence"
	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "session:revoked:"

// RedisRevocationStore keeps revoked session ids in Redis with a TTL matching the token expiry.
// When Redis fails, reads and writes fall through to the database store. Once a
// revocation has gone to the database, Redis misses also consult the database
// until that token would have expired.
type RedisRevocationStore struct {
	client       redis.UniversalClient
	fallback     persistence.RevokedTokenRepository
	timeProvider coreport.TimeProvider
	logger       coreport.Logger

	mu            sync.Mutex
	fallbackUntil time.Time
}

// NewRedisRevocationStore creates a store; fallback may be nil
func NewRedisRevocationStore(
	client redis.UniversalClient,
	fallback persistence.RevokedTokenRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *RedisRevocationStore {
	return &RedisRevocationStore{
		client:       client,
		fallback:     fallback,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// Revoke marks tokenID as unusable until expiresAt
func (s *RedisRevocationStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := s.timeProvider.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	err := s.client.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err()
	if err == nil {
		return nil
	}

	s.logger.Warn("Redis revocation write failed", map[string]any{
		"error":      err.Error(),
		"request_id": coreport.RequestIDFromContext(ctx),
	})
	if s.fallback == nil {
		return fmt.Errorf("revoking session: %w", err)
	}
	if err := s.fallback.Revoke(ctx, tokenID, expiresAt); err != nil {
		return err
	}
	s.extendFallbackWindow(expiresAt)
	return nil
}

func (s *RedisRevocationStore) extendFallbackWindow(until time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if until.After(s.fallbackUntil) {
		s.fallbackUntil = until
	}
}

// fallbackHoldsRevocations reports whether the database may still hold a live
// revocation that Redis never saw
func (s *RedisRevocationStore) fallbackHoldsRevocations() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeProvider.Now().Before(s.fallbackUntil)
}

// IsRevoked reports whether tokenID was revoked
func (s *RedisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err == nil {
		if n == 0 && s.fallback != nil && s.fallbackHoldsRevocations() {
			return s.fallback.IsRevoked(ctx, tokenID)
		}
		return n > 0, nil
	}

	s.logger.Warn("Redis revocation lookup failed", map[string]any{
		"error":      err.Error(),
		"request_id": coreport.RequestIDFromContext(ctx),
	})
	if s.fallback == nil {
		return false, fmt.Errorf("checking session revocation: %w", err)
	}
	return s.fallback.IsRevoked(ctx, tokenID)
}

// DeleteExpired clears the database fallback; Redis expires its keys itself
func (s *RedisRevocationStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if s.fallback == nil {
		return 0, nil
	}
	return s.fallback.DeleteExpired(ctx, now)
}
