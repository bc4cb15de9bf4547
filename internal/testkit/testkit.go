// Package testkit wires use cases to a migrated in-memory database for workflow tests.
package testkit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/database/dbtest"
	loggeradapter "github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/mail"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/repository"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/security"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TokenSecret signs session tokens in tests
const TokenSecret = "test-secret-that-is-at-least-32-bytes-long"

// Env is a database, clock and unit of work shared by one test
type Env struct {
	DB     *gorm.DB
	Clock  *dbtest.Clock
	UoW    *database.UnitOfWork
	Logger coreport.Logger
}

// NewEnv opens a fresh database for t
func NewEnv(t *testing.T) *Env {
	t.Helper()
	clock := dbtest.NewClock()
	return newEnv(dbtest.Open(t, clock), clock)
}

// NewConcurrentEnv opens a file database served by several connections, so
// goroutines run their transactions side by side. Lock conflicts are retried
// more often than in production since the test clock makes backoff free.
func NewConcurrentEnv(t *testing.T) *Env {
	t.Helper()
	clock := dbtest.NewClock()
	env := newEnv(dbtest.OpenFile(t, clock), clock)
	retry := database.DefaultRetryConfig()
	retry.MaxRetries = 4 * dbtest.MaxFileConns
	env.UoW.WithRetryConfig(retry)
	return env
}

func newEnv(db *gorm.DB, clock *dbtest.Clock) *Env {
	logger := loggeradapter.NewNoopLogger()
	return &Env{
		DB:     db,
		Clock:  clock,
		UoW:    database.NewUnitOfWork(db, logger, clock, nil),
		Logger: logger,
	}
}

// RevokedTokens returns the database revocation store
func (e *Env) RevokedTokens() *repository.RevokedTokenRepository {
	return repository.NewRevokedTokenRepository(e.DB, e.Clock, e.Logger)
}

// Hasher returns a bcrypt hasher at the lowest cost
func (e *Env) Hasher() *security.BcryptHasher {
	return security.NewBcryptHasher(bcrypt.MinCost)
}

// Tokens returns a JWT issuer on the test clock with a one hour lifetime
func (e *Env) Tokens(t *testing.T) *security.JWTIssuer {
	t.Helper()
	issuer, err := security.NewJWTIssuer(TokenSecret, "daily-earn-test", time.Hour, e.Clock)
	require.NoError(t, err)
	return issuer
}

// Mailer returns a mailer that keeps sent email in memory
func (e *Env) Mailer() *mail.LogMailer {
	return mail.NewLogMailer(e.Logger)
}

// CreateUser stores a user with a derived referral code and the given balance in kobo
func (e *Env) CreateUser(t *testing.T, email string, balance int64) *entity.User {
	t.Helper()
	ctx := context.Background()
	code := fmt.Sprintf("TEST%04d", e.userCount(t)+1)

	user, err := entity.NewUser(email, "not-a-bcrypt-hash", "Test User", code, e.Clock)
	require.NoError(t, err)
	users := e.UoW.GetUserRepository(ctx)
	require.NoError(t, users.Create(ctx, user))
	if balance > 0 {
		newBalance, err := users.IncrementBalance(ctx, user.ID, balance)
		require.NoError(t, err)
		user.SetBalance(newBalance)
	}
	return user
}

// CreateTask stores an active task paying reward kobo
func (e *Env) CreateTask(t *testing.T, title string, reward int64) *entity.Task {
	t.Helper()
	ctx := context.Background()
	task := &entity.Task{
		Title:     title,
		Reward:    reward,
		Category:  "general",
		Status:    entity.TaskStatusActive,
		CreatedAt: e.Clock.Now(),
		UpdatedAt: e.Clock.Now(),
	}
	require.NoError(t, e.UoW.GetTaskRepository(ctx).Create(ctx, task))
	return task
}

// SetSetting overwrites a stored setting without validation
func (e *Env) SetSetting(t *testing.T, key entity.SettingKey, value string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.UoW.GetSettingRepository(ctx).Upsert(ctx, &entity.Setting{
		Key:       string(key),
		Value:     value,
		UpdatedAt: e.Clock.Now(),
	}))
}

// Balance reads the stored balance of userID
func (e *Env) Balance(t *testing.T, userID uint64) int64 {
	t.Helper()
	ctx := context.Background()
	user, err := e.UoW.GetUserRepository(ctx).GetByID(ctx, userID)
	require.NoError(t, err)
	return user.Balance()
}

// Entries returns every ledger entry of userID, newest first
func (e *Env) Entries(t *testing.T, userID uint64) []*entity.LedgerEntry {
	t.Helper()
	ctx := context.Background()
	entries, _, err := e.UoW.GetLedgerRepository(ctx).List(ctx, persistence.LedgerFilter{
		UserID: userID,
		Page:   entity.Page{Limit: entity.MaxPageLimit},
	})
	require.NoError(t, err)
	return entries
}

func (e *Env) userCount(t *testing.T) int {
	t.Helper()
	count, _, err := e.UoW.GetUserRepository(context.Background()).Totals(context.Background())
	require.NoError(t, err)
	return int(count)
}
