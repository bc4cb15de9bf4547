package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/database/dbtest"
	loggeradapter "github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/logger"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	ctx   context.Context
	db    *gorm.DB
	clock *dbtest.Clock
}

func newFixture(t *testing.T) *fixture {
	clock := dbtest.NewClock()
	return &fixture{
		ctx:   context.Background(),
		db:    dbtest.Open(t, clock),
		clock: clock,
	}
}

func (f *fixture) users() *UserRepository {
	return NewUserRepository(f.db, f.clock, loggeradapter.NewNoopLogger())
}

func (f *fixture) createUser(t *testing.T, email, code string) *entity.User {
	t.Helper()
	user, err := entity.NewUser(email, "hash", "Ada", code, f.clock)
	require.NoError(t, err)
	require.NoError(t, f.users().Create(f.ctx, user))
	return user
}

func (f *fixture) createTask(t *testing.T, reward int64) *entity.Task {
	t.Helper()
	task := &entity.Task{
		Title:     "Watch ad",
		Reward:    reward,
		Category:  "ads",
		Status:    entity.TaskStatusActive,
		CreatedAt: f.clock.Now(),
		UpdatedAt: f.clock.Now(),
	}
	require.NoError(t, NewTaskRepository(f.db, loggeradapter.NewNoopLogger()).Create(f.ctx, task))
	return task
}

func TestUserRepository_CreateAndLookup(t *testing.T) {
	f := newFixture(t)
	repo := f.users()

	user := f.createUser(t, "Ada@Example.com", "ABCD2345")
	assert.NotZero(t, user.ID)

	byEmail, err := repo.GetByEmail(f.ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byCode, err := repo.GetByReferralCode(f.ctx, "abcd2345")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byCode.ID)

	exists, err := repo.ReferralCodeExists(f.ctx, "ABCD2345")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.GetByID(f.ctx, 999)
	assert.ErrorIs(t, err, errs.ErrUserNotFound)

	duplicate, err := entity.NewUser("ada@example.com", "hash", "Other", "ZZZZ9999", f.clock)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(f.ctx, duplicate), errs.ErrDuplicateUser)

	// A taken referral code is a retryable conflict, not a duplicate account
	sameCode, err := entity.NewUser("bob@example.com", "hash", "Bob", "ABCD2345", f.clock)
	require.NoError(t, err)
	err = repo.Create(f.ctx, sameCode)
	assert.ErrorIs(t, err, errs.ErrConcurrentUpdate)
	assert.NotErrorIs(t, err, errs.ErrDuplicateUser)
}

func TestUserRepository_BalanceChanges(t *testing.T) {
	f := newFixture(t)
	repo := f.users()
	user := f.createUser(t, "ada@example.com", "ABCD2345")

	balance, err := repo.IncrementBalance(f.ctx, user.ID, 5000)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), balance)

	balance, err = repo.DebitBalance(f.ctx, user.ID, 2000)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), balance)

	_, err = repo.DebitBalance(f.ctx, user.ID, 3001)
	assert.True(t, errs.IsInsufficientBalanceError(err))

	stored, err := repo.GetByID(f.ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), stored.Balance())

	_, err = repo.IncrementBalance(f.ctx, 999, 100)
	assert.ErrorIs(t, err, errs.ErrUserNotFound)

	_, err = repo.DebitBalance(f.ctx, 999, 100)
	assert.ErrorIs(t, err, errs.ErrUserNotFound)

	_, err = repo.IncrementBalance(f.ctx, user.ID, 0)
	assert.True(t, errs.IsValidationError(err))
}

func TestUserRepository_UpdateKeepsBalance(t *testing.T) {
	f := newFixture(t)
	repo := f.users()
	user := f.createUser(t, "ada@example.com", "ABCD2345")
	_, err := repo.IncrementBalance(f.ctx, user.ID, 700)
	require.NoError(t, err)

	// user still holds the stale zero balance
	user.Name = "Ada Lovelace"
	user.EmailVerified = true
	require.NoError(t, repo.Update(f.ctx, user))

	stored, err := repo.GetByID(f.ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", stored.Name)
	assert.True(t, stored.EmailVerified)
	assert.Equal(t, int64(700), stored.Balance())
}

func TestUserRepository_ListAndTotals(t *testing.T) {
	f := newFixture(t)
	repo := f.users()
	for i := 0; i < 3; i++ {
		user := f.createUser(t, fmt.Sprintf("user%d@example.com", i), fmt.Sprintf("CODE000%d", i))
		_, err := repo.IncrementBalance(f.ctx, user.ID, int64(100*(i+1)))
		require.NoError(t, err)
	}

	users, total, err := repo.List(f.ctx, persistence.UserFilter{Search: "user1", Page: entity.Page{Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, users, 1)
	assert.Equal(t, "user1@example.com", users[0].Email)

	users, total, err = repo.List(f.ctx, persistence.UserFilter{Page: entity.Page{Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, users, 2)

	count, balance, err := repo.Totals(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.Equal(t, int64(600), balance)

	require.NoError(t, repo.Delete(f.ctx, users[0].ID))
	assert.ErrorIs(t, repo.Delete(f.ctx, users[0].ID), errs.ErrUserNotFound)
}

func TestLedgerRepository_IdempotencyAndCooldownQueries(t *testing.T) {
	f := newFixture(t)
	ledger := NewLedgerRepository(f.db, loggeradapter.NewNoopLogger())
	user := f.createUser(t, "ada@example.com", "ABCD2345")
	taskA := f.createTask(t, 500)
	taskB := f.createTask(t, 300)

	first := entity.NewTaskEntry(user.ID, taskA, "key-1", f.clock)
	require.NoError(t, ledger.Append(f.ctx, first))
	assert.NotZero(t, first.ID)

	replayed, err := ledger.GetByIdempotencyKey(f.ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, replayed.ID)

	_, err = ledger.GetByIdempotencyKey(f.ctx, "missing")
	assert.True(t, errs.IsNotFoundError(err))

	err = ledger.Append(f.ctx, entity.NewTaskEntry(user.ID, taskA, "key-1", f.clock))
	assert.ErrorIs(t, err, errs.ErrDuplicateEntry)

	f.clock.Advance(5 * time.Second)
	second := entity.NewTaskEntry(user.ID, taskA, "", f.clock)
	require.NoError(t, ledger.Append(f.ctx, second))
	require.NoError(t, ledger.Append(f.ctx, entity.NewTaskEntry(user.ID, taskB, "", f.clock)))

	since := f.clock.Now().Add(-20 * time.Second)
	latest, err := ledger.LatestTaskEntrySince(f.ctx, user.ID, taskA.ID, since)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	_, err = ledger.LatestTaskEntrySince(f.ctx, user.ID, taskA.ID, f.clock.Now().Add(time.Second))
	assert.True(t, errs.IsNotFoundError(err))

	perTask, err := ledger.LatestTaskEntriesSince(f.ctx, user.ID, since)
	require.NoError(t, err)
	require.Len(t, perTask, 2)
	assert.Equal(t, second.ID, perTask[taskA.ID].ID)

	exists, err := ledger.ExistsForTask(f.ctx, taskB.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	entries, total, err := ledger.List(f.ctx, persistence.LedgerFilter{UserID: user.ID, Type: entity.EntryTypeTask})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, entries, 3)
}

func TestPayoutRepository_Lifecycle(t *testing.T) {
	f := newFixture(t)
	payouts := NewPayoutRepository(f.db, loggeradapter.NewNoopLogger())
	user := f.createUser(t, "ada@example.com", "ABCD2345")

	payout, err := entity.NewPayout(user.ID, 600000, entity.PayoutDestination{
		BankName:      "First Bank",
		AccountName:   "Ada",
		AccountNumber: "0123456789",
	}, "PO-1", f.clock)
	require.NoError(t, err)
	require.NoError(t, payouts.Create(f.ctx, payout))

	locked, err := payouts.GetByIDForUpdate(f.ctx, payout.ID)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", locked.Destination.AccountNumber)
	assert.Equal(t, "bank", locked.Destination.Method)

	count, amount, err := payouts.PendingTotals(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, int64(600000), amount)

	require.NoError(t, locked.TransitionTo(entity.PayoutStatusApproved, "ok", f.clock))
	require.NoError(t, payouts.UpdateStatus(f.ctx, locked))

	stored, err := payouts.GetByID(f.ctx, payout.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PayoutStatusApproved, stored.Status)
	assert.NotNil(t, stored.ProcessedAt)

	list, total, err := payouts.List(f.ctx, persistence.PayoutFilter{Status: entity.PayoutStatusPending})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)

	_, err = payouts.GetByID(f.ctx, 999)
	assert.ErrorIs(t, err, errs.ErrPayoutNotFound)
}

func TestPayoutRepository_DestinationStoredAsJSON(t *testing.T) {
	f := newFixture(t)
	payouts := NewPayoutRepository(f.db, loggeradapter.NewNoopLogger())
	user := f.createUser(t, "ada@example.com", "ABCD2345")

	payout, err := entity.NewPayout(user.ID, 600000, entity.PayoutDestination{
		Method:  "mobile-money",
		Details: map[string]string{"phone": "08012345678", "provider": "opay"},
	}, "PO-2", f.clock)
	require.NoError(t, err)
	require.NoError(t, payouts.Create(f.ctx, payout))

	var raw string
	require.NoError(t, f.db.Raw("SELECT destination FROM payouts WHERE id = ?", payout.ID).Scan(&raw).Error)
	assert.JSONEq(t, `{"method":"mobile-money","details":{"phone":"08012345678","provider":"opay"}}`, raw)

	listed, total, err := payouts.List(f.ctx, persistence.PayoutFilter{UserID: user.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, listed, 1)
	assert.Equal(t, payout.Destination, listed[0].Destination)
}

func TestSettingRepository_Upsert(t *testing.T) {
	f := newFixture(t)
	settings := NewSettingRepository(f.db, loggeradapter.NewNoopLogger())

	// defaults are seeded by the migrations
	stored, err := settings.GetAll(f.ctx)
	require.NoError(t, err)
	require.Contains(t, stored, string(entity.SettingTaskCooldown))
	assert.Equal(t, "20", stored[string(entity.SettingTaskCooldown)].Value)

	require.NoError(t, settings.Upsert(f.ctx, &entity.Setting{
		Key:       string(entity.SettingTaskCooldown),
		Value:     "45",
		UpdatedAt: f.clock.Now(),
	}))

	stored, err = settings.GetAll(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, "45", stored[string(entity.SettingTaskCooldown)].Value)
}

func TestReferralRepository_OneReferralPerUser(t *testing.T) {
	f := newFixture(t)
	referrals := NewReferralRepository(f.db, loggeradapter.NewNoopLogger())
	referrer := f.createUser(t, "ref@example.com", "REFR2345")
	referred := f.createUser(t, "new@example.com", "NEWW2345")

	referral := &entity.Referral{ReferrerID: referrer.ID, ReferredID: referred.ID, Reward: 1000, CreatedAt: f.clock.Now()}
	require.NoError(t, referrals.Create(f.ctx, referral))

	again := &entity.Referral{ReferrerID: referrer.ID, ReferredID: referred.ID, Reward: 1000, CreatedAt: f.clock.Now()}
	assert.ErrorIs(t, referrals.Create(f.ctx, again), errs.ErrDuplicateEntry)

	list, total, err := referrals.ListByReferrer(f.ctx, referrer.ID, entity.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, referred.ID, list[0].ReferredID)
}

func TestContactRepository(t *testing.T) {
	f := newFixture(t)
	contacts := NewContactRepository(f.db, loggeradapter.NewNoopLogger())

	message, err := entity.NewContactMessage("Ada", "ada@example.com", "Payout", "Where is my money?", nil, f.clock)
	require.NoError(t, err)
	require.NoError(t, contacts.Create(f.ctx, message))

	count, err := contacts.CountByStatus(f.ctx, entity.ContactStatusNew)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	message.Status = entity.ContactStatusResolved
	message.Respond("Sent today", f.clock)
	require.NoError(t, contacts.Update(f.ctx, message))

	stored, err := contacts.GetByID(f.ctx, message.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ContactStatusResolved, stored.Status)
	assert.Equal(t, "Sent today", stored.Response)
	require.NotNil(t, stored.RespondedAt)

	_, err = contacts.GetByID(f.ctx, 42)
	assert.ErrorIs(t, err, errs.ErrContactNotFound)
}

func TestAdminRepository(t *testing.T) {
	f := newFixture(t)
	admins := NewAdminRepository(f.db, loggeradapter.NewNoopLogger())

	admin := &entity.AdminAccount{
		Username:     " Root ",
		PasswordHash: "hash",
		Role:         entity.RoleAdmin,
		Active:       true,
		CreatedAt:    f.clock.Now(),
		UpdatedAt:    f.clock.Now(),
	}
	require.NoError(t, admins.Create(f.ctx, admin))
	assert.Equal(t, "root", admin.Username)

	found, err := admins.GetByUsername(f.ctx, "ROOT")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, found.ID)

	require.NoError(t, admins.UpdateLastLogin(f.ctx, admin.ID, f.clock.Now()))
	found, err = admins.GetByID(f.ctx, admin.ID)
	require.NoError(t, err)
	require.NotNil(t, found.LastLoginAt)

	duplicate := *admin
	duplicate.ID = 0
	assert.ErrorIs(t, admins.Create(f.ctx, &duplicate), errs.ErrDuplicateUser)
}

func TestRevokedTokenRepository(t *testing.T) {
	f := newFixture(t)
	tokens := NewRevokedTokenRepository(f.db, f.clock, loggeradapter.NewNoopLogger())

	expiresAt := f.clock.Now().Add(time.Hour)
	require.NoError(t, tokens.Revoke(f.ctx, "jti-1", expiresAt))
	require.NoError(t, tokens.Revoke(f.ctx, "jti-1", expiresAt))

	revoked, err := tokens.IsRevoked(f.ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = tokens.IsRevoked(f.ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	deleted, err := tokens.DeleteExpired(f.ctx, f.clock.Now())
	require.NoError(t, err)
	assert.Zero(t, deleted)

	deleted, err = tokens.DeleteExpired(f.ctx, expiresAt.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestErrorClassifier(t *testing.T) {
	classifier := NewErrorClassifier()

	testCases := []struct {
		name     string
		err      error
		expected ErrorType
	}{
		{"PgUnique", &pgconn.PgError{Code: "23505"}, DuplicateKeyError},
		{"PgSerialization", &pgconn.PgError{Code: "40001"}, LockError},
		{"PgDeadlock", fmt.Errorf("exec: %w", &pgconn.PgError{Code: "40P01"}), LockError},
		{"PgConnection", &pgconn.PgError{Code: "08006"}, ConnectionError},
		{"PgCheck", &pgconn.PgError{Code: "23514"}, ConstraintError},
		{"MySQLDuplicate", &mysql.MySQLError{Number: 1062}, DuplicateKeyError},
		{"MySQLDeadlock", &mysql.MySQLError{Number: 1213}, LockError},
		{"SQLiteUnique", errors.New("UNIQUE constraint failed: users.email"), DuplicateKeyError},
		{"SQLiteBusy", errors.New("database is locked"), LockError},
		{"SQLiteCheck", errors.New("CHECK constraint failed: chk_users_balance_non_negative"), ConstraintError},
		{"BrokenPipe", errors.New("write: broken pipe"), TransientError},
		{"Other", errors.New("syntax error"), ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, classifier.Classify(tc.err))
		})
	}

	assert.False(t, classifier.IsTransientError(&pgconn.PgError{Code: "23505"}))

	assert.True(t, classifier.IsUniqueViolationOn(&pgconn.PgError{Code: "23505", ConstraintName: "idx_users_referral_code"}, "referral_code"))
	assert.False(t, classifier.IsUniqueViolationOn(&pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}, "referral_code"))
	assert.True(t, classifier.IsUniqueViolationOn(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'AB' for key 'users.idx_users_referral_code'"}, "referral_code"))
	assert.True(t, classifier.IsUniqueViolationOn(errors.New("UNIQUE constraint failed: users.referral_code"), "referral_code"))
	assert.False(t, classifier.IsUniqueViolationOn(errors.New("UNIQUE constraint failed: users.email"), "referral_code"))
	assert.False(t, classifier.IsUniqueViolationOn(errors.New("database is locked"), "referral_code"))
}
