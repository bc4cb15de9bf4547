package admin_test

import (
	"context"
	"testing"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/usecase/admin"
	"github.com/amirhossein-jamali/daily-earn/internal/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminUseCase(t *testing.T, env *testkit.Env) *admin.AdminUseCase {
	return admin.NewAdminUseCase(env.UoW, env.Hasher(), env.Tokens(t), env.Clock, env.Logger)
}

func seedAdmin(t *testing.T, env *testkit.Env, service *admin.AdminUseCase, username, password string, role entity.Role) {
	t.Helper()
	hash, err := env.Hasher().Hash(password)
	require.NoError(t, err)
	require.NoError(t, service.EnsureAdmin(context.Background(), username, hash, role))
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	env := testkit.NewEnv(t)
	service := newAdminUseCase(t, env)
	seedAdmin(t, env, service, "Root", "correct-horse", entity.RoleAdmin)

	result, err := service.Login(ctx, "root", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, entity.RoleAdmin, result.Session.Role)
	require.NotNil(t, result.Admin)
	assert.Equal(t, "root", result.Admin.Username)
	assert.Nil(t, result.Profile)

	stored, err := env.UoW.GetAdminRepository(ctx).GetByUsername(ctx, "root")
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginAt)
	assert.True(t, stored.LastLoginAt.Equal(env.Clock.Now()))

	_, err = service.Login(ctx, "root", "wrong")
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)

	_, err = service.Login(ctx, "nobody", "correct-horse")
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
}

func TestLogin_DisabledAccount(t *testing.T) {
	ctx := context.Background()
	env := testkit.NewEnv(t)
	service := newAdminUseCase(t, env)
	seedAdmin(t, env, service, "helper", "support-pass", entity.RoleSupport)

	require.NoError(t, env.DB.Exec("UPDATE admins SET active = ? WHERE username = ?", false, "helper").Error)

	_, err := service.Login(ctx, "helper", "support-pass")
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	env := testkit.NewEnv(t)
	service := newAdminUseCase(t, env)
	seedAdmin(t, env, service, "root", "first-password", entity.RoleAdmin)

	// A second call keeps the existing account and its password
	seedAdmin(t, env, service, "ROOT", "second-password", entity.RoleAdmin)
	_, err := service.Login(ctx, "root", "first-password")
	require.NoError(t, err)

	testCases := []struct {
		name     string
		username string
		hash     string
		role     entity.Role
	}{
		{"Missing username", " ", "hash", entity.RoleAdmin},
		{"Missing hash", "ops", "", entity.RoleAdmin},
		{"User role", "ops", "hash", entity.RoleUser},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := service.EnsureAdmin(ctx, tc.username, tc.hash, tc.role)
			assert.True(t, errs.IsValidationError(err))
		})
	}
}

func TestUserManagement(t *testing.T) {
	ctx := context.Background()
	env := testkit.NewEnv(t)
	service := newAdminUseCase(t, env)
	ada := env.CreateUser(t, "ada@example.com", 250000)
	env.CreateUser(t, "grace@example.com", 0)

	users, total, err := service.ListUsers(ctx, persistence.UserFilter{Search: "ada"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, users, 1)
	assert.Equal(t, ada.ID, users[0].ID)

	detail, err := service.GetUser(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(250000), detail.User.Balance())
	assert.Empty(t, detail.RecentEntries)

	name := "  Ada Lovelace "
	verified := true
	updated, err := service.UpdateUser(ctx, ada.ID, usecase.UserUpdate{Name: &name, EmailVerified: &verified})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", updated.Name)
	assert.True(t, updated.EmailVerified)
	assert.Equal(t, int64(250000), env.Balance(t, ada.ID))

	_, err = service.UpdateUser(ctx, ada.ID, usecase.UserUpdate{})
	assert.True(t, errs.IsValidationError(err))

	empty := ""
	_, err = service.UpdateUser(ctx, ada.ID, usecase.UserUpdate{Name: &empty})
	assert.True(t, errs.IsValidationError(err))

	require.NoError(t, service.DeleteUser(ctx, ada.ID))
	_, err = service.GetUser(ctx, ada.ID)
	assert.ErrorIs(t, err, errs.ErrUserNotFound)
	assert.ErrorIs(t, service.DeleteUser(ctx, ada.ID), errs.ErrUserNotFound)
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	env := testkit.NewEnv(t)
	service := newAdminUseCase(t, env)
	user := env.CreateUser(t, "ada@example.com", 700000)
	env.CreateUser(t, "grace@example.com", 300000)
	env.CreateTask(t, "Watch an ad", 5000)
	env.CreateTask(t, "Follow us", 2000)

	now := env.Clock.Now()
	require.NoError(t, env.UoW.GetPayoutRepository(ctx).Create(ctx, &entity.Payout{
		UserID:    user.ID,
		Amount:    500000,
		Reference: "PO-DASHBOARD01",
		Status:    entity.PayoutStatusPending,
		Destination: entity.PayoutDestination{
			BankName:      "Test Bank",
			AccountNumber: "0123456789",
			AccountName:   "Ada",
		},
		RequestedAt: now,
		UpdatedAt:   now,
	}))
	require.NoError(t, env.UoW.GetContactRepository(ctx).Create(ctx, &entity.ContactMessage{
		Name:      "Ada",
		Email:     "ada@example.com",
		Subject:   "Hello",
		Body:      "Hi",
		Status:    entity.ContactStatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}))

	stats, err := service.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Users)
	assert.Equal(t, int64(1000000), stats.TotalBalance)
	assert.Equal(t, int64(2), stats.ActiveTasks)
	assert.Equal(t, int64(1), stats.PendingPayouts)
	assert.Equal(t, int64(500000), stats.PendingPayoutAmount)
	assert.Equal(t, int64(1), stats.NewContactMessages)
}
