package account_test

import (
	"context"
	"strings"
	"testing"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/usecase/account"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/usecase/notification"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/usecase/settings"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/mail"
	"github.com/amirhossein-jamali/daily-earn/internal/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const verifyURL = "https://dailyearn.test/verify-email"

type fixture struct {
	env     *testkit.Env
	mailer  *mail.LogMailer
	service *account.AccountUseCase
}

func newFixture(t *testing.T) *fixture {
	env := testkit.NewEnv(t)
	mailer := env.Mailer()
	service := account.NewAccountUseCase(
		env.UoW,
		settings.NewSettingsUseCase(env.UoW, env.Clock, env.Logger),
		notification.NewNotificationUseCase(mailer, env.Logger),
		env.Hasher(),
		env.Tokens(t),
		verifyURL,
		env.Clock,
		env.Logger,
	)
	return &fixture{env: env, mailer: mailer, service: service}
}

func (f *fixture) signup(t *testing.T, email, referralCode string) *usecase.SignupResult {
	t.Helper()
	result, err := f.service.Signup(context.Background(), usecase.SignupInput{
		Email:        email,
		Password:     "correct horse",
		Name:         "Ada Lovelace",
		ReferralCode: referralCode,
	})
	require.NoError(t, err)
	return result
}

func TestSignup_WithoutReferral(t *testing.T) {
	f := newFixture(t)

	result := f.signup(t, " Ada@Example.com ", "")

	assert.False(t, result.ReferralApplied)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, entity.RoleUser, result.Session.Role)
	assert.Equal(t, result.Profile.ID, result.Session.SubjectID)
	assert.Equal(t, "ada@example.com", result.Profile.Email)
	assert.Equal(t, "0.00", result.Profile.Balance)
	assert.False(t, result.Profile.EmailVerified)
	assert.Len(t, result.Profile.ReferralCode, entity.ReferralCodeLength)
	assert.Regexp(t, `^[A-Z0-9]{8}$`, result.Profile.ReferralCode)

	sent := f.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "ada@example.com", sent[0].To)
	assert.Contains(t, sent[0].Body, verifyURL+"?token=")
	assert.Contains(t, sent[0].Body, result.Profile.ReferralCode)
}

func TestSignup_ValidReferralCreditsReferrer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	referrer := f.signup(t, "ref@example.com", "")

	result := f.signup(t, "new@example.com", "  "+strings.ToLower(referrer.Profile.ReferralCode))
	assert.True(t, result.ReferralApplied)

	// default referral reward is 10 naira
	assert.Equal(t, int64(1000), f.env.Balance(t, referrer.Profile.ID))
	assert.Equal(t, int64(0), f.env.Balance(t, result.Profile.ID))

	entries := f.env.Entries(t, referrer.Profile.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.EntryTypeReferral, entries[0].Type)
	assert.Equal(t, int64(1000), entries[0].Amount)
	assert.Contains(t, entries[0].Description, "new@example.com")

	referrals, total, err := f.service.ListReferrals(ctx, referrer.Profile.ID, entity.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, referrals, 1)
	assert.Equal(t, result.Profile.ID, referrals[0].ReferredID)
	assert.Equal(t, int64(1000), referrals[0].Reward)

	newUser, err := f.env.UoW.GetUserRepository(ctx).GetByID(ctx, result.Profile.ID)
	require.NoError(t, err)
	require.NotNil(t, newUser.ReferredBy)
	assert.Equal(t, referrer.Profile.ID, *newUser.ReferredBy)
}

func TestSignup_UnknownReferralIsIgnored(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	existing := f.env.CreateUser(t, "old@example.com", 0)

	result := f.signup(t, "new@example.com", "NOSUCHCD")

	assert.False(t, result.ReferralApplied)
	assert.Equal(t, int64(0), f.env.Balance(t, existing.ID))
	assert.Empty(t, f.env.Entries(t, existing.ID))

	user, err := f.env.UoW.GetUserRepository(ctx).GetByID(ctx, result.Profile.ID)
	require.NoError(t, err)
	assert.Nil(t, user.ReferredBy)
}

func TestSignup_ZeroReferralRewardRecordsReferralOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.env.SetSetting(t, entity.SettingReferralReward, "0")
	referrer := f.signup(t, "ref@example.com", "")

	result := f.signup(t, "new@example.com", referrer.Profile.ReferralCode)

	assert.True(t, result.ReferralApplied)
	assert.Equal(t, int64(0), f.env.Balance(t, referrer.Profile.ID))
	assert.Empty(t, f.env.Entries(t, referrer.Profile.ID))
	_, total, err := f.service.ListReferrals(ctx, referrer.Profile.ID, entity.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

// staleCodeCheck hides existing referral codes from the pre-insert check, as
// when another signup commits the same code right after the check ran
type staleCodeCheck struct {
	persistence.UnitOfWork
}

func (u staleCodeCheck) GetUserRepository(ctx context.Context) persistence.UserRepository {
	return staleUsers{UserRepository: u.UnitOfWork.GetUserRepository(ctx)}
}

type staleUsers struct {
	persistence.UserRepository
}

func (staleUsers) ReferralCodeExists(context.Context, string) (bool, error) {
	return false, nil
}

func TestSignup_RetriesReferralCodeTakenConcurrently(t *testing.T) {
	env := testkit.NewEnv(t)
	taken := env.CreateUser(t, "ada@example.com", 0)
	service := account.NewAccountUseCase(
		staleCodeCheck{UnitOfWork: env.UoW},
		settings.NewSettingsUseCase(env.UoW, env.Clock, env.Logger),
		notification.NewNotificationUseCase(env.Mailer(), env.Logger),
		env.Hasher(),
		env.Tokens(t),
		verifyURL,
		env.Clock,
		env.Logger,
	)

	codes := []string{taken.ReferralCode, "FRESH234"}
	draws := 0
	account.SetCodeSource(service, func() (string, error) {
		code := codes[min(draws, len(codes)-1)]
		draws++
		return code, nil
	})

	result, err := service.Signup(context.Background(), usecase.SignupInput{
		Email:    "bob@example.com",
		Password: "correct horse",
		Name:     "Bob",
	})
	require.NoError(t, err)
	assert.Equal(t, "FRESH234", result.Profile.ReferralCode)
	assert.Equal(t, 2, draws)
	assert.Equal(t, taken.ReferralCode, mustUser(t, env, taken.ID).ReferralCode)
}

func mustUser(t *testing.T, env *testkit.Env, id uint64) *entity.User {
	t.Helper()
	ctx := context.Background()
	user, err := env.UoW.GetUserRepository(ctx).GetByID(ctx, id)
	require.NoError(t, err)
	return user
}

func TestSignup_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signup(t, "ada@example.com", "")

	testCases := []struct {
		name  string
		input usecase.SignupInput
		check func(t *testing.T, err error)
	}{
		{
			name:  "Duplicate email",
			input: usecase.SignupInput{Email: "ADA@example.com", Password: "long enough", Name: "Ada"},
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, errs.ErrDuplicateUser) },
		},
		{
			name:  "Short password",
			input: usecase.SignupInput{Email: "bob@example.com", Password: "short", Name: "Bob"},
			check: func(t *testing.T, err error) { assert.True(t, errs.IsValidationError(err)) },
		},
		{
			name:  "Bad email",
			input: usecase.SignupInput{Email: "bob-at-example", Password: "long enough", Name: "Bob"},
			check: func(t *testing.T, err error) { assert.True(t, errs.IsValidationError(err)) },
		},
		{
			name:  "Missing name",
			input: usecase.SignupInput{Email: "bob@example.com", Password: "long enough", Name: "  "},
			check: func(t *testing.T, err error) { assert.True(t, errs.IsValidationError(err)) },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.Signup(ctx, tc.input)
			require.Error(t, err)
			tc.check(t, err)
		})
	}

	users, total, err := f.env.UoW.GetUserRepository(ctx).Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), users)
	assert.Equal(t, int64(0), total)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	signedUp := f.signup(t, "ada@example.com", "")

	result, err := f.service.Login(ctx, "ADA@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, signedUp.Profile.ID, result.Session.SubjectID)
	assert.NotEmpty(t, result.Token)

	_, err = f.service.Login(ctx, "ada@example.com", "wrong horse")
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)

	_, err = f.service.Login(ctx, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
}

func TestVerifyEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	signedUp := f.signup(t, "ada@example.com", "")

	user, err := f.env.UoW.GetUserRepository(ctx).GetByID(ctx, signedUp.Profile.ID)
	require.NoError(t, err)
	require.NotNil(t, user.VerificationToken)
	token := *user.VerificationToken

	require.NoError(t, f.service.VerifyEmail(ctx, token))

	profile, err := f.service.Profile(ctx, signedUp.Profile.ID)
	require.NoError(t, err)
	assert.True(t, profile.EmailVerified)

	err = f.service.VerifyEmail(ctx, token)
	assert.True(t, errs.IsValidationError(err), "a token works once")

	err = f.service.VerifyEmail(ctx, " ")
	assert.True(t, errs.IsValidationError(err))
}

func TestProfileAndLedger(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	referrer := f.signup(t, "ref@example.com", "")
	f.signup(t, "one@example.com", referrer.Profile.ReferralCode)
	f.signup(t, "two@example.com", referrer.Profile.ReferralCode)

	profile, err := f.service.Profile(ctx, referrer.Profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "20.00", profile.Balance)

	entries, total, err := f.service.ListLedger(ctx, referrer.Profile.ID, entity.EntryTypeReferral, entity.Page{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, entries, 1)

	entries, total, err = f.service.ListLedger(ctx, referrer.Profile.ID, entity.EntryTypeTask, entity.Page{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, entries)

	_, _, err = f.service.ListLedger(ctx, referrer.Profile.ID, "bonus", entity.Page{})
	assert.True(t, errs.IsValidationError(err))

	_, err = f.service.Profile(ctx, 9999)
	assert.ErrorIs(t, err, errs.ErrUserNotFound)
}
