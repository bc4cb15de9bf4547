package task_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/usecase/settings"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/usecase/task"
	"github.com/amirhossein-jamali/daily-earn/internal/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTaskUseCase(env *testkit.Env) *task.TaskUseCase {
	return task.NewTaskUseCase(env.UoW, settings.NewSettingsUseCase(env.UoW, env.Clock, env.Logger), env.Clock, env.Logger)
}

func taskEntries(entries []*entity.LedgerEntry) []*entity.LedgerEntry {
	var out []*entity.LedgerEntry
	for _, e := range entries {
		if e.Type == entity.EntryTypeTask {
			out = append(out, e)
		}
	}
	return out
}

func TestCompleteTask_CooldownScenario(t *testing.T) {
	ctx := context.Background()
	env := testkit.NewEnv(t)
	service := newTaskUseCase(env)
	user := env.CreateUser(t, "ada@example.com", 0)
	adTask := env.CreateTask(t, "Watch ad A", 5000)

	completion, err := service.CompleteTask(ctx, user.ID, adTask.ID, "")
	require.NoError(t, err)
	assert.False(t, completion.Replayed)
	assert.Equal(t, int64(5000), completion.NewBalance)
	assert.Equal(t, int64(5000), env.Balance(t, user.ID))
	require.Len(t, taskEntries(env.Entries(t, user.ID)), 1)

	// Immediate retry
	env.Clock.Advance(3 * time.Second)
	_, err = service.CompleteTask(ctx, user.ID, adTask.ID, "")
	require.Error(t, err)
	assert.True(t, errs.IsCooldownActiveError(err))
	remaining, ok := errs.RemainingCooldown(err)
	require.True(t, ok)
	assert.Equal(t, int64(17), remaining)
	assert.LessOrEqual(t, remaining, int64(20))
	assert.Equal(t, int64(5000), env.Balance(t, user.ID))

	env.Clock.Advance(18 * time.Second)
	completion, err = service.CompleteTask(ctx, user.ID, adTask.ID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), completion.NewBalance)
	assert.Equal(t, int64(10000), env.Balance(t, user.ID))
	assert.Len(t, taskEntries(env.Entries(t, user.ID)), 2)
}

func TestCompleteTask_CooldownIsPerTask(t *testing.T) {
	ctx := context.Background()
	env := testkit.NewEnv(t)
	service := newTaskUseCase(env)
	user := env.CreateUser(t, "ada@example.com", 0)
	first := env.CreateTask(t, "Watch ad A", 5000)
	second := env.CreateTask(t, "Watch ad B", 2500)

	_, err := service.CompleteTask(ctx, user.ID, first.ID, "")
	require.NoError(t, err)
	_, err = service.CompleteTask(ctx, user.ID, second.ID, "")
	require.NoError(t, err)

	assert.Equal(t, int64(7500), env.Balance(t, user.ID))
}

func TestCompleteTask_UsesConfiguredCooldown(t *testing.T) {
	ctx := context.Background()
	env := testkit.NewEnv(t)
	service := newTaskUseCase(env)
	env.SetSetting(t, entity.SettingTaskCooldown, "60")
	user := env.CreateUser(t, "ada@example.com", 0)
	adTask := env.CreateTask(t, "Watch ad A", 5000)

	_, err := service.CompleteTask(ctx, user.ID, adTask.ID, "")
	require.NoError(t, err)

	env.Clock.Advance(30 * time.Second)
	_, err = service.CompleteTask(ctx, user.ID, adTask.ID, "")
	remaining, ok := errs.RemainingCooldown(err)
	require.True(t, ok)
	assert.Equal(t, int64(30), remaining)

	env.Clock.Advance(31 * time.Second)
	_, err = service.CompleteTask(ctx, user.ID, adTask.ID, "")
	require.NoError(t, err)
}

func TestCompleteTask_IdempotencyKey(t *testing.T) {
	ctx := context.Background()

	t.Run("Replay returns the first completion", func(t *testing.T) {
		env := testkit.NewEnv(t)
		service := newTaskUseCase(env)
		user := env.CreateUser(t, "ada@example.com", 0)
		adTask := env.CreateTask(t, "Watch ad A", 5000)

		first, err := service.CompleteTask(ctx, user.ID, adTask.ID, "tap-1")
		require.NoError(t, err)

		again, err := service.CompleteTask(ctx, user.ID, adTask.ID, " tap-1 ")
		require.NoError(t, err)
		assert.True(t, again.Replayed)
		assert.Equal(t, first.Entry.ID, again.Entry.ID)
		assert.Equal(t, int64(5000), again.NewBalance)
		assert.Equal(t, int64(5000), env.Balance(t, user.ID))
		assert.Len(t, env.Entries(t, user.ID), 1)
	})

	t.Run("Key reused by another user", func(t *testing.T) {
		env := testkit.NewEnv(t)
		service := newTaskUseCase(env)
		ada := env.CreateUser(t, "ada@example.com", 0)
		bob := env.CreateUser(t, "bob@example.com", 0)
		adTask := env.CreateTask(t, "Watch ad A", 5000)

		_, err := service.CompleteTask(ctx, ada.ID, adTask.ID, "shared")
		require.NoError(t, err)

		_, err = service.CompleteTask(ctx, bob.ID, adTask.ID, "shared")
		require.Error(t, err)
		assert.True(t, errs.IsValidationError(err))
		assert.Equal(t, int64(0), env.Balance(t, bob.ID))
	})

	t.Run("Key reused for another task", func(t *testing.T) {
		env := testkit.NewEnv(t)
		service := newTaskUseCase(env)
		user := env.CreateUser(t, "ada@example.com", 0)
		first := env.CreateTask(t, "Watch ad A", 5000)
		second := env.CreateTask(t, "Watch ad B", 5000)

		_, err := service.CompleteTask(ctx, user.ID, first.ID, "tap-1")
		require.NoError(t, err)

		_, err = service.CompleteTask(ctx, user.ID, second.ID, "tap-1")
		assert.True(t, errs.IsValidationError(err))
	})

	t.Run("Key too long", func(t *testing.T) {
		env := testkit.NewEnv(t)
		service := newTaskUseCase(env)
		user := env.CreateUser(t, "ada@example.com", 0)
		adTask := env.CreateTask(t, "Watch ad A", 5000)

		long := make([]byte, task.MaxIdempotencyKeyLength+1)
		for i := range long {
			long[i] = 'k'
		}
		_, err := service.CompleteTask(ctx, user.ID, adTask.ID, string(long))
		assert.True(t, errs.IsValidationError(err))
	})
}

func TestCompleteTask_ConcurrentDuplicatesCreditOnce(t *testing.T) {
	const workers = 8

	testCases := []struct {
		name string
		key  func(i int) string
	}{
		{"No key", func(int) string { return "" }},
		{"Distinct keys", func(i int) string { return fmt.Sprintf("tap-%d", i) }},
		{"Same key", func(int) string { return "tap" }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			env := testkit.NewConcurrentEnv(t)
			// Retry backoff advances the test clock
			env.SetSetting(t, entity.SettingTaskCooldown, "3600")
			service := newTaskUseCase(env)
			user := env.CreateUser(t, "ada@example.com", 0)
			adTask := env.CreateTask(t, "Watch ad A", 5000)

			var (
				wg       sync.WaitGroup
				mu       sync.Mutex
				credited int
				replayed int
				failures []error
			)
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					completion, err := service.CompleteTask(ctx, user.ID, adTask.ID, tc.key(i))
					mu.Lock()
					defer mu.Unlock()
					switch {
					case err != nil:
						failures = append(failures, err)
					case completion.Replayed:
						replayed++
					default:
						credited++
					}
				}()
			}
			wg.Wait()

			assert.Equal(t, 1, credited)
			assert.Equal(t, workers, credited+replayed+len(failures))
			for _, err := range failures {
				assert.True(t, errs.IsCooldownActiveError(err) || errors.Is(err, errs.ErrConcurrentUpdate), err.Error())
			}
			assert.Equal(t, int64(5000), env.Balance(t, user.ID))
			assert.Len(t, taskEntries(env.Entries(t, user.ID)), 1)
		})
	}
}

func TestCompleteTask_Rejections(t *testing.T) {
	ctx := context.Background()
	env := testkit.NewEnv(t)
	service := newTaskUseCase(env)
	user := env.CreateUser(t, "ada@example.com", 0)
	adTask := env.CreateTask(t, "Watch ad A", 5000)

	_, err := service.UpdateTask(ctx, adTask.ID, usecase.TaskInput{
		Title:  adTask.Title,
		Reward: adTask.Reward,
		Status: entity.TaskStatusInactive,
	})
	require.NoError(t, err)

	_, err = service.CompleteTask(ctx, user.ID, adTask.ID, "")
	assert.True(t, errs.IsValidationError(err), "inactive task")

	_, err = service.CompleteTask(ctx, user.ID, 9999, "")
	assert.ErrorIs(t, err, errs.ErrTaskNotFound)

	_, err = service.CompleteTask(ctx, 9999, adTask.ID, "")
	assert.ErrorIs(t, err, errs.ErrUserNotFound)

	assert.Equal(t, int64(0), env.Balance(t, user.ID))
	assert.Empty(t, env.Entries(t, user.ID))
}

func TestListTasksForUser(t *testing.T) {
	ctx := context.Background()
	env := testkit.NewEnv(t)
	service := newTaskUseCase(env)
	user := env.CreateUser(t, "ada@example.com", 0)
	first := env.CreateTask(t, "Watch ad A", 5000)
	second := env.CreateTask(t, "Watch ad B", 2500)
	hidden, err := service.CreateTask(ctx, usecase.TaskInput{
		Title:  "Draft",
		Reward: 100,
		Status: entity.TaskStatusPending,
	})
	require.NoError(t, err)

	_, err = service.CompleteTask(ctx, user.ID, first.ID, "")
	require.NoError(t, err)
	env.Clock.Advance(5 * time.Second)

	available, total, err := service.ListTasksForUser(ctx, user.ID, entity.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, available, 2)

	waits := map[uint64]int64{}
	for _, item := range available {
		assert.NotEqual(t, hidden.ID, item.Task.ID)
		waits[item.Task.ID] = item.AvailableInSeconds
	}
	assert.Equal(t, int64(15), waits[first.ID])
	assert.Equal(t, int64(0), waits[second.ID])

	env.Clock.Advance(20 * time.Second)
	available, _, err = service.ListTasksForUser(ctx, user.ID, entity.Page{})
	require.NoError(t, err)
	for _, item := range available {
		assert.Zero(t, item.AvailableInSeconds)
	}
}

func TestListTasksForUser_Pages(t *testing.T) {
	ctx := context.Background()
	env := testkit.NewEnv(t)
	service := newTaskUseCase(env)
	user := env.CreateUser(t, "ada@example.com", 0)
	for i := 0; i < entity.MaxPageLimit+5; i++ {
		env.CreateTask(t, fmt.Sprintf("Watch ad %d", i), 100)
	}

	seen := map[uint64]bool{}
	offset := 0
	for {
		page, total, err := service.ListTasksForUser(ctx, user.ID, entity.Page{Limit: entity.MaxPageLimit, Offset: offset})
		require.NoError(t, err)
		assert.Equal(t, int64(entity.MaxPageLimit+5), total)
		if len(page) == 0 {
			break
		}
		for _, item := range page {
			seen[item.Task.ID] = true
		}
		offset += len(page)
	}
	assert.Len(t, seen, entity.MaxPageLimit+5)

	page, _, err := service.ListTasksForUser(ctx, user.ID, entity.Page{Limit: 1000})
	require.NoError(t, err)
	assert.Len(t, page, entity.MaxPageLimit)
}

func TestTaskAdministration(t *testing.T) {
	ctx := context.Background()
	env := testkit.NewEnv(t)
	service := newTaskUseCase(env)

	created, err := service.CreateTask(ctx, usecase.TaskInput{
		Title:    "  Follow us  ",
		Reward:   2000,
		Category: "social",
		Link:     "https://example.com/follow",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Follow us", created.Title)
	assert.Equal(t, entity.TaskStatusActive, created.Status)

	_, err = service.CreateTask(ctx, usecase.TaskInput{Title: "Bad link", Reward: 100, Link: "ftp://x"})
	assert.True(t, errs.IsValidationError(err))
	_, err = service.CreateTask(ctx, usecase.TaskInput{Title: "Free", Reward: 0})
	assert.True(t, errs.IsValidationError(err))

	updated, err := service.UpdateTask(ctx, created.ID, usecase.TaskInput{
		Title:    "Follow us",
		Reward:   3000,
		Category: "social",
	})
	require.NoError(t, err, "reward may change before any completion")
	assert.Equal(t, int64(3000), updated.Reward)

	fetched, err := service.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), fetched.Reward)

	tasks, total, err := service.ListTasks(ctx, persistence.TaskFilter{Category: "social"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, tasks, 1)

	_, _, err = service.ListTasks(ctx, persistence.TaskFilter{Status: "archived"})
	assert.True(t, errs.IsValidationError(err))

	require.NoError(t, service.DeleteTask(ctx, created.ID))
	_, err = service.GetTask(ctx, created.ID)
	assert.ErrorIs(t, err, errs.ErrTaskNotFound)
	assert.ErrorIs(t, service.DeleteTask(ctx, created.ID), errs.ErrTaskNotFound)
}

func TestUpdateTask_RewardLockedAfterCompletion(t *testing.T) {
	ctx := context.Background()
	env := testkit.NewEnv(t)
	service := newTaskUseCase(env)
	user := env.CreateUser(t, "ada@example.com", 0)
	adTask := env.CreateTask(t, "Watch ad A", 5000)

	_, err := service.CompleteTask(ctx, user.ID, adTask.ID, "")
	require.NoError(t, err)

	_, err = service.UpdateTask(ctx, adTask.ID, usecase.TaskInput{Title: adTask.Title, Reward: 9000})
	assert.ErrorIs(t, err, errs.ErrTaskRewardLocked)

	renamed, err := service.UpdateTask(ctx, adTask.ID, usecase.TaskInput{Title: "Watch ad A (new)", Reward: 5000})
	require.NoError(t, err)
	assert.Equal(t, "Watch ad A (new)", renamed.Title)
}
