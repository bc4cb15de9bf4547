package task

import (
	"context"
	"errors"
	"strings"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/usecase"
)

// MaxIdempotencyKeyLength bounds client supplied idempotency keys
const MaxIdempotencyKeyLength = 64

// CompleteTask grants the task reward at most once per cooldown window.
// The user row is locked for the whole unit so concurrent completions by the
// same user serialize; a repeated idempotency key replays the first result.
func (u *TaskUseCase) CompleteTask(ctx context.Context, userID, taskID uint64, idempotencyKey string) (*usecase.TaskCompletion, error) {
	key := strings.TrimSpace(idempotencyKey)
	if len(key) > MaxIdempotencyKeyLength {
		return nil, errs.NewValidationError("idempotencyKey", "is too long")
	}

	var result *usecase.TaskCompletion
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		completion, err := u.completeOnce(txCtx, userID, taskID, key)
		result = completion
		return err
	})

	// Another request with the same key committed first
	if errors.Is(err, errs.ErrDuplicateEntry) && key != "" {
		err = u.uow.Do(ctx, func(txCtx context.Context) error {
			completion, err := u.replay(txCtx, userID, taskID, key)
			if err == nil && completion == nil {
				return errs.ErrDuplicateEntry
			}
			result = completion
			return err
		})
	}

	if err != nil {
		if remaining, ok := errs.RemainingCooldown(err); ok {
			u.logger.Info("Task completion rejected by cooldown", map[string]any{
				"user_id":           userID,
				"task_id":           taskID,
				"remaining_seconds": remaining,
				"request_id":        coreport.RequestIDFromContext(ctx),
			})
		}
		return nil, err
	}

	if !result.Replayed {
		u.logger.Info("Task reward granted", map[string]any{
			"user_id":     userID,
			"task_id":     taskID,
			"entry_id":    result.Entry.ID,
			"reward":      entity.FormatAmount(result.Entry.Amount),
			"new_balance": entity.FormatAmount(result.NewBalance),
			"request_id":  coreport.RequestIDFromContext(ctx),
		})
	}
	return result, nil
}

func (u *TaskUseCase) completeOnce(txCtx context.Context, userID, taskID uint64, key string) (*usecase.TaskCompletion, error) {
	// Every read below happens under the user row lock
	users := u.uow.GetUserRepository(txCtx)
	if _, err := users.GetByIDForUpdate(txCtx, userID); err != nil {
		return nil, err
	}

	if key != "" {
		replayed, err := u.replay(txCtx, userID, taskID, key)
		if err != nil || replayed != nil {
			return replayed, err
		}
	}

	task, err := u.uow.GetTaskRepository(txCtx).GetByID(txCtx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.IsActive() {
		return nil, errs.NewValidationError("task", "is not active")
	}

	settings, err := u.settings.GetSettings(txCtx)
	if err != nil {
		return nil, err
	}

	ledger := u.uow.GetLedgerRepository(txCtx)
	now := u.timeProvider.Now()
	latest, err := ledger.LatestTaskEntrySince(txCtx, userID, taskID, now.Add(-settings.TaskCooldown))
	switch {
	case err == nil:
		return nil, errs.NewCooldownActiveError(userID, taskID, latest.CooldownRemaining(settings.TaskCooldown, now))
	case !errs.IsNotFoundError(err):
		return nil, err
	}

	newBalance, err := users.IncrementBalance(txCtx, userID, task.Reward)
	if err != nil {
		return nil, err
	}

	entry := entity.NewTaskEntry(userID, task, key, u.timeProvider)
	if err := ledger.Append(txCtx, entry); err != nil {
		return nil, err
	}

	return &usecase.TaskCompletion{
		Task:       task,
		Entry:      entry,
		NewBalance: newBalance,
	}, nil
}

// replay returns the completion recorded under key, or nil when the key is unused
func (u *TaskUseCase) replay(txCtx context.Context, userID, taskID uint64, key string) (*usecase.TaskCompletion, error) {
	entry, err := u.uow.GetLedgerRepository(txCtx).GetByIdempotencyKey(txCtx, key)
	if errs.IsNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if entry.UserID != userID || entry.Type != entity.EntryTypeTask || entry.TaskID == nil || *entry.TaskID != taskID {
		u.logger.Warn("Idempotency key reused for a different request", map[string]any{
			"user_id":  userID,
			"task_id":  taskID,
			"entry_id": entry.ID,
		})
		return nil, errs.NewValidationError("idempotencyKey", "was already used for another request")
	}

	user, err := u.uow.GetUserRepository(txCtx).GetByID(txCtx, userID)
	if err != nil {
		return nil, err
	}

	task, err := u.uow.GetTaskRepository(txCtx).GetByID(txCtx, taskID)
	if errs.IsNotFoundError(err) {
		// deleted since; describe it from the entry
		task = &entity.Task{ID: taskID, Reward: entry.Amount}
	} else if err != nil {
		return nil, err
	}

	u.logger.Debug("Replaying task completion", map[string]any{
		"user_id":  userID,
		"task_id":  taskID,
		"entry_id": entry.ID,
	})
	return &usecase.TaskCompletion{
		Task:       task,
		Entry:      entry,
		NewBalance: user.Balance(),
		Replayed:   true,
	}, nil
}
