package task

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/usecase"
)

// TaskUseCase handles task completion and task administration
type TaskUseCase struct {
	uow          persistence.UnitOfWork
	settings     usecase.SettingsUseCase
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewTaskUseCase creates a new TaskUseCase
func NewTaskUseCase(
	uow persistence.UnitOfWork,
	settings usecase.SettingsUseCase,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *TaskUseCase {
	return &TaskUseCase{
		uow:          uow,
		settings:     settings,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// CreateTask validates and stores a new task. An empty status means active.
func (u *TaskUseCase) CreateTask(ctx context.Context, input usecase.TaskInput) (*entity.Task, error) {
	now := u.timeProvider.Now()
	task := &entity.Task{CreatedAt: now}
	applyInput(task, input, now)

	if err := task.Validate(); err != nil {
		return nil, err
	}
	if err := u.uow.GetTaskRepository(ctx).Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// GetTask returns a task by id
func (u *TaskUseCase) GetTask(ctx context.Context, id uint64) (*entity.Task, error) {
	return u.uow.GetTaskRepository(ctx).GetByID(ctx, id)
}

// UpdateTask replaces the editable fields of a task. The reward cannot change
// once any ledger entry references the task.
func (u *TaskUseCase) UpdateTask(ctx context.Context, id uint64, input usecase.TaskInput) (*entity.Task, error) {
	var updated *entity.Task
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		tasks := u.uow.GetTaskRepository(txCtx)
		task, err := tasks.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if input.Reward != task.Reward {
			completed, err := u.uow.GetLedgerRepository(txCtx).ExistsForTask(txCtx, id)
			if err != nil {
				return err
			}
			if completed {
				u.logger.Warn("Rejected reward change on completed task", map[string]any{
					"task_id":    id,
					"reward":     entity.FormatAmount(task.Reward),
					"new_reward": entity.FormatAmount(input.Reward),
				})
				return errs.ErrTaskRewardLocked
			}
		}

		applyInput(task, input, u.timeProvider.Now())
		if err := task.Validate(); err != nil {
			return err
		}
		if err := tasks.Update(txCtx, task); err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTask removes a task; its ledger history is kept
func (u *TaskUseCase) DeleteTask(ctx context.Context, id uint64) error {
	return u.uow.GetTaskRepository(ctx).Delete(ctx, id)
}

// ListTasks returns a filtered page of tasks
func (u *TaskUseCase) ListTasks(ctx context.Context, filter persistence.TaskFilter) ([]*entity.Task, int64, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, 0, errs.NewValidationError("status", "must be one of active, inactive, pending")
	}
	return u.uow.GetTaskRepository(ctx).List(ctx, filter)
}

func applyInput(task *entity.Task, input usecase.TaskInput, now time.Time) {
	task.Title = input.Title
	task.Description = input.Description
	task.Reward = input.Reward
	task.Category = input.Category
	task.Link = input.Link
	task.Status = input.Status
	if task.Status == "" {
		task.Status = entity.TaskStatusActive
	}
	task.UpdatedAt = now
}
