package task

import (
	"context"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/usecase"
)

// ListTasksForUser returns a page of active tasks with the seconds left before
// the user may complete each one again
func (u *TaskUseCase) ListTasksForUser(ctx context.Context, userID uint64, page entity.Page) ([]usecase.TaskAvailability, int64, error) {
	tasks, total, err := u.uow.GetTaskRepository(ctx).List(ctx, persistence.TaskFilter{
		Status: entity.TaskStatusActive,
		Page:   page.Normalize(),
	})
	if err != nil {
		return nil, 0, err
	}

	settings, err := u.settings.GetSettings(ctx)
	if err != nil {
		return nil, 0, err
	}

	now := u.timeProvider.Now()
	latest, err := u.uow.GetLedgerRepository(ctx).LatestTaskEntriesSince(ctx, userID, now.Add(-settings.TaskCooldown))
	if err != nil {
		return nil, 0, err
	}

	available := make([]usecase.TaskAvailability, 0, len(tasks))
	for _, task := range tasks {
		item := usecase.TaskAvailability{Task: task}
		if entry, ok := latest[task.ID]; ok {
			item.AvailableInSeconds = entry.CooldownRemaining(settings.TaskCooldown, now)
		}
		available = append(available, item)
	}
	return available, total, nil
}
