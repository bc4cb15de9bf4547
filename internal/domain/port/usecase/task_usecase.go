package usecase

import (
	"context"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/persistence"
)

// TaskCompletion is the outcome of a granted (or replayed) task reward
type TaskCompletion struct {
	Task       *entity.Task
	Entry      *entity.LedgerEntry
	NewBalance int64
	Replayed   bool
}

// TaskAvailability pairs an active task with the wait before the user may complete it
type TaskAvailability struct {
	Task               *entity.Task
	AvailableInSeconds int64
}

// TaskInput carries the admin-editable fields of a task
type TaskInput struct {
	Title       string
	Description string
	Reward      int64
	Category    string
	Link        string
	Status      entity.TaskStatus
}

// TaskUseCase defines task completion and task administration
type TaskUseCase interface {
	// CompleteTask grants the task reward at most once per cooldown window.
	// A repeated idempotency key returns the original completion with Replayed set.
	CompleteTask(ctx context.Context, userID, taskID uint64, idempotencyKey string) (*TaskCompletion, error)

	// ListTasksForUser returns one page of active tasks with the user's remaining
	// cooldown for each, and the number of active tasks
	ListTasksForUser(ctx context.Context, userID uint64, page entity.Page) ([]TaskAvailability, int64, error)

	CreateTask(ctx context.Context, input TaskInput) (*entity.Task, error)
	GetTask(ctx context.Context, id uint64) (*entity.Task, error)
	UpdateTask(ctx context.Context, id uint64, input TaskInput) (*entity.Task, error)
	DeleteTask(ctx context.Context, id uint64) error
	ListTasks(ctx context.Context, filter persistence.TaskFilter) ([]*entity.Task, int64, error)
}
