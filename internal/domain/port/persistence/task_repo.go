package persistence

import (
	"context"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
)

// TaskRepository defines methods to interact with tasks
type TaskRepository interface {
	Create(ctx context.Context, task *entity.Task) error

	// GetByID retrieves a task
	//
	// Possible errors:
	// - ErrTaskNotFound: If the task doesn't exist
	GetByID(ctx context.Context, id uint64) (*entity.Task, error)

	Update(ctx context.Context, task *entity.Task) error
	Delete(ctx context.Context, id uint64) error
	List(ctx context.Context, filter TaskFilter) ([]*entity.Task, int64, error)
	CountByStatus(ctx context.Context, status entity.TaskStatus) (int64, error)
}
