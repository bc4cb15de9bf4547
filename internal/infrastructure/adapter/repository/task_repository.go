package repository

import (
	"context"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// TaskRepository implements TaskRepository interface using GORM
type TaskRepository struct {
	db     *gorm.DB
	logger coreport.Logger
	errors dbErrorHandler
}

// NewTaskRepository creates a new TaskRepository instance
func NewTaskRepository(db *gorm.DB, logger coreport.Logger) *TaskRepository {
	return &TaskRepository{
		db:     db,
		logger: logger,
		errors: dbErrorHandler{logger: logger, classifier: NewErrorClassifier()},
	}
}

func taskToModel(task *entity.Task) *model.Task {
	return &model.Task{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Reward:      task.Reward,
		Category:    task.Category,
		Link:        task.Link,
		Status:      string(task.Status),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func taskToEntity(m *model.Task) *entity.Task {
	return &entity.Task{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Reward:      m.Reward,
		Category:    m.Category,
		Link:        m.Link,
		Status:      entity.TaskStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (r *TaskRepository) handleDatabaseError(operation string, err error, taskID uint64) error {
	return r.errors.handle(operation, err, errs.ErrTaskNotFound, errs.ErrDuplicateEntry, map[string]any{
		"task_id": taskID,
	})
}

// Create saves a new task and sets its ID
func (r *TaskRepository) Create(ctx context.Context, task *entity.Task) error {
	m := taskToModel(task)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return r.handleDatabaseError("creating task", err, 0)
	}
	task.ID = m.ID

	r.logger.Info("Task created", map[string]any{
		"task_id": task.ID,
		"reward":  entity.FormatAmount(task.Reward),
		"status":  task.Status,
	})
	return nil
}

// GetByID retrieves a task
func (r *TaskRepository) GetByID(ctx context.Context, id uint64) (*entity.Task, error) {
	var m model.Task
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, r.handleDatabaseError("getting task", err, id)
	}
	return taskToEntity(&m), nil
}

// Update saves every editable field of the task
func (r *TaskRepository) Update(ctx context.Context, task *entity.Task) error {
	result := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", task.ID).
		Updates(map[string]any{
			"title":       task.Title,
			"description": task.Description,
			"reward":      task.Reward,
			"category":    task.Category,
			"link":        task.Link,
			"status":      string(task.Status),
			"updated_at":  task.UpdatedAt,
		})
	if result.Error != nil {
		return r.handleDatabaseError("updating task", result.Error, task.ID)
	}
	if result.RowsAffected == 0 {
		return errs.ErrTaskNotFound
	}

	r.logger.Info("Task updated", map[string]any{
		"task_id": task.ID,
		"status":  task.Status,
	})
	return nil
}

// Delete removes a task. Ledger entries keep their task_id for history.
func (r *TaskRepository) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, id)
	if result.Error != nil {
		return r.handleDatabaseError("deleting task", result.Error, id)
	}
	if result.RowsAffected == 0 {
		return errs.ErrTaskNotFound
	}

	r.logger.Info("Task deleted", map[string]any{
		"task_id": id,
	})
	return nil
}

// List returns a page of tasks, newest first, and the total match count
func (r *TaskRepository) List(ctx context.Context, filter persistence.TaskFilter) ([]*entity.Task, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Task{})
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, r.handleDatabaseError("counting tasks", err, 0)
	}

	var models []model.Task
	if err := paginate(query, filter.Page).Order("id DESC").Find(&models).Error; err != nil {
		return nil, 0, r.handleDatabaseError("listing tasks", err, 0)
	}

	tasks := make([]*entity.Task, 0, len(models))
	for i := range models {
		tasks = append(tasks, taskToEntity(&models[i]))
	}
	return tasks, total, nil
}

// CountByStatus counts tasks in a status
func (r *TaskRepository) CountByStatus(ctx context.Context, status entity.TaskStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("status = ?", string(status)).
		Count(&count).Error
	if err != nil {
		return 0, r.handleDatabaseError("counting tasks by status", err, 0)
	}
	return count, nil
}
