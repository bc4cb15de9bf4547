package dto

import (
	"time"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
)

// TaskRequest represents the admin request for creating or replacing a task
type TaskRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"max=2000"`
	Reward      string `json:"reward" binding:"required,money"`
	Category    string `json:"category" binding:"max=50"`
	Link        string `json:"link" binding:"omitempty,url,max=500"`
	Status      string `json:"status" binding:"required,oneof=active inactive pending"`
}

// TaskQuery binds the admin task listing filters
type TaskQuery struct {
	PageQuery
	Status   string `form:"status" binding:"omitempty,oneof=active inactive pending"`
	Category string `form:"category" binding:"max=50"`
}

// TaskResponse represents a task
type TaskResponse struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Reward      string    `json:"reward"`
	Category    string    `json:"category"`
	Link        string    `json:"link,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// AvailableTaskResponse is a task offered to a user with its remaining cooldown
type AvailableTaskResponse struct {
	TaskResponse
	AvailableInSeconds int64 `json:"availableInSeconds"`
}

// CompleteTaskResponse represents a granted task reward
type CompleteTaskResponse struct {
	TaskID        uint64 `json:"taskId"`
	TransactionID uint64 `json:"transactionId"`
	Reward        string `json:"reward"`
	NewBalance    string `json:"newBalance"`
	Replayed      bool   `json:"replayed"`
}

// NewTaskResponse converts a task
func NewTaskResponse(task *entity.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Reward:      entity.FormatAmount(task.Reward),
		Category:    task.Category,
		Link:        task.Link,
		Status:      string(task.Status),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// NewTaskResponses converts a page of tasks
func NewTaskResponses(tasks []*entity.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, NewTaskResponse(task))
	}
	return out
}
