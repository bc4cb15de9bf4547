package handler

import (
	"net/http"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// TaskHandler handles task completion and task administration requests
type TaskHandler struct {
	tasks  usecase.TaskUseCase
	logger coreport.Logger
}

// NewTaskHandler creates a new task handler instance
func NewTaskHandler(tasks usecase.TaskUseCase, logger coreport.Logger) *TaskHandler {
	return &TaskHandler{
		tasks:  tasks,
		logger: logger,
	}
}

// ListAvailable handles the GET /tasks endpoint
func (h *TaskHandler) ListAvailable(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	var query dto.PageQuery
	if !bindQuery(c, &query) {
		return
	}

	page := toPage(query)
	available, total, err := h.tasks.ListTasksForUser(c.Request.Context(), session.SubjectID, page)
	if err != nil {
		_ = c.Error(err)
		return
	}

	items := make([]dto.AvailableTaskResponse, 0, len(available))
	for _, a := range available {
		items = append(items, dto.AvailableTaskResponse{
			TaskResponse:       dto.NewTaskResponse(a.Task),
			AvailableInSeconds: a.AvailableInSeconds,
		})
	}
	c.JSON(http.StatusOK, listResponse(items, total, page))
}

// Complete handles the POST /tasks/:id/complete endpoint
func (h *TaskHandler) Complete(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	completion, err := h.tasks.CompleteTask(c.Request.Context(), session.SubjectID, taskID, c.GetHeader(IdempotencyKeyHeader))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.CompleteTaskResponse{
		TaskID:        completion.Task.ID,
		TransactionID: completion.Entry.ID,
		Reward:        entity.FormatAmount(completion.Entry.Amount),
		NewBalance:    entity.FormatAmount(completion.NewBalance),
		Replayed:      completion.Replayed,
	})
}

// List handles the GET /admin/tasks endpoint
func (h *TaskHandler) List(c *gin.Context) {
	var query dto.TaskQuery
	if !bindQuery(c, &query) {
		return
	}

	page := toPage(query.PageQuery)
	tasks, total, err := h.tasks.ListTasks(c.Request.Context(), persistence.TaskFilter{
		Status:   entity.TaskStatus(query.Status),
		Category: query.Category,
		Page:     page,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, listResponse(dto.NewTaskResponses(tasks), total, page))
}

// Get handles the GET /admin/tasks/:id endpoint
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	task, err := h.tasks.GetTask(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTaskResponse(task))
}

// Create handles the POST /admin/tasks endpoint
func (h *TaskHandler) Create(c *gin.Context) {
	input, ok := h.bindTask(c)
	if !ok {
		return
	}
	task, err := h.tasks.CreateTask(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewTaskResponse(task))
}

// Update handles the PUT /admin/tasks/:id endpoint
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	input, ok := h.bindTask(c)
	if !ok {
		return
	}
	task, err := h.tasks.UpdateTask(c.Request.Context(), id, input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTaskResponse(task))
}

// Delete handles the DELETE /admin/tasks/:id endpoint
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.tasks.DeleteTask(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) bindTask(c *gin.Context) (usecase.TaskInput, bool) {
	var req dto.TaskRequest
	if !bindJSON(c, &req) {
		return usecase.TaskInput{}, false
	}
	reward, err := entity.ParsePositiveAmount(req.Reward)
	if err != nil {
		_ = c.Error(err)
		return usecase.TaskInput{}, false
	}
	return usecase.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Reward:      reward,
		Category:    req.Category,
		Link:        req.Link,
		Status:      entity.TaskStatus(req.Status),
	}, true
}
