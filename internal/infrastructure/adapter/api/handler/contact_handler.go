package handler

import (
	"net/http"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// ContactHandler handles contact form intake and support handling
type ContactHandler struct {
	contacts usecase.ContactUseCase
	logger   coreport.Logger
}

// NewContactHandler creates a new contact handler instance
func NewContactHandler(contacts usecase.ContactUseCase, logger coreport.Logger) *ContactHandler {
	return &ContactHandler{
		contacts: contacts,
		logger:   logger,
	}
}

// Submit handles the POST /contact endpoint
func (h *ContactHandler) Submit(c *gin.Context) {
	var req dto.ContactRequest
	if !bindJSON(c, &req) {
		return
	}

	input := usecase.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}
	if session, ok := middleware.SessionFromContext(c); ok {
		userID := session.SubjectID
		input.UserID = &userID
	}

	message, err := h.contacts.Submit(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": message.ID, "status": message.Status})
}

// List handles the GET /admin/contacts endpoint
func (h *ContactHandler) List(c *gin.Context) {
	var query dto.ContactQuery
	if !bindQuery(c, &query) {
		return
	}

	page := toPage(query.PageQuery)
	messages, total, err := h.contacts.List(c.Request.Context(), persistence.ContactFilter{
		Status: entity.ContactStatus(query.Status),
		Page:   page,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, listResponse(dto.NewContactResponses(messages), total, page))
}

// Get handles the GET /admin/contacts/:id endpoint
func (h *ContactHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	message, err := h.contacts.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewContactResponse(message))
}

// Update handles the PATCH /admin/contacts/:id endpoint
func (h *ContactHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ContactUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	update := usecase.ContactUpdate{Response: req.Response}
	if req.Status != nil {
		status := entity.ContactStatus(*req.Status)
		update.Status = &status
	}

	message, err := h.contacts.Update(c.Request.Context(), id, update)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewContactResponse(message))
}
