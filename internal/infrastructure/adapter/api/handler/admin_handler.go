package handler

import (
	"net/http"

	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/notification"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// AdminHandler handles staff sign-in, user management, the dashboard and email dispatch
type AdminHandler struct {
	admins        usecase.AdminUseCase
	notifications usecase.NotificationUseCase
	logger        coreport.Logger
}

// NewAdminHandler creates a new admin handler instance
func NewAdminHandler(
	admins usecase.AdminUseCase,
	notifications usecase.NotificationUseCase,
	logger coreport.Logger,
) *AdminHandler {
	return &AdminHandler{
		admins:        admins,
		notifications: notifications,
		logger:        logger,
	}
}

// Login handles the POST /admin/auth/login endpoint
func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.AdminLoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.admins.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.AdminAuthResponse{
		Token:     result.Token,
		ExpiresAt: result.Session.ExpiresAt,
		Username:  result.Admin.Username,
		Role:      string(result.Admin.Role),
	})
}

// Dashboard handles the GET /admin/dashboard endpoint
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.admins.Dashboard(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewDashboardResponse(stats))
}

// ListUsers handles the GET /admin/users endpoint
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var query dto.UserQuery
	if !bindQuery(c, &query) {
		return
	}

	page := toPage(query.PageQuery)
	users, total, err := h.admins.ListUsers(c.Request.Context(), persistence.UserFilter{
		Search: query.Search,
		Page:   page,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, listResponse(dto.NewUserResponses(users), total, page))
}

// GetUser handles the GET /admin/users/:id endpoint
func (h *AdminHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.admins.GetUser(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.UserDetailResponse{
		UserResponse:       dto.NewUserResponse(detail.User),
		RecentTransactions: dto.NewTransactionResponses(detail.RecentEntries),
	})
}

// UpdateUser handles the PATCH /admin/users/:id endpoint
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UserUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.admins.UpdateUser(c.Request.Context(), id, usecase.UserUpdate{
		Name:          req.Name,
		EmailVerified: req.EmailVerified,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// DeleteUser handles the DELETE /admin/users/:id endpoint
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.admins.DeleteUser(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SendEmail handles the POST /admin/emails endpoint
func (h *AdminHandler) SendEmail(c *gin.Context) {
	var req dto.EmailRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.notifications.SendEmail(c.Request.Context(), notification.Email{
		To:      req.To,
		ToName:  req.ToName,
		Subject: req.Subject,
		Body:    req.Body,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"sent": true})
}
