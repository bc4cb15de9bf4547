package handler

import (
	"net/http"

	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// SettingHandler handles settings reads and admin updates
type SettingHandler struct {
	settings usecase.SettingsUseCase
	logger   coreport.Logger
}

// NewSettingHandler creates a new setting handler instance
func NewSettingHandler(settings usecase.SettingsUseCase, logger coreport.Logger) *SettingHandler {
	return &SettingHandler{
		settings: settings,
		logger:   logger,
	}
}

// GetPublic handles the GET /settings endpoint
func (h *SettingHandler) GetPublic(c *gin.Context) {
	views, err := h.settings.ListSettings(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.PublicSettings(views))
}

// List handles the GET /admin/settings endpoint
func (h *SettingHandler) List(c *gin.Context) {
	views, err := h.settings.ListSettings(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	items := make([]dto.SettingResponse, 0, len(views))
	for _, view := range views {
		items = append(items, dto.NewSettingResponse(view))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Update handles the PUT /admin/settings/:key endpoint
func (h *SettingHandler) Update(c *gin.Context) {
	var req dto.UpdateSettingRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.settings.UpdateSetting(c.Request.Context(), c.Param("key"), req.Value)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSettingResponse(*view))
}
