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

// PayoutHandler handles withdrawal requests and their review
type PayoutHandler struct {
	payouts usecase.PayoutUseCase
	logger  coreport.Logger
}

// NewPayoutHandler creates a new payout handler instance
func NewPayoutHandler(payouts usecase.PayoutUseCase, logger coreport.Logger) *PayoutHandler {
	return &PayoutHandler{
		payouts: payouts,
		logger:  logger,
	}
}

// Request handles the POST /payouts endpoint
func (h *PayoutHandler) Request(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	var req dto.PayoutRequest
	if !bindJSON(c, &req) {
		return
	}
	amount, err := entity.ParsePositiveAmount(req.Amount)
	if err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.payouts.RequestPayout(c.Request.Context(), usecase.PayoutRequest{
		UserID:         session.SubjectID,
		Amount:         amount,
		Destination:    req.Destination(),
		IdempotencyKey: c.GetHeader(IdempotencyKeyHeader),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, dto.RequestPayoutResponse{
		Payout:     dto.NewPayoutResponse(result.Payout),
		NewBalance: entity.FormatAmount(result.NewBalance),
		Replayed:   result.Replayed,
	})
}

// ListOwn handles the GET /payouts endpoint
func (h *PayoutHandler) ListOwn(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	var query dto.PageQuery
	if !bindQuery(c, &query) {
		return
	}

	page := toPage(query)
	payouts, total, err := h.payouts.ListUserPayouts(c.Request.Context(), session.SubjectID, page)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, listResponse(dto.NewPayoutResponses(payouts), total, page))
}

// List handles the GET /admin/payouts endpoint
func (h *PayoutHandler) List(c *gin.Context) {
	var query dto.PayoutQuery
	if !bindQuery(c, &query) {
		return
	}

	page := toPage(query.PageQuery)
	payouts, total, err := h.payouts.ListPayouts(c.Request.Context(), persistence.PayoutFilter{
		UserID: query.UserID,
		Status: entity.PayoutStatus(query.Status),
		Page:   page,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, listResponse(dto.NewPayoutResponses(payouts), total, page))
}

// Get handles the GET /admin/payouts/:id endpoint
func (h *PayoutHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	payout, err := h.payouts.GetPayout(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPayoutResponse(payout))
}

// Transition handles the PATCH /admin/payouts/:id endpoint
func (h *PayoutHandler) Transition(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.PayoutStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	payout, err := h.payouts.TransitionPayout(c.Request.Context(), id, entity.PayoutStatus(req.Status), req.Note)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPayoutResponse(payout))
}
