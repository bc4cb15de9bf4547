package handler

import (
	"net/http"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// UserHandler handles account and signed-in user HTTP requests
type UserHandler struct {
	accounts usecase.AccountUseCase
	sessions usecase.SessionUseCase
	logger   coreport.Logger
}

// NewUserHandler creates a new user handler instance
func NewUserHandler(
	accounts usecase.AccountUseCase,
	sessions usecase.SessionUseCase,
	logger coreport.Logger,
) *UserHandler {
	return &UserHandler{
		accounts: accounts,
		sessions: sessions,
		logger:   logger,
	}
}

// Signup handles the POST /auth/signup endpoint
func (h *UserHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.accounts.Signup(c.Request.Context(), usecase.SignupInput{
		Email:        req.Email,
		Password:     req.Password,
		Name:         req.Name,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	applied := result.ReferralApplied
	c.JSON(http.StatusCreated, dto.AuthResponse{
		Token:           result.Token,
		ExpiresAt:       result.Session.ExpiresAt,
		User:            result.Profile,
		ReferralApplied: &applied,
	})
}

// Login handles the POST /auth/login endpoint
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Token:     result.Token,
		ExpiresAt: result.Session.ExpiresAt,
		User:      result.Profile,
	})
}

// Logout handles POST /auth/logout and /admin/auth/logout by revoking the presented token
func (h *UserHandler) Logout(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	if err := h.sessions.Logout(c.Request.Context(), session); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// VerifyEmail handles the POST /auth/verify-email endpoint
func (h *UserHandler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.accounts.VerifyEmail(c.Request.Context(), req.Token); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"emailVerified": true})
}

// GetProfile handles the GET /me endpoint
func (h *UserHandler) GetProfile(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	profile, err := h.accounts.Profile(c.Request.Context(), session.SubjectID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ListTransactions handles the GET /me/transactions endpoint
func (h *UserHandler) ListTransactions(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	var query dto.LedgerQuery
	if !bindQuery(c, &query) {
		return
	}

	page := toPage(query.PageQuery)
	entries, total, err := h.accounts.ListLedger(c.Request.Context(), session.SubjectID, entity.EntryType(query.Type), page)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, listResponse(dto.NewTransactionResponses(entries), total, page))
}

// ListReferrals handles the GET /me/referrals endpoint
func (h *UserHandler) ListReferrals(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	var query dto.PageQuery
	if !bindQuery(c, &query) {
		return
	}

	page := toPage(query)
	referrals, total, err := h.accounts.ListReferrals(c.Request.Context(), session.SubjectID, page)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, listResponse(dto.NewReferralResponses(referrals), total, page))
}
