package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	domainerr "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/api/middleware"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/database/dbtest"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestStatusCode(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"Validation", domainerr.NewValidationError("amount", "bad"), http.StatusBadRequest},
		{"Insufficient balance", domainerr.NewInsufficientBalanceError(1, "10.00", "5.00"), http.StatusBadRequest},
		{"Credentials", domainerr.ErrInvalidCredentials, http.StatusUnauthorized},
		{"Unauthorized", domainerr.ErrUnauthorized, http.StatusUnauthorized},
		{"Forbidden", domainerr.ErrForbidden, http.StatusForbidden},
		{"Not found", domainerr.ErrTaskNotFound, http.StatusNotFound},
		{"Duplicate", domainerr.ErrDuplicateUser, http.StatusConflict},
		{"Transition", domainerr.NewStatusTransitionError("payout", 1, "rejected", "approved"), http.StatusConflict},
		{"Reward locked", domainerr.ErrTaskRewardLocked, http.StatusConflict},
		{"Concurrent", domainerr.ErrConcurrentUpdate, http.StatusConflict},
		{"Cooldown", domainerr.NewCooldownActiveError(1, 2, 5), http.StatusTooManyRequests},
		{"Rate limited", domainerr.ErrRateLimited, http.StatusTooManyRequests},
		{"Unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, middleware.StatusCode(tc.err))
		})
	}
}

func TestNewErrorResponse(t *testing.T) {
	internal := middleware.NewErrorResponse(errors.New("pq: connection refused on 10.0.0.3"))
	assert.Equal(t, domainerr.CodeInternalServer, internal.Code)
	assert.Equal(t, "Internal server error", internal.Message)

	validation := middleware.NewErrorResponse(domainerr.NewValidationError("amount", "must be positive"))
	assert.Equal(t, domainerr.CodeValidation, validation.Code)
	assert.Equal(t, "amount", validation.Details["field"])

	cooldown := middleware.NewErrorResponse(domainerr.NewCooldownActiveError(1, 2, 12))
	assert.Equal(t, domainerr.CodeCooldownActive, cooldown.Code)
	assert.Equal(t, int64(12), cooldown.Details["remainingSeconds"])
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.ErrorHandler(logger.NewNoopLogger()))
	router.GET("/", handlers...)
	return router
}

func serve(router *gin.Engine, header, value string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestErrorHandler(t *testing.T) {
	router := newRouter(func(c *gin.Context) {
		_ = c.Error(domainerr.NewCooldownActiveError(1, 2, 0))
	})
	rec := serve(router, "", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	panicking := newRouter(func(c *gin.Context) {
		panic("unexpected")
	})
	rec = serve(panicking, "", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}

func TestRequestID(t *testing.T) {
	router := newRouter(func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	rec := serve(router, middleware.RequestIDHeader, "abc-123")
	assert.Equal(t, "abc-123", rec.Header().Get(middleware.RequestIDHeader))

	rec = serve(router, middleware.RequestIDHeader, strings.Repeat("x", 65))
	generated := rec.Header().Get(middleware.RequestIDHeader)
	assert.Len(t, generated, 36)
}

func TestIPRateLimiter(t *testing.T) {
	clock := dbtest.NewClock()
	limiter := middleware.NewIPRateLimiter(1, 2, clock, logger.NewNoopLogger())
	router := newRouter(limiter.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	for range 2 {
		assert.Equal(t, http.StatusNoContent, serve(router, "", "").Code)
	}
	rec := serve(router, "", "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), `"code":4291`)

	// Tokens refill on the injected clock
	clock.Advance(time.Minute)
	assert.Equal(t, http.StatusNoContent, serve(router, "", "").Code)

	// Buckets are per client
	assert.NotSame(t, limiter.Limiter("10.0.0.1"), limiter.Limiter("10.0.0.2"))
	assert.Same(t, limiter.Limiter("10.0.0.1"), limiter.Limiter("10.0.0.1"))
	assert.Zero(t, limiter.Cleanup())
}

func TestIPRateLimiter_CleanupDropsIdleClients(t *testing.T) {
	clock := dbtest.NewClock()
	limiter := middleware.NewIPRateLimiter(60, 5, clock, logger.NewNoopLogger())

	limiter.Limiter("10.0.0.1")
	limiter.Limiter("10.0.0.2")
	clock.Advance(9 * time.Minute)
	limiter.Limiter("10.0.0.2")

	clock.Advance(2 * time.Minute)
	assert.Equal(t, 1, limiter.Cleanup())
	assert.Zero(t, limiter.Cleanup())

	clock.Advance(11 * time.Minute)
	assert.Equal(t, 1, limiter.Cleanup())
}

type signupForm struct {
	Amount       string `json:"amount" binding:"required,money"`
	ReferralCode string `json:"referralCode" binding:"omitempty,referralcode"`
}

func TestRegisterValidators(t *testing.T) {
	require.NoError(t, middleware.RegisterValidators())
	require.NoError(t, middleware.RegisterValidators())

	router := gin.New()
	router.POST("/", func(c *gin.Context) {
		var form signupForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		c.Status(http.StatusNoContent)
	})

	testCases := []struct {
		name     string
		body     string
		expected int
	}{
		{"Valid", `{"amount":"10.50","referralCode":"ab12cd34"}`, http.StatusNoContent},
		{"No referral code", `{"amount":"1"}`, http.StatusNoContent},
		{"Three decimals", `{"amount":"1.005"}`, http.StatusBadRequest},
		{"Zero", `{"amount":"0"}`, http.StatusBadRequest},
		{"Negative", `{"amount":"-5"}`, http.StatusBadRequest},
		{"Short code", `{"amount":"1","referralCode":"ABC"}`, http.StatusBadRequest},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tc.expected, rec.Code, rec.Body.String())
		})
	}
}
