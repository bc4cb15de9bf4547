package middleware

import (
	"errors"
	"net/http"
	"strconv"

	domainerr "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// ErrorHandler middleware recovers from panics and renders the last error
// a handler attached with c.Error
func ErrorHandler(logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				// Log the error with request details
				logger.Error("Panic recovered in API request", map[string]any{
					"error":      err,
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
					"client_ip":  c.ClientIP(),
					"request_id": coreport.RequestIDFromContext(c.Request.Context()),
					"user_agent": c.Request.UserAgent(),
				})

				// Return a 500 Internal Server Error response
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
					Code:    domainerr.ErrorCode(domainerr.ErrInternalServer),
					Message: "Internal server error",
				})
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status := StatusCode(err)

		fields := map[string]any{
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"status":     status,
			"error":      err.Error(),
			"request_id": coreport.RequestIDFromContext(c.Request.Context()),
		}
		var detailed interface{ LogFields() map[string]any }
		if errors.As(err, &detailed) {
			for k, v := range detailed.LogFields() {
				fields[k] = v
			}
		}
		if status >= http.StatusInternalServerError {
			logger.Error("Request failed", fields)
		} else {
			logger.Debug("Request rejected", fields)
		}

		if remaining, ok := domainerr.RemainingCooldown(err); ok {
			c.Header("Retry-After", strconv.FormatInt(max(remaining, 1), 10))
		}
		c.AbortWithStatusJSON(status, NewErrorResponse(err))
	}
}

// StatusCode maps a domain error to its HTTP status
func StatusCode(err error) int {
	switch domainerr.ErrorCode(err) {
	case domainerr.CodeValidation, domainerr.CodeInsufficientBalance:
		return http.StatusBadRequest
	case domainerr.CodeInvalidCredentials, domainerr.CodeUnauthorized:
		return http.StatusUnauthorized
	case domainerr.CodeForbidden:
		return http.StatusForbidden
	case domainerr.CodeNotFound:
		return http.StatusNotFound
	case domainerr.CodeDuplicateUser, domainerr.CodeInvalidStatusTransition,
		domainerr.CodeTaskRewardLocked, domainerr.CodeConcurrentUpdate:
		return http.StatusConflict
	case domainerr.CodeCooldownActive, domainerr.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// NewErrorResponse builds the client-facing body for err. Server-side
// failures get a generic message.
func NewErrorResponse(err error) dto.ErrorResponse {
	code := domainerr.ErrorCode(err)
	resp := dto.ErrorResponse{Code: code, Message: err.Error()}

	switch code {
	case domainerr.CodeInternalServer:
		resp.Message = "Internal server error"
	case domainerr.CodeInvalidCredentials:
		resp.Message = "Invalid credentials"
	case domainerr.CodeUnauthorized:
		resp.Message = "Authentication required"
	case domainerr.CodeForbidden:
		resp.Message = "Access denied"
	case domainerr.CodeConcurrentUpdate:
		resp.Message = "Concurrent update, please retry"
	case domainerr.CodeInsufficientBalance:
		resp.Message = "Insufficient balance"
	}

	var validationErr *domainerr.ValidationError
	if errors.As(err, &validationErr) && validationErr.Field != "" {
		resp.Details = map[string]any{"field": validationErr.Field}
	}
	if remaining, ok := domainerr.RemainingCooldown(err); ok {
		resp.Message = "Task is cooling down"
		resp.Details = map[string]any{"remainingSeconds": remaining}
	}
	return resp
}
