package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	domainerr "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// IdempotencyKeyHeader lets clients retry balance-changing requests safely
const IdempotencyKeyHeader = "Idempotency-Key"

// bindJSON decodes and validates the body, recording a validation error on failure
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		_ = c.Error(bindingError(err))
		return false
	}
	return true
}

// bindQuery decodes and validates query parameters
func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		_ = c.Error(bindingError(err))
		return false
	}
	return true
}

// pathID parses a positive numeric path parameter
func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		_ = c.Error(domainerr.NewValidationError(name, "must be a positive integer"))
		return 0, false
	}
	return id, true
}

// currentSession returns the session the auth middleware verified
func currentSession(c *gin.Context) (*entity.Session, bool) {
	session, ok := middleware.SessionFromContext(c)
	if !ok {
		_ = c.Error(domainerr.ErrUnauthorized)
		return nil, false
	}
	return session, true
}

func toPage(q dto.PageQuery) entity.Page {
	return entity.Page{Limit: q.Limit, Offset: q.Offset}.Normalize()
}

func listResponse[T any](items []T, total int64, page entity.Page) dto.ListResponse[T] {
	return dto.ListResponse[T]{Items: items, Total: total, Limit: page.Limit, Offset: page.Offset}
}

// bindingError turns binding failures into validation errors naming the field
func bindingError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return domainerr.NewValidationError(fe.Field(), validationReason(fe))
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return domainerr.NewValidationError(typeErr.Field, "has the wrong type")
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return domainerr.NewValidationError("", "request body must be valid JSON")
	}
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return domainerr.NewValidationError("", "query parameter must be a number")
	}
	return domainerr.NewValidationError("", "malformed request")
}

func validationReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	case "money":
		return "must be a positive amount with at most two decimal places"
	case "referralcode":
		return "must be 8 letters or digits"
	default:
		return "is invalid"
	}
}
