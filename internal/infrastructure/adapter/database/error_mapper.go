package database

import (
	"context"
	"errors"
	"fmt"

	domainErr "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/repository"
	"gorm.io/gorm"
)

// ErrorMapper maps raw database errors raised outside the repositories
// (begin, commit, isolation setup) to domain errors
type ErrorMapper struct {
	classifier *repository.ErrorClassifier
}

// NewErrorMapper creates a new ErrorMapper
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{classifier: repository.NewErrorClassifier()}
}

// MapError maps a database error to a domain error
func (m *ErrorMapper) MapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domainErr.ErrNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s: %s", domainErr.ErrDatabaseConnection, operation, err.Error())
	}

	switch m.classifier.Classify(err) {
	case repository.LockError:
		return fmt.Errorf("%w: %s", domainErr.ErrConcurrentUpdate, operation)
	case repository.DuplicateKeyError:
		return fmt.Errorf("%w: %s", domainErr.ErrDuplicateEntry, operation)
	case repository.ConnectionError, repository.TransientError:
		return fmt.Errorf("%w: %s", domainErr.ErrDatabaseConnection, operation)
	default:
		return fmt.Errorf("%w: %s: %s", domainErr.ErrPersistence, operation, err.Error())
	}
}

// IsRetryable reports whether a unit of work that failed with err may be run again.
// Lock and serialization conflicts are retryable; duplicate keys never are, since
// a replay would hit the same constraint.
func (m *ErrorMapper) IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, domainErr.ErrConcurrentUpdate) {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if m.classifier.IsDuplicateKeyError(err) {
		return false
	}
	return m.classifier.IsTransientError(err)
}
