package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrorType represents the type of database error that occurred
type ErrorType string

const (
	DuplicateKeyError ErrorType = "duplicate_key"
	TransientError    ErrorType = "transient"
	LockError         ErrorType = "lock"
	ConnectionError   ErrorType = "connection"
	ConstraintError   ErrorType = "constraint"
)

// Postgres SQLSTATE codes
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
	pgNotNullViolation     = "23502"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// MySQL error numbers
const (
	myDuplicateEntry   = 1062
	myLockWaitTimeout  = 1205
	myDeadlock         = 1213
	myCheckConstraint  = 3819
	myForeignKeyParent = 1452
)

// ErrorClassifier provides methods to classify database errors.
// Driver error types are checked first; message matching covers SQLite and wrapped errors.
type ErrorClassifier struct{}

// NewErrorClassifier creates a new ErrorClassifier
func NewErrorClassifier() *ErrorClassifier {
	return &ErrorClassifier{}
}

// Classify returns the type of error
func (c *ErrorClassifier) Classify(err error) ErrorType {
	switch {
	case err == nil:
		return ""
	case c.IsDuplicateKeyError(err):
		return DuplicateKeyError
	case c.IsLockError(err):
		return LockError
	case c.IsConnectionError(err):
		return ConnectionError
	case c.IsConstraintError(err):
		return ConstraintError
	case c.IsTransientError(err):
		return TransientError
	}
	return ""
}

// IsDuplicateKeyError checks if the error is a unique constraint violation
func (c *ErrorClassifier) IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == myDuplicateEntry
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry")
}

// IsUniqueViolationOn checks if err is a unique violation of an index or
// constraint whose name mentions column
func (c *ErrorClassifier) IsUniqueViolationOn(err error, column string) bool {
	if !c.IsDuplicateKeyError(err) {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.ConstraintName != "" {
		return strings.Contains(pgErr.ConstraintName, column)
	}
	return strings.Contains(err.Error(), column)
}

// IsLockError checks if the error is due to locking or serialization conflicts
func (c *ErrorClassifier) IsLockError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure ||
			pgErr.Code == pgDeadlockDetected ||
			pgErr.Code == pgLockNotAvailable
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == myDeadlock || myErr.Number == myLockWaitTimeout
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "lock wait timeout") ||
		strings.Contains(msg, "could not serialize access") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}

// IsTransientError checks if an error is transient and the operation can be retried
func (c *ErrorClassifier) IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	if c.IsLockError(err) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "server closed") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "unexpected EOF")
}

// IsConnectionError checks if the error is related to database connectivity
func (c *ErrorClassifier) IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "08")
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "dial tcp") ||
		strings.Contains(msg, "sql: database is closed")
}

// IsConstraintError checks if the error is a non-unique constraint violation
func (c *ErrorClassifier) IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation ||
			pgErr.Code == pgCheckViolation ||
			pgErr.Code == pgNotNullViolation
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == myCheckConstraint || myErr.Number == myForeignKeyParent
	}
	msg := err.Error()
	return strings.Contains(msg, "CHECK constraint failed") ||
		strings.Contains(msg, "FOREIGN KEY constraint failed") ||
		strings.Contains(msg, "NOT NULL constraint failed")
}

// dbErrorHandler turns driver errors into domain errors and logs them once
type dbErrorHandler struct {
	logger     coreport.Logger
	classifier *ErrorClassifier
}

// handle maps err for operation. notFound and duplicate are the domain errors
// for a missing row and a unique violation respectively.
func (h dbErrorHandler) handle(operation string, err error, notFound, duplicate error, fields map[string]any) error {
	if fields == nil {
		fields = map[string]any{}
	}
	fields["operation"] = operation

	if errors.Is(err, gorm.ErrRecordNotFound) {
		h.logger.Debug("Record not found", fields)
		return notFound
	}

	fields["error"] = err.Error()
	switch h.classifier.Classify(err) {
	case DuplicateKeyError:
		h.logger.Warn("Duplicate key on "+operation, fields)
		return duplicate
	case LockError:
		h.logger.Warn("Lock conflict on "+operation, fields)
		return fmt.Errorf("%w: %s", errs.ErrConcurrentUpdate, operation)
	case ConnectionError, TransientError:
		h.logger.Error("Database connection error on "+operation, fields)
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, operation)
	default:
		h.logger.Error("Database error on "+operation, fields)
		return fmt.Errorf("%w: %s: %s", errs.ErrPersistence, operation, err.Error())
	}
}

// supportsRowLocks reports whether the dialect understands SELECT ... FOR UPDATE
func supportsRowLocks(db *gorm.DB) bool {
	switch db.Dialector.Name() {
	case "postgres", "mysql":
		return true
	}
	return false
}

// forUpdate adds a row lock to the query where the dialect supports it.
// SQLite serializes writers at the database level instead.
func forUpdate(db *gorm.DB) *gorm.DB {
	if supportsRowLocks(db) {
		return db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}
	return db
}

// paginate applies a normalized page window
func paginate(db *gorm.DB, page entity.Page) *gorm.DB {
	page = page.Normalize()
	return db.Limit(page.Limit).Offset(page.Offset)
}
