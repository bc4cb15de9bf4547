package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeValidation              = 4000
	CodeInsufficientBalance     = 4001
	CodeInvalidCredentials      = 4010
	CodeUnauthorized            = 4011
	CodeForbidden               = 4030
	CodeNotFound                = 4040
	CodeDuplicateUser           = 4090
	CodeInvalidStatusTransition = 4091
	CodeTaskRewardLocked        = 4092
	CodeConcurrentUpdate        = 4093
	CodeCooldownActive          = 4290
	CodeRateLimited             = 4291

	// 5xxx - Server errors
	CodeInternalServer = 5000
)

// Base error types
var (
	// ErrInvalidInput is returned when a request is missing fields or carries malformed values
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidAmount is returned when an amount is not a positive decimal with at most two places
	ErrInvalidAmount = errors.New("invalid amount format")

	// ErrAmountOverflow is returned when the amount is too large to be held in minor units
	ErrAmountOverflow = errors.New("amount is too large and would cause overflow")

	// ErrInsufficientBalance is returned when a debit exceeds the user's balance
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidCredentials is returned when a login does not match any active account
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized is returned when a session token is missing, expired or revoked
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the session role may not perform the operation
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrUserNotFound is returned when the requested user doesn't exist
	ErrUserNotFound = errors.New("user not found")

	// ErrTaskNotFound is returned when the requested task doesn't exist
	ErrTaskNotFound = errors.New("task not found")

	// ErrPayoutNotFound is returned when the requested payout doesn't exist
	ErrPayoutNotFound = errors.New("payout not found")

	// ErrContactNotFound is returned when the requested contact message doesn't exist
	ErrContactNotFound = errors.New("contact message not found")

	// ErrDuplicateUser is returned when trying to create a user that already exists
	ErrDuplicateUser = errors.New("user already exists")

	// ErrDuplicateEntry is returned when a unique constraint other than the user email is hit
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrInvalidStatusTransition is returned when a status change is not allowed from the current status
	ErrInvalidStatusTransition = errors.New("invalid status transition")

	// ErrTaskRewardLocked is returned when editing the reward of a task that already has completions
	ErrTaskRewardLocked = errors.New("task reward cannot change after it has been completed")

	// ErrCooldownActive is returned when a task is retried before its cooldown elapses
	ErrCooldownActive = errors.New("task cooldown active")

	// ErrRateLimited is returned when a client sends requests faster than its allowance
	ErrRateLimited = errors.New("too many requests")

	// ErrConcurrentUpdate is returned when a transaction lost a lock or serialization race
	ErrConcurrentUpdate = errors.New("concurrent update, please retry")

	// ErrDatabaseConnection is returned when there's a problem connecting to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrPersistence is returned for database failures that are not otherwise classified
	ErrPersistence = errors.New("persistence error")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrAmountOverflow):
		return CodeValidation
	case errors.Is(err, ErrInsufficientBalance):
		return CodeInsufficientBalance
	case errors.Is(err, ErrInvalidCredentials):
		return CodeInvalidCredentials
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case IsNotFoundError(err):
		return CodeNotFound
	case errors.Is(err, ErrDuplicateUser):
		return CodeDuplicateUser
	case errors.Is(err, ErrInvalidStatusTransition):
		return CodeInvalidStatusTransition
	case errors.Is(err, ErrTaskRewardLocked):
		return CodeTaskRewardLocked
	case errors.Is(err, ErrCooldownActive):
		return CodeCooldownActive
	case errors.Is(err, ErrRateLimited):
		return CodeRateLimited
	case errors.Is(err, ErrConcurrentUpdate):
		return CodeConcurrentUpdate
	default:
		return CodeInternalServer
	}
}

// ValidationError names the offending field of a rejected request
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is checks if the target error is an ErrInvalidInput
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// LogFields returns a map of fields for structured logging
func (e *ValidationError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "validation_error",
		"field":      e.Field,
		"reason":     e.Reason,
		"error_code": CodeValidation,
	}
}

// NewValidationError creates a validation error for a single field
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// CooldownActiveError carries the wait left before a task can be completed again
type CooldownActiveError struct {
	UserID           uint64
	TaskID           uint64
	RemainingSeconds int64
}

// Error implements the error interface
func (e *CooldownActiveError) Error() string {
	return fmt.Sprintf("task %d is cooling down for user %d: %d seconds remaining",
		e.TaskID, e.UserID, e.RemainingSeconds)
}

// Is checks if the target error is an ErrCooldownActive
func (e *CooldownActiveError) Is(target error) bool {
	return target == ErrCooldownActive
}

// LogFields returns a map of fields for structured logging
func (e *CooldownActiveError) LogFields() map[string]any {
	return map[string]any{
		"error_type":        "cooldown_active",
		"user_id":           e.UserID,
		"task_id":           e.TaskID,
		"remaining_seconds": e.RemainingSeconds,
		"error_code":        CodeCooldownActive,
	}
}

// NewCooldownActiveError creates a cooldown error with the remaining wait
func NewCooldownActiveError(userID, taskID uint64, remainingSeconds int64) error {
	return &CooldownActiveError{
		UserID:           userID,
		TaskID:           taskID,
		RemainingSeconds: remainingSeconds,
	}
}

// InsufficientBalanceError provides detailed error information for insufficient balance
type InsufficientBalanceError struct {
	UserID      uint64
	Amount      string
	CurrBalance string
}

// Error implements the error interface
func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance for user %d: required %s, available %s",
		e.UserID, e.Amount, e.CurrBalance)
}

// Is checks if the target error is an ErrInsufficientBalance
func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientBalanceError) LogFields() map[string]any {
	return map[string]any{
		"error_type":      "insufficient_balance",
		"user_id":         e.UserID,
		"amount":          e.Amount,
		"current_balance": e.CurrBalance,
		"error_code":      CodeInsufficientBalance,
	}
}

// NewInsufficientBalanceError creates a new detailed insufficient balance error
func NewInsufficientBalanceError(userID uint64, amount, currentBalance string) error {
	return &InsufficientBalanceError{
		UserID:      userID,
		Amount:      amount,
		CurrBalance: currentBalance,
	}
}

// StatusTransitionError describes a rejected status change
type StatusTransitionError struct {
	Entity string
	ID     uint64
	From   string
	To     string
}

// Error implements the error interface
func (e *StatusTransitionError) Error() string {
	return fmt.Sprintf("%s %d cannot move from %s to %s", e.Entity, e.ID, e.From, e.To)
}

// Is checks if the target error is an ErrInvalidStatusTransition
func (e *StatusTransitionError) Is(target error) bool {
	return target == ErrInvalidStatusTransition
}

// LogFields returns a map of fields for structured logging
func (e *StatusTransitionError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "invalid_status_transition",
		"entity":     e.Entity,
		"id":         e.ID,
		"from":       e.From,
		"to":         e.To,
		"error_code": CodeInvalidStatusTransition,
	}
}

// NewStatusTransitionError creates an invalid status transition error
func NewStatusTransitionError(entity string, id uint64, from, to string) error {
	return &StatusTransitionError{Entity: entity, ID: id, From: from, To: to}
}

// IsValidationError checks if the error is caused by bad input
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrAmountOverflow)
}

// IsInsufficientBalanceError checks if the error is related to insufficient balance
func IsInsufficientBalanceError(err error) bool {
	return errors.Is(err, ErrInsufficientBalance)
}

// IsUserNotFoundError checks if the error is a user not found error
func IsUserNotFoundError(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrTaskNotFound) ||
		errors.Is(err, ErrPayoutNotFound) ||
		errors.Is(err, ErrContactNotFound)
}

// IsCooldownActiveError checks if the error is a cooldown rejection
func IsCooldownActiveError(err error) bool {
	return errors.Is(err, ErrCooldownActive)
}

// RemainingCooldown extracts the remaining seconds from a cooldown error
func RemainingCooldown(err error) (int64, bool) {
	var cooldownErr *CooldownActiveError
	if errors.As(err, &cooldownErr) {
		return cooldownErr.RemainingSeconds, true
	}
	return 0, false
}
