package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindValidationConflict
	KindDependencyConflict
	KindPersistenceFailure
)

// Sentinel errors for the common failure modes.
var (
	ErrNotFound           = errors.New("entity not found")
	ErrBalanceExceeded    = errors.New("balance exceeded")
	ErrDuplicateField     = errors.New("duplicate unique field")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrDependentsExist    = errors.New("dependent entities exist")
	ErrPersistenceFailure = errors.New("persistence failure")
)

// Error carries a kind, a stable code and a human-readable message.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Error codes
const (
	CodeNotFound           = "NOT_FOUND"
	CodeBalanceExceeded    = "BALANCE_EXCEEDED"
	CodeDuplicateField     = "DUPLICATE_FIELD"
	CodeInvalidAmount      = "INVALID_AMOUNT"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeDependentsExist    = "DEPENDENTS_EXIST"
	CodePersistenceFailure = "PERSISTENCE_FAILURE"
)

func New(kind Kind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

// NotFound reports a missing referenced entity, e.g. NotFound("purchase", 12).
func NotFound(entity string, id int64) *Error {
	return New(
		KindNotFound,
		CodeNotFound,
		fmt.Sprintf("%s with id %d not found", entity, id),
		ErrNotFound,
	)
}

// BalanceExceeded reports a write that would push a running total past its ceiling.
func BalanceExceeded(message string) *Error {
	return New(KindValidationConflict, CodeBalanceExceeded, message, ErrBalanceExceeded)
}

// Duplicate reports a uniqueness violation caught in application code.
func Duplicate(message string) *Error {
	return New(KindValidationConflict, CodeDuplicateField, message, ErrDuplicateField)
}

// InvalidAmount reports a non-positive or otherwise unusable monetary value.
func InvalidAmount(message string) *Error {
	return New(KindValidationConflict, CodeInvalidAmount, message, ErrInvalidAmount)
}

// Invalid reports a semantically invalid input that is not a balance or amount issue.
func Invalid(message string) *Error {
	return New(KindValidationConflict, CodeInvalidInput, message, nil)
}

// DependencyConflict reports a delete blocked by live dependents.
func DependencyConflict(message string) *Error {
	return New(KindDependencyConflict, CodeDependentsExist, message, ErrDependentsExist)
}

// Persistence wraps a storage-layer failure. The transaction is rolled back
// by the caller; the cause is surfaced verbatim.
func Persistence(err error) *Error {
	return New(KindPersistenceFailure, CodePersistenceFailure, "storage operation failed", err)
}

// KindOf extracts the kind of err, or KindPersistenceFailure for unknown errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPersistenceFailure
}
