package entities

import (
	"errors"
	"fmt"
)

// ErrConcurrencyConflict is returned when a compare-and-set balance update
// finds the balance changed since it was read.
var ErrConcurrencyConflict = errors.New("concurrent balance modification")

// ValidationError is a rejected request. UserMessage is safe to show to the
// caller; no state was changed.
type ValidationError struct {
	UserMessage string
	Reason      string // short machine-readable reason for metrics and logs
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%s): %s", e.Reason, e.UserMessage)
}

// NewValidationError creates a ValidationError
func NewValidationError(reason, userMessage string) *ValidationError {
	return &ValidationError{UserMessage: userMessage, Reason: reason}
}

// PersistenceError wraps a storage failure. The transaction was rolled back.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError wraps err unless it is already a domain error
func NewPersistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	var validationErr *ValidationError
	var persistenceErr *PersistenceError
	if errors.As(err, &validationErr) || errors.As(err, &persistenceErr) || errors.Is(err, ErrConcurrencyConflict) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// ConfigurationError reports an invalid house edge, payout table or setting
type ConfigurationError struct {
	Field   string
	Problem string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Problem)
}

// NewConfigurationError creates a ConfigurationError
func NewConfigurationError(field, problem string) *ConfigurationError {
	return &ConfigurationError{Field: field, Problem: problem}
}

// IsValidationError reports whether err is a ValidationError and returns it
func IsValidationError(err error) (*ValidationError, bool) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr, true
	}
	return nil, false
}
