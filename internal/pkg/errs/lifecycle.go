package errs

import (
	"errors"
	"fmt"
)

// Failure classes of the order lifecycle. Every transition returns either
// nil or an error that unwraps to exactly one of these.
var (
	// ErrGuardViolation marks a transition whose precondition was not met.
	// It is never retried automatically.
	ErrGuardViolation = errors.New("guard violation")

	// ErrConcurrentConflict marks a stale writer rejected by an optimistic
	// version check. The caller may retry the whole operation once.
	ErrConcurrentConflict = errors.New("concurrent conflict")

	// ErrExternalFailure marks a failed call to a collaborator outside the
	// process (payment gateway, driver directory, broker).
	ErrExternalFailure = errors.New("external failure")

	// ErrConsistencyFailure marks a multi-aggregate write that could not be
	// applied or compensated as a unit. It requires manual reconciliation.
	ErrConsistencyFailure = errors.New("consistency failure")
)

// GuardViolationError names the precondition that rejected a transition so
// the caller can present an actionable message.
type GuardViolationError struct {
	Guard  string
	Reason string
}

// NewGuardViolationError creates a GuardViolationError for the named guard.
func NewGuardViolationError(guard, reason string) *GuardViolationError {
	return &GuardViolationError{
		Guard:  guard,
		Reason: reason,
	}
}

func (e *GuardViolationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrGuardViolation, e.Guard, e.Reason)
}

func (e *GuardViolationError) Unwrap() error {
	return ErrGuardViolation
}

// ConcurrentConflictError is returned when a persisted aggregate changed
// between load and save.
type ConcurrentConflictError struct {
	Aggregate string
	ID        string
	Cause     error
}

// NewConcurrentConflictError creates a ConcurrentConflictError without a cause.
func NewConcurrentConflictError(aggregate, id string) *ConcurrentConflictError {
	return &ConcurrentConflictError{
		Aggregate: aggregate,
		ID:        id,
	}
}

// NewConcurrentConflictErrorWithCause creates a ConcurrentConflictError carrying the driver error.
func NewConcurrentConflictErrorWithCause(aggregate, id string, cause error) *ConcurrentConflictError {
	return &ConcurrentConflictError{
		Aggregate: aggregate,
		ID:        id,
		Cause:     cause,
	}
}

func (e *ConcurrentConflictError) Error() string {
	msg := fmt.Sprintf("%s: %s %s is not available, it was modified by another writer",
		ErrConcurrentConflict, e.Aggregate, e.ID)
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *ConcurrentConflictError) Unwrap() error {
	return ErrConcurrentConflict
}

// ExternalFailureError wraps a failed collaborator call. The cause stays
// reachable through errors.Is/As alongside ErrExternalFailure.
type ExternalFailureError struct {
	Service string
	Cause   error
}

// NewExternalFailureError creates an ExternalFailureError for the named service.
func NewExternalFailureError(service string, cause error) *ExternalFailureError {
	return &ExternalFailureError{
		Service: service,
		Cause:   cause,
	}
}

func (e *ExternalFailureError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrExternalFailure, e.Service, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrExternalFailure, e.Service)
}

func (e *ExternalFailureError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrExternalFailure}
	}
	return []error{ErrExternalFailure, e.Cause}
}

// ConsistencyFailureError reports a partially applied operation. Compensated
// tells whether the already applied side effects were reversed.
type ConsistencyFailureError struct {
	Operation   string
	Compensated bool
	Cause       error
}

// NewConsistencyFailureError creates a ConsistencyFailureError for the named operation.
func NewConsistencyFailureError(operation string, compensated bool, cause error) *ConsistencyFailureError {
	return &ConsistencyFailureError{
		Operation:   operation,
		Compensated: compensated,
		Cause:       cause,
	}
}

func (e *ConsistencyFailureError) Error() string {
	state := "compensated"
	if !e.Compensated {
		state = "manual reconciliation required"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s, %s (cause: %v)", ErrConsistencyFailure, e.Operation, state, e.Cause)
	}
	return fmt.Sprintf("%s: %s, %s", ErrConsistencyFailure, e.Operation, state)
}

func (e *ConsistencyFailureError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrConsistencyFailure}
	}
	return []error{ErrConsistencyFailure, e.Cause}
}
