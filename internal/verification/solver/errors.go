package solver

import (
	"errors"
	"fmt"
)

// ErrorCategory is the normalized failure taxonomy for solver backends.
type ErrorCategory string

const (
	// ErrorTimeout indicates the solver did not answer in time
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorBadData indicates the solver returned a malformed response
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorAuthentication indicates a missing or rejected API key
	ErrorAuthentication ErrorCategory = "authentication"

	// ErrorBalance indicates the account has no funds left
	ErrorBalance ErrorCategory = "insufficient_balance"

	// ErrorUnsolvable indicates workers gave up on the challenge
	ErrorUnsolvable ErrorCategory = "unsolvable"

	// ErrorServiceOutage indicates the solver is unreachable or failing
	ErrorServiceOutage ErrorCategory = "service_outage"

	// ErrorRateLimited indicates the solver has no free slots
	ErrorRateLimited ErrorCategory = "rate_limited"

	// ErrorInternal indicates an unexpected internal error
	ErrorInternal ErrorCategory = "internal"
)

// SolverError wraps backend failures with a normalized category.
type SolverError struct {
	Category   ErrorCategory
	SolverID   string
	Message    string
	Underlying error
	Retryable  bool
}

func (e *SolverError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("solver %s [%s]: %s: %v", e.SolverID, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("solver %s [%s]: %s", e.SolverID, e.Category, e.Message)
}

func (e *SolverError) Unwrap() error {
	return e.Underlying
}

// NewSolverError creates a categorized solver error.
func NewSolverError(category ErrorCategory, solverID, message string, underlying error) *SolverError {
	retryable := category == ErrorTimeout ||
		category == ErrorServiceOutage ||
		category == ErrorRateLimited ||
		category == ErrorUnsolvable

	return &SolverError{
		Category:   category,
		SolverID:   solverID,
		Message:    message,
		Underlying: underlying,
		Retryable:  retryable,
	}
}

// IsRetryable reports whether another attempt might succeed.
func IsRetryable(err error) bool {
	var se *SolverError
	if errors.As(err, &se) {
		return se.Retryable
	}
	return false
}

// IsAccountFault reports a rejected key or an empty balance: the backend is
// unusable until an operator acts.
func IsAccountFault(err error) bool {
	var se *SolverError
	if !errors.As(err, &se) {
		return false
	}
	return se.Category == ErrorAuthentication || se.Category == ErrorBalance
}

// IsRequestFault reports a permanent failure caused by the challenge itself,
// such as an image the service refuses. Another backend would refuse it too.
func IsRequestFault(err error) bool {
	var se *SolverError
	if !errors.As(err, &se) || se.Retryable {
		return false
	}
	return !IsAccountFault(err)
}

// GetCategory extracts the category, defaulting to ErrorInternal.
func GetCategory(err error) ErrorCategory {
	var se *SolverError
	if errors.As(err, &se) {
		return se.Category
	}
	return ErrorInternal
}

var (
	ErrNoSolvableChallenge = errors.New("no solvable challenge")
	ErrEmptyAnswer         = errors.New("solver returned an empty answer")
	ErrUnknownService      = errors.New("unknown captcha service")
)
