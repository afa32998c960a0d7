package service

import (
	"errors"
	"fmt"
)

// Sentinel errors for absent or foreign-owned resources. A resource owned by
// another user is indistinguishable from a missing one.
var (
	ErrTaskNotFound = errors.New("task not found")
	ErrPlanNotFound = errors.New("daily plan not found")
	ErrUserNotFound = errors.New("user not found")
)

// ValidationError reports malformed input. It is surfaced directly to the
// caller and never reaches the store layer.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DegradedError signals that the primary generative provider failed but the
// fallback produced a usable response. Callers must not treat it as a silent
// success: the response may differ in quality.
type DegradedError struct {
	Cause error
}

func (e *DegradedError) Error() string {
	return "primary provider degraded: " + e.Cause.Error()
}

func (e *DegradedError) Unwrap() error {
	return e.Cause
}

// UnavailableError signals that both generative providers failed. Terminal
// for the request.
type UnavailableError struct {
	Cause error
}

func (e *UnavailableError) Error() string {
	return "ai providers unavailable: " + e.Cause.Error()
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}

// IsDegraded reports whether err carries a DegradedError.
func IsDegraded(err error) bool {
	var degraded *DegradedError
	return errors.As(err, &degraded)
}

// IsUnavailable reports whether err carries an UnavailableError.
func IsUnavailable(err error) bool {
	var unavailable *UnavailableError
	return errors.As(err, &unavailable)
}
