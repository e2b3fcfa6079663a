package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for classification with errors.Is.
// Each typed error below unwraps to one of these.
var (
	ErrValueIsRequired        = errors.New("value is required")
	ErrValueIsInvalid         = errors.New("value is invalid")
	ErrValueIsOutOfRange      = errors.New("value is out of range")
	ErrObjectNotFound         = errors.New("object not found")
	ErrValidationFailed       = errors.New("validation failed")
	ErrInvalidTransition      = errors.New("invalid state transition")
	ErrTransitionNotPermitted = errors.New("transition not permitted")
	ErrProgressionBlocked     = errors.New("progression blocked")
	ErrNoCourierAssigned      = errors.New("no courier assigned")
	ErrAlreadyTerminal        = errors.New("order is in terminal state")
)

// sanitize strips newlines from interpolated values so error messages stay single-line.
func sanitize(v any) string {
	return strings.ReplaceAll(fmt.Sprintf("%v", v), "\n", " ")
}

// ValueIsRequiredError indicates a required value was missing.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("value is required: %s (cause: %s)", e.ParamName, e.Cause)
	}
	return fmt.Sprintf("value is required: %s", e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error { return ErrValueIsRequired }

// ValueIsInvalidError indicates a value was present but malformed.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("value is invalid: %s (cause: %s)", e.ParamName, e.Cause)
	}
	return fmt.Sprintf("value is invalid: %s", e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error { return ErrValueIsInvalid }

// ValueIsOutOfRangeError indicates a numeric value fell outside its allowed bounds.
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func (e *ValueIsOutOfRangeError) Error() string {
	return fmt.Sprintf("value is out of range: %s is %s, min value is %v, max value is %v",
		e.ParamName, sanitize(e.Value), e.Min, e.Max)
}

func (e *ValueIsOutOfRangeError) Unwrap() error { return ErrValueIsOutOfRange }

// ObjectNotFoundError indicates an entity lookup by identifier found nothing.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("object not found: param is: %s, ID is: %s (cause: %s)", e.ParamName, sanitize(e.ID), e.Cause)
	}
	return fmt.Sprintf("object not found: %s", sanitize(e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error { return ErrObjectNotFound }

// ValidationError aggregates every constraint violated by a creation or update request.
// Violations are collected rather than failing on the first, so callers can report
// the complete list back in one response.
type ValidationError struct {
	Violations []string
}

func NewValidationError(violations []string) *ValidationError {
	return &ValidationError{Violations: violations}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Violations, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }

// InvalidTransitionError indicates a state change not present in the transition table.
// ValidNext lists the states reachable from From, for caller diagnostics.
type InvalidTransitionError struct {
	From      string
	To        string
	ValidNext []string
}

func NewInvalidTransitionError(from, to string, validNext []string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to, ValidNext: validNext}
}

func (e *InvalidTransitionError) Error() string {
	if len(e.ValidNext) == 0 {
		return fmt.Sprintf("invalid state transition: %s -> %s, no transitions allowed from %s", e.From, e.To, e.From)
	}
	return fmt.Sprintf("invalid state transition: %s -> %s, valid transitions from %s: %s",
		e.From, e.To, e.From, strings.Join(e.ValidNext, ", "))
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// TransitionNotPermittedError indicates a manual transition request outside the
// restrictive manual allow-list. Forward progress must be automatic.
type TransitionNotPermittedError struct {
	From string
	To   string
}

func NewTransitionNotPermittedError(from, to string) *TransitionNotPermittedError {
	return &TransitionNotPermittedError{From: from, To: to}
}

func (e *TransitionNotPermittedError) Error() string {
	return fmt.Sprintf("manual transition from %s to %s is not allowed: state progression must be automatic based on courier movement",
		e.From, e.To)
}

func (e *TransitionNotPermittedError) Unwrap() error { return ErrTransitionNotPermitted }

// ProgressionBlockedError indicates an automatic transition was attempted before its
// physical precondition was met. Distance carries the courier's current distance to the
// relevant target where applicable.
type ProgressionBlockedError struct {
	TargetState string
	Reason      string
	Distance    float64
}

func NewProgressionBlockedError(targetState, reason string, distance float64) *ProgressionBlockedError {
	return &ProgressionBlockedError{TargetState: targetState, Reason: reason, Distance: distance}
}

func (e *ProgressionBlockedError) Error() string {
	return fmt.Sprintf("cannot progress to %s: %s", e.TargetState, e.Reason)
}

func (e *ProgressionBlockedError) Unwrap() error { return ErrProgressionBlocked }

// NoCourierAssignedError indicates an operation that requires a bound courier was
// attempted on an order without one.
type NoCourierAssignedError struct {
	OrderID string
}

func NewNoCourierAssignedError(orderID string) *NoCourierAssignedError {
	return &NoCourierAssignedError{OrderID: orderID}
}

func (e *NoCourierAssignedError) Error() string {
	return fmt.Sprintf("no courier assigned to order %s", e.OrderID)
}

func (e *NoCourierAssignedError) Unwrap() error { return ErrNoCourierAssigned }

// AlreadyTerminalError indicates an operation on an order that has already reached
// DELIVERED or CANCELLED.
type AlreadyTerminalError struct {
	OrderID string
	State   string
}

func NewAlreadyTerminalError(orderID, state string) *AlreadyTerminalError {
	return &AlreadyTerminalError{OrderID: orderID, State: state}
}

func (e *AlreadyTerminalError) Error() string {
	return fmt.Sprintf("order %s is already in terminal state: %s", e.OrderID, e.State)
}

func (e *AlreadyTerminalError) Unwrap() error { return ErrAlreadyTerminal }
