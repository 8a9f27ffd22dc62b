package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInternal = errors.New("internal error")

	// * Data errors.
	ErrDataNotFound    = errors.New("data not found")
	ErrNoUpdatedData   = errors.New("no data to update")
	ErrConflictingData = errors.New("data conflicts with existing data in unique column")

	// * Communication errors.
	ErrBadRequest              = errors.New("error parsing request")
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")

	// * Authority errors.
	ErrTokenCreation              = errors.New("error creating token")
	ErrExpiredToken               = errors.New("access token has expired")
	ErrInvalidToken               = errors.New("access token is invalid")
	ErrEmptyAuthorizationHeader   = errors.New("authorization header is not provided")
	ErrInvalidAuthorizationHeader = errors.New("authorization header format is invalid")
	ErrInvalidAuthorizationType   = errors.New("authorization type is not supported")
	ErrUnauthorized               = errors.New("user is unauthorized to access the resource")
	ErrForbidden                  = errors.New("user is forbidden to access the resource")

	// * Business errors.
	ErrValidation         = errors.New("validation failed")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrNoBranchAvailable  = errors.New("no branch available")
	ErrReservationFailed  = errors.New("reservation failed")
	ErrIllegalTransition  = errors.New("illegal status transition")
	ErrBranchAlreadySet   = errors.New("branch is already assigned")
	ErrOrderNotAdjustable = errors.New("order can not be adjusted in current status")
)

// ValidationError describes bad input. It is rejected before any side effect.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NoBranchAvailableError is returned when every candidate branch lacked stock.
// Trail holds the checks that led to the decision.
type NoBranchAvailableError struct {
	Trail []TrailEntry
}

func (e *NoBranchAvailableError) Error() string {
	return fmt.Sprintf("no branch available: %d candidates checked", len(e.Trail))
}

func (e *NoBranchAvailableError) Unwrap() error {
	return ErrNoBranchAvailable
}

// ReservationFailedError is returned by the reservation saga after compensation.
type ReservationFailedError struct {
	BranchID  string
	ProductID string
	Cause     error
}

func (e *ReservationFailedError) Error() string {
	return fmt.Sprintf("reservation of %s at branch %s failed: %v", e.ProductID, e.BranchID, e.Cause)
}

func (e *ReservationFailedError) Unwrap() []error {
	return []error{ErrReservationFailed, e.Cause}
}

// RejectedError is a recoverable refusal of a requested order mutation.
type RejectedError struct {
	Reason string
	Cause  error
}

func Reject(cause error, format string, args ...any) *RejectedError {
	return &RejectedError{Reason: fmt.Sprintf(format, args...), Cause: cause}
}

func (e *RejectedError) Error() string {
	return e.Reason
}

func (e *RejectedError) Unwrap() error {
	return e.Cause
}
