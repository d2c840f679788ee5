package types

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

// Error kinds. Every specific error below wraps exactly one of them.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("requested item not found")
	ErrInvalidState      = errors.New("operation not allowed in current state")
	ErrInvalidTransition = errors.New("invalid status transition")

	ErrDeliveryTransient = errors.New("transient delivery failure")
	ErrEndpointGone      = errors.New("push endpoint is gone")
)

var (
	ErrRideRequestNotFound = kindOf(ErrNotFound, "ride request not found")
	ErrRideNotFound        = kindOf(ErrNotFound, "ride not found")
	ErrChatRoomNotFound    = kindOf(ErrNotFound, "chat room not found")
	ErrMessageNotFound     = kindOf(ErrNotFound, "chat message not found")
	ErrNotParticipant      = kindOf(ErrNotFound, "user is not a participant")

	ErrRequestNotPending   = kindOf(ErrInvalidState, "ride request is not pending")
	ErrStatusChanged       = kindOf(ErrInvalidState, "status was changed concurrently")
	ErrAlreadyTerminal     = kindOf(ErrInvalidState, "ride is already completed or cancelled")
	ErrChatRoomInactive    = kindOf(ErrInvalidState, "chat room is not active")
	ErrRideNotCompleted    = kindOf(ErrInvalidState, "ride is not completed")
	ErrFeedbackExists      = kindOf(ErrInvalidState, "feedback already submitted")
	ErrRideAlreadyAccepted = kindOf(ErrInvalidState, "ride request already has a ride")

	ErrSkippedTransition = kindOf(ErrInvalidTransition, "status must advance to its immediate successor")

	ErrFailedToPublishEvent = errors.New("failed to publish event")
)

type kindError struct {
	kind error
	msg  string
}

func kindOf(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string {
	return e.msg
}

func (e *kindError) Unwrap() error {
	return e.kind
}

// ValidationError carries per-field messages of rejected input.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
