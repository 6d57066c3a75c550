package engine

import (
	"errors"
	"fmt"
)

// EventError reports an event that could not be applied to the store.
//
// Controller.Apply returns it; Controller.Dispatch logs it and treats the
// event as a no-op, which is what UI callers want for a stale row id.
type EventError struct {
	// Code identifies the error category.
	Code EventErrorCode

	// Message is a human-readable description.
	Message string

	// Event is the event type that failed.
	Event EventType

	// Target is the offending row id or column key, if any.
	Target string
}

// EventErrorCode categorizes event errors.
type EventErrorCode string

const (
	// ErrCodeUnknownEvent indicates an event type the controller does not handle.
	ErrCodeUnknownEvent EventErrorCode = "UNKNOWN_EVENT"

	// ErrCodeUnknownRow indicates a row id that is not in the store.
	ErrCodeUnknownRow EventErrorCode = "UNKNOWN_ROW"

	// ErrCodeUnknownColumn indicates a sort key that is not a column.
	ErrCodeUnknownColumn EventErrorCode = "UNKNOWN_COLUMN"

	// ErrCodeUnsupported indicates an event the current selection mode rejects.
	ErrCodeUnsupported EventErrorCode = "UNSUPPORTED"
)

// Error implements the error interface.
func (e *EventError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("%s: %s (event=%s, target=%q)", e.Code, e.Message, e.Event, e.Target)
	}
	return fmt.Sprintf("%s: %s (event=%s)", e.Code, e.Message, e.Event)
}

// IsEventError reports whether err is an EventError with the given code.
func IsEventError(err error, code EventErrorCode) bool {
	var ee *EventError
	if errors.As(err, &ee) {
		return ee.Code == code
	}
	return false
}

func unknownRow(ev EventType, id string) *EventError {
	return &EventError{Code: ErrCodeUnknownRow, Message: "row not found", Event: ev, Target: id}
}
