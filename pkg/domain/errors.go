package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a registry lookup misses.
var ErrNotFound = errors.New("not found")

// ErrSnapshotNotFound is returned when a snapshot name cannot be found in a store.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Code is a machine-readable reason for a broken state model.
type Code string

const (
	// CodeUntriggerableTransition: a declared edge that no event can fire.
	CodeUntriggerableTransition Code = "UNTRIGGERABLE_TRANSITION"
	// CodeEmptyEvent: a declared event with zero transitions.
	CodeEmptyEvent Code = "EMPTY_EVENT"
	// CodeUnreachableStates: states not reachable from the initial state.
	CodeUnreachableStates Code = "UNREACHABLE_STATES"
	// CodeMalformedEngine: the engine scope list is missing or invalid.
	CodeMalformedEngine Code = "MALFORMED_ENGINE"
	// CodeMalformedDeclaration: a declaration cannot be parsed.
	CodeMalformedDeclaration Code = "MALFORMED_DECLARATION"
)

// BrokenStateModelError signals an authoring mistake in static declarations.
// It is never transient.
type BrokenStateModelError struct {
	Code    Code
	Message string

	// Context identifying the offending declaration, when known.
	Scope      string
	Transition string
	Event      string
	States     []string
}

func (e *BrokenStateModelError) Error() string {
	return e.Message
}

// UntriggerableTransition reports an edge with no event.
func UntriggerableTransition(edge string) *BrokenStateModelError {
	return &BrokenStateModelError{
		Code:       CodeUntriggerableTransition,
		Message:    fmt.Sprintf("Transition %s has no events that can trigger it", edge),
		Transition: edge,
	}
}

// EmptyEvent reports an event with no transitions.
func EmptyEvent(event string) *BrokenStateModelError {
	return &BrokenStateModelError{
		Code:    CodeEmptyEvent,
		Message: fmt.Sprintf("Event %s contains no transitions", event),
		Event:   event,
	}
}

// UnreachableStates reports states left in the reachability pool.
// scope is only named in the message for engine-level checks.
func UnreachableStates(scope string, states []string, engineLevel bool) *BrokenStateModelError {
	msg := fmt.Sprintf("States [%s] not reachable from initial state", strings.Join(states, ", "))
	if engineLevel {
		msg += " in scope " + scope
	}
	return &BrokenStateModelError{
		Code:    CodeUnreachableStates,
		Message: msg,
		Scope:   scope,
		States:  states,
	}
}

// MalformedEngine reports a missing or invalid scope list.
func MalformedEngine(detail string) *BrokenStateModelError {
	msg := "Engine needs scopes defined as a scope list"
	if detail != "" {
		msg += ": " + detail
	}
	return &BrokenStateModelError{Code: CodeMalformedEngine, Message: msg}
}

// MalformedDeclaration reports a declaration that cannot be parsed.
func MalformedDeclaration(scope, format string, args ...any) *BrokenStateModelError {
	return &BrokenStateModelError{
		Code:    CodeMalformedDeclaration,
		Message: fmt.Sprintf(format, args...),
		Scope:   scope,
	}
}

// IsBroken reports whether err is (or wraps) a BrokenStateModelError.
func IsBroken(err error) bool {
	var e *BrokenStateModelError
	return errors.As(err, &e)
}

// CodeOf extracts the code from err, or "" if err is not a broken model error.
func CodeOf(err error) Code {
	var e *BrokenStateModelError
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
