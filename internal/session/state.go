// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import "github.com/fiscalpulse/fiscalpulse-tui/internal/audit"

// FallbackMessage is shown for every failure that carries no service detail.
const FallbackMessage = "An unexpected error occurred"

// =============================================================================
// LIFECYCLE STATE
// =============================================================================

// Phase is the lifecycle phase of an audit session.
type Phase int

const (
	PhaseIdle           Phase = iota // Nothing submitted yet
	PhaseSubmitting                  // One request in flight
	PhaseSettledSuccess              // Last request produced a result
	PhaseSettledError                // Last request failed
)

// String returns the display name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSettledSuccess:
		return "settled-success"
	case PhaseSettledError:
		return "settled-error"
	default:
		return "unknown"
	}
}

// State is the single source of truth the result view renders from.
//
// Result is non-nil only in PhaseSettledSuccess and Message is non-empty only
// in PhaseSettledError. States are built through the constructors below so
// that a session never holds a result and an error at once.
type State struct {
	Phase   Phase
	Result  *audit.Result
	Message string
}

func idleState() State       { return State{Phase: PhaseIdle} }
func submittingState() State { return State{Phase: PhaseSubmitting} }

func successState(r audit.Result) State {
	return State{Phase: PhaseSettledSuccess, Result: &r}
}

func errorState(message string) State {
	return State{Phase: PhaseSettledError, Message: message}
}

// IsSubmitting reports whether a request is in flight.
func (s State) IsSubmitting() bool { return s.Phase == PhaseSubmitting }

// IsSettled reports whether the last request has completed.
func (s State) IsSettled() bool {
	return s.Phase == PhaseSettledSuccess || s.Phase == PhaseSettledError
}

// =============================================================================
// OUTCOME
// =============================================================================

// Outcome is the result of one audit task: either a Result or a normalized
// message, never both. It is built once, where the network call returns, so
// nothing downstream ever looks at a raw error.
type Outcome struct {
	seq     uint64
	result  *audit.Result
	message string
}

func successOutcome(seq uint64, r audit.Result) Outcome {
	return Outcome{seq: seq, result: &r}
}

func failureOutcome(seq uint64, message string) Outcome {
	return Outcome{seq: seq, message: message}
}

// Result returns the audit result of a successful outcome.
func (o Outcome) Result() (audit.Result, bool) {
	if o.result == nil {
		return audit.Result{}, false
	}
	return *o.result, true
}

// Message returns the normalized message of a failed outcome.
func (o Outcome) Message() (string, bool) {
	if o.result != nil {
		return "", false
	}
	return o.message, true
}

// Normalize turns any audit failure into the message shown to the user:
// the service detail verbatim when there is one, FallbackMessage otherwise.
func Normalize(err error) string {
	if detail := audit.DetailOf(err); detail != "" {
		return detail
	}
	return FallbackMessage
}
