// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fiscalpulse/fiscalpulse-tui/internal/audit"
	"github.com/fiscalpulse/fiscalpulse-tui/internal/util"
)

// queryLogRunes bounds how much of a query is written to the log.
const queryLogRunes = 80

// Auditor sends one query to the audit service.
// *audit.Client satisfies it.
type Auditor interface {
	Audit(ctx context.Context, query string) (*audit.Result, error)
}

// Task performs the request for one submission. It is the only code that
// runs off the owner's goroutine and it touches no session state; hand its
// Outcome back through Settle.
type Task func() Outcome

// =============================================================================
// SESSION
// =============================================================================

// Session owns the query text and the lifecycle state of audit submissions.
//
// A Session has exactly one owner (the Bubble Tea update loop, or the ask
// command) and is not safe for concurrent use. The views receive it by
// pointer and only read from it.
type Session struct {
	query   string
	state   State
	auditor Auditor
	logger  *zap.Logger

	// seq numbers submissions; Settle only accepts the outstanding one.
	seq       uint64
	requestID string
}

// New creates an idle session that submits through auditor.
func New(auditor Auditor, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		state:   idleState(),
		auditor: auditor,
		logger:  logger,
	}
}

// Query returns the query text exactly as entered.
func (s *Session) Query() string {
	return s.query
}

// UpdateQuery replaces the query text verbatim. It is allowed in every phase
// and never changes the phase.
func (s *Session) UpdateQuery(text string) {
	s.query = text
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// SetAuditor replaces the backend used by the next submission. A request
// already in flight keeps the auditor it started with.
func (s *Session) SetAuditor(a Auditor) {
	s.auditor = a
}

// CanSubmit reports whether Submit would start a request: the trimmed query
// is non-empty and no request is in flight.
func (s *Session) CanSubmit() bool {
	return strings.TrimSpace(s.query) != "" && !s.state.IsSubmitting() && s.auditor != nil
}

// Submit starts a submission. When CanSubmit is false it does nothing and
// returns (nil, false). Otherwise the session moves to PhaseSubmitting,
// dropping any previous result or error, and the returned task performs
// exactly one request with the untrimmed query.
func (s *Session) Submit(ctx context.Context) (Task, bool) {
	if !s.CanSubmit() {
		s.logger.Debug("audit submit ignored",
			zap.Stringer("phase", s.state.Phase),
			zap.Bool("empty_query", strings.TrimSpace(s.query) == ""))
		return nil, false
	}

	s.seq++
	s.requestID = uuid.NewString()
	s.state = submittingState()

	seq, query, auditor := s.seq, s.query, s.auditor
	ctx = audit.WithRequestID(ctx, s.requestID)

	s.logger.Info("audit submitted",
		zap.String("request_id", s.requestID),
		zap.String("query", util.TruncateRunes(query, queryLogRunes)))

	return func() Outcome {
		res, err := auditor.Audit(ctx, query)
		if err != nil {
			return failureOutcome(seq, Normalize(err))
		}
		if res == nil {
			return failureOutcome(seq, FallbackMessage)
		}
		return successOutcome(seq, *res)
	}, true
}

// Settle applies the outcome of the outstanding submission. Outcomes that do
// not belong to it are ignored and Settle returns false.
func (s *Session) Settle(o Outcome) bool {
	if !s.state.IsSubmitting() || o.seq != s.seq {
		s.logger.Warn("stale audit outcome ignored",
			zap.Uint64("seq", o.seq),
			zap.Uint64("current_seq", s.seq),
			zap.Stringer("phase", s.state.Phase))
		return false
	}

	if res, ok := o.Result(); ok {
		s.state = successState(res)
		s.logger.Info("audit settled",
			zap.String("request_id", s.requestID),
			zap.Stringer("phase", s.state.Phase),
			zap.String("category", res.Category),
			zap.Bool("form_prepared", res.FormPrepared))
		return true
	}

	msg, _ := o.Message()
	s.state = errorState(msg)
	s.logger.Info("audit settled",
		zap.String("request_id", s.requestID),
		zap.Stringer("phase", s.state.Phase),
		zap.String("message", msg))
	return true
}

// Run submits and waits for the outcome on the caller's goroutine. It
// returns the resulting state and whether a request was made at all.
func (s *Session) Run(ctx context.Context) (State, bool) {
	task, ok := s.Submit(ctx)
	if !ok {
		return s.state, false
	}
	s.Settle(task())
	return s.state, true
}
