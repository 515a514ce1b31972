// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session implements the audit submission lifecycle.
//
// A Session holds the query text and one lifecycle State:
//
//	Idle -> Submitting -> SettledSuccess | SettledError -> Submitting -> ...
//
// There is no terminal state. Submit refuses to start while a request is in
// flight, so at most one request is outstanding and the settled state always
// belongs to the latest request. Requests are neither cancelled nor queued.
//
// # Usage
//
// In a Bubble Tea model the task becomes a command and its Outcome comes
// back as a message:
//
//	task, ok := sess.Submit(ctx)
//	if ok {
//	    return m, func() tea.Msg { return settledMsg{task()} }
//	}
//	...
//	case settledMsg:
//	    sess.Settle(msg.outcome)
//
// A blocking caller can use Run instead.
//
// # Errors
//
// Every failure is reduced to one string by Normalize before it reaches the
// State: the service's "detail" when it sent one, FallbackMessage otherwise.
package session
