// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the FiscalPulse client.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe truncation with ellipsis, used for log fields
//   - TruncateWidth: display-width truncation for terminal cells
//   - StringWidth: display width of a string (CJK and emoji aware)
//
// Rendering Safety:
//   - SanitizeForTerminal: strips escape sequences and control characters
//     from service-supplied text before it is drawn
//
// File Operations:
//   - WriteFileAtomic: crash-safe file writing with fsync, used by
//     "fiscalpulse config init"
//
// # Usage
//
//	// Keep a user query short in a log line
//	logger.Info("audit submitted", zap.String("query", util.TruncateRunes(q, 80)))
//
//	// Render an audit report without letting it drive the terminal
//	body := util.SanitizeForTerminal(result.AuditReport)
package util
