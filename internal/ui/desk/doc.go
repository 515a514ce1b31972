// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package desk provides the audit desk: the Bubble Tea screen where a user
// types an audit query, starts the audit and reads the results.
//
// # Layout
//
//	FiscalPulse  Autonomous AI Audit Agent          http://...  [online]
//	  FiscalPulse Audit Desk (intro card)
//	  What would you like to audit today?
//	  [ query input                         ]
//	  [ Start Audit ]  /  [ ⠋ Analyzing ]
//	  Audit Results | error alert   (after settlement)
//	  Secure & Private  AI-Powered  Real-Time Analysis
//	  C-s start audit  Enter new line  PgDn scroll down  Esc/C-c quit
//
// # Messages
//
// The model reacts to AuditSettledMsg (the request outcome), HealthMsg
// (service badge), ConfigReloadedMsg and ConfigErrorMsg (live config),
// plus the usual Bubble Tea key, mouse and window size messages.
//
// # Usage
//
//	m := desk.New(desk.Options{Config: cfg, Backend: client})
//	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
package desk
