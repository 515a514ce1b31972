// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package desk

import (
	"github.com/fiscalpulse/fiscalpulse-tui/internal/audit"
	"github.com/fiscalpulse/fiscalpulse-tui/internal/config"
	"github.com/fiscalpulse/fiscalpulse-tui/internal/session"
)

// =============================================================================
// AUDIT MESSAGES
// =============================================================================

// AuditSettledMsg carries the outcome of a submitted audit back into the
// update loop.
type AuditSettledMsg struct {
	Outcome session.Outcome
}

// =============================================================================
// SERVICE MESSAGES
// =============================================================================

// HealthMsg reports a health check of the audit service.
type HealthMsg struct {
	Status *audit.HealthStatus
	Err    error
}

// =============================================================================
// CONFIG MESSAGES
// =============================================================================

// ConfigReloadedMsg delivers a configuration reloaded from disk.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// ConfigErrorMsg reports a config file that could not be reloaded. The
// previous configuration stays in effect.
type ConfigErrorMsg struct {
	Err error
}
