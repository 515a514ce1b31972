// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fiscalpulse/fiscalpulse-tui/internal/audit"
	"github.com/fiscalpulse/fiscalpulse-tui/internal/ui/styles"
	"github.com/fiscalpulse/fiscalpulse-tui/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Health is the audit service state shown in the header badge.
type Health int

const (
	HealthUnknown Health = iota
	HealthChecking
	HealthHealthy
	HealthDegraded
	HealthDown
)

// String returns the badge text for the health state.
func (h Health) String() string {
	switch h {
	case HealthChecking:
		return "checking"
	case HealthHealthy:
		return "online"
	case HealthDegraded:
		return "degraded"
	case HealthDown:
		return "offline"
	default:
		return "unknown"
	}
}

// HealthFromStatus classifies a health check result. A response that is not
// "healthy" still means the service is reachable.
func HealthFromStatus(status *audit.HealthStatus, err error) Health {
	if err != nil {
		if audit.IsTransport(err) {
			return HealthDown
		}
		return HealthDegraded
	}
	if status.Healthy() {
		return HealthHealthy
	}
	return HealthDegraded
}

// Header represents the title bar component
type Header struct {
	Title    string // Brand (default: "FiscalPulse")
	Subtitle string // Tagline (default: "Autonomous AI Audit Agent")
	Service  string // Base URL of the audit service
	Health   Health
	Width    int
	theme    *styles.Theme
}

// NewHeader creates a new Header component with default values
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title:    "FiscalPulse",
		Subtitle: "Autonomous AI Audit Agent",
		Health:   HealthUnknown,
		Width:    80,
		theme:    theme,
	}
}

// SetWidth updates the header width
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetHealth updates the service badge
func (h *Header) SetHealth(health Health) {
	h.Health = health
}

// SetService updates the service URL shown next to the badge
func (h *Header) SetService(url string) {
	h.Service = url
}

// View renders the header. Narrow terminals get ViewCompact.
func (h *Header) View() string {
	if h.Width > 0 && h.Width < 60 {
		return h.ViewCompact()
	}

	width := h.Width
	if width <= 0 {
		width = 80
	}
	innerWidth := width - 2

	left := h.theme.HeaderBrand.Render(h.Title) + "  " +
		h.theme.HeaderSubtitle.Render(h.Subtitle)

	right := h.badge()
	if h.Service != "" {
		// The URL yields space so the header stays on one line.
		room := innerWidth - lipgloss.Width(left) - lipgloss.Width(right) - 2
		if service := util.TruncateWidth(h.Service, room); service != "" {
			right = h.theme.Muted.Render(service) + " " + right
		}
	}

	gap := innerWidth - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	line := left + strings.Repeat(" ", gap) + right
	return h.theme.Header.Width(width).Render(line)
}

// ViewCompact renders a single line without the subtitle or URL
func (h *Header) ViewCompact() string {
	return h.theme.HeaderBrand.Render(h.Title) + " " + h.badge()
}

func (h *Header) badge() string {
	text := "[" + h.Health.String() + "]"
	switch h.Health {
	case HealthHealthy:
		return h.theme.BadgeHealthy.Render(text)
	case HealthDegraded:
		return h.theme.BadgeDegraded.Render(text)
	case HealthDown:
		return h.theme.BadgeDown.Render(text)
	default:
		return h.theme.BadgeUnknown.Render(text)
	}
}
