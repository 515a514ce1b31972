// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/fiscalpulse/fiscalpulse-tui/internal/ui/styles"
	"github.com/fiscalpulse/fiscalpulse-tui/internal/util"
)

// RenderErrorAlert renders a settled failure. The message keeps its words
// apart from terminal sanitizing but is word-wrapped to width, so a long
// message spans several lines.
func RenderErrorAlert(theme *styles.Theme, message string, width int) string {
	title := theme.ErrorTitle.Render(styles.StatusIndicators.Error + " Error")
	body := util.SanitizeForTerminal(message)
	return theme.ErrorAlert.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
}

// RenderWarningAlert renders a non-fatal notice such as a rejected config reload.
func RenderWarningAlert(theme *styles.Theme, message string, width int) string {
	body := styles.StatusIndicators.Warning + " " + util.SanitizeForTerminal(message)
	return theme.WarningAlert.Width(width).Render(body)
}
