// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/fiscalpulse/fiscalpulse-tui/internal/ui/styles"
)

// Feature is one highlight card under the audit form.
type Feature struct {
	Icon        string
	Title       string
	Description string
}

// DefaultFeatures are the highlights shown on the audit desk.
var DefaultFeatures = []Feature{
	{Icon: "#", Title: "Secure & Private", Description: "Your financial data stays in your own infrastructure."},
	{Icon: "*", Title: "AI-Powered", Description: "An agent team categorizes expenses and checks deductions."},
	{Icon: "~", Title: "Real-Time Analysis", Description: "Reports are generated as soon as the audit completes."},
}

// RenderFeatures lays the features out side by side when there is room and
// stacked otherwise.
func RenderFeatures(theme *styles.Theme, features []Feature, width int) string {
	if len(features) == 0 {
		return ""
	}

	stacked := width < 72
	colWidth := width
	if !stacked {
		colWidth = width / len(features)
	}

	cards := make([]string, 0, len(features))
	for _, f := range features {
		title := theme.FeatureIcon.Render(f.Icon) + " " + theme.FeatureTitle.Render(f.Title)
		body := theme.FeatureText.Render(f.Description)
		card := theme.Feature.Width(colWidth).Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
		cards = append(cards, card)
	}

	if stacked {
		return lipgloss.JoinVertical(lipgloss.Left, cards...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}
