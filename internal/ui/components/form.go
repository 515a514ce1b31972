// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/fiscalpulse/fiscalpulse-tui/internal/ui/styles"
)

// Form texts.
const (
	IntroTitle       = "FiscalPulse Audit Desk"
	IntroText        = "Describe what you want checked. The agent categorizes the expenses, audits them and prepares the tax form."
	QueryLabel       = "What would you like to audit today?"
	QueryPlaceholder = "e.g., Check my hardware expenses for tax deductions"
	SubmitLabel      = "Start Audit"
	BusyLabel        = "Analyzing"
)

// FormView is everything the form needs to draw itself.
type FormView struct {
	// Input is the rendered text area.
	Input string

	// Focused highlights the input border.
	Focused bool

	// CanSubmit enables the button.
	CanSubmit bool

	// Submitting swaps the button for the spinner and BusyLabel.
	Submitting bool

	// Spinner is the rendered spinner frame, used while submitting.
	Spinner string
}

// RenderIntro renders the card above the form.
func RenderIntro(theme *styles.Theme, width int) string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		theme.CardTitle.Render(IntroTitle),
		theme.CardText.Render(IntroText),
	)
	return theme.Card.Width(width).Render(body)
}

// RenderForm renders the label, the input and the submit button.
func RenderForm(theme *styles.Theme, f FormView, width int) string {
	label := theme.FormLabel.Render(QueryLabel)

	box := theme.InputBox
	if f.Focused {
		box = theme.InputBoxFocus
	}
	input := box.Width(width).Render(f.Input)

	return lipgloss.JoinVertical(lipgloss.Left, label, input, "", RenderButton(theme, f))
}

// RenderButton renders the submit button in its current state.
func RenderButton(theme *styles.Theme, f FormView) string {
	switch {
	case f.Submitting:
		return theme.ButtonBusy.Render(f.Spinner + " " + BusyLabel)
	case f.CanSubmit:
		return theme.Button.Render(SubmitLabel)
	default:
		return theme.ButtonDisabled.Render(SubmitLabel)
	}
}
