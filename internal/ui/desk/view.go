// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package desk

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fiscalpulse/fiscalpulse-tui/internal/ui/components"
)

const minBodyHeight = 3

var pageMargin = lipgloss.NewStyle().PaddingLeft(2)

// View renders the header, the scrollable body and the key help.
func (m Model) View() string {
	header := m.header.View()
	footer := m.footerView()

	body := m.viewport.View()
	if !m.ready {
		body = m.bodyView()
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// bodySections returns the form, the result panel and the trailing
// notices/features. The result is empty until the session settles.
func (m Model) bodySections() (top, result, bottom string) {
	width := m.theme.ContentWidth()
	st := m.session.State()

	form := components.RenderForm(m.theme, components.FormView{
		Input:      m.input.View(),
		Focused:    m.input.Focused(),
		CanSubmit:  m.session.CanSubmit(),
		Submitting: st.IsSubmitting(),
		Spinner:    m.spinner.View(),
	}, width)

	top = lipgloss.JoinVertical(lipgloss.Left,
		"",
		components.RenderIntro(m.theme, width),
		"",
		form,
		"",
	)

	result = components.RenderResult(m.theme, st, m.markdown, width)

	var tail []string
	if m.notice != "" {
		tail = append(tail, components.RenderWarningAlert(m.theme, m.notice, width), "")
	}
	if !m.cfg.UI.HideFeatures {
		tail = append(tail, components.RenderFeatures(m.theme, components.DefaultFeatures, width))
	}
	bottom = strings.Join(tail, "\n")
	return top, result, bottom
}

func (m Model) bodyView() string {
	top, result, bottom := m.bodySections()
	parts := []string{top}
	if result != "" {
		parts = append(parts, result, "")
	}
	if bottom != "" {
		parts = append(parts, bottom)
	}
	return pageMargin.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) footerView() string {
	return pageMargin.Render(m.help.View(m.keys))
}

func (m Model) bodyHeight() int {
	h := m.height - lipgloss.Height(m.header.View()) - lipgloss.Height(m.footerView())
	if h < minBodyHeight {
		h = minBodyHeight
	}
	return h
}

// syncViewport refreshes the scrollable body after every update.
func (m *Model) syncViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.bodyView())
	if m.scrollToResult {
		top, result, _ := m.bodySections()
		if result != "" {
			m.viewport.SetYOffset(lipgloss.Height(top))
		}
		m.scrollToResult = false
	}
}
