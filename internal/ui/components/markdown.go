// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
	glamourStyles "github.com/charmbracelet/glamour/styles"

	"github.com/fiscalpulse/fiscalpulse-tui/internal/util"
)

// MarkdownOptions configures a Markdown renderer.
type MarkdownOptions struct {
	// Width is the wrap width. 0 uses 80.
	Width int

	// Style is a glamour standard style ("dark", "light", "notty").
	// Empty picks one from the terminal.
	Style string

	// Plain disables markdown and renders the report as wrapped text.
	Plain bool
}

// Markdown renders audit reports with glamour.
//
// The glamour renderer is built lazily and rebuilt only when the width
// changes. If glamour fails the report is shown as plain text.
type Markdown struct {
	opts     MarkdownOptions
	renderer *glamour.TermRenderer
	builtFor int
}

// NewMarkdown creates a renderer.
func NewMarkdown(opts MarkdownOptions) *Markdown {
	if opts.Width <= 0 {
		opts.Width = 80
	}
	return &Markdown{opts: opts}
}

// SetWidth changes the wrap width.
func (m *Markdown) SetWidth(width int) {
	if width > 0 {
		m.opts.Width = width
	}
}

// SetPlain toggles markdown rendering.
func (m *Markdown) SetPlain(plain bool) {
	m.opts.Plain = plain
}

// Render returns report ready for the terminal.
func (m *Markdown) Render(report string) string {
	clean := util.SanitizeForTerminal(report)
	if m.opts.Plain {
		return clean
	}

	r, err := m.termRenderer()
	if err != nil {
		return clean
	}
	out, err := r.Render(clean)
	if err != nil {
		return clean
	}
	return strings.Trim(out, "\n")
}

func (m *Markdown) termRenderer() (*glamour.TermRenderer, error) {
	if m.renderer != nil && m.builtFor == m.opts.Width {
		return m.renderer, nil
	}

	style := glamour.WithAutoStyle()
	if m.opts.Style != "" && m.opts.Style != glamourStyles.AutoStyle {
		style = glamour.WithStandardStyle(m.opts.Style)
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(m.opts.Width))
	if err != nil {
		return nil, err
	}
	m.renderer = r
	m.builtFor = m.opts.Width
	return r, nil
}
