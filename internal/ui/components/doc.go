// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the rendering pieces of the FiscalPulse audit desk.

Components are pure: each takes data and a *styles.Theme and returns a string.
None of them owns lifecycle state; the desk model decides what to show and
passes it in.

# Components

Header (header.go) - Brand line, subtitle and the service health badge.
Features (features.go) - The three feature highlights under the form.
Form (form.go) - Intro card, query label and input, submit button.
Result (result.go) - Audit Results panel or the error alert for a settled session.
Alert (alert.go) - Error and warning callouts.
Markdown (markdown.go) - glamour renderer for audit reports.
Highlight (codeblock.go) - chroma syntax highlighting for JSON output.

# Usage

	theme := styles.NewTheme()
	md := components.NewMarkdown(components.MarkdownOptions{Width: 80})
	view := components.RenderResult(theme, sess.State(), md, 80)
*/
package components
