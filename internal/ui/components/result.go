// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/fiscalpulse/fiscalpulse-tui/internal/audit"
	"github.com/fiscalpulse/fiscalpulse-tui/internal/session"
	"github.com/fiscalpulse/fiscalpulse-tui/internal/ui/styles"
	"github.com/fiscalpulse/fiscalpulse-tui/internal/util"
)

// Result texts.
const (
	ResultHeading = "Audit Results"
	FormNotice    = "Tax form prepared and ready for filing"
)

// ReportRenderer turns an audit report into terminal text.
type ReportRenderer interface {
	Render(report string) string
}

// RenderResult renders whatever a session state calls for below the form:
// the results panel after success, the error alert after failure, nothing
// while idle or submitting.
func RenderResult(theme *styles.Theme, st session.State, md ReportRenderer, width int) string {
	switch st.Phase {
	case session.PhaseSettledSuccess:
		if st.Result == nil {
			return ""
		}
		return RenderResultPanel(theme, *st.Result, md, width)
	case session.PhaseSettledError:
		return RenderErrorAlert(theme, st.Message, width)
	default:
		return ""
	}
}

// RenderResultPanel renders the heading, the category badge, the report and,
// when the form was prepared, the success notice.
func RenderResultPanel(theme *styles.Theme, r audit.Result, md ReportRenderer, width int) string {
	parts := []string{
		theme.ResultHeading.Render(ResultHeading),
		theme.CategoryBadge.Render("category: " + util.SanitizeForTerminal(r.Category)),
		"",
	}

	var report string
	if md != nil {
		report = md.Render(r.AuditReport)
	} else {
		report = theme.ReportBody.Width(width).Render(util.SanitizeForTerminal(r.AuditReport))
	}
	parts = append(parts, report)

	if r.FormPrepared {
		parts = append(parts, "", theme.Notice.Render(styles.StatusIndicators.Success+" "+FormNotice))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
