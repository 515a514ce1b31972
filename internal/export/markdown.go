// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// formNotice is appended when the service prepared a filing form.
const formNotice = "Tax form prepared and ready for filing"

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports reports as Markdown. The audit report itself is
// already Markdown and is copied unchanged.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// frontMatter is the YAML header of an exported report.
type frontMatter struct {
	Title        string `yaml:"title"`
	Category     string `yaml:"category"`
	FormPrepared bool   `yaml:"form_prepared"`
	Service      string `yaml:"service,omitempty"`
	Date         string `yaml:"date"`
	Generator    string `yaml:"generator"`
}

// Export converts the report to Markdown.
func (e *MarkdownExporter) Export(r *Report) ([]byte, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}

	var sb strings.Builder
	title := "Audit Report"
	if r.Category != "" {
		title += ": " + r.Category
	}

	if e.options.IncludeMetadata {
		fm, err := yaml.Marshal(frontMatter{
			Title:        title,
			Category:     r.Category,
			FormPrepared: r.FormPrepared,
			Service:      r.Service,
			Date:         r.GeneratedAt.Format(time.RFC3339),
			Generator:    "fiscalpulse-tui",
		})
		if err != nil {
			return nil, fmt.Errorf("front matter: %w", err)
		}
		sb.WriteString("---\n")
		sb.Write(fm)
		sb.WriteString("---\n\n")
	}

	sb.WriteString("# " + escapeMarkdown(title) + "\n\n")

	if e.options.IncludeMetadata && r.Query != "" {
		sb.WriteString("## Query\n\n")
		for _, line := range strings.Split(r.Query, "\n") {
			sb.WriteString("> " + line + "\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Report\n\n")
	sb.WriteString(strings.TrimSpace(r.AuditReport))
	sb.WriteString("\n")

	if r.FormPrepared {
		sb.WriteString("\n---\n\n")
		sb.WriteString("**" + formNotice + "**\n")
	}
	return []byte(sb.String()), nil
}

// FileExtension returns ".md".
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the Markdown MIME type.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// escapeMarkdown escapes characters that would change a heading's meaning.
func escapeMarkdown(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		"*", `\*`,
		"_", `\_`,
		"`", "\\`",
		"[", `\[`,
		"]", `\]`,
		"#", `\#`,
	)
	return r.Replace(s)
}
