// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fiscalpulse/fiscalpulse-tui/internal/audit"
	"github.com/fiscalpulse/fiscalpulse-tui/internal/util"
)

// ErrUnsupportedFormat is returned for a file extension no exporter handles.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// =============================================================================
// EXPORTER INTERFACE
// =============================================================================

// Exporter converts a report to a specific format.
type Exporter interface {
	// Export converts the report to bytes in the target format.
	Export(r *Report) ([]byte, error)

	// FileExtension returns the canonical extension, including the dot.
	FileExtension() string

	// MimeType returns the MIME type of the output.
	MimeType() string
}

// Report is one audit result together with what produced it.
type Report struct {
	Query        string    `json:"query"`
	Category     string    `json:"category"`
	AuditReport  string    `json:"audit_report"`
	FormPrepared bool      `json:"form_prepared"`
	Service      string    `json:"service,omitempty"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// NewReport captures a successful audit result.
func NewReport(query string, r audit.Result, service string) *Report {
	return &Report{
		Query:        query,
		Category:     r.Category,
		AuditReport:  r.AuditReport,
		FormPrepared: r.FormPrepared,
		Service:      service,
		GeneratedAt:  time.Now().UTC(),
	}
}

func (r *Report) validate() error {
	if r == nil {
		return errors.New("report is nil")
	}
	if r.GeneratedAt.IsZero() {
		return errors.New("report has no generation time")
	}
	return nil
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// IncludeMetadata adds the query, service and timestamps to the output.
	IncludeMetadata bool
}

// DefaultOptions returns the default export options.
func DefaultOptions() *Options {
	return &Options{IncludeMetadata: true}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ForPath picks an exporter from the extension of path.
func ForPath(path string, opts *Options) (Exporter, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return NewMarkdownExporter(opts), nil
	case ".json":
		return NewJSONExporter(opts), nil
	default:
		return nil, fmt.Errorf("%w: %q (use .md or .json)", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// WriteFile exports r to path. The file is replaced atomically and is only
// readable by the owner.
func WriteFile(path string, r *Report, opts *Options) error {
	exporter, err := ForPath(path, opts)
	if err != nil {
		return err
	}
	content, err := exporter.Export(r)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if err := util.WriteFileAtomic(path, content, 0o600, 0o700); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// SuggestedName returns a file name for r such as
// "audit_hardware_20250102_150405.md".
func SuggestedName(r *Report, e Exporter) string {
	return fmt.Sprintf("audit_%s_%s%s",
		sanitizeFilename(r.Category),
		r.GeneratedAt.Format("20060102_150405"),
		e.FileExtension(),
	)
}

// sanitizeFilename lowercases s and replaces anything outside [a-z0-9-] with
// an underscore, capped at 40 runes.
func sanitizeFilename(s string) string {
	runes := []rune(strings.ToLower(strings.TrimSpace(s)))
	if len(runes) > 40 {
		runes = runes[:40]
	}
	var b strings.Builder
	for _, r := range runes {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "report"
	}
	return b.String()
}
