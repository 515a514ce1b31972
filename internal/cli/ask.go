// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot audits from the command line.
//
// The query comes from the arguments, an interactive prompt on a terminal,
// or stdin when piped. The request goes through the same session the desk
// uses, so validation and error normalization are identical.

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fiscalpulse/fiscalpulse-tui/internal/export"
	"github.com/fiscalpulse/fiscalpulse-tui/internal/session"
	"github.com/fiscalpulse/fiscalpulse-tui/internal/ui/components"
	"github.com/fiscalpulse/fiscalpulse-tui/internal/util"
)

// maxStdinQuery bounds a query read from a pipe.
const maxStdinQuery = 1 << 20

// askResult is the JSON payload of a successful ask.
type askResult struct {
	Query        string `json:"query"`
	Category     string `json:"category"`
	AuditReport  string `json:"audit_report"`
	FormPrepared bool   `json:"form_prepared"`
}

// askOptions are the flags of the ask command.
type askOptions struct {
	json bool
	save string
}

func (a *app) newAskCmd() *cobra.Command {
	var opts askOptions
	cmd := &cobra.Command{
		Use:   "ask [query...]",
		Short: "Run one audit and print the result",
		Long: `Send one audit query to the service and print the categorized report.

With no arguments the query is read from an interactive prompt, or from
stdin when it is piped.

Exit status is 1 when the audit fails and 2 when the query is empty.`,
		Example: `  fiscalpulse ask "Check my hardware expenses"
  echo "Is my home office deductible?" | fiscalpulse ask --json
  fiscalpulse ask --save hardware.md "Check my hardware expenses"
  fiscalpulse ask --save reports/ "Check my hardware expenses"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAsk(cmd, args, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")
	cmd.Flags().StringVarP(&opts.save, "save", "o", "", "also write a successful result to `PATH` (.md, .json, or a directory)")
	return cmd
}

func (a *app) runAsk(cmd *cobra.Command, args []string, opts askOptions) error {
	if opts.save != "" && !isDirTarget(opts.save) {
		if _, err := export.ForPath(opts.save, nil); err != nil {
			return withCode(ExitUsageError, err)
		}
	}

	query, err := a.readQuery(cmd, args)
	if err != nil {
		return err
	}

	client := a.client()
	defer client.CloseIdleConnections()

	s := session.New(client, a.logger)
	s.UpdateQuery(query)
	st, ok := s.Run(cmd.Context())
	if !ok {
		if opts.json {
			_ = NewJSONErrorResponse("ask", ErrEmptyQuery.Error()).Write(cmd.OutOrStdout(), false)
		}
		return withCode(ExitUsageError, ErrEmptyQuery)
	}

	if st.Phase == session.PhaseSettledSuccess && opts.save != "" {
		report := export.NewReport(query, *st.Result, client.BaseURL())
		path := opts.save
		if isDirTarget(path) {
			path = filepath.Join(path, export.SuggestedName(report, export.NewMarkdownExporter(nil)))
		}
		if err := export.WriteFile(path, report, nil); err != nil {
			return err
		}
		a.logger.Info("audit report saved", zap.String("path", path))
		if !opts.json {
			fmt.Fprintln(cmd.ErrOrStderr(), DimStyle.Render("report saved to "+path))
		}
	}

	if opts.json {
		return a.writeAskJSON(cmd.OutOrStdout(), query, st)
	}
	return a.writeAskText(cmd, st)
}

// readQuery joins the arguments, or falls back to a prompt or stdin.
func (a *app) readQuery(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if a.stdinTTY() {
		q, err := promptQuery(components.QueryLabel + " ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return "", withCode(ExitInterrupted, errAborted)
		}
		return q, err
	}
	data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), maxStdinQuery))
	if err != nil {
		return "", fmt.Errorf("failed to read query from stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// isDirTarget reports whether a --save path names a directory, either an
// existing one or one spelled with a trailing separator.
func isDirTarget(path string) bool {
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return true
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// promptQuery reads one line with line editing.
func promptQuery(prompt string) (string, error) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	return line.Prompt(prompt)
}

func (a *app) writeAskJSON(w io.Writer, query string, st session.State) error {
	highlight := ColorsEnabled(w)
	if st.Phase == session.PhaseSettledError {
		if err := NewJSONErrorResponse("ask", st.Message).Write(w, highlight); err != nil {
			return err
		}
		return &ExitError{Code: ExitGeneralError}
	}

	r := st.Result
	return NewJSONResponse("ask", askResult{
		Query:        query,
		Category:     r.Category,
		AuditReport:  r.AuditReport,
		FormPrepared: r.FormPrepared,
	}).Write(w, highlight)
}

func (a *app) writeAskText(cmd *cobra.Command, st session.State) error {
	if st.Phase == session.PhaseSettledError {
		fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("[X] ")+util.SanitizeForTerminal(st.Message))
		return &ExitError{Code: ExitGeneralError}
	}

	out := cmd.OutOrStdout()
	r := st.Result
	width := DefaultTerminalWidth
	if a.stdoutTTY() {
		width = GetTerminalWidth()
	}
	md := components.NewMarkdown(components.MarkdownOptions{
		Width: width,
		Plain: a.cfg.UI.PlainReport || !a.stdoutTTY(),
	})

	fmt.Fprintln(out, TitleStyle.Render(components.ResultHeading))
	fmt.Fprintln(out, BadgeStyle.Render("category: "+util.SanitizeForTerminal(r.Category)))
	fmt.Fprintln(out, RenderSeparator(min(width, 60)))
	fmt.Fprintln(out, md.Render(r.AuditReport))
	if r.FormPrepared {
		fmt.Fprintln(out)
		fmt.Fprintln(out, SuccessStyle.Render("[OK] "+components.FormNotice))
	}
	return nil
}
