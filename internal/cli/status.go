// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fiscalpulse/fiscalpulse-tui/internal/audit"
	"github.com/fiscalpulse/fiscalpulse-tui/internal/ui/styles"
	"github.com/fiscalpulse/fiscalpulse-tui/internal/util"
)

// serviceStatus is the combined result of the health and categories checks.
type serviceStatus struct {
	URL        string              `json:"url"`
	Health     *audit.HealthStatus `json:"health,omitempty"`
	HealthErr  string              `json:"health_error,omitempty"`
	Categories []audit.Category    `json:"categories,omitempty"`
	CatErr     string              `json:"categories_error,omitempty"`
}

func (s serviceStatus) reachable() bool {
	return s.Health != nil
}

func (a *app) newStatusCmd() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check the audit service",
		Long: `Check the audit service health and category endpoints concurrently.

Exit status is 5 when the service cannot be reached.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runStatus(cmd, jsonOut)
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the status as JSON")
	return cmd
}

func (a *app) runStatus(cmd *cobra.Command, jsonOut bool) error {
	client := a.client()
	defer client.CloseIdleConnections()

	status := a.checkService(cmd, client)

	out := cmd.OutOrStdout()
	if jsonOut {
		resp := NewJSONResponse("status", status)
		if !status.reachable() {
			resp.Success = false
			resp.Error = &status.HealthErr
		}
		if err := resp.Write(out, ColorsEnabled(out)); err != nil {
			return err
		}
	} else {
		writeStatus(out, status)
	}

	if !status.reachable() {
		return &ExitError{Code: ExitNetworkError}
	}
	return nil
}

// checkService runs both requests at once. A failing request does not cancel the
// other; each failure is reported on its own line.
func (a *app) checkService(cmd *cobra.Command, client *audit.Client) serviceStatus {
	status := serviceStatus{URL: client.BaseURL()}

	var g errgroup.Group
	g.Go(func() error {
		h, err := client.Health(cmd.Context())
		if err != nil {
			status.HealthErr = err.Error()
			return err
		}
		status.Health = h
		return nil
	})
	g.Go(func() error {
		cats, err := client.Categories(cmd.Context())
		if err != nil {
			status.CatErr = err.Error()
			return err
		}
		status.Categories = cats
		return nil
	})
	if err := g.Wait(); err != nil {
		a.logger.Debug("service check failed", zap.Error(err))
	}
	return status
}

func writeStatus(w io.Writer, s serviceStatus) {
	fmt.Fprintln(w, TitleStyle.Render("FiscalPulse service"))
	fmt.Fprintln(w, RenderField("URL", s.URL))

	switch {
	case s.Health == nil:
		fmt.Fprintln(w, RenderField("Health", styles.RenderError(util.SanitizeForTerminal(s.HealthErr))))
	case s.Health.Healthy():
		fmt.Fprintln(w, RenderField("Health", styles.RenderSuccess(healthLine(s.Health))))
	default:
		fmt.Fprintln(w, RenderField("Health", styles.RenderWarning(healthLine(s.Health))))
	}

	if s.CatErr != "" {
		fmt.Fprintln(w, RenderField("Categories", styles.RenderError(util.SanitizeForTerminal(s.CatErr))))
		return
	}
	fmt.Fprintln(w, RenderField("Categories", fmt.Sprintf("%d", len(s.Categories))))
}

// healthLine formats the health response. Every field comes from the
// service and is sanitized.
func healthLine(h *audit.HealthStatus) string {
	line := util.SanitizeForTerminal(h.Status)
	if h.Service != "" {
		line += " (" + util.SanitizeForTerminal(h.Service) + ")"
	}
	if h.Message != "" {
		line += ": " + util.SanitizeForTerminal(h.Message)
	}
	return line
}
