// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fiscalpulse/fiscalpulse-tui/internal/audit"
	"github.com/fiscalpulse/fiscalpulse-tui/internal/util"
)

func (a *app) newCategoriesCmd() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cats"},
		Short:   "List the audit categories the service knows",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCategories(cmd, jsonOut)
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the categories as JSON")
	return cmd
}

func (a *app) runCategories(cmd *cobra.Command, jsonOut bool) error {
	client := a.client()
	defer client.CloseIdleConnections()

	cats, err := client.Categories(cmd.Context())
	out := cmd.OutOrStdout()
	if err != nil {
		code := ExitGeneralError
		if audit.IsTransport(err) {
			code = ExitNetworkError
		}
		if jsonOut {
			_ = NewJSONErrorResponse("categories", err.Error()).Write(out, false)
			return &ExitError{Code: code}
		}
		return withCode(code, fmt.Errorf("failed to list categories: %w", err))
	}

	if jsonOut {
		return NewJSONResponse("categories", cats).Write(out, ColorsEnabled(out))
	}

	if len(cats) == 0 {
		fmt.Fprintln(out, DimStyle.Render("No categories."))
		return nil
	}
	width := 0
	for _, c := range cats {
		width = max(width, util.StringWidth(util.SanitizeForTerminal(c.Name)))
	}
	for _, c := range cats {
		name := util.SanitizeForTerminal(c.Name)
		pad := width - util.StringWidth(name)
		line := BadgeStyle.Render(name) + fmt.Sprintf("%*s", pad+2, "")
		if c.Description != "" {
			line += ValueStyle.Render(util.SanitizeForTerminal(c.Description))
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
