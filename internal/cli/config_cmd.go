// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/fiscalpulse/fiscalpulse-tui/internal/config"
)

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
	}
	cmd.AddCommand(
		a.newConfigShowCmd(),
		a.newConfigPathCmd(),
		a.newConfigInitCmd(),
	)
	return cmd
}

func (a *app) newConfigShowCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration (file, environment and flags merged)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			switch format {
			case "toml":
				data, err := config.EncodeTOML(a.cfg)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			case "yaml":
				data, err := yaml.Marshal(a.cfg)
				if err != nil {
					return fmt.Errorf("failed to encode config: %w", err)
				}
				_, err = out.Write(data)
				return err
			case "json":
				_, err := fmt.Fprintln(out, a.cfg.String())
				return err
			default:
				return withCode(ExitUsageError, fmt.Errorf("unknown format %q (want toml, yaml or json)", format))
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "toml", "output format: toml, yaml or json")
	return cmd
}

func (a *app) newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, exists, err := a.configFile()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if exists {
				fmt.Fprintln(out, path)
				return nil
			}
			fmt.Fprintf(out, "%s %s\n", path, DimStyle.Render("(not created; run 'fiscalpulse config init')"))
			return nil
		},
	}
}

func (a *app) newConfigInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, exists, err := a.configFile()
			if err != nil {
				return err
			}
			if exists && !force {
				return withCode(ExitUsageError, fmt.Errorf("%s already exists (use --force to overwrite)", path))
			}

			cfg := config.Default()
			a.applyFlags(cfg)
			if err := config.Save(cfg, path); err != nil {
				return withCode(ExitConfigError, err)
			}
			a.logger.Info("config written", zap.String("path", path))
			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("[OK] ")+"wrote "+path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// configFile returns the file selected by --config, the first existing file
// in the search path, or the default location.
func (a *app) configFile() (string, bool, error) {
	path := a.flags.configPath
	if path == "" {
		path = config.FindConfigFile()
	}
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return "", false, err
		}
		path = p
	}
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return path, true, nil
	case errors.Is(err, fs.ErrNotExist):
		return path, false, nil
	default:
		return "", false, err
	}
}
