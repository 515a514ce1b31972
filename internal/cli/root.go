// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fiscalpulse/fiscalpulse-tui/internal/audit"
	"github.com/fiscalpulse/fiscalpulse-tui/internal/config"
	"github.com/fiscalpulse/fiscalpulse-tui/internal/logging"
)

// Version information (set at build time with -ldflags -X)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// APPLICATION STATE
// =============================================================================

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	url        string
	verbose    bool
	noMarkdown bool
}

// app holds what the commands share once the root pre-run has loaded the
// configuration and opened the log.
type app struct {
	flags   globalFlags
	cfg     *config.Config
	logger  *zap.Logger
	cleanup func()

	stdinTTY  func() bool
	stdoutTTY func() bool
}

func newApp() *app {
	return &app{
		logger:    zap.NewNop(),
		cleanup:   func() {},
		stdinTTY:  IsTTY,
		stdoutTTY: IsStdoutTTY,
	}
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

// newRootCmd builds the fiscalpulse command tree around a.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "fiscalpulse",
		Short: "FiscalPulse - Autonomous AI Audit Agent client",
		Long: `FiscalPulse sends expense and filing questions to the FiscalPulse audit
service and shows the categorized audit report.

Run without arguments to open the interactive audit desk.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runDesk,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withCode(ExitUsageError, err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "config file (default ~/.fiscalpulse/config.toml)")
	pf.StringVar(&a.flags.url, "url", "", "audit service base URL (overrides config)")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "debug logging")
	pf.BoolVar(&a.flags.noMarkdown, "no-markdown", false, "show audit reports as plain text")

	root.AddCommand(
		a.newAskCmd(),
		a.newStatusCmd(),
		a.newCategoriesCmd(),
		a.newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration, applies flags and opens the log.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	lipgloss.SetColorProfile(colorProfile(cmd.OutOrStdout()))

	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return withCode(ExitConfigError, err)
	}
	a.applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return withCode(ExitConfigError, fmt.Errorf("invalid flags: %w", err))
	}
	a.cfg = cfg

	logFile, err := cfg.LogFile()
	if err != nil {
		return withCode(ExitConfigError, err)
	}
	logger, cleanup, err := logging.New(logging.Options{
		Level:   cfg.Logging.Level,
		File:    logFile,
		Verbose: a.flags.verbose,
	})
	if err != nil {
		return withCode(ExitConfigError, err)
	}
	a.logger = logger.With(zap.String("command", cmd.Name()))
	a.cleanup = cleanup
	return nil
}

// loadConfig resolves the configuration. A --config file that does not
// exist yet yields defaults so that "config init" can create it; a default
// file that fails to load is reported and replaced by defaults.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if path := a.flags.configPath; path != "" {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			cfg := config.Default()
			cfg.ApplyEnvOverrides()
			return cfg, nil
		}
	}

	cfg, err := config.Resolve(a.flags.configPath)
	if err != nil {
		if cfg == nil {
			return nil, err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), WarningStyle.Render("[!] "+err.Error()+"; using defaults"))
	}
	return cfg, nil
}

// applyFlags re-applies command line overrides. It runs on the initial
// config and on every live reload.
func (a *app) applyFlags(cfg *config.Config) {
	if a.flags.url != "" {
		cfg.Service.URL = a.flags.url
	}
	if a.flags.noMarkdown {
		cfg.UI.PlainReport = true
	}
}

// client builds an audit client for the current configuration.
func (a *app) client() *audit.Client {
	return a.clientFor(a.cfg)
}

func (a *app) clientFor(cfg *config.Config) *audit.Client {
	return audit.NewClientWithConfig(cfg.ClientConfig())
}

// =============================================================================
// ENTRY POINT
// =============================================================================

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return execute(ctx, newApp(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

func execute(ctx context.Context, a *app, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	// Flush the log even when the command failed.
	defer func() { a.cleanup() }()

	err := root.ExecuteContext(ctx)
	if err != nil {
		var exitErr *ExitError
		if !errors.As(err, &exitErr) || exitErr.Err != nil {
			fmt.Fprintln(stderr, ErrorStyle.Render("Error:")+" "+err.Error())
		}
	}
	return ExitCode(err)
}
