// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fiscalpulse/fiscalpulse-tui/internal/config"
	"github.com/fiscalpulse/fiscalpulse-tui/internal/ui/desk"
)

var errNoTerminal = errors.New("the audit desk needs an interactive terminal; use 'fiscalpulse ask' instead")

// runDesk opens the full screen audit desk.
func (a *app) runDesk(cmd *cobra.Command, _ []string) error {
	if !a.stdinTTY() || !a.stdoutTTY() {
		return withCode(ExitUsageError, errNoTerminal)
	}

	client := a.client()
	defer client.CloseIdleConnections()

	watcher := a.startWatcher()
	if watcher != nil {
		defer watcher.Close()
	}

	model := desk.New(desk.Options{
		Config:  a.cfg,
		Backend: client,
		NewBackend: func(cfg *config.Config) desk.Backend {
			return a.clientFor(cfg)
		},
		Override: a.applyFlags,
		Watcher:  watcher,
		Logger:   a.logger,
	})

	a.logger.Info("audit desk started", zap.String("service_url", a.cfg.Service.URL))

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("audit desk: %w", err)
	}
	return nil
}

// startWatcher watches the active config file, or the default location
// when no file exists yet. Failure to watch only costs live reloads.
func (a *app) startWatcher() *config.Watcher {
	path := a.flags.configPath
	if path == "" {
		path = config.FindConfigFile()
	}
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			a.logger.Warn("config watch disabled", zap.Error(err))
			return nil
		}
		path = p
	}

	w, err := config.NewWatcher(path, config.DefaultDebounce)
	if err != nil {
		a.logger.Warn("config watch disabled", zap.Error(err))
		return nil
	}
	if err := w.Start(); err != nil {
		_ = w.Close()
		a.logger.Warn("config watch disabled", zap.String("path", path), zap.Error(err))
		return nil
	}
	a.logger.Debug("watching config", zap.String("path", w.Path()))
	return w
}
