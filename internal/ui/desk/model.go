// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package desk

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/fiscalpulse/fiscalpulse-tui/internal/audit"
	"github.com/fiscalpulse/fiscalpulse-tui/internal/config"
	"github.com/fiscalpulse/fiscalpulse-tui/internal/session"
	"github.com/fiscalpulse/fiscalpulse-tui/internal/ui/components"
	"github.com/fiscalpulse/fiscalpulse-tui/internal/ui/styles"
)

const (
	inputHeight    = 4
	inputCharLimit = 4000
)

// =============================================================================
// BACKEND
// =============================================================================

// Backend is the audit service as the desk sees it. *audit.Client
// implements it.
type Backend interface {
	session.Auditor
	Health(ctx context.Context) (*audit.HealthStatus, error)
}

// Options configures New.
type Options struct {
	// Config supplies the service URL and display preferences. Nil uses
	// config.Default().
	Config *config.Config

	// Backend serves audits and health checks. Required.
	Backend Backend

	// NewBackend builds a backend for a reloaded config. Nil keeps the
	// original backend across reloads.
	NewBackend func(*config.Config) Backend

	// Override adjusts a reloaded config before it is applied, for example
	// to re-apply command line flags. Optional.
	Override func(*config.Config)

	// Watcher delivers config reloads. Optional; must already be started.
	Watcher *config.Watcher

	Theme  *styles.Theme
	Logger *zap.Logger
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model of the audit desk: a query form, a submit
// button and a results panel bound to one session.Session.
//
// Update runs on the Bubble Tea loop only. The audit request runs inside a
// tea.Cmd and reports back with AuditSettledMsg.
type Model struct {
	ctx     context.Context
	cfg     *config.Config
	session *session.Session
	backend Backend

	newBackend func(*config.Config) Backend
	override   func(*config.Config)
	watcher    *config.Watcher
	logger     *zap.Logger

	theme    *styles.Theme
	header   *components.Header
	markdown *components.Markdown
	input    textarea.Model
	spinner  spinner.Model
	viewport viewport.Model
	help     help.Model
	keys     KeyMap

	// notice is a non-fatal message such as a rejected config reload.
	notice string

	// scrollToResult moves the viewport to the results panel on the next
	// render after a settlement.
	scrollToResult bool

	width  int
	height int
	ready  bool
}

// New creates the desk model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewThemeWithOptions(styles.Options{
			Mode:    styles.Mode(cfg.UI.Theme),
			NoColor: cfg.UI.NoColor,
		})
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ta := textarea.New()
	ta.Placeholder = components.QueryPlaceholder
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = inputCharLimit
	ta.SetHeight(inputHeight)
	ta.SetWidth(theme.ContentWidth() - 2)
	ta.Focus()

	sp := spinner.New(
		spinner.WithSpinner(styles.AnalyzingSpinner),
		spinner.WithStyle(theme.Spinner),
	)

	header := components.NewHeader(theme)
	header.SetService(cfg.Service.URL)
	if opts.Backend != nil {
		header.SetHealth(components.HealthChecking)
	}

	md := components.NewMarkdown(components.MarkdownOptions{
		Width: theme.ContentWidth(),
		Plain: cfg.UI.PlainReport,
	})

	vp := viewport.New(0, 0)
	keys := DefaultKeyMap()
	vp.KeyMap = viewport.KeyMap{PageUp: keys.PageUp, PageDown: keys.PageDown}

	var auditor session.Auditor
	if opts.Backend != nil {
		auditor = opts.Backend
	}

	return Model{
		ctx:        context.Background(),
		cfg:        cfg,
		session:    session.New(auditor, logger),
		backend:    opts.Backend,
		newBackend: opts.NewBackend,
		override:   opts.Override,
		watcher:    opts.Watcher,
		logger:     logger,
		theme:      theme,
		header:     header,
		markdown:   md,
		input:      ta,
		spinner:    sp,
		viewport:   vp,
		help:       help.New(),
		keys:       keys,
	}
}

// Init starts the cursor blink, the first health check and the config watch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.checkHealth(), m.waitForConfig())
}

// Session exposes the bound session, mainly for tests and the CLI.
func (m Model) Session() *session.Session {
	return m.session
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	m.syncViewport()
	return m, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case AuditSettledMsg:
		return m.handleSettled(msg)

	case spinner.TickMsg:
		// Let the tick chain die once the request has settled.
		if !m.session.State().IsSubmitting() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case HealthMsg:
		m.header.SetHealth(components.HealthFromStatus(msg.Status, msg.Err))
		if msg.Err != nil {
			m.logger.Debug("health check failed", zap.Error(msg.Err))
		}
		return m, nil

	case ConfigReloadedMsg:
		return m.applyConfig(msg.Config)

	case ConfigErrorMsg:
		m.notice = "Config reload failed: " + msg.Err.Error()
		m.logger.Warn("config reload rejected", zap.Error(msg.Err))
		return m, m.waitForConfig()
	}

	// Cursor blink and anything else the input cares about.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)
	m.header.SetWidth(msg.Width)

	content := m.theme.ContentWidth()
	m.input.SetWidth(content - 2)
	m.markdown.SetWidth(content)
	m.help.Width = msg.Width

	m.viewport.Width = msg.Width
	m.viewport.Height = m.bodyHeight()
	m.ready = true
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	// The input is read-only while a request is in flight.
	if m.session.State().IsSubmitting() {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.session.UpdateQuery(m.input.Value())
	return m, cmd
}

// submit starts an audit when the session allows it. Pressing submit with a
// blank query or while a request is pending does nothing.
func (m Model) submit() (Model, tea.Cmd) {
	task, ok := m.session.Submit(m.ctx)
	if !ok {
		return m, nil
	}
	m.input.Blur()
	return m, tea.Batch(m.spinner.Tick, runAudit(task))
}

func (m Model) handleSettled(msg AuditSettledMsg) (Model, tea.Cmd) {
	if !m.session.Settle(msg.Outcome) {
		return m, nil
	}
	m.scrollToResult = true
	return m, m.input.Focus()
}

// applyConfig rebinds the session to a reloaded configuration. A request
// already in flight finishes against the old backend.
func (m Model) applyConfig(cfg *config.Config) (Model, tea.Cmd) {
	if cfg == nil {
		return m, m.waitForConfig()
	}
	if m.override != nil {
		m.override(cfg)
	}
	m.cfg = cfg
	m.notice = ""
	m.markdown.SetPlain(cfg.UI.PlainReport)
	m.header.SetService(cfg.Service.URL)

	if m.newBackend != nil {
		if b := m.newBackend(cfg); b != nil {
			m.backend = b
			m.session.SetAuditor(b)
			m.header.SetHealth(components.HealthChecking)
		}
	}

	m.logger.Info("config reloaded", zap.String("service_url", cfg.Service.URL))
	return m, tea.Batch(m.checkHealth(), m.waitForConfig())
}

// =============================================================================
// COMMANDS
// =============================================================================

func runAudit(task session.Task) tea.Cmd {
	return func() tea.Msg {
		return AuditSettledMsg{Outcome: task()}
	}
}

func (m Model) checkHealth() tea.Cmd {
	backend := m.backend // capture before the closure
	if backend == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		status, err := backend.Health(ctx)
		return HealthMsg{Status: status, Err: err}
	}
}

func (m Model) waitForConfig() tea.Cmd {
	w := m.watcher
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case cfg, ok := <-w.Changes():
			if !ok {
				return nil
			}
			return ConfigReloadedMsg{Config: cfg}
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			return ConfigErrorMsg{Err: err}
		}
	}
}
