// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package desk

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fiscalpulse/fiscalpulse-tui/internal/audit"
	"github.com/fiscalpulse/fiscalpulse-tui/internal/config"
	"github.com/fiscalpulse/fiscalpulse-tui/internal/session"
	"github.com/fiscalpulse/fiscalpulse-tui/internal/ui/components"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type fakeBackend struct {
	mu      sync.Mutex
	queries []string

	result *audit.Result
	err    error
	health *audit.HealthStatus
}

func (f *fakeBackend) Audit(_ context.Context, query string) (*audit.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return f.result, f.err
}

func (f *fakeBackend) Health(context.Context) (*audit.HealthStatus, error) {
	if f.health == nil {
		return nil, &audit.ClientError{Type: audit.ErrTypeTransport, Message: "down"}
	}
	return f.health, nil
}

func (f *fakeBackend) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func hardwareBackend(formPrepared bool) *fakeBackend {
	return &fakeBackend{result: &audit.Result{
		Category:     "Hardware",
		AuditReport:  "All items deductible.",
		FormPrepared: formPrepared,
	}}
}

func newTestModel(b Backend) Model {
	cfg := config.Default()
	cfg.UI.PlainReport = true
	return New(Options{Config: cfg, Backend: b})
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	dm, ok := next.(Model)
	require.True(t, ok, "Update returned %T", next)
	return dm, cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

var ctrlS = tea.KeyMsg{Type: tea.KeyCtrlS}

// settledFrom runs the commands of a submit batch and returns the
// AuditSettledMsg among their results.
func settledFrom(t *testing.T, cmd tea.Cmd) AuditSettledMsg {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		batch = tea.BatchMsg{func() tea.Msg { return msg }}
	}
	for _, c := range batch {
		if c == nil {
			continue
		}
		if settled, ok := c().(AuditSettledMsg); ok {
			return settled
		}
	}
	t.Fatal("submit did not produce an AuditSettledMsg")
	return AuditSettledMsg{}
}

// =============================================================================
// INITIAL STATE
// =============================================================================

func TestNew_InitialView(t *testing.T) {
	m := newTestModel(hardwareBackend(true))
	view := m.View()

	for _, want := range []string{
		"FiscalPulse",
		"Autonomous AI Audit Agent",
		components.IntroTitle,
		components.QueryLabel,
		components.SubmitLabel,
		"Secure & Private",
		"AI-Powered",
		"Real-Time Analysis",
	} {
		assert.Contains(t, view, want)
	}
	assert.NotContains(t, view, components.ResultHeading)
	assert.Equal(t, session.PhaseIdle, m.Session().State().Phase)
}

func TestInit_ReturnsCommands(t *testing.T) {
	m := newTestModel(hardwareBackend(true))
	assert.NotNil(t, m.Init())
}

// =============================================================================
// SUBMIT GATE
// =============================================================================

func TestSubmit_EmptyQueryDoesNothing(t *testing.T) {
	b := hardwareBackend(true)
	m := newTestModel(b)

	m, cmd := update(t, m, ctrlS)

	assert.Nil(t, cmd)
	assert.Equal(t, session.PhaseIdle, m.Session().State().Phase)
	assert.Zero(t, b.calls())
}

func TestSubmit_WhitespaceQueryDoesNothing(t *testing.T) {
	b := hardwareBackend(true)
	m := typeText(t, newTestModel(b), "   ")

	m, cmd := update(t, m, ctrlS)

	assert.Nil(t, cmd)
	assert.Equal(t, session.PhaseIdle, m.Session().State().Phase)
	assert.Zero(t, b.calls())
}

func TestTyping_UpdatesQuery(t *testing.T) {
	m := newTestModel(hardwareBackend(true))
	m = typeText(t, m, "line one")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = typeText(t, m, "line two")

	assert.Equal(t, "line one\nline two", m.Session().Query())
	assert.True(t, m.Session().CanSubmit())
}

// =============================================================================
// SUBMISSION LIFECYCLE
// =============================================================================

func TestSubmit_HardwareScenario(t *testing.T) {
	b := hardwareBackend(true)
	m := typeText(t, newTestModel(b), "Check my hardware expenses")

	m, cmd := update(t, m, ctrlS)
	require.NotNil(t, cmd)
	assert.Equal(t, session.PhaseSubmitting, m.Session().State().Phase)
	assert.Contains(t, m.View(), components.BusyLabel)

	m, _ = update(t, m, settledFrom(t, cmd))

	view := m.View()
	assert.Equal(t, session.PhaseSettledSuccess, m.Session().State().Phase)
	assert.Contains(t, view, components.ResultHeading)
	assert.Contains(t, view, "category: Hardware")
	assert.Contains(t, view, "All items deductible.")
	assert.Contains(t, view, components.FormNotice)
	assert.NotContains(t, view, components.BusyLabel)
	assert.Equal(t, []string{"Check my hardware expenses"}, b.queries)
}

func TestSubmit_FormNotPrepared(t *testing.T) {
	m := typeText(t, newTestModel(hardwareBackend(false)), "Check my hardware expenses")

	m, cmd := update(t, m, ctrlS)
	m, _ = update(t, m, settledFrom(t, cmd))

	view := m.View()
	assert.Contains(t, view, "Hardware")
	assert.NotContains(t, view, components.FormNotice)
}

func TestSubmit_DoubleSubmitSendsOneRequest(t *testing.T) {
	b := hardwareBackend(true)
	m := typeText(t, newTestModel(b), "Check my hardware expenses")

	m, first := update(t, m, ctrlS)
	m, second := update(t, m, ctrlS)

	assert.NotNil(t, first)
	assert.Nil(t, second)

	m, _ = update(t, m, settledFrom(t, first))
	assert.Equal(t, 1, b.calls())
	assert.Equal(t, session.PhaseSettledSuccess, m.Session().State().Phase)
}

func TestSubmit_InputFrozenWhileSubmitting(t *testing.T) {
	m := typeText(t, newTestModel(hardwareBackend(true)), "rent")

	m, cmd := update(t, m, ctrlS)
	m = typeText(t, m, " and utilities")
	assert.Equal(t, "rent", m.Session().Query())

	m, _ = update(t, m, settledFrom(t, cmd))
	m = typeText(t, m, "!")
	assert.Equal(t, "rent!", m.Session().Query(), "input accepts text again after settlement")
}

func TestSubmit_ServiceDetail(t *testing.T) {
	b := &fakeBackend{err: &audit.ClientError{Type: audit.ErrTypeStatus, Status: 401, Detail: "Invalid API key"}}
	m := typeText(t, newTestModel(b), "q")

	m, cmd := update(t, m, ctrlS)
	m, _ = update(t, m, settledFrom(t, cmd))

	assert.Equal(t, session.PhaseSettledError, m.Session().State().Phase)
	assert.Contains(t, m.View(), "Invalid API key")
	assert.NotContains(t, m.View(), components.ResultHeading)
}

func TestSubmit_TransportFailureFallback(t *testing.T) {
	b := &fakeBackend{err: errors.New("connection refused")}
	m := typeText(t, newTestModel(b), "q")

	m, cmd := update(t, m, ctrlS)
	m, _ = update(t, m, settledFrom(t, cmd))

	assert.Contains(t, m.View(), session.FallbackMessage)
}

func TestSettled_StaleOutcomeIgnored(t *testing.T) {
	m := newTestModel(hardwareBackend(true))

	m, cmd := update(t, m, AuditSettledMsg{})

	assert.Nil(t, cmd)
	assert.Equal(t, session.PhaseIdle, m.Session().State().Phase)
}

// =============================================================================
// KEYS
// =============================================================================

func TestQuitKeys(t *testing.T) {
	for _, k := range []tea.KeyMsg{{Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		_, cmd := update(t, newTestModel(hardwareBackend(true)), k)
		require.NotNil(t, cmd)
		_, isQuit := cmd().(tea.QuitMsg)
		assert.True(t, isQuit, "%s should quit", k.String())
	}
}

// =============================================================================
// SERVICE HEALTH
// =============================================================================

func TestHealthMsg_UpdatesBadge(t *testing.T) {
	m := newTestModel(hardwareBackend(true))
	assert.Contains(t, m.View(), "[checking]")

	m, _ = update(t, m, HealthMsg{Status: &audit.HealthStatus{Status: "healthy"}})
	assert.Contains(t, m.View(), "[online]")

	m, _ = update(t, m, HealthMsg{Err: &audit.ClientError{Type: audit.ErrTypeTransport}})
	assert.Contains(t, m.View(), "[offline]")
}

func TestCheckHealth_UsesBackend(t *testing.T) {
	b := hardwareBackend(true)
	b.health = &audit.HealthStatus{Status: "healthy", Service: "fiscalpulse"}
	m := newTestModel(b)

	msg, ok := m.checkHealth()().(HealthMsg)
	require.True(t, ok)
	assert.NoError(t, msg.Err)
	assert.True(t, msg.Status.Healthy())
}

// =============================================================================
// CONFIG RELOAD
// =============================================================================

func TestConfigReloaded_RebindsBackend(t *testing.T) {
	oldB := hardwareBackend(true)
	newB := hardwareBackend(false)

	cfg := config.Default()
	cfg.UI.PlainReport = true
	m := New(Options{
		Config:     cfg,
		Backend:    oldB,
		NewBackend: func(*config.Config) Backend { return newB },
	})

	reloaded := config.Default()
	reloaded.Service.URL = "http://audit.internal:9000"
	reloaded.UI.PlainReport = true
	m, cmd := update(t, m, ConfigReloadedMsg{Config: reloaded})
	assert.NotNil(t, cmd, "health re-check after reload")
	assert.Contains(t, m.View(), "http://audit.internal:9000")

	m = typeText(t, m, "q")
	m, submit := update(t, m, ctrlS)
	m, _ = update(t, m, settledFrom(t, submit))

	assert.Zero(t, oldB.calls())
	assert.Equal(t, 1, newB.calls())
}

func TestConfigError_ShowsNotice(t *testing.T) {
	m := newTestModel(hardwareBackend(true))

	m, _ = update(t, m, ConfigErrorMsg{Err: errors.New("ui.theme: must be one of auto, dark, light")})

	assert.Contains(t, m.View(), "Config reload failed")
}

// =============================================================================
// LAYOUT
// =============================================================================

func TestWindowSize_UsesViewport(t *testing.T) {
	m := typeText(t, newTestModel(hardwareBackend(true)), "Check my hardware expenses")
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 60})

	assert.True(t, m.ready)
	assert.Contains(t, m.View(), components.QueryLabel)

	m, cmd := update(t, m, ctrlS)
	m, _ = update(t, m, settledFrom(t, cmd))

	assert.Contains(t, m.View(), "category: Hardware")
}

func TestWindowSize_ScrollsToResultOnSmallScreen(t *testing.T) {
	b := &fakeBackend{result: &audit.Result{Category: "Travel", AuditReport: "Mileage log complete."}}
	m := typeText(t, newTestModel(b), "q")
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 12})

	m, cmd := update(t, m, ctrlS)
	m, _ = update(t, m, settledFrom(t, cmd))

	assert.Contains(t, m.View(), components.ResultHeading)
	assert.Greater(t, m.viewport.YOffset, 0)
}

func TestConfigReloaded_OverrideRunsFirst(t *testing.T) {
	var seen string
	m := New(Options{
		Config:  config.Default(),
		Backend: hardwareBackend(true),
		NewBackend: func(cfg *config.Config) Backend {
			seen = cfg.Service.URL
			return hardwareBackend(true)
		},
		Override: func(cfg *config.Config) {
			cfg.Service.URL = "http://flag-wins:8000"
			cfg.UI.PlainReport = true
		},
	})

	reloaded := config.Default()
	reloaded.Service.URL = "http://from-file:8000"
	m, _ = update(t, m, ConfigReloadedMsg{Config: reloaded})

	assert.Equal(t, "http://flag-wins:8000", seen)
	assert.Contains(t, m.View(), "http://flag-wins:8000")
	assert.NotContains(t, m.View(), "from-file")
}
