// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the home directory at a temp dir and clears every
// environment variable the config reads.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, k := range []string{
		"FISCALPULSE_URL", "FISCALPULSE_AUDIT_PATH", "FISCALPULSE_TIMEOUT",
		"FISCALPULSE_LOG_LEVEL", "FISCALPULSE_THEME", "NO_COLOR",
	} {
		t.Setenv(k, "")
	}
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// =============================================================================
// DEFAULTS
// =============================================================================

func TestConfig_Default(t *testing.T) {
	cfg := Default()

	if cfg.Service.URL != "http://localhost:8000" {
		t.Errorf("Service.URL = %q, want http://localhost:8000", cfg.Service.URL)
	}
	if cfg.Service.AuditPath != "/audit" {
		t.Errorf("Service.AuditPath = %q, want /audit", cfg.Service.AuditPath)
	}
	if cfg.Service.TimeoutSecs != 0 {
		t.Errorf("Service.TimeoutSecs = %d, want 0 (no timeout)", cfg.Service.TimeoutSecs)
	}
	if cfg.UI.Theme != "auto" {
		t.Errorf("UI.Theme = %q, want auto", cfg.UI.Theme)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestConfig_ClientConfig(t *testing.T) {
	cfg := Default()
	cfg.Service.URL = "https://audit.example.com"
	cfg.Service.TimeoutSecs = 90

	cc := cfg.ClientConfig()
	assert.Equal(t, "https://audit.example.com", cc.BaseURL)
	assert.Equal(t, "/audit", cc.AuditPath)
	assert.Equal(t, 90*time.Second, cc.Timeout)
	assert.Equal(t, 5*time.Second, cc.ProbeTimeout)
}

func TestConfig_LogFile(t *testing.T) {
	home := isolate(t)

	cfg := Default()
	path, err := cfg.LogFile()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".fiscalpulse", "fiscalpulse.log"), path)

	cfg.Logging.File = "/tmp/fp.log"
	path, _ = cfg.LogFile()
	assert.Equal(t, "/tmp/fp.log", path)
}

// =============================================================================
// LOADING
// =============================================================================

func TestLoadFromPath_Formats(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "config.toml", "[service]\nurl = \"https://audit.example.com\"\ntimeout_secs = 30\n\n[ui]\ntheme = \"dark\"\n"},
		{"json", "config.json", `{"service":{"url":"https://audit.example.com","timeout_secs":30},"ui":{"theme":"dark"}}`},
		{"yaml", "config.yaml", "service:\n  url: https://audit.example.com\n  timeout_secs: 30\nui:\n  theme: dark\n"},
		{"yml", "config.yml", "service:\n  url: https://audit.example.com\n  timeout_secs: 30\nui:\n  theme: dark\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.file)
			writeFile(t, path, tc.content)

			cfg, err := LoadFromPath(path)
			require.NoError(t, err)
			assert.Equal(t, "https://audit.example.com", cfg.Service.URL)
			assert.Equal(t, 30, cfg.Service.TimeoutSecs)
			assert.Equal(t, "dark", cfg.UI.Theme)

			// Unset fields come from defaults.
			assert.Equal(t, "/audit", cfg.Service.AuditPath)
			assert.Equal(t, 5, cfg.Service.ProbeTimeoutSecs)
			assert.Equal(t, "info", cfg.Logging.Level)
			assert.Equal(t, CurrentVersion, cfg.Version)
		})
	}
}

func TestLoadFromPath_Missing(t *testing.T) {
	isolate(t)
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadFromPath_Invalid(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[service]\nurl = \"ftp://audit.example.com\"\n")

	_, err := LoadFromPath(path)
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "service.url", verrs[0].Field)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default().Service, cfg.Service)
}

func TestLoad_SearchOrder(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".fiscalpulse")
	writeFile(t, filepath.Join(dir, "config.yaml"), "service:\n  url: http://yaml.example.com\n")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://yaml.example.com", cfg.Service.URL)

	writeFile(t, filepath.Join(dir, "config.toml"), "[service]\nurl = \"http://toml.example.com\"\n")

	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "http://toml.example.com", cfg.Service.URL, "TOML takes precedence")
}

func TestLoad_BrokenFileFallsBackToDefaults(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".fiscalpulse", "config.toml"), "[service\nurl = ")

	cfg, err := Load()
	assert.Error(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "http://localhost:8000", cfg.Service.URL)
}

func TestResolve(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.json")
	writeFile(t, path, `{"service":{"url":"http://custom:9000"}}`)

	cfg, err := Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, "http://custom:9000", cfg.Service.URL)

	cfg, err = Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.Service.URL)
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

func TestApplyEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("FISCALPULSE_URL", "https://prod.example.com")
	t.Setenv("FISCALPULSE_AUDIT_PATH", "/v2/audit")
	t.Setenv("FISCALPULSE_TIMEOUT", "45")
	t.Setenv("FISCALPULSE_LOG_LEVEL", "DEBUG")
	t.Setenv("FISCALPULSE_THEME", "Light")
	t.Setenv("NO_COLOR", "1")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "https://prod.example.com", cfg.Service.URL)
	assert.Equal(t, "/v2/audit", cfg.Service.AuditPath)
	assert.Equal(t, 45, cfg.Service.TimeoutSecs)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.True(t, cfg.UI.NoColor)
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnvOverrides_Timeout(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"0", 0},
		{"120", 120},
		{"1m30s", 90},
		{"2h", 7200},
		{"soon", 7}, // ignored
	}
	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			isolate(t)
			t.Setenv("FISCALPULSE_TIMEOUT", tc.value)
			cfg := Default()
			cfg.Service.TimeoutSecs = 7
			cfg.ApplyEnvOverrides()
			assert.Equal(t, tc.want, cfg.Service.TimeoutSecs)
		})
	}
}

func TestLoadFromPath_EnvWinsOverFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[service]\nurl = \"http://file.example.com\"\n")
	t.Setenv("FISCALPULSE_URL", "http://env.example.com")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env.example.com", cfg.Service.URL)
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"empty url", func(c *Config) { c.Service.URL = "" }, "service.url"},
		{"bad scheme", func(c *Config) { c.Service.URL = "localhost:8000" }, "service.url"},
		{"no host", func(c *Config) { c.Service.URL = "http://" }, "service.url"},
		{"relative audit path", func(c *Config) { c.Service.AuditPath = "audit" }, "service.audit_path"},
		{"relative health path", func(c *Config) { c.Service.HealthPath = "" }, "service.health_path"},
		{"negative timeout", func(c *Config) { c.Service.TimeoutSecs = -1 }, "service.timeout_secs"},
		{"zero probe timeout", func(c *Config) { c.Service.ProbeTimeoutSecs = 0 }, "service.probe_timeout_secs"},
		{"unknown theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
		{"unknown log level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs))
			found := false
			for _, e := range verrs {
				if e.Field == tc.field {
					found = true
				}
			}
			assert.True(t, found, "expected error for %s, got %v", tc.field, err)
		})
	}
}

func TestConfig_ValidateCollectsAll(t *testing.T) {
	cfg := Default()
	cfg.Service.URL = ""
	cfg.UI.Theme = "neon"

	err := cfg.Validate()
	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 2)
	assert.Contains(t, err.Error(), "; ")
}

func TestValidateErrors_Empty(t *testing.T) {
	assert.Equal(t, "no validation errors", ValidateErrors(nil).Error())
}

// =============================================================================
// SAVE
// =============================================================================

func TestSave_RoundTrip(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := Default()
	cfg.Service.URL = "https://audit.example.com"
	cfg.UI.PlainReport = true
	require.NoError(t, Save(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# FiscalPulse client configuration"))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestConfig_String(t *testing.T) {
	cfg := Default()
	assert.Contains(t, cfg.String(), `"url": "http://localhost:8000"`)
}

// =============================================================================
// WATCHER
// =============================================================================

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[service]\nurl = \"http://before\"\n")

	w, err := NewWatcher(path, 20*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Close()

	writeFile(t, path, "[service]\nurl = \"http://after\"\n")

	select {
	case cfg := <-w.Changes():
		require.NotNil(t, cfg)
		assert.Equal(t, "http://after", cfg.Service.URL)
	case err := <-w.Errors():
		t.Fatalf("unexpected reload error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload within 5s")
	}
}

func TestWatcher_ReportsInvalidFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[service]\nurl = \"http://before\"\n")

	w, err := NewWatcher(path, 20*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Close()

	writeFile(t, path, "[ui]\ntheme = \"neon\"\n")

	select {
	case err := <-w.Errors():
		assert.Contains(t, err.Error(), "ui.theme")
	case cfg := <-w.Changes():
		t.Fatalf("invalid file produced a config: %+v", cfg)
	case <-time.After(5 * time.Second):
		t.Fatal("no error within 5s")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	w, err := NewWatcher(path, 10*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Start())

	writeFile(t, filepath.Join(dir, "other.toml"), "x = 1\n")

	select {
	case cfg := <-w.Changes():
		t.Fatalf("unexpected reload: %+v", cfg)
	case err := <-w.Errors():
		t.Fatalf("unexpected error: %v", err)
	case <-time.After(200 * time.Millisecond):
	}

	require.NoError(t, w.Close())
	_, open := <-w.Changes()
	assert.False(t, open, "Changes closed after Close")
	assert.NoError(t, w.Close(), "Close is idempotent")
}

func TestNewWatcher_EmptyPath(t *testing.T) {
	_, err := NewWatcher("", 0)
	assert.Error(t, err)
}
