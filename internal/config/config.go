// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/fiscalpulse/fiscalpulse-tui/internal/audit"
	"github.com/fiscalpulse/fiscalpulse-tui/internal/util"
)

// CurrentVersion is the config file format version written by Save.
const CurrentVersion = "1"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete FiscalPulse client configuration.
type Config struct {
	Version string `toml:"version" json:"version" yaml:"version"`

	// Audit service connection
	Service ServiceConfig `toml:"service" json:"service" yaml:"service"`

	// Terminal UI
	UI UIConfig `toml:"ui" json:"ui" yaml:"ui"`

	// Log output
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`
}

// ServiceConfig describes where the audit service lives.
type ServiceConfig struct {
	// URL is the service base URL (default: http://localhost:8000)
	URL string `toml:"url" json:"url" yaml:"url"`

	// AuditPath is the audit endpoint (default: /audit)
	AuditPath string `toml:"audit_path" json:"audit_path" yaml:"audit_path"`

	HealthPath     string `toml:"health_path" json:"health_path" yaml:"health_path"`
	CategoriesPath string `toml:"categories_path" json:"categories_path" yaml:"categories_path"`

	// TimeoutSecs bounds an audit request. 0 disables the timeout.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs" yaml:"timeout_secs"`

	// ProbeTimeoutSecs bounds health and category lookups (default: 5)
	ProbeTimeoutSecs int `toml:"probe_timeout_secs" json:"probe_timeout_secs" yaml:"probe_timeout_secs"`
}

// UIConfig contains display preferences.
type UIConfig struct {
	// Theme is "auto", "dark" or "light"
	Theme string `toml:"theme" json:"theme" yaml:"theme"`

	// PlainReport shows the audit report as plain text instead of markdown.
	PlainReport bool `toml:"plain_report" json:"plain_report" yaml:"plain_report"`

	// NoColor disables colour output. Set by NO_COLOR as well.
	NoColor bool `toml:"no_color" json:"no_color" yaml:"no_color"`

	// HideFeatures hides the feature highlights under the form.
	HideFeatures bool `toml:"hide_features" json:"hide_features" yaml:"hide_features"`
}

// LoggingConfig controls the log file.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error (default: info)
	Level string `toml:"level" json:"level" yaml:"level"`

	// File overrides the log file path (default: ~/.fiscalpulse/fiscalpulse.log)
	File string `toml:"file" json:"file" yaml:"file"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Service: ServiceConfig{
			URL:              "http://localhost:8000",
			AuditPath:        "/audit",
			HealthPath:       "/health",
			CategoriesPath:   "/categories",
			TimeoutSecs:      0,
			ProbeTimeoutSecs: 5,
		},
		UI: UIConfig{
			Theme: "auto",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the FiscalPulse configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".fiscalpulse"), nil
}

// ConfigPath returns the path of the TOML config file, which is the one
// Save and "config init" write.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// SearchPaths returns the config files Load looks at, in order.
func SearchPaths() ([]string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return []string{
		filepath.Join(dir, "config.toml"),
		filepath.Join(dir, "config.json"),
		filepath.Join(dir, "config.yaml"),
		filepath.Join(dir, "config.yml"),
	}, nil
}

// FindConfigFile returns the first existing config file, or "" when there
// is none.
func FindConfigFile() string {
	paths, err := SearchPaths()
	if err != nil {
		return ""
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the first config file found in SearchPaths
// and falls back to defaults. Environment overrides are applied last.
//
// A config file that fails to decode is reported alongside the default
// configuration so callers can warn and continue.
func Load() (*Config, error) {
	if path := FindConfigFile(); path != "" {
		cfg, err := LoadFromPath(path)
		if err == nil {
			return cfg, nil
		}
		fallback, ferr := finish(Default())
		if ferr != nil {
			return nil, ferr
		}
		return fallback, err
	}
	return finish(Default())
}

// LoadFromPath loads configuration from a specific file. The format is chosen
// by extension: .json, .yaml/.yml, anything else is TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}
	if err := decodeFile(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	fillDefaults(cfg)
	return finish(cfg)
}

// Resolve loads from path when it is set and from the default locations
// otherwise.
func Resolve(path string) (*Config, error) {
	if path != "" {
		return LoadFromPath(path)
	}
	return Load()
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func decodeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	return Decode(cfg, data, formatOf(path))
}

// Format is a config file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func formatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Decode parses data in the given format into cfg.
func Decode(cfg *Config, data []byte, format Format) error {
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to decode JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to decode YAML: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("failed to decode TOML: %w", err)
		}
	}
	return nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}

	if cfg.Service.URL == "" {
		cfg.Service.URL = defaults.Service.URL
	}
	if cfg.Service.AuditPath == "" {
		cfg.Service.AuditPath = defaults.Service.AuditPath
	}
	if cfg.Service.HealthPath == "" {
		cfg.Service.HealthPath = defaults.Service.HealthPath
	}
	if cfg.Service.CategoriesPath == "" {
		cfg.Service.CategoriesPath = defaults.Service.CategoriesPath
	}
	if cfg.Service.ProbeTimeoutSecs == 0 {
		cfg.Service.ProbeTimeoutSecs = defaults.Service.ProbeTimeoutSecs
	}

	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaults.Logging.Level
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

const fileHeader = `# FiscalPulse client configuration
# Environment variables FISCALPULSE_* override these values.

`

// EncodeTOML renders cfg as a commented TOML document.
func EncodeTOML(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(fileHeader)
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes cfg to path as TOML. The write is atomic and the file is
// created with 0600 permissions.
func Save(cfg *Config, path string) error {
	data, err := EncodeTOML(cfg)
	if err != nil {
		return err
	}
	if err := util.WriteFileAtomic(path, data, 0o600, 0o700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var (
	validThemes    = []string{"auto", "dark", "light"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
)

// Validate validates the configuration and returns all problems at once.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Service.URL == "" {
		errs = append(errs, ValidationError{"service.url", "must not be empty"})
	} else if u, err := url.Parse(c.Service.URL); err != nil {
		errs = append(errs, ValidationError{"service.url", fmt.Sprintf("invalid URL: %v", err)})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, ValidationError{"service.url", "scheme must be http or https"})
	} else if u.Host == "" {
		errs = append(errs, ValidationError{"service.url", "missing host"})
	}

	for _, p := range []struct{ field, value string }{
		{"service.audit_path", c.Service.AuditPath},
		{"service.health_path", c.Service.HealthPath},
		{"service.categories_path", c.Service.CategoriesPath},
	} {
		if !strings.HasPrefix(p.value, "/") {
			errs = append(errs, ValidationError{p.field, "must start with /"})
		}
	}

	if c.Service.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{"service.timeout_secs", "must be 0 (no timeout) or positive"})
	}
	if c.Service.ProbeTimeoutSecs <= 0 {
		errs = append(errs, ValidationError{"service.probe_timeout_secs", "must be positive"})
	}

	if !contains(validThemes, c.UI.Theme) {
		errs = append(errs, ValidationError{"ui.theme", fmt.Sprintf("must be one of %s", strings.Join(validThemes, ", "))})
	}
	if !contains(validLogLevels, strings.ToLower(c.Logging.Level)) {
		errs = append(errs, ValidationError{"logging.level", fmt.Sprintf("must be one of %s", strings.Join(validLogLevels, ", "))})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - FISCALPULSE_URL: overrides service.url
//   - FISCALPULSE_AUDIT_PATH: overrides service.audit_path
//   - FISCALPULSE_TIMEOUT: overrides service.timeout_secs; accepts seconds
//     ("30") or a duration ("1m30s")
//   - FISCALPULSE_LOG_LEVEL: overrides logging.level
//   - FISCALPULSE_THEME: overrides ui.theme
//   - NO_COLOR: any non-empty value sets ui.no_color
//
// Unparseable values are ignored.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("FISCALPULSE_URL"); v != "" {
		c.Service.URL = v
	}
	if v := os.Getenv("FISCALPULSE_AUDIT_PATH"); v != "" {
		c.Service.AuditPath = v
	}
	if v := os.Getenv("FISCALPULSE_TIMEOUT"); v != "" {
		if secs, ok := parseSeconds(v); ok {
			c.Service.TimeoutSecs = secs
		}
	}
	if v := os.Getenv("FISCALPULSE_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("FISCALPULSE_THEME"); v != "" {
		c.UI.Theme = strings.ToLower(v)
	}
	// https://no-color.org
	if os.Getenv("NO_COLOR") != "" {
		c.UI.NoColor = true
	}
}

func parseSeconds(v string) (int, bool) {
	if n, err := strconv.Atoi(v); err == nil {
		return n, true
	}
	if d, err := time.ParseDuration(v); err == nil {
		return int(d / time.Second), true
	}
	return 0, false
}

// =============================================================================
// DERIVED SETTINGS
// =============================================================================

// ClientConfig converts the service section into an audit client config.
func (c *Config) ClientConfig() *audit.ClientConfig {
	return &audit.ClientConfig{
		BaseURL:        c.Service.URL,
		AuditPath:      c.Service.AuditPath,
		HealthPath:     c.Service.HealthPath,
		CategoriesPath: c.Service.CategoriesPath,
		Timeout:        time.Duration(c.Service.TimeoutSecs) * time.Second,
		ProbeTimeout:   time.Duration(c.Service.ProbeTimeoutSecs) * time.Second,
	}
}

// LogFile returns the log file path, defaulting to ~/.fiscalpulse/fiscalpulse.log.
func (c *Config) LogFile() (string, error) {
	if c.Logging.File != "" {
		return c.Logging.File, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "fiscalpulse.log"), nil
}

// String returns the configuration as indented JSON.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
