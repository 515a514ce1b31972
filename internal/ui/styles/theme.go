// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Mode selects the palette variant.
type Mode string

const (
	ModeAuto  Mode = "auto"
	ModeDark  Mode = "dark"
	ModeLight Mode = "light"
)

// Options configures NewThemeWithOptions.
type Options struct {
	Mode    Mode
	NoColor bool
}

// AnalyzingSpinner is shown on the submit button while an audit runs.
var AnalyzingSpinner = spinner.Spinner{
	Frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	FPS:    time.Second / 12,
}

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderBrand    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	BadgeHealthy   lipgloss.Style
	BadgeDegraded  lipgloss.Style
	BadgeDown      lipgloss.Style
	BadgeUnknown   lipgloss.Style

	// ==========================================================================
	// FORM STYLES
	// ==========================================================================

	Card           lipgloss.Style
	CardTitle      lipgloss.Style
	CardText       lipgloss.Style
	FormLabel      lipgloss.Style
	InputBox       lipgloss.Style
	InputBoxFocus  lipgloss.Style
	Button         lipgloss.Style
	ButtonDisabled lipgloss.Style
	ButtonBusy     lipgloss.Style
	Spinner        lipgloss.Style

	// ==========================================================================
	// RESULT STYLES
	// ==========================================================================

	ResultHeading lipgloss.Style
	CategoryBadge lipgloss.Style
	ReportBody    lipgloss.Style
	Notice        lipgloss.Style

	// ==========================================================================
	// ALERT STYLES
	// ==========================================================================

	ErrorAlert   lipgloss.Style
	ErrorTitle   lipgloss.Style
	WarningAlert lipgloss.Style

	// ==========================================================================
	// FEATURE STYLES
	// ==========================================================================

	Feature      lipgloss.Style
	FeatureIcon  lipgloss.Style
	FeatureTitle lipgloss.Style
	FeatureText  lipgloss.Style

	// ==========================================================================
	// HELP STYLES
	// ==========================================================================

	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style
	Muted    lipgloss.Style
}

// NewTheme creates a theme for the detected terminal.
func NewTheme() *Theme {
	return NewThemeWithOptions(Options{Mode: ModeAuto})
}

// NewThemeWithOptions creates a theme honoring a forced mode and NO_COLOR.
// Forcing a mode or disabling colour changes the default lipgloss renderer,
// which every style in the program shares.
func NewThemeWithOptions(opts Options) *Theme {
	switch opts.Mode {
	case ModeDark:
		lipgloss.SetHasDarkBackground(true)
	case ModeLight:
		lipgloss.SetHasDarkBackground(false)
	}
	if opts.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	t := &Theme{
		IsDark:       lipgloss.HasDarkBackground(),
		ColorProfile: lipgloss.ColorProfile(),
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	badge := lipgloss.NewStyle().Padding(0, 1).Bold(true)
	t.BadgeHealthy = badge.Foreground(Emerald)
	t.BadgeDegraded = badge.Foreground(Amber)
	t.BadgeDown = badge.Foreground(Rose)
	t.BadgeUnknown = badge.Foreground(TextMuted)

	// Form
	t.Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 2)

	t.CardTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.CardText = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.FormLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary).
		MarginBottom(1)

	t.InputBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay)

	t.InputBoxFocus = t.InputBox.
		BorderForeground(Indigo)

	t.Button = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Indigo).
		Padding(0, 3)

	t.ButtonDisabled = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(Overlay).
		Padding(0, 3)

	t.ButtonBusy = t.Button.
		Background(IndigoDeep)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Teal)

	// Result
	t.ResultHeading = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo).
		MarginBottom(1)

	t.CategoryBadge = lipgloss.NewStyle().
		Foreground(Teal).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Teal).
		Padding(0, 1)

	t.ReportBody = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.Notice = lipgloss.NewStyle().
		Foreground(Emerald).
		Background(EmeraldBg).
		Bold(true).
		Padding(0, 1)

	// Alerts
	t.ErrorAlert = lipgloss.NewStyle().
		Foreground(Rose).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderTop(false).
		BorderRight(false).
		BorderBottom(false).
		BorderForeground(Rose).
		Padding(0, 1)

	t.ErrorTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Rose)

	t.WarningAlert = t.ErrorAlert.
		Foreground(Amber).
		BorderForeground(Amber)

	// Features
	t.Feature = lipgloss.NewStyle().
		Padding(0, 1)

	t.FeatureIcon = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.FeatureTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.FeatureText = lipgloss.NewStyle().
		Foreground(TextSecondary)

	// Help
	t.HelpKey = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)

	t.HelpDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Muted = lipgloss.NewStyle().
		Foreground(TextMuted)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// ContentWidth is the usable width inside the page margins, never below 20.
func (t *Theme) ContentWidth() int {
	w := t.Width - 4
	if t.Width == 0 {
		w = 76
	}
	if w > 100 {
		w = 100
	}
	if w < 20 {
		w = 20
	}
	return w
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // >= 100 columns
)

// String returns the layout mode name.
func (l LayoutMode) String() string {
	switch l {
	case LayoutNarrow:
		return "narrow"
	case LayoutMedium:
		return "medium"
	case LayoutWide:
		return "wide"
	default:
		return "unknown"
	}
}
