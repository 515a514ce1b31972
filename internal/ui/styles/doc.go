// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the FiscalPulse
// audit desk.
//
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
// The theme can be pinned to dark or light and colour can be switched off
// entirely (NO_COLOR), in which case status falls back to the ASCII
// indicators in StatusIndicators.
//
// # Usage
//
//	theme := styles.NewThemeWithOptions(styles.Options{
//	    Mode:    styles.Mode(cfg.UI.Theme),
//	    NoColor: cfg.UI.NoColor,
//	})
//	title := theme.ResultHeading.Render("Audit Results")
package styles
