// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a settled audit result to a file.
//
// Supported formats:
//   - Markdown (.md, .markdown) with YAML front matter
//   - JSON (.json)
//
// The format is chosen from the file extension:
//
//	report := export.NewReport(query, result, serviceURL)
//	err := export.WriteFile("hardware.md", report, nil)
//
// Exports are written only on request; nothing is kept between runs.
package export
