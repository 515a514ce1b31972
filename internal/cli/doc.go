// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the fiscalpulse command line.
//
// Commands:
//
//	fiscalpulse                    Open the audit desk (TUI)
//	fiscalpulse ask [query...]     Run one audit and print the result
//	fiscalpulse status             Check the audit service
//	fiscalpulse categories         List audit categories
//	fiscalpulse config show|path|init
//	fiscalpulse version
//
// Global flags: --config, --url, --verbose, --no-markdown.
//
// Exit codes follow ExitSuccess..ExitInterrupted; an audit that settles with
// an error exits 1 and an empty query exits 2.
package cli
