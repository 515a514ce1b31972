// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// SECURITY: audit reports come from a remote service and are printed to a
// terminal. An embedded escape sequence could move the cursor, retitle the
// window or write to the clipboard, so everything that is not printable text
// is removed before rendering. Newlines and tabs survive.

// SanitizeForTerminal returns s in NFC form with ANSI/OSC escape sequences
// and other control characters removed. Printable content is unchanged.
func SanitizeForTerminal(s string) string {
	if s == "" {
		return s
	}
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")

	var b strings.Builder
	b.Grow(len(s))

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\x1b':
			i = skipEscape(runes, i)
		case r == 0x9b: // C1 CSI
			i = skipCSI(runes, i+1)
		case r == 0x9d: // C1 OSC
			i = skipOSC(runes, i+1)
		case r == '\n' || r == '\t':
			b.WriteRune(r)
		case unicode.IsControl(r):
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// skipEscape returns the index of the last rune of the escape sequence that
// starts at runes[i] (an ESC).
func skipEscape(runes []rune, i int) int {
	if i+1 >= len(runes) {
		return i
	}
	switch runes[i+1] {
	case '[':
		return skipCSI(runes, i+2)
	case ']', 'P', '_', '^', 'X':
		return skipOSC(runes, i+2)
	default:
		// Two-character sequence such as ESC c or ESC 7.
		return i + 1
	}
}

// skipCSI consumes parameter and intermediate bytes up to and including the
// final byte (0x40..0x7e).
func skipCSI(runes []rune, j int) int {
	for ; j < len(runes); j++ {
		if runes[j] >= 0x40 && runes[j] <= 0x7e {
			return j
		}
	}
	return len(runes) - 1
}

// skipOSC consumes a string sequence terminated by BEL or ESC \.
func skipOSC(runes []rune, j int) int {
	for ; j < len(runes); j++ {
		switch runes[j] {
		case '\a', 0x9c:
			return j
		case '\x1b':
			if j+1 < len(runes) && runes[j+1] == '\\' {
				return j + 1
			}
		}
	}
	return len(runes) - 1
}
