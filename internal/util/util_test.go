// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestWriteFileAtomic_Basic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := []byte("[service]\nurl = \"http://localhost:8000\"\n")

	if err := WriteFileAtomic(path, data, 0o600, 0o700); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(content) != string(data) {
		t.Errorf("Content mismatch: got %q, want %q", content, data)
	}
}

func TestWriteFileAtomic_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".fiscalpulse", "nested", "config.toml")

	if err := WriteFileAtomic(path, []byte("x"), 0o600, 0o700); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("File not created: %v", err)
	}
}

func TestWriteFileAtomic_OverwritesAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := WriteFileAtomic(path, []byte("initial"), 0o600, 0o700); err != nil {
		t.Fatalf("First write failed: %v", err)
	}
	if err := WriteFileAtomic(path, []byte("updated"), 0o600, 0o700); err != nil {
		t.Fatalf("Second write failed: %v", err)
	}

	content, _ := os.ReadFile(path)
	if string(content) != "updated" {
		t.Errorf("Content = %q, want %q", content, "updated")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected only the target file, found %d entries", len(entries))
	}
}

func TestWriteFileAtomic_Permissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteFileAtomic(path, []byte("x"), 0o600, 0o700); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("Mode = %v, want 0600", info.Mode().Perm())
	}
}

// =============================================================================
// STRING TESTS
// =============================================================================

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"truncated", "Check my hardware expenses", 10, "Check m..."},
		{"zero", "hello", 0, ""},
		{"negative", "hello", -1, ""},
		{"tiny limit", "hello", 2, "he"},
		{"multibyte", "Prüfung der Ausgaben", 8, "Prüfu..."},
		{"cjk", "日本語のテキスト", 5, "日本..."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TruncateRunes(tc.in, tc.max); got != tc.want {
				t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
			}
		})
	}
}

func TestTruncateWidth(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"fits", "Hardware", 20, "Hardware"},
		{"ascii", "Hardware expenses", 8, "Hardw..."},
		{"zero", "Hardware", 0, ""},
		{"wide not split", "日本語", 5, "日..."},
		{"tiny limit", "日本語", 3, "日"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := TruncateWidth(tc.in, tc.max)
			if got != tc.want {
				t.Errorf("TruncateWidth(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
			}
			if StringWidth(got) > tc.max && tc.max > 0 {
				t.Errorf("width %d exceeds %d", StringWidth(got), tc.max)
			}
		})
	}
}

func TestStringWidth(t *testing.T) {
	if got := StringWidth("abc"); got != 3 {
		t.Errorf("StringWidth(abc) = %d, want 3", got)
	}
	if got := StringWidth("日本"); got != 4 {
		t.Errorf("StringWidth(日本) = %d, want 4", got)
	}
}

// =============================================================================
// SANITIZE TESTS
// =============================================================================

func TestSanitizeForTerminal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "All items deductible.", "All items deductible."},
		{"keeps newlines and tabs", "line1\n\tline2", "line1\n\tline2"},
		{"crlf", "a\r\nb", "a\nb"},
		{"csi color", "\x1b[31mred\x1b[0m text", "red text"},
		{"csi cursor", "a\x1b[2Jb\x1b[10;20Hc", "abc"},
		{"osc title bel", "\x1b]0;pwned\aok", "ok"},
		{"osc st", "\x1b]52;c;ZXZpbA==\x1b\\ok", "ok"},
		{"two char escape", "a\x1bcb", "ab"},
		{"trailing esc", "done\x1b", "done"},
		{"bell and nul", "a\a\x00b", "ab"},
		{"c1 csi", "a\u009b31mb", "ab"},
		{"unterminated csi", "a\x1b[31", "a"},
		{"nfc", "Pru\u0308fung", "Pr\u00fcfung"},
		{"markdown untouched", "## Summary\n- **Hardware**: €1.200", "## Summary\n- **Hardware**: €1.200"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeForTerminal(tc.in); got != tc.want {
				t.Errorf("SanitizeForTerminal(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
