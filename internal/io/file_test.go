package ioutils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-file", "normal-file"},
		{"file:with:colons", "filewithcolons"},
		{"file<with>brackets", "filewithbrackets"},
		{"file/with\\slashes", "filewithslashes"},
		{"file|with|pipes", "filewithpipes"},
		{"file?with*wildcards", "filewithwildcards"},
		{"file\"with\"quotes", "filewithquotes"},
		{`\/:*?"<>|`, ""},
		{"FREEDOM DiVE [FOUR DIMENSIONS]", "FREEDOM DiVE [FOUR DIMENSIONS]"},
		{"Sing a Song?! / Yes!", "Sing a Song! Yes!"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SanitizeFileName(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if strings.ContainsAny(got, reservedChars) {
				t.Errorf("SanitizeFileName(%q) = %q still contains reserved characters", tt.input, got)
			}
		})
	}
}

func TestSanitizeFileName_Idempotent(t *testing.T) {
	inputs := []string{"plain", `a\b/c:d*e?f"g<h>i|j`, "already clean [x]"}
	for _, in := range inputs {
		once := SanitizeFileName(in)
		twice := SanitizeFileName(once)
		if once != twice {
			t.Errorf("SanitizeFileName not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestWriteLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")

	if err := WriteLines(path, []string{"123", "456"}); err != nil {
		t.Fatalf("WriteLines() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "123\n456\n" {
		t.Errorf("report content = %q, want %q", string(data), "123\n456\n")
	}

	// A second write replaces previous content entirely.
	if err := WriteLines(path, []string{"789"}); err != nil {
		t.Fatalf("WriteLines() error = %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "789\n" {
		t.Errorf("report content after overwrite = %q, want %q", string(data), "789\n")
	}
}

func TestEnsureDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c")
	if err := EnsureDir(path); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		t.Errorf("EnsureDir did not create directory: %v", err)
	}
}
