// Package ioutils provides file system helpers for osu-downloader:
// filename sanitization, report writing and directory creation.
package ioutils

import (
	"os"
	"strings"
)

// reservedChars are the characters Windows forbids in file names. They are
// stripped, not replaced, so sanitizing an already clean name is a no-op.
const reservedChars = `\/:*?"<>|`

// SanitizeFileName removes every character of \ / : * ? " < > | from name,
// preserving the order of everything else.
func SanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(reservedChars, r) {
			return -1
		}
		return r
	}, name)
}

// WriteLines writes the given lines to path, one per line with a trailing
// newline each, truncating any previous content.
func WriteLines(path string, lines []string) error {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

// EnsureDir creates a directory and all parent directories if they don't
// exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
