package utils

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// UniqueFileName prefixes a sanitized client file name with a random UUID so
// concurrent uploads of the same name never collide on disk.
func UniqueFileName(original string) string {
	return uuid.NewString() + "_" + SanitizeFileName(original)
}

// SanitizeFileName drops any directory components and characters that are
// unsafe in a path, keeping the extension intact.
func SanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, r == '/', r == ':', r == '*', r == '?', r == '"', r == '<', r == '>', r == '|':
			return '_'
		default:
			return r
		}
	}, name)
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "file"
	}
	return name
}
