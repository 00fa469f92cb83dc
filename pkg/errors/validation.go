package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

const maxIDLength = 256

// ValidateNodeID validates an identifier received from a client before it is
// looked up in the graph.
//
// The rules are intentionally conservative:
//   - No empty ids
//   - No control characters
//   - Maximum length of 256 bytes
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "node id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id contains invalid control characters")
		}
	}
	return nil
}

// ValidateGraphPath validates the path of a graph file given on the command
// line or in configuration. Only .json and .toml files are accepted.
func ValidateGraphPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidPath, "path contains invalid characters")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".toml":
		return nil
	default:
		return New(ErrCodeInvalidFormat, "unsupported graph file %q (want .json or .toml)", filepath.Base(path))
	}
}
