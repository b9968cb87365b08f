// Package store writes the planner's flat files: activity archives, plans,
// structured workouts and the session token. Writes go to a temporary file
// first and are renamed into place.
package store

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	unsafeChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	underscores = regexp.MustCompile(`_+`)
)

// WriteFile writes data to path atomically, creating parent directories.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmpPath := path + fmt.Sprintf(".tmp.%d", rand.Int())
	if err := os.WriteFile(tmpPath, data, perm); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// WriteJSON marshals v with two-space indentation and writes it atomically.
// HTML characters are left unescaped so emoji and '<' survive in descriptions.
func WriteJSON(path string, v any, perm os.FileMode) error {
	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return WriteFile(path, []byte(sb.String()), perm)
}

// ReadJSON decodes the JSON file at path into out.
func ReadJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// SanitizeFilename replaces characters that are invalid in file names,
// collapses runs of underscores and trims underscores and spaces.
func SanitizeFilename(name string) string {
	out := unsafeChars.ReplaceAllString(name, "_")
	out = underscores.ReplaceAllString(out, "_")
	return strings.Trim(out, "_ ")
}

// Abs returns the absolute form of path, or path itself if it cannot be resolved.
func Abs(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
