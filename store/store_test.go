package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Morning Run", "Morning Run"},
		{"Run: 5k <fast>", "Run_ 5k _fast"},
		{"a/b\\c|d?e*f", "a_b_c_d_e_f"},
		{"__lead and trail__", "lead and trail"},
		{"many:::colons", "many_colons"},
		{"", ""},
	}

	for _, tt := range tests {
		result := SanitizeFilename(tt.in)
		if result != tt.expected {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, result, tt.expected)
		}
	}
}

func TestWriteAndReadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "data.json")

	in := map[string]any{"name": "Tempo <run> 📅", "minutes": 45}
	require.NoError(t, WriteJSON(path, in, 0o600))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "<run>")
	assert.Contains(t, string(raw), "  \"minutes\": 45")

	var out map[string]any
	require.NoError(t, ReadJSON(path, &out))
	assert.Equal(t, "Tempo <run> 📅", out["name"])
	assert.EqualValues(t, 45, out["minutes"])

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file should have been renamed away")
}

func TestReadJSONMissing(t *testing.T) {
	var out map[string]any
	err := ReadJSON(filepath.Join(t.TempDir(), "missing.json"), &out)
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}
