package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListByExtension(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	for _, name := range []string{"b.hcl", "a.hcl", "notes.txt", "c.star"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.hcl"), 0700), "a directory with a matching name must be ignored")

	// --- Act ---
	files, err := ListByExtension(dir, ".hcl")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.hcl"),
		filepath.Join(dir, "b.hcl"),
	}, files, "results should contain only .hcl files, sorted by name")
}

func TestListByExtension_MissingDir(t *testing.T) {
	t.Parallel()

	_, err := ListByExtension(filepath.Join(t.TempDir(), "nope"), ".hcl")
	assert.Error(t, err)
}

func TestReserved(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		path     string
		reserved bool
	}{
		{"modules.d/sysinfo.hcl", false},
		{"modules.d/_disabled.hcl", true},
		{"modules.d/base.star", true},
		{"modules.d/Base.hcl", true},
		{"modules.d/database.hcl", false},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.reserved, Reserved(tc.path))
		})
	}
}
