// Package fsutil provides file system utility functions.
package fsutil

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListByExtension returns the full paths of all regular files in dir that end
// with the given extension, sorted by filename. Directory enumeration order
// is platform-dependent, so the sort is what makes module listing order
// deterministic for the UI.
func ListByExtension(dir string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), extension) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Reserved reports whether a discovered file is a reserved unit that must
// never contribute modules: underscore-prefixed files and the base contract
// unit ("base.<ext>") are skipped by discovery.
func Reserved(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, "_") {
		return true
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.EqualFold(stem, "base")
}
