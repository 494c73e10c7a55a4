package source

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FormatOf returns the import format for a path by extension.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return FormatJSONL, true
	case ".csv":
		return FormatCSV, true
	}
	return "", false
}

// ScanPath returns the importable files at path. A file is returned as-is
// if its extension is known; a directory is walked for .jsonl and .csv files.
func ScanPath(path string) ([]DiscoveredFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		format, ok := FormatOf(path)
		if !ok {
			return nil, fmt.Errorf("%s: unknown import format (want .jsonl or .csv)", path)
		}
		return []DiscoveredFile{{Path: path, Format: format}}, nil
	}

	var files []DiscoveredFile
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		if d.IsDir() {
			if p != path && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if format, ok := FormatOf(p); ok {
			files = append(files, DiscoveredFile{Path: p, Format: format})
		}
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}
