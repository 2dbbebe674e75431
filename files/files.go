// Package files lists source files to scan and reads them as lines.
//
// It is the file system boundary of the scanner and the detector: callers ask
// for "matching file paths" with [Find] and for "this file's lines" with
// [ReadLines], and never touch the file system directly.
package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"go.jacobcolvin.com/putflow/syntax"
)

var (
	// ErrNotFound indicates the root path does not exist.
	ErrNotFound = errors.New("path not found")
	// ErrInvalidPattern indicates a file pattern is not a valid regular
	// expression.
	ErrInvalidPattern = errors.New("invalid file pattern")
)

// IgnoreDirs are directory names never descended into.
var IgnoreDirs = []string{
	".git", ".svn", ".hg", "node_modules", "vendor", "__pycache__",
	".venv", "venv", ".idea", ".vscode", ".Rproj.user", "renv",
}

// DefaultPattern returns a case-insensitive regular expression matching
// every extension known to [syntax.Extensions]. A file with no extension
// matches when its whole name is a known extension, as with "Dockerfile".
func DefaultPattern() string {
	exts := syntax.Extensions()
	quoted := make([]string, len(exts))

	for i, ext := range exts {
		quoted[i] = regexp.QuoteMeta(ext)
	}

	return `(?i)(^|\.)(` + strings.Join(quoted, "|") + `)$`
}

// CompilePattern compiles a file name pattern. An empty pattern selects
// [DefaultPattern].
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		pattern = DefaultPattern()
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}

	return re, nil
}

// Find returns the files under root whose base name matches pattern, in
// lexical order. When root is a regular file it is returned as-is, whatever
// the pattern. Without recursive, only the direct children of root are
// considered.
//
// A missing root is an error; an empty result is not.
func Find(root string, pattern *regexp.Regexp, recursive bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, root)
		}

		return nil, fmt.Errorf("stat %s: %w", root, err)
	}

	if !info.IsDir() {
		return []string{root}, nil
	}

	var paths []string

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped; the walk continues.
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}

			return nil
		}

		if d.IsDir() {
			if path == root {
				return nil
			}

			if !recursive || slices.Contains(IgnoreDirs, d.Name()) {
				return filepath.SkipDir
			}

			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if pattern == nil || pattern.MatchString(d.Name()) {
			paths = append(paths, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return paths, nil
}

// ReadLines reads path and splits it into lines. See [SplitLines].
func ReadLines(path string) ([]string, error) {
	b, err := os.ReadFile(path) //nolint:gosec // Scanning user-selected paths is the point.
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return SplitLines(string(b)), nil
}

// SplitLines splits content on LF, dropping a trailing CR from each line and
// a UTF-8 byte order mark from the first. A trailing newline does not
// produce an extra empty line.
func SplitLines(content string) []string {
	content = strings.TrimPrefix(content, "\ufeff")
	content = strings.TrimSuffix(content, "\n")

	if content == "" {
		return nil
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	return lines
}

// Ext returns the extension of path without the leading dot. Files such as
// "Dockerfile" with no extension use their lowercased base name.
func Ext(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return strings.ToLower(filepath.Base(path))
	}

	return ext
}
