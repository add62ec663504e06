// Package fileutil provides file and path helpers shared by the converter,
// the HTTP upload boundary and the CLI.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

var ErrInvalidExtension = errors.New("temp file extension must be ASCII letters or digits")

// markdownExtensions are the accepted source file extensions (lowercase).
var markdownExtensions = []string{".md", ".markdown"}

// WriteTemp stores content in a new "readmeforge-*.<ext>" file in the
// system temp directory. cleanup removes it and is safe to call twice.
func WriteTemp(content []byte, ext string) (path string, cleanup func(), err error) {
	if ext == "" || strings.IndexFunc(ext, func(r rune) bool {
		return r >= unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r))
	}) >= 0 {
		return "", nil, fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
	}

	f, err := os.CreateTemp("", "readmeforge-*."+ext)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}
	path = f.Name()
	cleanup = func() { _ = os.Remove(path) }

	_, werr := f.Write(content)
	if err := errors.Join(werr, f.Close()); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", err)
	}
	return path, cleanup, nil
}

// IsRegularFile reports whether path exists and is not a directory.
func IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LooksLikePath reports whether s names a file by path rather than by bare
// name, i.e. it contains a '/' or '\' separator.
func LooksLikePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsMarkdown reports whether name has a Markdown extension (case-insensitive).
func IsMarkdown(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range markdownExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Stem returns the base name of a path without its extension, accepting both
// slash and backslash separators. "docs\README.md" gives "README".
func Stem(name string) string {
	if i := strings.LastIndexAny(name, "/\\"); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// SafeName reduces a client-supplied file name to a single path element made
// of letters, digits, '.', '-' and '_'. Other runes become '_'. An empty or
// dot-only result gives "document".
func SafeName(name string) string {
	if i := strings.LastIndexAny(name, "/\\"); i >= 0 {
		name = name[i+1:]
	}
	safe := strings.Map(func(r rune) rune {
		switch {
		case r == '.' || r == '-' || r == '_':
			return r
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			return r
		default:
			return '_'
		}
	}, name)
	if strings.Trim(safe, ".") == "" {
		return "document"
	}
	return safe
}

// ReportName returns the download name for a converted source file:
// "<stem>_report.<ext>".
func ReportName(source, ext string) string {
	stem := SafeName(Stem(source))
	if stem == "document" && Stem(source) == "" {
		stem = "readme"
	}
	return stem + "_report." + ext
}
