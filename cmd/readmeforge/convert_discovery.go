package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	readmeforge "github.com/Neil2813/Crimson-Scriveners-Readme-Forger"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// FileToConvert is one source file and its output path per format.
type FileToConvert struct {
	InputPath string
	Outputs   map[readmeforge.Format]string
}

// discoverFiles finds the Markdown files under inputPath and resolves their
// output paths for each format.
func discoverFiles(inputPath, output string, formats []readmeforge.Format) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateMarkdownExtension(inputPath); err != nil {
			return nil, err
		}
		return []FileToConvert{newFileToConvert(inputPath, output, "", formats)}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !fileutil.IsMarkdown(path) {
			return nil
		}
		files = append(files, newFileToConvert(path, output, inputPath, formats))
		return nil
	})

	return files, err
}

func newFileToConvert(path, output, baseInputDir string, formats []readmeforge.Format) FileToConvert {
	f := FileToConvert{InputPath: path, Outputs: make(map[readmeforge.Format]string, len(formats))}
	single := baseInputDir == "" && len(formats) == 1
	for _, format := range formats {
		f.Outputs[format] = resolveOutputPath(path, output, baseInputDir, format, single)
	}
	return f
}

// resolveOutputPath returns "<stem>_report.<ext>" next to the input, or
// under output mirroring the input tree. When a single file is converted to
// a single format, an output carrying that format's extension is used as is.
func resolveOutputPath(inputPath, output, baseInputDir string, format readmeforge.Format, single bool) string {
	name := fileutil.Stem(inputPath) + "_report." + format.Extension()

	if output == "" {
		return filepath.Join(filepath.Dir(inputPath), name)
	}

	if single && strings.EqualFold(filepath.Ext(output), "."+format.Extension()) {
		return output
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(output, filepath.Dir(relPath), name)
		}
	}

	return filepath.Join(output, name)
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	if !fileutil.IsMarkdown(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > readmeforge.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, readmeforge.MaxPoolSize)
	}
	return nil
}

// parseFormats parses the --format values, dropping duplicates.
func parseFormats(values []string) ([]readmeforge.Format, error) {
	seen := make(map[readmeforge.Format]bool, len(values))
	var formats []readmeforge.Format
	for _, v := range values {
		f, err := readmeforge.ParseFormat(v)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	if len(formats) == 0 {
		return nil, fmt.Errorf("%w: no output format", readmeforge.ErrUnsupportedFormat)
	}
	return formats, nil
}
