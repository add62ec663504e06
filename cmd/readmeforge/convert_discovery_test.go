package main

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	readmeforge "github.com/Neil2813/Crimson-Scriveners-Readme-Forger"
)

func TestDiscoverFiles_SingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "README.md", "# x")

	files, err := discoverFiles(path, "", []readmeforge.Format{readmeforge.FormatPDF, readmeforge.FormatDOCX})
	if err != nil {
		t.Fatalf("discoverFiles() error = %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1", len(files))
	}
	if got, want := files[0].Outputs[readmeforge.FormatPDF], filepath.Join(dir, "README_report.pdf"); got != want {
		t.Errorf("pdf output = %q, want %q", got, want)
	}
	if got, want := files[0].Outputs[readmeforge.FormatDOCX], filepath.Join(dir, "README_report.docx"); got != want {
		t.Errorf("docx output = %q, want %q", got, want)
	}
}

func TestDiscoverFiles_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.md", "# a")
	writeFile(t, dir, "sub/b.markdown", "# b")
	writeFile(t, dir, "notes.txt", "skip")
	out := filepath.Join(t.TempDir(), "out")

	files, err := discoverFiles(dir, out, []readmeforge.Format{readmeforge.FormatHTML})
	if err != nil {
		t.Fatalf("discoverFiles() error = %v", err)
	}

	var got []string
	for _, f := range files {
		got = append(got, f.Outputs[readmeforge.FormatHTML])
	}
	sort.Strings(got)
	want := []string{
		filepath.Join(out, "a_report.html"),
		filepath.Join(out, "sub", "b_report.html"),
	}
	if len(got) != len(want) {
		t.Fatalf("outputs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("outputs[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDiscoverFiles_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	txt := writeFile(t, dir, "notes.txt", "x")

	if _, err := discoverFiles(txt, "", []readmeforge.Format{readmeforge.FormatPDF}); !errors.Is(err, ErrInvalidExtension) {
		t.Errorf("non-markdown error = %v, want ErrInvalidExtension", err)
	}
	if _, err := discoverFiles(filepath.Join(dir, "missing.md"), "", []readmeforge.Format{readmeforge.FormatPDF}); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}
}

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		output string
		base   string
		format readmeforge.Format
		single bool
		want   string
	}{
		{"next to input", filepath.Join("docs", "README.md"), "", "", readmeforge.FormatPDF, true, filepath.Join("docs", "README_report.pdf")},
		{"output dir", "README.md", "out", "", readmeforge.FormatDOCX, true, filepath.Join("out", "README_report.docx")},
		{"explicit file", "README.md", filepath.Join("out", "guide.pdf"), "", readmeforge.FormatPDF, true, filepath.Join("out", "guide.pdf")},
		{"explicit file other format", "README.md", "guide.pdf", "", readmeforge.FormatHTML, false, filepath.Join("guide.pdf", "README_report.html")},
		{"mirrors tree", filepath.Join("in", "a", "x.md"), "out", "in", readmeforge.FormatHTML, false, filepath.Join("out", "a", "x_report.html")},
		{"keeps spaces", "My Notes.md", "", "", readmeforge.FormatHTML, true, "My Notes_report.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := resolveOutputPath(tt.input, tt.output, tt.base, tt.format, tt.single)
			if got != tt.want {
				t.Errorf("resolveOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n       int
		wantErr bool
	}{
		{-1, true},
		{0, false},
		{readmeforge.MaxPoolSize, false},
		{readmeforge.MaxPoolSize + 1, true},
	}

	for _, tt := range tests {
		err := validateWorkers(tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateWorkers(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) error = %v, want ErrInvalidWorkerCount", tt.n, err)
		}
	}
}

func TestParseFormats(t *testing.T) {
	t.Parallel()

	got, err := parseFormats([]string{"PDF", "docx", "pdf", " html "})
	if err != nil {
		t.Fatalf("parseFormats() error = %v", err)
	}
	want := []readmeforge.Format{readmeforge.FormatPDF, readmeforge.FormatDOCX, readmeforge.FormatHTML}
	if len(got) != len(want) {
		t.Fatalf("parseFormats() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("parseFormats()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if _, err := parseFormats([]string{"odt"}); !errors.Is(err, readmeforge.ErrUnsupportedFormat) {
		t.Errorf("parseFormats(odt) error = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := parseFormats(nil); !errors.Is(err, readmeforge.ErrUnsupportedFormat) {
		t.Errorf("parseFormats(nil) error = %v, want ErrUnsupportedFormat", err)
	}
}
