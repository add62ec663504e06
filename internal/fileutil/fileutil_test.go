package fileutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/fileutil"
)

func TestWriteTemp(t *testing.T) {
	t.Parallel()

	content := []byte("<html><body>report</body></html>")
	path, cleanup, err := fileutil.WriteTemp(content, "html")
	if err != nil {
		t.Fatalf("WriteTemp() error = %v", err)
	}

	if !strings.HasPrefix(filepath.Base(path), "readmeforge-") || filepath.Ext(path) != ".html" {
		t.Errorf("path = %q, want readmeforge-*.html", path)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content = %q, want %q", got, content)
	}

	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file still present after cleanup: %v", err)
	}
	cleanup()
}

func TestWriteTemp_InvalidExtension(t *testing.T) {
	t.Parallel()

	for _, ext := range []string{"", "../html", `a\b`, "ht ml", "x\x00", ".html", "htmé"} {
		path, cleanup, err := fileutil.WriteTemp([]byte("x"), ext)
		if !errors.Is(err, fileutil.ErrInvalidExtension) {
			t.Errorf("WriteTemp(%q) error = %v, want ErrInvalidExtension", ext, err)
		}
		if path != "" || cleanup != nil {
			t.Errorf("WriteTemp(%q) returned path %q", ext, path)
		}
	}
}

func TestIsRegularFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "README.md")
	if err := os.WriteFile(file, []byte("# x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"file", file, true},
		{"directory", dir, false},
		{"missing", filepath.Join(dir, "missing.md"), false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		if got := fileutil.IsRegularFile(tt.path); got != tt.want {
			t.Errorf("%s: IsRegularFile() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIsMarkdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want bool
	}{
		{"README.md", true},
		{"notes.MD", true},
		{"guide.markdown", true},
		{"dir/sub/file.md", true},
		{"report.pdf", false},
		{"README", false},
		{"md", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.IsMarkdown(tt.name); got != tt.want {
				t.Errorf("IsMarkdown(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestStem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"README.md", "README"},
		{"docs/guide.markdown", "guide"},
		{`C:\docs\setup.md`, "setup"},
		{"archive.tar.gz", "archive.tar"},
		{"noext", "noext"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.Stem(tt.in); got != tt.want {
				t.Errorf("Stem(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSafeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "README.md", "README.md"},
		{"spaces", "my notes.md", "my_notes.md"},
		{"traversal", "../../etc/passwd", "passwd"},
		{"windows path", `..\..\boot.ini`, "boot.ini"},
		{"non ascii", "café.md", "caf_.md"},
		{"dots only", "..", "document"},
		{"empty", "", "document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.SafeName(tt.in); got != tt.want {
				t.Errorf("SafeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestReportName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		source string
		ext    string
		want   string
	}{
		{"README.md", "pdf", "README_report.pdf"},
		{"docs/My Project.md", "docx", "My_Project_report.docx"},
		{"", "html", "readme_report.html"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.ReportName(tt.source, tt.ext); got != tt.want {
				t.Errorf("ReportName(%q, %q) = %q, want %q", tt.source, tt.ext, got, tt.want)
			}
		})
	}
}

func TestLooksLikePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"work", false},
		{"./work.yaml", true},
		{`configs\work.yaml`, true},
		{"/etc/readmeforge.yaml", true},
	}
	for _, tt := range tests {
		if got := fileutil.LooksLikePath(tt.in); got != tt.want {
			t.Errorf("LooksLikePath(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
