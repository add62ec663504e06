package readmeforge

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestPrintOptions(t *testing.T) {
	t.Parallel()

	opts := printOptions()

	if *opts.PaperWidth != paperWidthInches || *opts.PaperHeight != paperHeightInches {
		t.Errorf("paper = %vx%v, want A4", *opts.PaperWidth, *opts.PaperHeight)
	}
	if !opts.PrintBackground {
		t.Error("PrintBackground = false, table colors would be lost")
	}
	if !opts.PreferCSSPageSize {
		t.Error("PreferCSSPageSize = false")
	}
	if !opts.DisplayHeaderFooter || !strings.Contains(opts.FooterTemplate, `class="pageNumber"`) {
		t.Error("footer with page numbers not configured")
	}
}

func TestRodPrinter_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newRodPrinter(time.Second)
	defer p.Close()

	if _, err := p.Print(ctx, "<html></html>"); !errors.Is(err, context.Canceled) {
		t.Errorf("Print() error = %v, want context.Canceled", err)
	}
}

func TestRodPrinter_CloseWithoutBrowser(t *testing.T) {
	t.Parallel()

	p := newRodPrinter(time.Second)
	if err := p.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

// Uses t.Setenv, so not parallel.
func TestFindBrowser_MissingBrowserBin(t *testing.T) {
	t.Setenv("ROD_BROWSER_BIN", filepath.Join(t.TempDir(), "no-chrome"))

	path, ok := findBrowser()
	if ok {
		t.Errorf("findBrowser() found %q, want not found", path)
	}
	if !strings.HasSuffix(path, "no-chrome") {
		t.Errorf("findBrowser() = %q, want the configured path", path)
	}
}

func TestRodPrinter_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	if _, ok := BrowserPath(); !ok {
		t.Skip("no Chrome/Chromium found")
	}

	p := newRodPrinter(30 * time.Second)
	defer p.Close()

	out, err := p.Print(context.Background(), sampleReport(t))
	if err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if !strings.HasPrefix(string(out), "%PDF-") {
		t.Error("Print() output is not a PDF")
	}
}
