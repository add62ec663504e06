package readmeforge

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var fixedNow = func() time.Time {
	return time.Date(2026, time.October, 17, 8, 0, 0, 0, time.UTC)
}

const readme = `# Widget

[![Build](https://img.shields.io/badge/build-passing-green.svg)](https://ci.example.com)

A small widget library. See [docs](https://example.com/docs).

## Install

` + "```sh\ngo get example.com/widget\n```" + `

## Options

| Name | Default |
|------|---------|
| size | 10 |
| mode | fast |

1. configure
2. run
`

func newTestConverter(t *testing.T, opts ...Option) *Converter {
	t.Helper()

	opts = append([]Option{WithPDFEngine(PDFEngineNative), WithNow(fixedNow)}, opts...)
	conv, err := NewConverter(opts...)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	t.Cleanup(func() { _ = conv.Close() })
	return conv
}

func TestConverter_ConvertHTML(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, WithPalette("teal"))

	res, err := conv.Convert(context.Background(), Input{Markdown: readme, SourceName: "README.md"})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if res.Model.Title != "Widget" {
		t.Errorf("Model.Title = %q, want Widget", res.Model.Title)
	}
	if !res.Model.HasReferences {
		t.Error("Model.HasReferences = false, want true")
	}
	if res.Palette != "teal" {
		t.Errorf("Palette = %q, want teal", res.Palette)
	}
	if res.Generated != "17 October 2026" {
		t.Errorf("Generated = %q, want 17 October 2026", res.Generated)
	}
	if res.PDF != nil || res.DOCX != nil {
		t.Error("PDF or DOCX rendered without being requested")
	}

	wants := []string{"Generated: 17 October 2026", "#2d6b6b", "go get example.com/widget", "<td>size</td>"}
	for _, want := range wants {
		if !strings.Contains(res.HTML, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
	if strings.Contains(res.HTML, "shields.io") {
		t.Error("badge line survived preprocessing")
	}
}

func TestConverter_ConvertAllFormats(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t)

	res, err := conv.Convert(context.Background(), Input{
		Markdown: readme,
		Palette:  "forest",
		Formats:  []Format{FormatPDF, FormatDOCX, FormatPDF},
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if !bytes.HasPrefix(res.PDF, []byte("%PDF-")) {
		t.Error("PDF output missing or invalid")
	}
	if _, err := zip.NewReader(bytes.NewReader(res.DOCX), int64(len(res.DOCX))); err != nil {
		t.Errorf("DOCX output is not a zip package: %v", err)
	}
	if got := res.Bytes(FormatHTML); string(got) != res.HTML {
		t.Error("Bytes(html) does not match HTML")
	}
}

func TestConverter_UnknownPaletteFallsBackAndLogs(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	conv := newTestConverter(t, WithLogger(logger))

	res, err := conv.Convert(context.Background(), Input{Markdown: "# T", Palette: "neon"})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if res.Palette != DefaultPalette {
		t.Errorf("Palette = %q, want %q", res.Palette, DefaultPalette)
	}
	if !strings.Contains(logs.String(), "palette=neon") {
		t.Errorf("palette substitution not logged: %s", logs.String())
	}
}

func TestConverter_InputErrors(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t)

	tests := []struct {
		name    string
		input   Input
		wantErr error
	}{
		{"unsupported format", Input{Markdown: "# T", Formats: []Format{"odt"}}, ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := conv.Convert(context.Background(), tt.input); !errors.Is(err, tt.wantErr) {
				t.Errorf("Convert() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConverter_CancelledContext(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := conv.Convert(ctx, Input{Markdown: readme, Formats: []Format{FormatPDF}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Convert() error = %v, want context.Canceled", err)
	}
}

func TestConverter_ChromePrinterFailureIsPDFError(t *testing.T) {
	t.Parallel()

	printer := &mockPrinter{err: ErrPageLoad}
	conv := newTestConverter(t, WithPDFEngine(PDFEngineChrome), withConverterPrinter(printer))

	_, err := conv.Convert(context.Background(), Input{Markdown: readme, Formats: []Format{FormatPDF}})
	if !errors.Is(err, ErrPDFGeneration) || !errors.Is(err, ErrPageLoad) {
		t.Errorf("Convert() error = %v, want ErrPDFGeneration wrapping ErrPageLoad", err)
	}
	if conv.PDFEngine() != PDFEngineChrome {
		t.Errorf("PDFEngine() = %q, want chrome", conv.PDFEngine())
	}
}

func TestConverter_FailedFormatKeepsOthers(t *testing.T) {
	t.Parallel()

	printer := &mockPrinter{err: ErrBrowserConnect}
	conv := newTestConverter(t, WithPDFEngine(PDFEngineChrome), withConverterPrinter(printer))

	res, err := conv.Convert(context.Background(), Input{
		Markdown: readme,
		Formats:  []Format{FormatDOCX, FormatHTML, FormatPDF},
	})
	if !errors.Is(err, ErrPDFGeneration) || !errors.Is(err, ErrBrowserConnect) {
		t.Fatalf("Convert() error = %v, want ErrPDFGeneration wrapping ErrBrowserConnect", err)
	}
	if res == nil {
		t.Fatal("Convert() result = nil, want partial result")
	}

	var fe *FormatError
	if !errors.As(err, &fe) || fe.Format != FormatPDF {
		t.Errorf("Convert() error = %v, want FormatError for pdf", err)
	}
	if len(res.Failed) != 1 || res.OK(FormatPDF) {
		t.Errorf("Failed = %v, want only pdf", res.Failed)
	}
	if !res.OK(FormatDOCX) || !bytes.HasPrefix(res.DOCX, []byte("PK")) {
		t.Error("DOCX missing after PDF failure")
	}
	if !res.OK(FormatHTML) || !strings.Contains(res.HTML, "<!DOCTYPE html>") {
		t.Error("HTML missing after PDF failure")
	}
	if res.PDF != nil {
		t.Errorf("PDF = %d bytes, want nil", len(res.PDF))
	}
}

func TestConverter_EmptyMarkdown(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t)

	for _, md := range []string{"", "   \n"} {
		res, err := conv.Convert(context.Background(), Input{Markdown: md, SourceName: "my-cool-project.md"})
		if err != nil {
			t.Fatalf("Convert(%q) error = %v", md, err)
		}
		if res.Model.Title != "My Cool Project" {
			t.Errorf("Convert(%q) Title = %q, want My Cool Project", md, res.Model.Title)
		}
		if len(res.Model.Sections) != 0 {
			t.Errorf("Convert(%q) Sections = %d, want 0", md, len(res.Model.Sections))
		}
	}
}

func TestConverter_DateFormats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		want   string
	}{
		{"auto", "17 October 2026"},
		{"auto:iso", "2026-10-17"},
		{"auto:MMMM D, YYYY", "October 17, 2026"},
		{"Q4 2026", "Q4 2026"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			conv := newTestConverter(t, WithDateFormat(tt.format))
			res, err := conv.Convert(context.Background(), Input{Markdown: "# T"})
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			if res.Generated != tt.want {
				t.Errorf("Generated = %q, want %q", res.Generated, tt.want)
			}
		})
	}
}

func TestNewConverter_InvalidOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []Option
	}{
		{"unclosed date bracket", []Option{WithDateFormat("auto:[oops")}},
		{"missing asset path", []Option{WithAssetPath(filepath.Join(t.TempDir(), "missing"))}},
		{"unknown style", []Option{WithStyle("does-not-exist")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if conv, err := NewConverter(tt.opts...); err == nil {
				conv.Close()
				t.Error("NewConverter() returned nil error")
			}
		})
	}
}

func TestNewConverter_CustomStylesheet(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "styles"), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	css := ".doc-table thead tr { background: {{.HeaderBackground}}; } /* compact */"
	if err := os.WriteFile(filepath.Join(dir, "styles", "compact.css"), []byte(css), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	conv := newTestConverter(t, WithAssetPath(dir), WithStyle("compact"))
	res, err := conv.Convert(context.Background(), Input{Markdown: "# T", Palette: "wine"})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !strings.Contains(res.HTML, "/* compact */") || !strings.Contains(res.HTML, "#7a2d3e") {
		t.Error("custom stylesheet not applied with palette colors")
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"pdf", "DOCX", " html "} {
		if _, err := ParseFormat(in); err != nil {
			t.Errorf("ParseFormat(%q) error = %v", in, err)
		}
	}
	if _, err := ParseFormat("markdown"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("ParseFormat(markdown) error = %v, want ErrUnsupportedFormat", err)
	}
	if got := FormatDOCX.ContentType(); !strings.Contains(got, "wordprocessingml") {
		t.Errorf("FormatDOCX.ContentType() = %q", got)
	}
}
