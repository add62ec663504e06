package main

import (
	flag "github.com/spf13/pflag"

	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/config"
)

// commonFlags holds output verbosity flags.
type commonFlags struct {
	quiet   bool
	verbose bool
}

// documentFlags holds report appearance flags. They override the document
// and assets config sections when set.
type documentFlags struct {
	palette   string
	date      string
	highlight string
	style     string
	assetPath string
}

// pdfFlags holds PDF engine flags.
type pdfFlags struct {
	engine  string
	timeout string
}

// outputFlags holds output location and format flags.
type outputFlags struct {
	output  string
	formats []string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common   commonFlags
	document documentFlags
	pdf      pdfFlags
	output   outputFlags
	workers  int
}

// addCommonFlags adds verbosity flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addDocumentFlags adds report appearance flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVar(&f.palette, "palette", "", "table header palette (see 'readmeforge palettes')")
	fs.StringVar(&f.date, "date", "", "generation date format, e.g. auto, auto:YYYY-MM-DD, iso")
	fs.StringVar(&f.highlight, "highlight", "", "chroma style for code blocks in HTML (empty disables)")
	fs.StringVar(&f.style, "style", "", "CSS style name or path")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory with custom styles and templates")
}

// addPDFFlags adds PDF engine flags to a FlagSet.
func addPDFFlags(fs *flag.FlagSet, f *pdfFlags) {
	fs.StringVar(&f.engine, "pdf-engine", "", "PDF engine: auto, chrome or native")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF print timeout, e.g. 30s, 2m")
}

// addOutputFlags adds output flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output directory, or file when converting one file to one format")
	fs.StringSliceVarP(&f.formats, "format", "f", []string{"pdf"}, "output formats: pdf, docx, html")
}

// applyDocumentFlags overlays changed flags on cfg.
func applyDocumentFlags(fs *flag.FlagSet, f *documentFlags, cfg *config.Config) {
	if fs.Changed("palette") {
		cfg.Document.Palette = f.palette
	}
	if fs.Changed("date") {
		cfg.Document.DateFormat = f.date
	}
	if fs.Changed("highlight") {
		cfg.Document.Highlight = f.highlight
	}
	if fs.Changed("style") {
		cfg.Assets.Style = f.style
	}
	if fs.Changed("asset-path") {
		cfg.Assets.BasePath = f.assetPath
	}
}

// applyPDFFlags overlays changed flags on cfg.
func applyPDFFlags(fs *flag.FlagSet, f *pdfFlags, cfg *config.Config) {
	if fs.Changed("pdf-engine") {
		cfg.PDF.Engine = f.engine
	}
	if fs.Changed("timeout") {
		cfg.PDF.Timeout = f.timeout
	}
}
