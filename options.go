package readmeforge

import (
	"log/slog"
	"time"
)

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds the settings applied by options.
type converterConfig struct {
	timeout    time.Duration
	palette    string
	dateFormat string
	assetPath  string
	style      string
	engine     PDFEngine
	highlight  string
	now        func() time.Time
}

// WithTimeout bounds browser page loading during PDF printing.
func WithTimeout(d time.Duration) Option {
	return func(c *Converter) {
		if d > 0 {
			c.cfg.timeout = d
		}
	}
}

// WithPalette sets the palette used when Input.Palette is empty.
func WithPalette(key string) Option {
	return func(c *Converter) {
		c.cfg.palette = key
	}
}

// WithDateFormat sets the generation date setting, e.g. "auto:DD MMMM YYYY",
// "auto:iso", or a literal date printed as given.
func WithDateFormat(format string) Option {
	return func(c *Converter) {
		if format != "" {
			c.cfg.dateFormat = format
		}
	}
}

// WithAssetPath overrides the embedded stylesheet and layout with files from
// a directory (styles/<name>.css, templates/<name>.html). Missing files fall
// back to the embedded assets.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithStyle selects the report stylesheet by name.
func WithStyle(name string) Option {
	return func(c *Converter) {
		c.cfg.style = name
	}
}

// WithPDFEngine selects the PDF engine.
func WithPDFEngine(e PDFEngine) Option {
	return func(c *Converter) {
		if e != "" {
			c.cfg.engine = e
		}
	}
}

// WithHighlighting enables syntax highlighting of code blocks in HTML and
// Chrome-printed PDFs with the named chroma style (e.g. "github").
func WithHighlighting(style string) Option {
	return func(c *Converter) {
		c.cfg.highlight = style
	}
}

// WithNow sets the clock used for the generation date.
func WithNow(now func() time.Time) Option {
	return func(c *Converter) {
		if now != nil {
			c.cfg.now = now
		}
	}
}

// WithLogger sets the logger for palette substitution and PDF engine
// decisions. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// withConverterPrinter replaces the browser printer (tests).
func withConverterPrinter(p htmlPrinter) Option {
	return func(c *Converter) {
		c.printer = p
	}
}
