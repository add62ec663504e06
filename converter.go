package readmeforge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/assets"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/dateutil"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/docx"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/htmlreport"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/palette"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.ASTParser            = (*pipeline.GoldmarkParser)(nil)
)

// Format is an output format.
type Format string

// Output formats.
const (
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// ParseFormat parses a format name (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatHTML, FormatPDF, FormatDOCX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	return string(f)
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "text/html; charset=utf-8"
	}
}

// Input is one conversion request.
type Input struct {
	Markdown   string   // raw Markdown source
	SourceName string   // original file name, used for the title fallback
	Palette    string   // palette key; empty uses the converter default
	Formats    []Format // formats to render besides the model; empty means HTML
}

// Result holds the outputs of a conversion. HTML is set unless its
// rendering failed; PDF and DOCX only when requested and rendered.
type Result struct {
	Model     *DocumentModel
	Palette   string // canonical palette key actually used
	Generated string // generation date printed in the report
	HTML      string
	PDF       []byte
	DOCX      []byte

	// Failed holds the error of every requested format that did not
	// render. Formats absent from it rendered successfully.
	Failed map[Format]error
}

// FormatError reports a single output format that failed to render.
type FormatError struct {
	Format Format
	Err    error
}

func (e *FormatError) Error() string { return e.Err.Error() }

func (e *FormatError) Unwrap() error { return e.Err }

func (r *Result) fail(f Format, err error) {
	if r.Failed == nil {
		r.Failed = make(map[Format]error)
	}
	r.Failed[f] = err
}

// OK reports whether f rendered.
func (r *Result) OK(f Format) bool {
	_, failed := r.Failed[f]
	return !failed
}

// Err joins the per-format failures in format order, or returns nil when
// every requested format rendered.
func (r *Result) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	var errs []error
	for _, f := range []Format{FormatHTML, FormatPDF, FormatDOCX} {
		if err, ok := r.Failed[f]; ok {
			errs = append(errs, &FormatError{Format: f, Err: err})
		}
	}
	return errors.Join(errs...)
}

// Bytes returns the rendered output for f.
func (r *Result) Bytes(f Format) []byte {
	switch f {
	case FormatPDF:
		return r.PDF
	case FormatDOCX:
		return r.DOCX
	default:
		return []byte(r.HTML)
	}
}

// Converter runs the full Markdown to report pipeline. Create with
// NewConverter, use Convert, and Close when done. A Converter is safe for
// concurrent use.
type Converter struct {
	cfg      converterConfig
	logger   *slog.Logger
	pipeline *pipeline.Pipeline
	html     *htmlreport.Renderer
	pdf      *PDFRenderer
	printer  htmlPrinter
	date     dateutil.Spec
}

// NewConverter creates a Converter. It fails when the asset path, style or
// date format is invalid.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout:    defaultTimeout,
			palette:    DefaultPalette,
			dateFormat: dateutil.DefaultSetting,
			engine:     PDFEngineAuto,
			now:        time.Now,
		},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		pipeline: pipeline.New(),
	}

	for _, opt := range opts {
		opt(c)
	}

	date, err := dateutil.Parse(c.cfg.dateFormat)
	if err != nil {
		return nil, err
	}
	c.date = date

	htmlOpts := []htmlreport.Option{
		htmlreport.WithStyle(c.cfg.style),
		htmlreport.WithHighlighting(c.cfg.highlight),
	}
	if c.cfg.assetPath != "" {
		set, err := assets.NewSet(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		htmlOpts = append(htmlOpts, htmlreport.WithAssetLoader(set))
	}
	html, err := htmlreport.New(htmlOpts...)
	if err != nil {
		return nil, err
	}
	c.html = html

	pdfOpts := []PDFOption{
		WithEngine(c.cfg.engine),
		WithPrintTimeout(c.cfg.timeout),
		WithPDFLogger(c.logger),
	}
	if c.printer != nil {
		pdfOpts = append(pdfOpts, withPrinter(c.printer))
	}
	c.pdf = NewPDFRenderer(pdfOpts...)

	c.logger.Debug("converter ready",
		"palette", c.cfg.palette,
		"pdf_engine", c.pdf.Engine(),
		"style", c.cfg.style,
		"highlight", c.cfg.highlight)

	return c, nil
}

// Convert parses input into a model and renders the requested formats. The
// context is checked between stages and bounds PDF printing. Internal
// panics are recovered and returned as errors.
//
// Each format renders independently. When some formats fail, Convert
// returns the result holding every format that rendered together with
// Result.Err, so callers can keep the successful outputs.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("internal error: %v", r)
		}
	}()

	formats, err := normalizeFormats(input.Formats)
	if err != nil {
		return nil, err
	}

	paletteKey := c.resolvePalette(input.Palette)
	now := c.cfg.now()
	generated := c.date.Format(now)

	doc, err := parseMarkdown(ctx, c.pipeline, input.Markdown, input.SourceName)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Model:     doc,
		Palette:   paletteKey,
		Generated: generated,
	}

	html, htmlErr := c.html.Render(doc, paletteKey, generated)
	if htmlErr != nil {
		htmlErr = fmt.Errorf("%w: %v", ErrHTMLGeneration, htmlErr)
	}
	res.HTML = html

	for _, f := range formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var ferr error
		switch f {
		case FormatHTML:
			ferr = htmlErr
		case FormatPDF:
			if htmlErr != nil {
				ferr = fmt.Errorf("%w: %w", ErrPDFGeneration, htmlErr)
				break
			}
			res.PDF, ferr = c.pdf.Render(ctx, html, paletteKey)
		case FormatDOCX:
			res.DOCX, ferr = RenderDOCX(doc, paletteKey, docx.WithGenerated(now.UTC()))
		}
		if ferr != nil {
			if ctx.Err() != nil {
				return nil, ferr
			}
			c.logger.Warn("format failed", "format", f, "error", ferr)
			res.fail(f, ferr)
		}
	}

	return res, res.Err()
}

// resolvePalette validates a palette key at the input boundary. Unknown keys
// are replaced by the converter default and logged.
func (c *Converter) resolvePalette(key string) string {
	if key == "" {
		key = c.cfg.palette
	}
	if k, ok := palette.ParseKey(key); ok {
		return k.String()
	}
	c.logger.Warn("unknown palette, using default", "palette", key, "default", palette.DefaultKey)
	return palette.DefaultKey
}

// GeneratedDate returns the date a conversion started now would print.
func (c *Converter) GeneratedDate() string {
	return c.date.Format(c.cfg.now())
}

// PDFEngine returns the engine the converter prints PDFs with.
func (c *Converter) PDFEngine() PDFEngine {
	return c.pdf.Engine()
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.pdf != nil {
		return c.pdf.Close()
	}
	return nil
}

func normalizeFormats(formats []Format) ([]Format, error) {
	if len(formats) == 0 {
		return []Format{FormatHTML}, nil
	}
	seen := make(map[Format]bool, len(formats))
	out := make([]Format, 0, len(formats))
	for _, f := range formats {
		parsed, err := ParseFormat(string(f))
		if err != nil {
			return nil, err
		}
		if !seen[parsed] {
			seen[parsed] = true
			out = append(out, parsed)
		}
	}
	return out, nil
}
