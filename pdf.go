package readmeforge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/flowpdf"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/palette"
)

// PDFEngine selects how PDFs are produced.
type PDFEngine string

// PDF engines.
const (
	// PDFEngineAuto prints with Chrome when a browser is installed and uses
	// the native engine otherwise, or when Chrome fails.
	PDFEngineAuto PDFEngine = "auto"
	// PDFEngineChrome always prints with headless Chrome.
	PDFEngineChrome PDFEngine = "chrome"
	// PDFEngineNative lays the report out directly, without a browser.
	PDFEngineNative PDFEngine = "native"
)

// ParsePDFEngine parses an engine name (case-insensitive). Empty means auto.
func ParsePDFEngine(s string) (PDFEngine, error) {
	switch e := PDFEngine(strings.ToLower(strings.TrimSpace(s))); e {
	case "":
		return PDFEngineAuto, nil
	case PDFEngineAuto, PDFEngineChrome, PDFEngineNative:
		return e, nil
	default:
		return "", fmt.Errorf("%w: %q (use auto, chrome or native)", ErrInvalidPDFEngine, s)
	}
}

const defaultTimeout = 30 * time.Second

// browserPath probes once per process for a browser binary.
var browserPath = sync.OnceValues(findBrowser)

// BrowserPath returns the browser binary the chrome engine would use, and
// whether one was found. The probe runs once per process.
func BrowserPath() (string, bool) {
	return browserPath()
}

// PDFRenderer prints HTML reports to PDF. It is safe for concurrent use.
// Close releases the browser, if one was launched.
type PDFRenderer struct {
	engine  PDFEngine
	printer htmlPrinter
	logger  *slog.Logger
}

// PDFOption configures a PDFRenderer.
type PDFOption func(*PDFRenderer)

// WithEngine selects the PDF engine.
func WithEngine(e PDFEngine) PDFOption {
	return func(r *PDFRenderer) {
		if e != "" {
			r.engine = e
		}
	}
}

// WithPrintTimeout bounds page loading in the browser.
func WithPrintTimeout(d time.Duration) PDFOption {
	return func(r *PDFRenderer) {
		if d > 0 {
			r.printer = newRodPrinter(d)
		}
	}
}

// WithPDFLogger sets the logger for engine selection and fallbacks.
func WithPDFLogger(l *slog.Logger) PDFOption {
	return func(r *PDFRenderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// withPrinter injects a printer (tests).
func withPrinter(p htmlPrinter) PDFOption {
	return func(r *PDFRenderer) {
		r.printer = p
	}
}

// NewPDFRenderer creates a PDFRenderer. The default engine is auto.
func NewPDFRenderer(opts ...PDFOption) *PDFRenderer {
	r := &PDFRenderer{
		engine:  PDFEngineAuto,
		printer: newRodPrinter(defaultTimeout),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	if rp, ok := r.printer.(*rodPrinter); ok {
		rp.logger = r.logger
	}
	return r
}

// Engine returns the engine this renderer uses for the next call: auto is
// resolved against the browser probe.
func (r *PDFRenderer) Engine() PDFEngine {
	if r.engine != PDFEngineAuto {
		return r.engine
	}
	if _, ok := BrowserPath(); ok {
		return PDFEngineChrome
	}
	return PDFEngineNative
}

// Render prints html, an HTML report from RenderHTML, to PDF. paletteKey
// colors tables in the native engine; the chrome engine takes colors from
// the HTML itself. Every failure wraps ErrPDFGeneration.
func (r *PDFRenderer) Render(ctx context.Context, html, paletteKey string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	engine := r.Engine()
	if engine == PDFEngineChrome {
		out, err := r.printer.Print(ctx, html)
		if err == nil {
			return out, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if r.engine == PDFEngineChrome {
			return nil, wrapPDFError(err)
		}
		r.logger.Warn("chrome PDF failed, using native engine", "error", err)
	}

	out, err := flowpdf.Render(html, palette.Resolve(paletteKey))
	if err != nil {
		return nil, wrapPDFError(err)
	}
	return out, nil
}

// Close releases browser resources.
func (r *PDFRenderer) Close() error {
	if r.printer != nil {
		return r.printer.Close()
	}
	return nil
}

func wrapPDFError(err error) error {
	if errors.Is(err, ErrPDFGeneration) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrPDFGeneration, err)
}

var defaultPDFRenderer = sync.OnceValue(func() *PDFRenderer {
	return NewPDFRenderer()
})

// RenderPDF prints html with a process-wide auto-engine renderer. The
// browser, once launched, lives for the rest of the process. Passing
// options builds a renderer for this call only and closes it afterwards.
func RenderPDF(ctx context.Context, html, paletteKey string, opts ...PDFOption) ([]byte, error) {
	if len(opts) == 0 {
		return defaultPDFRenderer().Render(ctx, html, paletteKey)
	}
	r := NewPDFRenderer(opts...)
	defer r.Close()
	return r.Render(ctx, html, paletteKey)
}
