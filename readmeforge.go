package readmeforge

import (
	"context"
	"fmt"
	"time"

	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/docx"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/htmlreport"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/model"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/palette"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/pipeline"
)

// Document model types shared by every renderer.
type (
	DocumentModel = model.Document
	Section       = model.Section
	Table         = model.Table
	List          = model.List
	CodeBlock     = model.CodeBlock
)

// DefaultPalette is the palette used for unknown or empty keys.
const DefaultPalette = palette.DefaultKey

// Palette describes one palette entry with CSS-ready colors.
type Palette struct {
	Key        string `json:"key"`
	Background string `json:"background"`
	HeaderText string `json:"header_text"`
	RowStripe  string `json:"row_stripe"`
}

// Palettes lists the palette registry in declaration order.
func Palettes() []Palette {
	all := palette.All()
	out := make([]Palette, len(all))
	for i, c := range all {
		out[i] = Palette{
			Key:        c.Name,
			Background: c.Background.Hex(),
			HeaderText: c.HeaderText.Hex(),
			RowStripe:  c.RowStripe.Hex(),
		}
	}
	return out
}

// IsValidPalette reports whether key names a palette (case-insensitive).
func IsValidPalette(key string) bool {
	return palette.IsValid(key)
}

// NormalizePalette returns the canonical form of key, or DefaultPalette when
// key is unknown.
func NormalizePalette(key string) string {
	return palette.Normalize(key)
}

// ParseMarkdown converts raw Markdown into a DocumentModel. sourceName is the
// original file name and only feeds the title fallback. Any parser failure,
// including a panic, is reported as ErrConversion.
func ParseMarkdown(raw, sourceName string) (*DocumentModel, error) {
	return parseMarkdown(context.Background(), pipeline.New(), raw, sourceName)
}

func parseMarkdown(ctx context.Context, p *pipeline.Pipeline, raw, sourceName string) (doc *DocumentModel, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("%w: %v", ErrConversion, r)
		}
	}()

	doc, err = p.Run(ctx, raw, sourceName)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrConversion, err)
	}
	return doc, nil
}

// HTMLOption configures RenderHTML.
type HTMLOption func(*htmlOptions)

type htmlOptions struct {
	date string
}

// WithGeneratedDate sets the date printed on the cover and footer. The
// default is today in UTC, formatted "02 January 2006".
func WithGeneratedDate(date string) HTMLOption {
	return func(o *htmlOptions) {
		o.date = date
	}
}

// RenderHTML renders doc as a self-contained HTML report. Output is
// deterministic for a fixed generated date.
func RenderHTML(doc *DocumentModel, paletteKey string, opts ...HTMLOption) string {
	var o htmlOptions
	for _, opt := range opts {
		opt(&o)
	}
	return htmlreport.Render(doc, paletteKey, o.date)
}

// DOCXOption configures RenderDOCX.
type DOCXOption = docx.Option

// WithDOCXGenerated sets the generation time stored in a DOCX package.
func WithDOCXGenerated(t time.Time) DOCXOption {
	return docx.WithGenerated(t)
}

// RenderDOCX renders doc as a Word document.
func RenderDOCX(doc *DocumentModel, paletteKey string, opts ...DOCXOption) ([]byte, error) {
	out, err := docx.Render(doc, paletteKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDOCXGeneration, err)
	}
	return out, nil
}
