// Package htmlreport renders a document model into a self-contained, styled
// HTML report: cover, numbered table of contents, body sections and footer.
//
// Layout and stylesheet come from internal/assets. The stylesheet is a
// text/template filled with the resolved palette colors; the layout is an
// html/template, so every model string is escaped on output.
package htmlreport

import (
	"errors"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"sync"
	texttemplate "text/template"
	"time"

	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/assets"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/model"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/palette"
)

// DateLayout is the default generation date format ("DD Month YYYY").
const DateLayout = "02 January 2006"

// Fixed report strings.
const (
	MetaLine       = "Report by Crimson Scriveners • CSRF"
	footerTemplate = "Generated by ReadmeForge on %s"
	defaultTitle   = "Document"
)

// Sentinel errors.
var (
	ErrTemplate = errors.New("report template error")
	ErrRender   = errors.New("report rendering failed")
)

// Renderer holds parsed report templates. It is immutable after New and safe
// for concurrent use.
type Renderer struct {
	page      *htmltemplate.Template
	style     *texttemplate.Template
	highlight string
}

// Option configures a Renderer.
type Option func(*options)

type options struct {
	loader    assets.Loader
	style     string
	template  string
	highlight string
}

// WithAssetLoader sets the loader used for the stylesheet and layout.
func WithAssetLoader(l assets.Loader) Option {
	return func(o *options) {
		if l != nil {
			o.loader = l
		}
	}
}

// WithStyle selects the stylesheet by asset name.
func WithStyle(name string) Option {
	return func(o *options) {
		if name != "" {
			o.style = name
		}
	}
}

// WithHighlighting enables syntax highlighting of code blocks with the named
// chroma style. Empty disables it and code is emitted verbatim.
func WithHighlighting(style string) Option {
	return func(o *options) {
		o.highlight = style
	}
}

// New loads and parses the report assets.
func New(opts ...Option) (*Renderer, error) {
	o := options{
		loader:   assets.Embedded(),
		style:    assets.DefaultStyleName,
		template: assets.DefaultTemplateName,
	}
	for _, opt := range opts {
		opt(&o)
	}

	css, err := o.loader.Load(assets.Style, o.style)
	if err != nil {
		return nil, fmt.Errorf("%w: loading style: %w", ErrTemplate, err)
	}
	layout, err := o.loader.Load(assets.Template, o.template)
	if err != nil {
		return nil, fmt.Errorf("%w: loading layout: %w", ErrTemplate, err)
	}

	style, err := texttemplate.New("style").Parse(css)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing style: %v", ErrTemplate, err)
	}
	page, err := htmltemplate.New("report").Parse(layout)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing layout: %v", ErrTemplate, err)
	}

	return &Renderer{page: page, style: style, highlight: o.highlight}, nil
}

var defaultRenderer = sync.OnceValues(func() (*Renderer, error) {
	return New()
})

// Render renders doc with the built-in assets. An unknown palette key uses
// the default palette; an empty generatedDate means today (UTC). The output
// is deterministic for a fixed date.
//
// The built-in assets are compiled into the binary, so a failure here is a
// programming error and panics.
func Render(doc *model.Document, paletteKey, generatedDate string) string {
	r, err := defaultRenderer()
	if err != nil {
		panic(err)
	}
	out, err := r.Render(doc, paletteKey, generatedDate)
	if err != nil {
		panic(err)
	}
	return out
}

// Render renders doc into a complete HTML document.
func (r *Renderer) Render(doc *model.Document, paletteKey, generatedDate string) (string, error) {
	if doc == nil {
		doc = &model.Document{}
	}
	if generatedDate == "" {
		generatedDate = Today()
	}

	css, err := r.stylesheet(palette.Resolve(paletteKey))
	if err != nil {
		return "", err
	}

	data := reportData{
		Title:     doc.Title,
		Meta:      MetaLine,
		Generated: generatedDate,
		Footer:    fmt.Sprintf(footerTemplate, generatedDate),
		CSS:       htmltemplate.CSS(css), // #nosec G203 -- palette values and sanitized stylesheet
		TOC:       buildTOC(doc.Sections),
		Sections:  r.sectionViews(doc.Sections),
	}
	if data.Title == "" {
		data.Title = defaultTitle
	}

	var buf strings.Builder
	if err := r.page.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	return buf.String(), nil
}

// Today returns the current UTC date in DateLayout.
func Today() string {
	return time.Now().UTC().Format(DateLayout)
}

type styleData struct {
	HeaderBackground string
	HeaderText       string
	RowStripe        string
}

func (r *Renderer) stylesheet(c palette.Colors) (string, error) {
	var buf strings.Builder
	data := styleData{
		HeaderBackground: c.Background.Hex(),
		HeaderText:       c.HeaderText.Hex(),
		RowStripe:        c.RowStripe.Hex(),
	}
	if err := r.style.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: stylesheet: %v", ErrRender, err)
	}
	return sanitizeCSS(buf.String()), nil
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

type reportData struct {
	Title     string
	Meta      string
	Generated string
	Footer    string
	CSS       htmltemplate.CSS
	TOC       []tocEntry
	Sections  []sectionView
}

type sectionView struct {
	Anchor     string
	Heading    string
	Level      int
	Paragraphs []paragraphView
	Tables     []model.Table
	Lists      []model.List
	CodeBlocks []codeView
}

type paragraphView struct {
	Text  string
	Quote bool
}

type codeView struct {
	Label       string
	Code        string
	Highlighted htmltemplate.HTML
}

func anchorFor(i int) string {
	return fmt.Sprintf("section-%d", i+1)
}

func (r *Renderer) sectionViews(sections []*model.Section) []sectionView {
	views := make([]sectionView, 0, len(sections))
	for i, s := range sections {
		if s == nil {
			continue
		}
		v := sectionView{
			Anchor:  anchorFor(i),
			Heading: s.Heading,
			Level:   model.ClampLevel(s.Level),
			Tables:  s.Tables,
			Lists:   s.Lists,
		}
		for _, p := range s.Content {
			if model.IsBlockquote(p) {
				v.Paragraphs = append(v.Paragraphs, paragraphView{Text: model.StripBlockquote(p), Quote: true})
				continue
			}
			v.Paragraphs = append(v.Paragraphs, paragraphView{Text: p})
		}
		for _, cb := range s.CodeBlocks {
			v.CodeBlocks = append(v.CodeBlocks, r.codeView(cb))
		}
		views = append(views, v)
	}
	return views
}

func (r *Renderer) codeView(cb model.CodeBlock) codeView {
	v := codeView{Label: CodeLabel(cb.Language), Code: cb.Code}
	if r.highlight != "" {
		if h, err := highlight(cb.Code, cb.Language, r.highlight); err == nil {
			v.Highlighted = h
		}
	}
	return v
}

// CodeLabel returns the label shown above a code block.
func CodeLabel(language string) string {
	if language == "" {
		return "code"
	}
	return language
}
