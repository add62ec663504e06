// Package docx writes a document model as a Word (OOXML) package.
//
// The package is assembled directly from WordprocessingML parts: a zip
// archive holding the document body, a style sheet, list numbering
// definitions and the core/app properties. Parts are written in a fixed
// order with a fixed timestamp, so output is byte-identical for the same
// model, palette and date.
package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/model"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/palette"
)

// ErrWrite indicates the package archive could not be written.
var ErrWrite = errors.New("writing docx package")

// DateLayout is the date format of the cover meta line and core properties.
const DateLayout = "January 02, 2006"

// Fixed document strings.
const (
	subject     = "Technical Report"
	creator     = "ReadmeForge"
	description = "Generated by ReadmeForge on %s"
	metaLine    = "Technical Report  •  Generated %s"
)

// Option configures Render.
type Option func(*options)

type options struct {
	generated time.Time
}

// WithGenerated sets the generation time shown on the cover and stored in
// the core properties. The default is the current time in UTC.
func WithGenerated(t time.Time) Option {
	return func(o *options) {
		if !t.IsZero() {
			o.generated = t
		}
	}
}

// part is one file of the package.
type part struct {
	name    string
	content string
}

// Render builds a .docx package for doc. An unknown palette key uses the
// default palette; a nil doc renders an empty document titled "Document".
func Render(doc *model.Document, paletteKey string, opts ...Option) ([]byte, error) {
	o := options{generated: time.Now().UTC()}
	for _, opt := range opts {
		opt(&o)
	}
	if doc == nil {
		doc = &model.Document{}
	}
	title := doc.Title
	if title == "" {
		title = "Document"
	}

	date := o.generated.Format(DateLayout)
	b := newBody(palette.Resolve(paletteKey))
	b.cover(title, fmt.Sprintf(metaLine, date))
	for _, s := range doc.Sections {
		if s != nil {
			b.section(s)
		}
	}

	parts := []part{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"docProps/core.xml", coreXML(title, fmt.Sprintf(description, date), o.generated)},
		{"docProps/app.xml", appXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/document.xml", b.document()},
		{"word/styles.xml", stylesXML},
		{"word/numbering.xml", b.numbering.xml()},
	}
	return pack(parts, o.generated)
}

func pack(parts []part, modified time.Time) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     p.name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrWrite, p.name, err)
		}
		if _, err := w.Write([]byte(p.content)); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrWrite, p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return buf.Bytes(), nil
}
