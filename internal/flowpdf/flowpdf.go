// Package flowpdf is the structural PDF fallback. It parses a rendered HTML
// report back into a DOM with goquery and rebuilds it as a flow document with
// gofpdf, using only the core PDF fonts so it works without a browser or any
// font files.
//
// A malformed table or code element is skipped and the rest of the document
// still renders.
package flowpdf

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jung-kurt/gofpdf"

	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/palette"
)

// Sentinel errors.
var (
	ErrParseHTML = errors.New("parsing report HTML")
	ErrOutput    = errors.New("writing PDF")
)

// Attribution is the last line of every document.
const Attribution = "Generated by ReadmeForge"

// Page geometry in millimetres (A4, 2.54cm margins).
const (
	margin     = 25.4
	bodyLineH  = 5.0
	codeLineH  = 4.0
	cellPadX   = 3.5
	cellPadY   = 2.5
	tableLineH = 4.5
	// codeTruncateAt bounds the plain-text fallback for a code block that
	// could not be drawn as a shaded block.
	codeTruncateAt = 500
)

// Fixed tones shared with the HTML stylesheet.
var (
	titleColor   = palette.RGB{R: 0x11, G: 0x18, B: 0x27}
	bodyColor    = palette.RGB{R: 0x37, G: 0x41, B: 0x51}
	mutedColor   = palette.RGB{R: 0x6b, G: 0x72, B: 0x80}
	ruleColor    = palette.RGB{R: 0xd1, G: 0xd5, B: 0xdb}
	gridColor    = palette.RGB{R: 0xe5, G: 0xe7, B: 0xeb}
	codeBack     = palette.RGB{R: 0xf3, G: 0xf4, B: 0xf6}
	codeText     = palette.RGB{R: 0x1f, G: 0x29, B: 0x37}
	white        = palette.RGB{R: 0xff, G: 0xff, B: 0xff}
	headingSizes = map[int]float64{1: 16, 2: 13}
)

// CellStyle is the fill and text color of a table row.
type CellStyle struct {
	Fill palette.RGB
	Text palette.RGB
}

// TableHeaderStyle returns the header row style for a palette.
func TableHeaderStyle(c palette.Colors) CellStyle {
	return CellStyle{Fill: c.Background, Text: c.HeaderText}
}

// TableRowStyle returns the style of body row i (0-based); odd rows take the
// palette stripe so the zebra matches the HTML nth-child(even) rule.
func TableRowStyle(c palette.Colors, i int) CellStyle {
	if i%2 == 1 {
		return CellStyle{Fill: c.RowStripe, Text: bodyColor}
	}
	return CellStyle{Fill: white, Text: bodyColor}
}

// Render rebuilds html as a PDF styled with colors.
func Render(html string, colors palette.Colors) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseHTML, err)
	}

	w := newWriter(colors)
	w.cover(doc)
	w.toc(doc)
	doc.Find(".section").Each(func(_ int, section *goquery.Selection) {
		section.Children().Each(func(_ int, el *goquery.Selection) {
			w.safely(func() { w.element(el) })
		})
	})
	w.attribution()

	var buf bytes.Buffer
	if err := w.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutput, err)
	}
	return buf.Bytes(), nil
}

type writer struct {
	pdf     *gofpdf.Fpdf
	tr      func(string) string
	colors  palette.Colors
	skipped int
}

func newWriter(colors palette.Colors) *writer {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetCreator("ReadmeForge", true)
	pdf.SetSubject("Technical Report", true)
	pdf.AliasNbPages("")

	w := &writer{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""), // cp1252 for core fonts
		colors: colors,
	}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 8)
		w.textColor(mutedColor)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()
	return w
}

// safely runs fn and contains any panic or gofpdf error to the element.
func (w *writer) safely(fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
		if w.pdf.Err() {
			w.pdf.ClearError()
			ok = false
		}
		if !ok {
			w.skipped++
		}
	}()
	fn()
	return true
}

func (w *writer) textColor(c palette.RGB) {
	w.pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
}

func (w *writer) fillColor(c palette.RGB) {
	w.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}

func (w *writer) drawColor(c palette.RGB) {
	w.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func (w *writer) contentWidth() float64 {
	pageW, _ := w.pdf.GetPageSize()
	left, _, right, _ := w.pdf.GetMargins()
	return pageW - left - right
}

func (w *writer) cover(doc *goquery.Document) {
	title := squash(doc.Find(".doc-title").First().Text())
	if title == "" {
		title = strings.TrimSuffix(squash(doc.Find("title").First().Text()), " — Technical Report")
	}
	w.pdf.SetTitle(title, true)

	w.pdf.Ln(30)
	w.pdf.SetFont("Helvetica", "B", 24)
	w.textColor(titleColor)
	w.pdf.MultiCell(0, 10, w.tr(title), "", "L", false)

	w.pdf.Ln(4)
	w.fillColor(w.colors.Background)
	w.pdf.Rect(w.pdf.GetX(), w.pdf.GetY(), 25, 1.5, "F")
	w.pdf.Ln(6)

	w.pdf.SetFont("Helvetica", "", 8)
	w.textColor(mutedColor)
	for _, sel := range []string{".doc-meta", ".doc-generated"} {
		if text := squash(doc.Find(sel).First().Text()); text != "" {
			w.pdf.MultiCell(0, 4, w.tr(text), "", "L", false)
		}
	}
	w.pdf.Ln(10)
}

func (w *writer) toc(doc *goquery.Document) {
	items := doc.Find("nav.toc li")
	if items.Length() == 0 {
		return
	}

	w.pdf.SetFont("Helvetica", "B", 13)
	w.textColor(titleColor)
	w.pdf.MultiCell(0, 7, w.tr("Table of Contents"), "", "L", false)
	w.pdf.Ln(2)

	w.pdf.SetFont("Helvetica", "", 10)
	w.textColor(bodyColor)
	left, _, _, _ := w.pdf.GetMargins()
	items.Each(func(_ int, li *goquery.Selection) {
		indent := float64(indentLevel(li)) * 5
		w.pdf.SetX(left + indent)
		w.pdf.MultiCell(w.contentWidth()-indent, bodyLineH, w.tr("• "+squash(li.Text())), "", "L", false)
	})
	w.pdf.AddPage()
}

func indentLevel(li *goquery.Selection) int {
	for n := 4; n >= 1; n-- {
		if li.HasClass(fmt.Sprintf("indent-%d", n)) {
			return n
		}
	}
	return 0
}

func (w *writer) element(el *goquery.Selection) {
	switch name := goquery.NodeName(el); {
	case len(name) == 2 && name[0] == 'h' && name[1] >= '1' && name[1] <= '6':
		w.heading(int(name[1]-'0'), squash(el.Text()))
	case name == "blockquote":
		w.blockquote(squash(el.Text()))
	case name == "ul" || name == "ol":
		w.list(el, name == "ol")
	case el.HasClass("doc-table-wrapper"):
		w.table(el.Find("table").First())
	case el.HasClass("doc-code-wrapper"):
		w.code(el)
	default:
		if text := squash(el.Text()); text != "" {
			w.paragraph(text)
		}
	}
}

func (w *writer) heading(level int, text string) {
	if text == "" {
		return
	}
	size, ok := headingSizes[level]
	if !ok {
		size = 11
	}
	w.pdf.Ln(4)
	w.pdf.SetFont("Helvetica", "B", size)
	w.textColor(titleColor)
	w.pdf.MultiCell(0, size*0.5, w.tr(text), "", "L", false)
	if level == 1 {
		left, _, right, _ := w.pdf.GetMargins()
		pageW, _ := w.pdf.GetPageSize()
		y := w.pdf.GetY() + 1
		w.drawColor(ruleColor)
		w.pdf.SetLineWidth(0.3)
		w.pdf.Line(left, y, pageW-right, y)
		w.pdf.Ln(2)
	}
	w.pdf.Ln(2)
}

func (w *writer) paragraph(text string) {
	w.pdf.SetFont("Helvetica", "", 10)
	w.textColor(bodyColor)
	w.pdf.MultiCell(0, bodyLineH, w.tr(text), "", "J", false)
	w.pdf.Ln(2)
}

func (w *writer) blockquote(text string) {
	if text == "" {
		return
	}
	left, _, _, _ := w.pdf.GetMargins()
	w.pdf.SetLeftMargin(left + 8)
	defer w.pdf.SetLeftMargin(left)

	w.pdf.SetX(left + 8)
	w.pdf.SetFont("Helvetica", "I", 10)
	w.textColor(mutedColor)
	w.pdf.MultiCell(0, bodyLineH, w.tr(text), "", "L", false)
	w.pdf.Ln(2)
}

func (w *writer) list(el *goquery.Selection, ordered bool) {
	w.pdf.SetFont("Helvetica", "", 10)
	w.textColor(bodyColor)
	el.ChildrenFiltered("li").Each(func(i int, li *goquery.Selection) {
		marker := "• "
		if ordered {
			marker = fmt.Sprintf("%d. ", i+1)
		}
		w.pdf.MultiCell(0, bodyLineH, w.tr(marker+squash(li.Text())), "", "L", false)
	})
	w.pdf.Ln(2)
}

// code draws the language label and a shaded monospace block. If the block
// cannot be drawn, a truncated plain-text rendition takes its place.
func (w *writer) code(el *goquery.Selection) {
	label := squash(el.Find(".doc-code-lang").First().Text())
	body := el.Find("pre").First().Text()
	if body == "" {
		body = el.Find("code").First().Text()
	}
	if strings.TrimSpace(body) == "" {
		return
	}

	if label != "" {
		w.pdf.SetFont("Helvetica", "", 7)
		w.textColor(mutedColor)
		w.pdf.MultiCell(0, 3.5, w.tr("["+label+"]"), "", "L", false)
	}

	drawn := w.safely(func() {
		w.pdf.SetFont("Courier", "", 8)
		w.textColor(codeText)
		w.fillColor(codeBack)
		w.pdf.MultiCell(0, codeLineH, w.tr(expandTabs(strings.TrimRight(body, "\n"))), "", "L", true)
	})
	if !drawn {
		w.paragraph(truncate(body, codeTruncateAt))
	}
	w.pdf.Ln(3)
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

// squash collapses all whitespace runs to single spaces.
func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (w *writer) attribution() {
	w.pdf.Ln(8)
	w.pdf.SetFont("Helvetica", "I", 8)
	w.textColor(mutedColor)
	w.pdf.MultiCell(0, 4, w.tr(Attribution), "", "C", false)
}
