package docx

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/model"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/palette"
)

// Page geometry in twips (A4, 2.54cm margins).
const (
	pageWidth    = 11906
	pageHeight   = 16838
	pageMargin   = 1440
	contentWidth = pageWidth - 2*pageMargin
	codeIndent   = 360 // 18pt
)

// Fixed tones, shared with the HTML stylesheet.
const (
	titleColor = "111827"
	metaColor  = "6B7280"
	bodyColor  = "374151"
	cellColor  = "374151"
	codeColor  = "1F2937"
	codeShade  = "F3F4F6"
	bodyFont   = "Calibri"
	codeFont   = "Cascadia Code"
)

// Heading sizes in points and text colors by level.
var (
	headingSizes  = [...]float64{1: 16, 2: 13, 3: 11, 4: 10, 5: 9, 6: 9}
	headingColors = [...]string{1: "111827", 2: "1F2937", 3: "374151", 4: "4B5563", 5: "4B5563", 6: "4B5563"}
)

// run describes the formatting of a text run.
type run struct {
	font   string
	size   float64 // points
	color  string
	bold   bool
	italic bool
}

func (r run) props() string {
	var b strings.Builder
	b.WriteString("<w:rPr>")
	if r.font != "" {
		fmt.Fprintf(&b, `<w:rFonts w:ascii="%[1]s" w:hAnsi="%[1]s" w:cs="%[1]s"/>`, r.font)
	}
	if r.bold {
		b.WriteString("<w:b/>")
	}
	if r.italic {
		b.WriteString("<w:i/>")
	}
	if r.color != "" {
		fmt.Fprintf(&b, `<w:color w:val="%s"/>`, r.color)
	}
	if r.size > 0 {
		half := int(r.size * 2)
		fmt.Fprintf(&b, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, half, half)
	}
	b.WriteString("</w:rPr>")
	return b.String()
}

var (
	bodyRun = run{font: bodyFont, size: 10.5, color: bodyColor}
	cellRun = run{font: bodyFont, size: 9.5, color: cellColor}
	codeRun = run{font: codeFont, size: 8.5, color: codeColor}
)

// body accumulates the children of <w:body>.
type body struct {
	b         strings.Builder
	colors    palette.Colors
	numbering numbering
}

func newBody(colors palette.Colors) *body {
	return &body{colors: colors}
}

func (b *body) document() string {
	return xmlHeader +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"` +
		` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
		`<w:body>` + b.b.String() +
		fmt.Sprintf(`<w:sectPr><w:pgSz w:w="%d" w:h="%d"/>`+
			`<w:pgMar w:top="%[3]d" w:right="%[3]d" w:bottom="%[3]d" w:left="%[3]d" w:header="708" w:footer="708" w:gutter="0"/>`+
			`</w:sectPr>`, pageWidth, pageHeight, pageMargin) +
		`</w:body></w:document>`
}

// paragraph writes one <w:p> with the given properties and a single run.
func (b *body) paragraph(pPr string, r run, text string) {
	b.b.WriteString("<w:p>")
	if pPr != "" {
		b.b.WriteString("<w:pPr>" + pPr + "</w:pPr>")
	}
	b.text(r, text)
	b.b.WriteString("</w:p>")
}

func (b *body) text(r run, text string) {
	b.b.WriteString("<w:r>" + r.props())
	fmt.Fprintf(&b.b, `<w:t xml:space="preserve">%s</w:t>`, escape(text))
	b.b.WriteString("</w:r>")
}

func (b *body) cover(title, meta string) {
	b.paragraph(`<w:pStyle w:val="Title"/><w:spacing w:before="2400" w:after="120"/>`,
		run{font: bodyFont, size: 28, color: titleColor, bold: true}, title)
	b.paragraph(`<w:spacing w:after="480"/><w:pBdr><w:bottom w:val="single" w:sz="12" w:space="8" w:color="`+
		b.colors.Background.HexNoHash()+`"/></w:pBdr>`,
		run{font: bodyFont, size: 9, color: metaColor}, meta)
}

// section writes the heading, then paragraphs, tables, lists and code
// blocks, the same order the HTML report uses.
func (b *body) section(s *model.Section) {
	if s.Heading != "" {
		b.heading(model.ClampLevel(s.Level), s.Heading)
	}
	for _, p := range s.Content {
		if model.IsBlockquote(p) {
			b.paragraph(`<w:pStyle w:val="Quote"/><w:spacing w:after="120"/>`,
				run{font: bodyFont, size: 10.5, color: metaColor, italic: true}, model.StripBlockquote(p))
			continue
		}
		b.paragraph(`<w:spacing w:after="120"/><w:jc w:val="both"/>`, bodyRun, p)
	}
	for _, t := range s.Tables {
		b.table(t)
	}
	for _, l := range s.Lists {
		b.list(l)
	}
	for _, c := range s.CodeBlocks {
		b.code(c)
	}
}

func (b *body) heading(level int, text string) {
	pPr := fmt.Sprintf(`<w:pStyle w:val="Heading%d"/><w:keepNext/><w:spacing w:before="240" w:after="80"/>`, level)
	b.paragraph(pPr, run{font: bodyFont, size: headingSizes[level], color: headingColors[level], bold: true}, text)
}

func (b *body) table(t model.Table) {
	cols := t.ColumnCount()
	if cols == 0 {
		return
	}
	colW := contentWidth / cols

	b.b.WriteString(`<w:tbl><w:tblPr><w:tblStyle w:val="TableGrid"/>`)
	fmt.Fprintf(&b.b, `<w:tblW w:w="%d" w:type="dxa"/>`, colW*cols)
	b.b.WriteString(`<w:tblLook w:val="04A0" w:firstRow="1" w:lastRow="0" w:firstColumn="0" w:lastColumn="0" w:noHBand="0" w:noVBand="1"/></w:tblPr>`)
	b.b.WriteString("<w:tblGrid>")
	for range cols {
		fmt.Fprintf(&b.b, `<w:gridCol w:w="%d"/>`, colW)
	}
	b.b.WriteString("</w:tblGrid>")

	if len(t.Headers) > 0 {
		header := run{font: bodyFont, size: 9.5, color: b.colors.HeaderText.HexNoHash(), bold: true}
		b.row(t.Headers, cols, colW, `<w:trPr><w:tblHeader/></w:trPr>`, b.colors.Background.HexNoHash(), header)
	}
	for _, r := range t.Rows {
		b.row(r, cols, colW, "", "", cellRun)
	}
	b.b.WriteString("</w:tbl>")
	// Word merges adjacent tables without a paragraph between them.
	b.paragraph(`<w:spacing w:after="120"/>`, bodyRun, "")
}

// row writes one table row padded to cols cells. fill is the cell shading
// (RRGGBB) or empty for none.
func (b *body) row(cells []string, cols, colW int, trPr, fill string, r run) {
	b.b.WriteString("<w:tr>" + trPr)
	for i := range cols {
		var text string
		if i < len(cells) {
			text = cells[i]
		}
		fmt.Fprintf(&b.b, `<w:tc><w:tcPr><w:tcW w:w="%d" w:type="dxa"/>`, colW)
		if fill != "" {
			fmt.Fprintf(&b.b, `<w:shd w:val="clear" w:color="auto" w:fill="%s"/>`, fill)
		}
		b.b.WriteString("</w:tcPr>")
		b.paragraph(`<w:spacing w:before="40" w:after="40"/>`, r, text)
		b.b.WriteString("</w:tc>")
	}
	b.b.WriteString("</w:tr>")
}

func (b *body) list(l model.List) {
	if len(l.Items) == 0 {
		return
	}
	numID := b.numbering.next(l.Ordered)
	pPr := fmt.Sprintf(`<w:pStyle w:val="ListParagraph"/><w:numPr><w:ilvl w:val="0"/><w:numId w:val="%d"/></w:numPr><w:spacing w:after="40"/>`, numID)
	for _, item := range l.Items {
		b.paragraph(pPr, bodyRun, item)
	}
	b.paragraph(`<w:spacing w:after="80"/>`, bodyRun, "")
}

// code writes a shaded monospace block: one paragraph with a line break per
// source line, prefixed by a "[lang]" hint when the language is known.
func (b *body) code(c model.CodeBlock) {
	lines := strings.Split(strings.TrimRight(c.Code, "\n"), "\n")

	fmt.Fprintf(&b.b, `<w:p><w:pPr><w:pStyle w:val="SourceCode"/>`+
		`<w:shd w:val="clear" w:color="auto" w:fill="%s"/>`+
		`<w:spacing w:before="80" w:after="160" w:line="240" w:lineRule="auto"/>`+
		`<w:ind w:left="%d"/></w:pPr>`, codeShade, codeIndent)
	if c.Language != "" {
		b.text(run{font: codeFont, size: 8.5, color: metaColor, italic: true}, "["+c.Language+"]  ")
		b.b.WriteString("<w:r><w:br/></w:r>")
	}
	for i, line := range lines {
		if i > 0 {
			b.b.WriteString("<w:r><w:br/></w:r>")
		}
		b.text(codeRun, strings.ReplaceAll(line, "\t", "    "))
	}
	b.b.WriteString("</w:p>")
}

// escape returns s as XML character data. Characters that are not legal in
// XML 1.0 are replaced with U+FFFD.
func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s)) // strings.Builder never fails
	return b.String()
}
