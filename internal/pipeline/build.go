package pipeline

import (
	"path"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/model"
)

// FallbackTitle is used when neither a level-1 heading nor a usable source
// name is available.
const FallbackTitle = "Document"

var externalLinkPattern = regexp.MustCompile(`\[.*?\]\(\s*<?https?://`)

// builder accumulates the model during a single walk. It owns the only
// mutable cursor, so concurrent builds never share state.
type builder struct {
	source  []byte
	doc     *model.Document
	current *model.Section
	titled  bool
}

// Build walks the goldmark tree rooted at root into a document model.
// source is the text root was parsed from; raw is the unprocessed input used
// for the external-link scan; sourceName feeds the title fallback.
// Build never fails: malformed structure degrades to best-effort output.
func Build(root ast.Node, source []byte, raw, sourceName string) *model.Document {
	b := &builder{
		source: source,
		doc:    &model.Document{Sections: []*model.Section{}},
	}
	b.walk(root)

	if !b.titled {
		b.doc.Title = TitleFromFilename(sourceName)
	}
	b.doc.HasReferences = HasExternalLinks(raw)
	b.doc.Sections = dropDeadSections(b.doc.Sections)
	return b.doc
}

func (b *builder) walk(n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		b.visit(c)
	}
}

func (b *builder) visit(n ast.Node) {
	switch n := n.(type) {
	case *ast.Heading:
		b.heading(n)
	case *ast.Paragraph:
		b.paragraph(n)
	case *ast.TextBlock:
		b.paragraph(n)
	case *east.Table:
		b.table(n)
	case *ast.List:
		b.list(n)
	case *ast.FencedCodeBlock:
		b.code(codeText(n, b.source), string(n.Language(b.source)))
	case *ast.CodeBlock:
		b.code(codeText(n, b.source), "")
	case *ast.Blockquote:
		b.blockquote(n)
	case *ast.ThematicBreak, *ast.HTMLBlock:
		// discarded
	default:
		b.walk(n)
	}
}

// open starts a new section and makes it current.
func (b *builder) open(heading string, level int) {
	s := model.NewSection(heading, level)
	b.doc.Sections = append(b.doc.Sections, s)
	b.current = s
}

// section returns the current section, opening an implicit empty-heading
// level-1 section for orphan content.
func (b *builder) section() *model.Section {
	if b.current == nil {
		b.open("", model.MinLevel)
	}
	return b.current
}

func (b *builder) heading(n *ast.Heading) {
	text := CleanInline(PlainText(n, b.source))
	if text == "" {
		return
	}
	if n.Level == 1 && !b.titled {
		b.doc.Title = text
		b.titled = true
		b.open("", model.MinLevel)
		return
	}
	b.open(text, n.Level)
}

func (b *builder) paragraph(n ast.Node) {
	text := CleanInline(PlainText(n, b.source))
	if text == "" || IsBadgeLine(text) || IsSeparator(text) {
		return
	}
	s := b.section()
	s.Content = append(s.Content, text)
}

func (b *builder) table(n *east.Table) {
	var rows []tableRow
	for r := n.FirstChild(); r != nil; r = r.NextSibling() {
		switch r.(type) {
		case *east.TableHeader:
			rows = append(rows, tableRow{header: true, cells: b.cells(r)})
		case *east.TableRow:
			rows = append(rows, tableRow{cells: b.cells(r)})
		}
	}
	t, ok := buildTable(rows)
	if !ok {
		return
	}
	s := b.section()
	s.Tables = append(s.Tables, t)
}

func (b *builder) cells(row ast.Node) []string {
	cells := []string{}
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		if cell, ok := c.(*east.TableCell); ok {
			cells = append(cells, CleanInline(PlainText(cell, b.source)))
		}
	}
	return cells
}

func (b *builder) list(n *ast.List) {
	items := b.listItems(n, []string{})
	if len(items) == 0 {
		return
	}
	s := b.section()
	s.Lists = append(s.Lists, model.List{Items: items, Ordered: n.IsOrdered()})
}

// listItems appends the cleaned text of each item of n to items. Nested
// lists are flattened depth-first after their parent item.
func (b *builder) listItems(n *ast.List, items []string) []string {
	for li := n.FirstChild(); li != nil; li = li.NextSibling() {
		var parts []string
		var nested []*ast.List
		for c := li.FirstChild(); c != nil; c = c.NextSibling() {
			switch c := c.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				parts = append(parts, PlainText(c, b.source))
			case *ast.List:
				nested = append(nested, c)
			}
		}
		if text := CleanInline(strings.Join(parts, " ")); text != "" {
			items = append(items, text)
		}
		for _, sub := range nested {
			items = b.listItems(sub, items)
		}
	}
	return items
}

func (b *builder) code(code, language string) {
	if code == "" {
		return
	}
	s := b.section()
	s.CodeBlocks = append(s.CodeBlocks, model.CodeBlock{Code: code, Language: language})
}

func (b *builder) blockquote(n *ast.Blockquote) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		p, ok := c.(*ast.Paragraph)
		if !ok {
			continue
		}
		text := CleanInline(PlainText(p, b.source))
		if text == "" {
			continue
		}
		s := b.section()
		s.Content = append(s.Content, model.BlockquotePrefix+text)
	}
}

// codeText returns the verbatim content of a code block.
func codeText(n ast.Node, source []byte) string {
	var buf strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}

type tableRow struct {
	header bool
	cells  []string
}

// buildTable classifies rows and applies header promotion: with no usable
// header row, the first data row becomes the header. A header row whose
// cells are all blank counts as absent. ok is false for an empty table.
func buildTable(rows []tableRow) (t model.Table, ok bool) {
	t = model.Table{Headers: []string{}, Rows: [][]string{}}
	for _, r := range rows {
		if r.header {
			if !allBlank(r.cells) {
				t.Headers = r.cells
			}
			continue
		}
		t.Rows = append(t.Rows, r.cells)
	}
	if len(t.Headers) == 0 && len(t.Rows) > 0 {
		t.Headers = t.Rows[0]
		t.Rows = t.Rows[1:]
	}
	return t, !t.IsEmpty()
}

func allBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func dropDeadSections(sections []*model.Section) []*model.Section {
	kept := sections[:0]
	for _, s := range sections {
		if !s.IsEmpty() {
			kept = append(kept, s)
		}
	}
	return kept
}

// TitleFromFilename derives a title from a source file name: directories and
// the Markdown extension are stripped, dashes and underscores become spaces,
// and the result is title-cased.
func TitleFromFilename(name string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	lower := strings.ToLower(base)
	for _, ext := range []string{".markdown", ".md"} {
		if strings.HasSuffix(lower, ext) {
			base = base[:len(base)-len(ext)]
			break
		}
	}
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	base = strings.Join(strings.Fields(base), " ")
	if base == "" || base == "." || base == "/" {
		return FallbackTitle
	}
	return cases.Title(language.Und).String(base)
}

// HasExternalLinks reports whether raw contains a Markdown link to an
// http(s) URL.
func HasExternalLinks(raw string) bool {
	return externalLinkPattern.MatchString(raw)
}
