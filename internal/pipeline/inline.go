package pipeline

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/util"
)

var (
	starEmphasisPattern       = regexp.MustCompile(`\*{1,2}(.+?)\*{1,2}`)
	underscoreEmphasisPattern = regexp.MustCompile(`_{1,2}([^_]+?)_{1,2}`)
	inlineCodePattern         = regexp.MustCompile("`(.+?)`")
	strayMarkPattern          = regexp.MustCompile("[`~]")
	htmlTagPattern            = regexp.MustCompile(`<[^>]+>`)
	whitespaceRunPattern      = regexp.MustCompile(`[ \t]{2,}`)
)

// PlainText flattens the inline children of n to text. Emphasis, strikethrough
// and links unwrap to their inner text; images, raw HTML and task checkboxes
// contribute nothing; line breaks become a single space.
func PlainText(n ast.Node, source []byte) string {
	var buf strings.Builder
	writePlainText(&buf, n, source)
	return buf.String()
}

func writePlainText(buf *strings.Builder, n ast.Node, source []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			value := c.Segment.Value(source)
			value = util.UnescapePunctuations(value)
			value = util.ResolveNumericReferences(value)
			value = util.ResolveEntityNames(value)
			buf.Write(value)
			if c.SoftLineBreak() || c.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(c.Value)
		case *ast.CodeSpan:
			// Code span content is literal; escapes are not processed.
			for t := c.FirstChild(); t != nil; t = t.NextSibling() {
				if seg, ok := t.(*ast.Text); ok {
					buf.Write(seg.Segment.Value(source))
				}
			}
		case *ast.AutoLink:
			buf.Write(c.Label(source))
		case *ast.Image, *ast.RawHTML, *east.TaskCheckBox:
			// dropped
		default:
			writePlainText(buf, c, source)
		}
	}
}

// CleanInline removes leftover inline Markdown syntax from extracted text:
// emphasis markers, inline-code backticks, stray backticks and tildes, and
// raw HTML tags. Underscore pairs inside words (snake_case) are kept.
func CleanInline(s string) string {
	s = starEmphasisPattern.ReplaceAllString(s, "$1")
	s = unwrapUnderscores(s)
	s = inlineCodePattern.ReplaceAllString(s, "$1")
	s = strayMarkPattern.ReplaceAllString(s, "")
	s = htmlTagPattern.ReplaceAllString(s, "")
	s = whitespaceRunPattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// unwrapUnderscores unwraps _x_ and __x__ only when the markers sit on word
// boundaries.
func unwrapUnderscores(s string) string {
	matches := underscoreEmphasisPattern.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, m := range matches {
		start, end, innerStart, innerEnd := m[0], m[1], m[2], m[3]
		if isWordRuneBefore(s, start) || isWordRuneAfter(s, end) {
			continue
		}
		b.WriteString(s[last:start])
		b.WriteString(s[innerStart:innerEnd])
		last = end
	}
	b.WriteString(s[last:])
	return b.String()
}

func isWordRuneBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isWordRuneAfter(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
