package htmlreport

import (
	htmltemplate "html/template"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// highlight renders code as inline-styled HTML with chroma. The formatter
// escapes token text, so the result is safe to embed.
func highlight(code, language, styleName string) (htmltemplate.HTML, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", err
	}

	formatter := chromahtml.New(
		chromahtml.WithClasses(false), // inline styles survive PDF printing
		chromahtml.TabWidth(4),
	)

	var buf strings.Builder
	if err := formatter.Format(&buf, styles.Get(styleName), iterator); err != nil {
		return "", err
	}
	return htmltemplate.HTML(buf.String()), nil // #nosec G203 -- chroma escapes token text
}

// IsHighlightStyle reports whether name is a registered chroma style.
func IsHighlightStyle(name string) bool {
	_, ok := styles.Registry[strings.ToLower(name)]
	return ok
}
