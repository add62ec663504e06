package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// ErrParse indicates the Markdown parser failed unexpectedly.
var ErrParse = errors.New("markdown parse failed")

// ASTParser abstracts Markdown to AST parsing.
type ASTParser interface {
	Parse(ctx context.Context, source []byte) (ast.Node, error)
}

// GoldmarkParser parses CommonMark with the GFM extensions (tables,
// strikethrough, autolinks, task lists). It holds no per-parse state and is
// safe for concurrent use.
type GoldmarkParser struct {
	md goldmark.Markdown
}

// NewGoldmarkParser creates a GoldmarkParser.
func NewGoldmarkParser() *GoldmarkParser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, // Tables, strikethrough, autolinks, task lists
		),
	)
	return &GoldmarkParser{md: md}
}

// Parse returns the document node for source. Parser panics are recovered
// and reported as ErrParse so a caller never sees a partial tree.
func (p *GoldmarkParser) Parse(ctx context.Context, source []byte) (root ast.Node, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			root = nil
			err = fmt.Errorf("%w: %v", ErrParse, r)
		}
	}()

	root = p.md.Parser().Parse(text.NewReader(source))
	if root == nil {
		return nil, fmt.Errorf("%w: parser returned no document", ErrParse)
	}
	return root, nil
}
