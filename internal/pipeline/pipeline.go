package pipeline

import (
	"context"

	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/model"
)

// Pipeline composes preprocessing, parsing and model building.
type Pipeline struct {
	Preprocessor MarkdownPreprocessor
	Parser       ASTParser
}

// New returns a Pipeline with the default preprocessor and goldmark parser.
func New() *Pipeline {
	return &Pipeline{
		Preprocessor: &CommonMarkPreprocessor{},
		Parser:       NewGoldmarkParser(),
	}
}

// Run converts raw Markdown into a document model. sourceName is only used
// for the title fallback. The only error is a parser failure (ErrParse) or
// a cancelled context.
func (p *Pipeline) Run(ctx context.Context, raw, sourceName string) (*model.Document, error) {
	cleaned := p.Preprocessor.PreprocessMarkdown(ctx, raw)
	source := []byte(cleaned)

	root, err := p.Parser.Parse(ctx, source)
	if err != nil {
		return nil, err
	}
	return Build(root, source, raw, sourceName), nil
}
