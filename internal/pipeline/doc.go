// Package pipeline implements the Markdown-to-model stage of the converter.
//
// The stages run in order:
//   - Markdown preprocessing (line endings, badges, separators, closed
//     headings, emoji runs)
//   - CommonMark + GFM parsing via Goldmark
//   - A single depth-first walk of the Goldmark tree into a model.Document,
//     with repairs for tables without headers and content before any heading
//
// Rendering lives elsewhere: internal/htmlreport, internal/docx and the PDF
// renderers all consume the model this package produces.
package pipeline
