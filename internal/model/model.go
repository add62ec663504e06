// Package model defines the normalized, renderer-agnostic document structure
// produced by the Markdown pipeline and consumed by every renderer.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidModel indicates a serialized model could not be decoded.
var ErrInvalidModel = errors.New("invalid document model")

// BlockquotePrefix tags a content paragraph that came from a blockquote.
const BlockquotePrefix = "> "

// Heading levels are clamped to this range.
const (
	MinLevel = 1
	MaxLevel = 6
)

// Document is the root artifact of the pipeline.
type Document struct {
	Title         string     `json:"title"`
	Sections      []*Section `json:"sections"`
	HasReferences bool       `json:"has_references"`
}

// Section is one heading-delimited unit, or a pseudo-section for content
// that precedes any heading.
type Section struct {
	Heading    string      `json:"heading"`
	Level      int         `json:"level"`
	Content    []string    `json:"content"`
	Tables     []Table     `json:"tables"`
	Lists      []List      `json:"lists"`
	CodeBlocks []CodeBlock `json:"code_blocks"`
}

// Table holds a header row and data rows of plain cell text.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// List is a flattened list; nested items are not preserved.
type List struct {
	Items   []string `json:"items"`
	Ordered bool     `json:"ordered"`
}

// CodeBlock is a fenced or indented code block, kept verbatim.
type CodeBlock struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// ClampLevel forces a heading level into [MinLevel, MaxLevel].
func ClampLevel(level int) int {
	return max(MinLevel, min(level, MaxLevel))
}

// NewSection opens a section with a clamped level and empty buckets.
func NewSection(heading string, level int) *Section {
	return &Section{
		Heading:    heading,
		Level:      ClampLevel(level),
		Content:    []string{},
		Tables:     []Table{},
		Lists:      []List{},
		CodeBlocks: []CodeBlock{},
	}
}

// IsEmpty reports whether the section carries nothing worth rendering.
func (s *Section) IsEmpty() bool {
	return s.Heading == "" &&
		len(s.Content) == 0 &&
		len(s.Tables) == 0 &&
		len(s.Lists) == 0 &&
		len(s.CodeBlocks) == 0
}

// IsBlockquote reports whether a content paragraph carries the blockquote tag.
func IsBlockquote(paragraph string) bool {
	return strings.HasPrefix(strings.TrimSpace(paragraph), ">")
}

// StripBlockquote removes the blockquote tag from a content paragraph.
func StripBlockquote(paragraph string) string {
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(paragraph), "> "))
}

// ColumnCount returns the widest row, header included.
func (t Table) ColumnCount() int {
	n := len(t.Headers)
	for _, row := range t.Rows {
		n = max(n, len(row))
	}
	return n
}

// IsEmpty reports whether the table has neither headers nor rows.
func (t Table) IsEmpty() bool {
	return len(t.Headers) == 0 && len(t.Rows) == 0
}

// JSON returns the JSON projection stored by the persistence boundary.
func (d *Document) JSON() ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encoding document model: %w", err)
	}
	return data, nil
}

// FromJSON decodes a projection produced by Document.JSON.
func FromJSON(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	if d.Title == "" {
		return nil, fmt.Errorf("%w: missing title", ErrInvalidModel)
	}
	for i, s := range d.Sections {
		if s == nil {
			return nil, fmt.Errorf("%w: section %d is null", ErrInvalidModel, i)
		}
		s.Level = ClampLevel(s.Level)
	}
	return &d, nil
}
