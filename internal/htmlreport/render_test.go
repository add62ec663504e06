package htmlreport

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/assets"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/model"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/pipeline"
)

const fixedDate = "17 October 2026"

func TestTOCNumbers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		levels []int
		want   []string
	}{
		{"nested", []int{1, 2, 2, 3, 1, 2}, []string{"1", "1.1", "1.2", "1.2.1", "2", "2.1"}},
		{"skipped level", []int{1, 3}, []string{"1", "1.1"}},
		{"starts at level two", []int{2, 2, 3}, []string{"1", "2", "2.1"}},
		{"deeper counters reset", []int{2, 3, 3, 2, 3}, []string{"1", "1.1", "1.2", "2", "2.1"}},
		{"empty", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tocNumbers(tt.levels); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tocNumbers(%v) = %q, want %q", tt.levels, got, tt.want)
			}
		})
	}
}

func TestBuildTOC_SkipsUnnamedSectionsAndIndents(t *testing.T) {
	t.Parallel()

	sections := []*model.Section{
		model.NewSection("", 1),
		model.NewSection("Install", 2),
		model.NewSection("From source", 3),
	}
	toc := buildTOC(sections)

	if len(toc) != 2 {
		t.Fatalf("len(toc) = %d, want 2", len(toc))
	}
	if toc[0].Anchor != "section-2" || toc[0].Indent != 0 {
		t.Errorf("toc[0] = %+v, want anchor section-2 without indent", toc[0])
	}
	if toc[1].Number != "1.1" || toc[1].Indent != 1 {
		t.Errorf("toc[1] = %+v, want number 1.1 with indent 1", toc[1])
	}
}

func TestRender_EscapesUserText(t *testing.T) {
	t.Parallel()

	doc := &model.Document{
		Title: "<b>Title</b>",
		Sections: []*model.Section{{
			Heading: "<i>Heading</i>",
			Level:   2,
			Content: []string{"<script>alert(1)</script>"},
			Tables:  []model.Table{{Headers: []string{"<td>"}, Rows: [][]string{{"<img src=x onerror=y>"}}}},
			Lists:   []model.List{{Items: []string{"<li>evil</li>"}}},
			CodeBlocks: []model.CodeBlock{{
				Code:     "</code></pre><script>x()</script>",
				Language: "<lang>",
			}},
		}},
	}

	out := Render(doc, "default", fixedDate)

	if strings.Contains(out, "<script>") {
		t.Error("output contains a raw <script> tag")
	}
	if !strings.Contains(out, "&lt;script&gt;alert(1)&lt;/script&gt;") {
		t.Error("output missing escaped paragraph")
	}
	for _, raw := range []string{"<b>Title</b>", "<i>Heading</i>", "<img src=x", "<li>evil</li>", "<lang>"} {
		if strings.Contains(out, raw) {
			t.Errorf("output contains unescaped %q", raw)
		}
	}
}

func TestRender_EndToEnd(t *testing.T) {
	t.Parallel()

	raw := "# Demo\n\nHello.\n\n## Table\n\n| A | B |\n|---|---|\n| 1 | 2 |\n"
	doc, err := pipeline.New().Run(context.Background(), raw, "demo.md")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	out := Render(doc, "ocean", fixedDate)

	wants := []string{
		"<title>Demo — Technical Report</title>",
		`<h1 class="doc-title">Demo</h1>`,
		`<p class="doc-paragraph">Hello.</p>`,
		`<h2 class="section-heading level-2">Table</h2>`,
		"<th>A</th><th>B</th>",
		"<tr><td>1</td><td>2</td></tr>",
		`<span class="toc-num">1</span> Table`,
		"Generated: " + fixedDate,
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRender_PaletteColors(t *testing.T) {
	t.Parallel()

	doc := &model.Document{Title: "T"}

	ocean := Render(doc, "ocean", fixedDate)
	if !strings.Contains(ocean, "background: #2d5f7a;") {
		t.Error("ocean palette background missing from stylesheet")
	}
	if !strings.Contains(ocean, "background: #edf4f8;") {
		t.Error("ocean palette row stripe missing from stylesheet")
	}

	if Render(doc, "not-a-real-key", fixedDate) != Render(doc, "default", fixedDate) {
		t.Error("unknown palette key did not render like the default palette")
	}
}

func TestRender_Deterministic(t *testing.T) {
	t.Parallel()

	doc := &model.Document{
		Title:    "T",
		Sections: []*model.Section{{Heading: "S", Level: 2, Content: []string{"x"}}},
	}
	if Render(doc, "wine", fixedDate) != Render(doc, "wine", fixedDate) {
		t.Error("Render() is not deterministic for a fixed date")
	}
}

func TestRender_BlockquoteAndCode(t *testing.T) {
	t.Parallel()

	doc := &model.Document{
		Title: "T",
		Sections: []*model.Section{{
			Heading: "Notes",
			Level:   3,
			Content: []string{"> Heads up"},
			Lists:   []model.List{{Items: []string{"one", "two"}, Ordered: true}},
			CodeBlocks: []model.CodeBlock{
				{Code: "fmt.Println(1 < 2)\n", Language: "go"},
				{Code: "make\n"},
			},
		}},
	}

	out := Render(doc, "default", fixedDate)

	wants := []string{
		`<blockquote class="doc-blockquote"><p>Heads up</p></blockquote>`,
		`<ol class="doc-list ordered"><li>one</li><li>two</li></ol>`,
		`<div class="doc-code-lang">go</div>`,
		`<div class="doc-code-lang">code</div>`,
		"fmt.Println(1 &lt; 2)",
		`class="toc-item indent-1"`,
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRender_NilDocument(t *testing.T) {
	t.Parallel()

	out := Render(nil, "default", fixedDate)
	if !strings.Contains(out, `<h1 class="doc-title">Document</h1>`) {
		t.Error("nil document did not render the fallback title")
	}
}

func TestRenderer_WithHighlighting(t *testing.T) {
	t.Parallel()

	r, err := New(WithHighlighting("monokai"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	doc := &model.Document{
		Title: "T",
		Sections: []*model.Section{{
			Heading:    "Code",
			Level:      2,
			CodeBlocks: []model.CodeBlock{{Code: "fmt.Println(\"<hi>\")\n", Language: "go"}},
		}},
	}
	out, err := r.Render(doc, "default", fixedDate)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if strings.Contains(out, "<hi>") {
		t.Error("highlighted output contains unescaped code")
	}
	if !strings.Contains(out, "style=") {
		t.Error("highlighted output has no inline styles")
	}
	if strings.Contains(out, `<code class="doc-code">`) {
		t.Error("highlighted block also rendered the plain code body")
	}
}

func TestRenderer_CustomAssets(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "templates"), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	layout := "<html><head><style>{{.CSS}}</style></head><body><h1>{{.Title}}</h1></body></html>"
	if err := os.WriteFile(filepath.Join(dir, "templates", "report.html"), []byte(layout), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	set, err := assets.NewSet(dir)
	if err != nil {
		t.Fatalf("NewSet() error = %v", err)
	}
	r, err := New(WithAssetLoader(set))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	out, err := r.Render(&model.Document{Title: "Custom & Co"}, "teal", fixedDate)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "<h1>Custom &amp; Co</h1>") {
		t.Errorf("custom layout not used: %s", out)
	}
	if !strings.Contains(out, "#2d6b6b") {
		t.Error("embedded stylesheet fallback missing teal palette color")
	}
}

func TestNew_MissingStyle(t *testing.T) {
	t.Parallel()

	_, err := New(WithStyle("does-not-exist"))
	if !errors.Is(err, assets.ErrStyleNotFound) || !errors.Is(err, ErrTemplate) {
		t.Errorf("New() with missing style error = %v, want ErrStyleNotFound and ErrTemplate", err)
	}
}

func TestIsHighlightStyle(t *testing.T) {
	t.Parallel()

	if !IsHighlightStyle("monokai") {
		t.Error("IsHighlightStyle(monokai) = false")
	}
	if IsHighlightStyle("no-such-style") {
		t.Error("IsHighlightStyle(no-such-style) = true")
	}
}
