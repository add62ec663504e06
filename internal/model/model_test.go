package model

import (
	"errors"
	"strings"
	"testing"
)

func TestClampLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want int
	}{
		{-3, 1}, {0, 1}, {1, 1}, {4, 4}, {6, 6}, {7, 6}, {42, 6},
	}

	for _, tt := range tests {
		if got := ClampLevel(tt.in); got != tt.want {
			t.Errorf("ClampLevel(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSection_IsEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		section *Section
		want    bool
	}{
		{"fresh pseudo-section", NewSection("", 1), true},
		{"heading only", NewSection("Intro", 2), false},
		{"content only", &Section{Content: []string{"text"}}, false},
		{"table only", &Section{Tables: []Table{{Headers: []string{"A"}}}}, false},
		{"list only", &Section{Lists: []List{{Items: []string{"x"}}}}, false},
		{"code only", &Section{CodeBlocks: []CodeBlock{{Code: "x"}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.section.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBlockquoteHelpers(t *testing.T) {
	t.Parallel()

	if !IsBlockquote("> quoted") {
		t.Error("IsBlockquote(\"> quoted\") = false, want true")
	}
	if IsBlockquote("plain") {
		t.Error("IsBlockquote(\"plain\") = true, want false")
	}
	if got := StripBlockquote("> quoted text"); got != "quoted text" {
		t.Errorf("StripBlockquote() = %q, want %q", got, "quoted text")
	}
}

func TestTable_ColumnCount(t *testing.T) {
	t.Parallel()

	tbl := Table{
		Headers: []string{"A", "B"},
		Rows:    [][]string{{"1"}, {"1", "2", "3"}},
	}
	if got := tbl.ColumnCount(); got != 3 {
		t.Errorf("ColumnCount() = %d, want 3", got)
	}
}

func TestDocument_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	doc := &Document{
		Title:         "Demo",
		HasReferences: true,
		Sections: []*Section{
			{
				Heading:    "Usage",
				Level:      2,
				Content:    []string{"Hello."},
				Tables:     []Table{{Headers: []string{"A"}, Rows: [][]string{{"1"}}}},
				Lists:      []List{{Items: []string{"one"}, Ordered: true}},
				CodeBlocks: []CodeBlock{{Code: "go run .", Language: "sh"}},
			},
		},
	}

	data, err := doc.JSON()
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}

	for _, key := range []string{`"title"`, `"has_references"`, `"code_blocks"`, `"ordered"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("JSON() missing key %s in %s", key, data)
		}
	}

	got, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}
	if got.Title != "Demo" || len(got.Sections) != 1 || got.Sections[0].CodeBlocks[0].Language != "sh" {
		t.Errorf("FromJSON() = %+v, lost data", got)
	}
}

func TestFromJSON_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"malformed", `{"title":`},
		{"missing title", `{"sections":[]}`},
		{"null section", `{"title":"x","sections":[null]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := FromJSON([]byte(tt.data)); !errors.Is(err, ErrInvalidModel) {
				t.Errorf("FromJSON() error = %v, want ErrInvalidModel", err)
			}
		})
	}
}
