package assets

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"text/template"
)

func TestLoad_Builtin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		kind    Kind
		asset   string
		wantErr error
	}{
		{"default style", Style, DefaultStyleName, nil},
		{"default template", Template, DefaultTemplateName, nil},
		{"missing style", Style, "nonexistent", ErrStyleNotFound},
		{"missing template", Template, "my-layout", ErrTemplateNotFound},
		{"empty name", Style, "", ErrInvalidAssetName},
		{"absolute path", Style, "/etc/passwd", ErrInvalidAssetName},
		{"traversal", Template, "../report", ErrInvalidAssetName},
		{"extension", Style, "report.css", ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			content, err := Load(tt.kind, tt.asset)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Load(%s, %q) error = %v, want %v", tt.kind, tt.asset, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load(%s, %q) error = %v", tt.kind, tt.asset, err)
			}
			if content == "" {
				t.Errorf("Load(%s, %q) returned empty content", tt.kind, tt.asset)
			}
		})
	}
}

func TestDefaultTemplate_Sections(t *testing.T) {
	t.Parallel()

	content, err := Load(Template, DefaultTemplateName)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	for _, want := range []string{"doc-cover", "toc-num", "doc-table", "doc-code-lang", "doc-footer"} {
		if !strings.Contains(content, want) {
			t.Errorf("report template missing %q", want)
		}
	}
}

// The built-in stylesheet is a text/template filled with palette colors.
func TestDefaultStyle_ExecutesWithPaletteFields(t *testing.T) {
	t.Parallel()

	css, err := Load(Style, DefaultStyleName)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tmpl, err := template.New("css").Option("missingkey=error").Parse(css)
	if err != nil {
		t.Fatalf("stylesheet does not parse as a template: %v", err)
	}

	var buf strings.Builder
	data := map[string]string{
		"HeaderBackground": "#2d5f7a",
		"HeaderText":       "#ffffff",
		"RowStripe":        "#edf4f8",
	}
	if err := tmpl.Execute(&buf, data); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(buf.String(), "background: #2d5f7a;") {
		t.Error("executed stylesheet missing header background")
	}
}

func TestBuiltin(t *testing.T) {
	t.Parallel()

	if got := Builtin(Style); !slices.Contains(got, DefaultStyleName) {
		t.Errorf("Builtin(Style) = %v, want %q listed", got, DefaultStyleName)
	}
	if got := Builtin(Template); !slices.Contains(got, DefaultTemplateName) {
		t.Errorf("Builtin(Template) = %v, want %q listed", got, DefaultTemplateName)
	}
}

func TestValidateName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		wantErr bool
	}{
		{"report", false},
		{"dark-report_2", false},
		{"", true},
		{"a.b", true},
		{"dir/name", true},
		{`dir\name`, true},
		{"..", true},
		{"sp ace", true},
		{"café", true},
		{strings.Repeat("a", MaxNameLength), false},
		{strings.Repeat("a", MaxNameLength+1), true},
	}
	for _, tt := range tests {
		err := ValidateName(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("ValidateName(%q) error = %v, want ErrInvalidAssetName", tt.name, err)
		}
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()

	if Style.String() != "style" || Template.String() != "template" {
		t.Errorf("Kind strings = %q, %q", Style, Template)
	}
}
