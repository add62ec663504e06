// Package dateutil resolves the report generation date from a setting such
// as "auto:DD MMMM YYYY".
//
// A setting is either "auto", "auto:FORMAT", "auto:PRESET", or a fixed
// string printed as is. FORMAT uses the tokens YYYY YY MMMM MMM MM M DD D
// dddd ddd; text in [brackets] is literal.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength bounds a FORMAT string.
const MaxDateFormatLength = 50

// DefaultDateFormat matches the report cover, e.g. "17 October 2026".
const DefaultDateFormat = "DD MMMM YYYY"

// DefaultSetting is the configuration default for the generation date.
const DefaultSetting = "auto:" + DefaultDateFormat

const autoPrefix = "auto:"

// Presets are named formats accepted after "auto:".
var Presets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
	"report":   DefaultDateFormat,
}

// tokens are matched longest first. Each maps to a Go layout that is
// applied on its own, so literal text never reaches time.Format.
var tokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"dddd", "Monday"},
	{"MMM", "Jan"},
	{"ddd", "Mon"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

type segment struct {
	text   string
	layout string
}

// Spec is a compiled date setting.
type Spec struct {
	setting  string
	fixed    bool
	segments []segment
}

// Parse compiles a date setting. "auto" is case-insensitive; tokens are not.
func Parse(setting string) (Spec, error) {
	lower := strings.ToLower(setting)
	switch {
	case lower == "auto":
		return compileSpec(setting, DefaultDateFormat)
	case strings.HasPrefix(lower, autoPrefix):
		format := setting[len(autoPrefix):]
		if format == "" {
			return Spec{}, fmt.Errorf("%w: format cannot be empty after %q", ErrInvalidDateFormat, autoPrefix)
		}
		if preset, ok := Presets[strings.ToLower(format)]; ok {
			format = preset
		}
		return compileSpec(setting, format)
	case strings.HasPrefix(lower, "auto"):
		return Spec{}, fmt.Errorf("%w: %q, use \"auto\" or \"auto:FORMAT\"", ErrInvalidDateFormat, setting)
	}
	return Spec{setting: setting, fixed: true}, nil
}

func compileSpec(setting, format string) (Spec, error) {
	segments, err := compile(format)
	if err != nil {
		return Spec{}, err
	}
	return Spec{setting: setting, segments: segments}, nil
}

func compile(format string) ([]segment, error) {
	if len(format) > MaxDateFormatLength {
		return nil, fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var segments []segment
	var literal strings.Builder
	flush := func() {
		if literal.Len() > 0 {
			segments = append(segments, segment{text: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i+1:], ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			literal.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}
		matched := false
		for _, tok := range tokens {
			if strings.HasPrefix(format[i:], tok.token) {
				flush()
				segments = append(segments, segment{layout: tok.layout})
				i += len(tok.token)
				matched = true
				break
			}
		}
		if !matched {
			literal.WriteByte(format[i])
			i++
		}
	}
	flush()
	return segments, nil
}

// Format renders the date for t. A fixed setting ignores t.
func (s Spec) Format(t time.Time) string {
	if s.fixed {
		return s.setting
	}
	var b strings.Builder
	for _, seg := range s.segments {
		if seg.layout == "" {
			b.WriteString(seg.text)
			continue
		}
		b.WriteString(t.Format(seg.layout))
	}
	return b.String()
}

// Fixed reports whether the setting is a literal date.
func (s Spec) Fixed() bool { return s.fixed }

// String returns the setting the Spec was parsed from.
func (s Spec) String() string { return s.setting }

// ResolveDate parses value and formats t with it.
func ResolveDate(value string, t time.Time) (string, error) {
	spec, err := Parse(value)
	if err != nil {
		return "", err
	}
	return spec.Format(t), nil
}
