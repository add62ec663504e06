package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Precompiled patterns for line-level cleanup.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Image whose URL points at a known badge service.
	badgePattern = regexp.MustCompile(`(?i)!\[[^\]]*\]\(\s*<?https?://(?:www\.)?(?:` +
		`img\.shields\.io|badge\.fury\.io|badgen\.net|travis-ci|circleci|codecov|coveralls\.io|` +
		`goreportcard\.com|app\.codacy\.com|pkg\.go\.dev/badge|github\.com/[^)\s]*?/badge` +
		`)[^)]*\)`)

	// Image whose alt text mentions a shield.
	shieldPattern = regexp.MustCompile(`(?i)!\[[^\]]*shield[^\]]*\]\([^)]*\)`)

	// Thematic break or decorative rule.
	separatorPattern = regexp.MustCompile(`^[-*_]{3,}\s*$`)

	// Closed ATX heading: "### Title ###".
	closedHeadingPattern = regexp.MustCompile(`^(\s{0,3}#{1,6}\s+.*?\S)(?:\s+#+)+\s*$`)

	// Three or more consecutive emoji. Variation selectors and joiners ride
	// along with the emoji they modify.
	emojiRunPattern = regexp.MustCompile(`(?:[` +
		`\x{1F600}-\x{1F64F}` + // emoticons
		`\x{1F300}-\x{1F5FF}` + // symbols and pictographs
		`\x{1F680}-\x{1F6FF}` + // transport and map
		`\x{1F900}-\x{1F9FF}` + // supplemental symbols
		`\x{1F1E0}-\x{1F1FF}` + // regional indicators
		`\x{2600}-\x{26FF}` + // misc symbols
		`\x{2700}-\x{27BF}` + // dingbats
		`][\x{FE0F}\x{200D}]*){3,}`)
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// CommonMarkPreprocessor strips README noise before CommonMark parsing.
type CommonMarkPreprocessor struct{}

// PreprocessMarkdown applies Preprocess unless ctx is already done.
func (p *CommonMarkPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}
	return Preprocess(content)
}

// Preprocess removes badges, shields, separator lines and emoji spam, and
// normalizes closed ATX headings. It never fails and is idempotent.
//
// Emoji runs are stripped per line before the line rules run, so a line
// that only becomes a separator or badge once its emoji are gone is removed
// in the same pass.
func Preprocess(raw string) string {
	raw = normalizeLineEndings(raw)

	lines := strings.Split(raw, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = stripEmojiRuns(line)
		if IsBadgeLine(line) || IsSeparator(line) {
			continue
		}
		kept = append(kept, normalizeClosedHeading(line))
	}
	return strings.Join(kept, "\n")
}

// IsBadgeLine reports whether s contains a badge or shield image.
func IsBadgeLine(s string) bool {
	return badgePattern.MatchString(s) || shieldPattern.MatchString(s)
}

// IsSeparator reports whether s is a decorative horizontal rule.
func IsSeparator(s string) bool {
	return separatorPattern.MatchString(s)
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

func normalizeClosedHeading(line string) string {
	return closedHeadingPattern.ReplaceAllString(line, "$1")
}

func stripEmojiRuns(s string) string {
	return emojiRunPattern.ReplaceAllString(s, "")
}
