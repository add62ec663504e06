package htmlreport

import (
	"strconv"
	"strings"

	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/model"
)

type tocEntry struct {
	Number  string
	Heading string
	Anchor  string
	Indent  int
}

// numberingState tracks hierarchical numbering for TOC entries.
// counters[0] is the level-1 counter.
type numberingState struct {
	counters [model.MaxLevel]int
}

// next increments the counter for level, resets every deeper counter, and
// returns the dot-joined non-zero counters at levels up to level.
func (n *numberingState) next(level int) string {
	level = model.ClampLevel(level)
	n.counters[level-1]++
	for i := level; i < len(n.counters); i++ {
		n.counters[i] = 0
	}

	parts := make([]string, 0, level)
	for i := 0; i < level; i++ {
		if n.counters[i] != 0 {
			parts = append(parts, strconv.Itoa(n.counters[i]))
		}
	}
	return strings.Join(parts, ".")
}

// tocNumbers returns the TOC number of each heading level in order.
func tocNumbers(levels []int) []string {
	var n numberingState
	numbers := make([]string, len(levels))
	for i, l := range levels {
		numbers[i] = n.next(l)
	}
	return numbers
}

// indentFor returns the TOC indent step; levels 1 and 2 are not indented.
func indentFor(level int) int {
	return max(0, model.ClampLevel(level)-2)
}

// buildTOC lists every section with a heading, in document order.
func buildTOC(sections []*model.Section) []tocEntry {
	var named, levels []int
	for i, s := range sections {
		if s == nil || s.Heading == "" {
			continue
		}
		named = append(named, i)
		levels = append(levels, s.Level)
	}

	numbers := tocNumbers(levels)
	entries := make([]tocEntry, len(named))
	for j, i := range named {
		s := sections[i]
		entries[j] = tocEntry{
			Number:  numbers[j],
			Heading: s.Heading,
			Anchor:  anchorFor(i),
			Indent:  indentFor(s.Level),
		}
	}
	return entries
}
