// Package normalize cleans raw extracted text before heading classification.
package normalize

import (
	"regexp"
	"strings"
)

// Recurring artifacts that page extraction leaks into the text: running
// chapter headers, bare page numbers, and lecture-transcript speaker notes.
var (
	spaceRun       = regexp.MustCompile(`\s+`)
	chapterLabel   = regexp.MustCompile(`Chapter \d+ -.*`)
	pageNumber     = regexp.MustCompile(`Page \d+`)
	instructorNote = regexp.MustCompile(`\[Instructor\]`)
)

// Line normalizes a single line: whitespace runs collapse to one space and,
// when stripNoise is set, header/footer artifacts are removed. The result is
// trimmed; a line reduced to nothing returns "".
func Line(raw string, stripNoise bool) string {
	s := spaceRun.ReplaceAllString(raw, " ")
	if stripNoise {
		if instructorNote.MatchString(s) {
			return ""
		}
		s = chapterLabel.ReplaceAllString(s, "")
		s = pageNumber.ReplaceAllString(s, "")
	}
	return strings.TrimSpace(s)
}

// Text normalizes a block of raw text line by line, drops lines that end up
// empty, and rejoins the survivors with single newlines. Pure; patterns that
// match nothing are no-ops.
func Text(raw string, stripNoise bool) string {
	lines := strings.Split(raw, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if s := Line(line, stripNoise); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, "\n")
}
