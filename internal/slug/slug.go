// Package slug derives URL-safe anchor identifiers from heading text.
package slug

import (
	"regexp"
	"strings"
)

var (
	invalidRunes = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// Make converts a heading title into an anchor slug: lowercase, every rune
// that is not a letter, digit, underscore, whitespace, or hyphen removed,
// whitespace runs collapsed to a single hyphen. Applied to a string that is
// already a valid slug it returns it unchanged.
//
// Make is pure and carries no collision state; uniqueness across a document
// is the assembler's job.
func Make(title string) string {
	s := strings.ToLower(title)
	s = invalidRunes.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	return s
}
