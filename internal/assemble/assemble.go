// Package assemble renders segmented sections into the final navigable
// Markdown document.
package assemble

import (
	"fmt"
	"strings"

	"github.com/dgallion1/mdweave/internal/section"
)

// Render builds the output document: a top-level title heading, a linked
// table of contents, then each section separated by horizontal rules and
// followed by a back-to-top link. Blocks are joined with a blank line.
//
// Anchors that collide across sections get -2, -3, ... suffixes probed
// against a per-document seen set, so every TOC entry targets exactly one
// section even when titles repeat. The input sections are not modified.
func Render(title string, sections []section.Section) string {
	anchors := disambiguate(sections)

	blocks := []string{
		"# " + title,
		contents(sections, anchors),
		"\n---\n",
	}
	for _, s := range sections {
		blocks = append(blocks,
			"## "+s.Title,
			s.Body,
			"\n[Back to top](#contents)\n",
			"\n---\n",
		)
	}
	return strings.Join(blocks, "\n\n")
}

// Anchors returns the deduplicated anchor for each section, in order. The
// assignment is the same one Render uses for the TOC.
func Anchors(sections []section.Section) []string {
	return disambiguate(sections)
}

func contents(sections []section.Section, anchors []string) string {
	entries := make([]string, 0, len(sections)+1)
	entries = append(entries, "## Contents\n")
	for i, s := range sections {
		entries = append(entries, fmt.Sprintf("- [%s](#%s)", s.Title, anchors[i]))
	}
	return strings.Join(entries, "\n")
}

// disambiguate assigns unique anchors in document order. The first holder of
// a slug keeps it bare; later collisions probe base-2, base-3, ... until an
// unused anchor is found. Probing against the seen set also survives titles
// that naturally slug to an already-assigned suffix form.
func disambiguate(sections []section.Section) []string {
	seen := make(map[string]bool, len(sections))
	anchors := make([]string, len(sections))
	for i, s := range sections {
		anchor := s.Anchor
		for n := 2; seen[anchor]; n++ {
			anchor = fmt.Sprintf("%s-%d", s.Anchor, n)
		}
		seen[anchor] = true
		anchors[i] = anchor
	}
	return anchors
}
