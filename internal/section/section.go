// Package section folds the classified line stream into ordered sections.
package section

import (
	"strings"

	"github.com/dgallion1/mdweave/internal/slug"
)

// Section is one detected unit of the document: a heading, the body text up
// to the next heading, and the anchor derived from the title. Anchor is the
// raw slug; collision suffixes are applied at assembly time.
type Section struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Anchor string `json:"anchor"`
}

// Segmenter folds page-ordered lines into sections. The zero value is ready
// to use. State deliberately spans page boundaries: a section opened on one
// page keeps collecting body text on the next, so do not reset between pages
// of one document.
type Segmenter struct {
	open   bool
	title  string
	body   []string
	closed []Section
}

// Line feeds the next line of the stream. A heading closes any open section
// and opens a new one; a body line is appended to the open section, or
// dropped when no section is open yet. Content before the first heading is
// not retained.
func (s *Segmenter) Line(text string, isHeading bool) {
	if isHeading {
		s.close()
		s.open = true
		s.title = text
		s.body = nil
		return
	}
	if s.open {
		s.body = append(s.body, text)
	}
}

// Finish closes a still-open section and returns the sections in document
// order. Zero headings yield zero sections; that is not an error.
func (s *Segmenter) Finish() []Section {
	s.close()
	return s.closed
}

func (s *Segmenter) close() {
	if !s.open {
		return
	}
	s.closed = append(s.closed, Section{
		Title:  s.title,
		Body:   strings.Join(s.body, "\n"),
		Anchor: slug.Make(s.title),
	})
	s.open = false
	s.title = ""
	s.body = nil
}
