// Package pagetext models extracted document text page by page, together
// with the optional glyph layout that heading classification draws on.
package pagetext

import "strings"

// Char is one positioned character from a source page.
type Char struct {
	Text string
	Top  float64 // vertical offset from the page top
	Size float64 // font size in points
	Font string  // raw font name, e.g. "ABCDEF+Helvetica-Bold"
}

// Word is a positioned word token.
type Word struct {
	Text string
	Top  float64
}

// Layout carries the glyph geometry of one page. Formats without geometry
// (plain text) leave it nil; formats with structural headings but no real
// glyphs (HTML, DOCX, Markdown) synthesize it.
type Layout struct {
	Chars []Char
	Words []Word
}

// Page is one page of extracted text. Text preserves the source's line
// breaks; blank lines matter to blank-isolation classification.
type Page struct {
	Number int
	Text   string
	Layout *Layout
}

// Document is an extractor's output.
type Document struct {
	Title   string
	Pages   []Page
	Quality ExtractionQuality
}

// Text joins the page texts with newlines, skipping empty pages. It is the
// canonical flattening used for content hashing.
func (d *Document) Text() string {
	var sb strings.Builder
	for _, p := range d.Pages {
		if strings.TrimSpace(p.Text) == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// LayoutIndex precomputes the per-page lookups classification needs: word
// groups keyed by truncated vertical offset (in first-seen order), characters
// per offset, and the page's maximum character size.
type LayoutIndex struct {
	maxSize float64
	tops    []int
	groups  map[int][]string
	chars   map[int][]Char
}

// Index builds the lookup index for one page's layout. Safe on a nil
// receiver: a nil index fails every lookup.
func (l *Layout) Index() *LayoutIndex {
	if l == nil {
		return nil
	}
	ix := &LayoutIndex{
		groups: make(map[int][]string),
		chars:  make(map[int][]Char),
	}
	for _, ch := range l.Chars {
		if ch.Size > ix.maxSize {
			ix.maxSize = ch.Size
		}
		top := int(ch.Top)
		ix.chars[top] = append(ix.chars[top], ch)
	}
	for _, w := range l.Words {
		top := int(w.Top)
		if _, seen := ix.groups[top]; !seen {
			ix.tops = append(ix.tops, top)
		}
		ix.groups[top] = append(ix.groups[top], w.Text)
	}
	return ix
}

// MaxSize returns the largest character size on the page, 0 when unknown.
func (ix *LayoutIndex) MaxSize() float64 {
	if ix == nil {
		return 0
	}
	return ix.maxSize
}

// TopFor returns the vertical offset of the first word group whose
// space-joined text equals line. Groups are tried in the order their offsets
// first appeared in the word stream.
func (ix *LayoutIndex) TopFor(line string) (int, bool) {
	if ix == nil {
		return 0, false
	}
	for _, top := range ix.tops {
		if strings.TrimSpace(strings.Join(ix.groups[top], " ")) == line {
			return top, true
		}
	}
	return 0, false
}

// CharsAt returns the characters whose truncated vertical offset equals top.
func (ix *LayoutIndex) CharsAt(top int) []Char {
	if ix == nil {
		return nil
	}
	return ix.chars[top]
}
