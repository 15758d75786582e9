package extractor

import (
	"strings"

	"github.com/dgallion1/mdweave/internal/pagetext"
)

// Synthesized headings carry the largest font on the page and a bold face,
// so both the size and bold dominance signals promote them. The exact
// values never surface in output.
const (
	syntheticHeadingSize = 24
	syntheticHeadingFont = "Helvetica-Bold"
)

// pageBuilder flattens structured markup (HTML, DOCX, Markdown) into one
// synthetic page. Headings become single lines carrying synthetic layout;
// body blocks carry none, so only structural headings can trip the layout
// signals.
type pageBuilder struct {
	blocks []pageBlock
}

type pageBlock struct {
	text    string
	heading bool
}

// Heading appends a heading block. Internal whitespace is collapsed so the
// line and its word group always agree.
func (b *pageBuilder) Heading(title string) {
	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		return
	}
	b.blocks = append(b.blocks, pageBlock{text: title, heading: true})
}

// Text appends a body block; blank blocks are dropped.
func (b *pageBuilder) Text(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	b.blocks = append(b.blocks, pageBlock{text: text})
}

// Page renders the accumulated blocks. Blocks join with single newlines and
// no blank lines, so the isolation signal stays quiet and classification of
// synthetic pages rests on the pattern and the font signals.
func (b *pageBuilder) Page(number int) pagetext.Page {
	var sb strings.Builder
	var layout *pagetext.Layout
	line := 0
	for i, blk := range b.blocks {
		if i > 0 {
			sb.WriteString("\n")
		}
		if blk.heading {
			if layout == nil {
				layout = &pagetext.Layout{}
			}
			top := float64(line)
			for _, w := range strings.Fields(blk.text) {
				layout.Chars = append(layout.Chars, pagetext.Char{Text: w, Top: top, Size: syntheticHeadingSize, Font: syntheticHeadingFont})
				layout.Words = append(layout.Words, pagetext.Word{Text: w, Top: top})
			}
		}
		sb.WriteString(blk.text)
		line += strings.Count(blk.text, "\n") + 1
	}
	return pagetext.Page{Number: number, Text: sb.String(), Layout: layout}
}
