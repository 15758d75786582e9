package extractor

import (
	"io"
	"strings"

	"github.com/dgallion1/mdweave/internal/pagetext"
)

// TextSource handles plain text files. Form feeds mark page breaks; a file
// without them is a single page. Line structure is preserved untouched so
// blank-line isolation sees the original neighborhood.
type TextSource struct{}

func (s *TextSource) Extract(r io.Reader, filename string) (*pagetext.Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	doc := &pagetext.Document{
		Title: Stem(filename),
		Pages: pagesFromText(string(raw)),
	}
	doc.Quality = pagetext.Measure(doc.Pages)
	return doc, nil
}

// pagesFromText splits raw text into pages on form feeds. A trailing empty
// chunk after the last form feed is dropped. No layout is attached.
func pagesFromText(text string) []pagetext.Page {
	chunks := strings.Split(text, "\f")
	if len(chunks) > 1 && strings.TrimSpace(chunks[len(chunks)-1]) == "" {
		chunks = chunks[:len(chunks)-1]
	}
	pages := make([]pagetext.Page, len(chunks))
	for i, chunk := range chunks {
		pages[i] = pagetext.Page{Number: i + 1, Text: strings.Trim(chunk, "\n")}
	}
	return pages
}
