package extractor

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/mdweave/internal/pagetext"
)

// MarkdownSource handles Markdown files using goldmark. ATX headings become
// candidate heading lines with synthetic layout; other blocks are body
// text. Useful for re-sectioning documents that are already Markdown.
type MarkdownSource struct{}

func (s *MarkdownSource) Extract(r io.Reader, filename string) (*pagetext.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	var b pageBuilder
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			b.Heading(string(h.Text(src)))
			continue
		}
		if t := blockText(n, src); t != "" {
			b.Text(t)
		}
	}

	doc := &pagetext.Document{Title: Stem(filename), Pages: []pagetext.Page{b.Page(1)}}
	doc.Quality = pagetext.Measure(doc.Pages)
	return doc, nil
}

// blockText gets the text content of a goldmark AST block node. Nodes with
// inline children (paragraphs) yield their children's text; childless blocks
// (fenced code) yield their raw lines. Reading both would duplicate the
// paragraph text.
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.FirstChild() == nil && n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			buf.Write(lines.At(i).Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
			continue
		}
		if c.Type() == ast.TypeBlock && buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(blockText(c, src))
	}
	return strings.TrimSpace(buf.String())
}
