// Package render turns stored Markdown back into sanitized HTML previews.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"golang.org/x/net/html"

	"github.com/dgallion1/mdweave/internal/slug"
)

var md = goldmark.New()

var sanitizer = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	return p
}()

// HTML renders markdown to sanitized HTML. Headings get id attributes
// derived from their text the same way section anchors are, including the
// collision suffixes, so the document's own table-of-contents links resolve
// in the preview.
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	withIDs, err := injectHeadingIDs(buf.String())
	if err != nil {
		return "", err
	}
	return sanitizer.Sanitize(withIDs), nil
}

func injectHeadingIDs(fragment string) (string, error) {
	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("parse rendered html: %w", err)
	}

	seen := make(map[string]bool)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && isHeadingTag(n.Data) {
			setID(n, anchorFor(textContent(n), seen))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	// html.Parse wrapped the fragment in html/body; render just the body
	// children back out.
	body := findBody(root)
	if body == nil {
		body = root
	}
	var out bytes.Buffer
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&out, c); err != nil {
			return "", fmt.Errorf("render html: %w", err)
		}
	}
	return out.String(), nil
}

// anchorFor mirrors the anchor assignment used at assembly time: slug of
// the heading text, with -2, -3, ... probed on collision.
func anchorFor(title string, seen map[string]bool) string {
	base := slug.Make(title)
	anchor := base
	for n := 2; seen[anchor]; n++ {
		anchor = fmt.Sprintf("%s-%d", base, n)
	}
	seen[anchor] = true
	return anchor
}

func isHeadingTag(tag string) bool {
	switch tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return true
	}
	return false
}

func setID(n *html.Node, id string) {
	for i, attr := range n.Attr {
		if attr.Key == "id" {
			n.Attr[i].Val = id
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "id", Val: id})
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
