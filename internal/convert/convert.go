// Package convert wires normalization, heading classification, segmentation,
// and assembly into the single conversion entry point.
package convert

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgallion1/mdweave/internal/assemble"
	"github.com/dgallion1/mdweave/internal/heading"
	"github.com/dgallion1/mdweave/internal/normalize"
	"github.com/dgallion1/mdweave/internal/pagetext"
	"github.com/dgallion1/mdweave/internal/section"
)

// ErrNoExtractableText reports a source whose pages carry no text at all,
// typically a scanned original with no embedded text layer.
var ErrNoExtractableText = errors.New("no text detected in any page; source may be a scanned document")

// ScanHint enriches ErrNoExtractableText when the extraction saw image
// streams but no text, which is the signature of a scan. Other errors
// pass through untouched.
func ScanHint(err error, q pagetext.ExtractionQuality) error {
	if errors.Is(err, ErrNoExtractableText) && q.LooksScanned() {
		return fmt.Errorf("%w (pages contain image streams, so this is probably a scan that needs OCR)", err)
	}
	return err
}

// Options control one conversion run. The zero value converts with noise
// stripping off, the built-in heading pattern, and layout signals disabled.
type Options struct {
	// StripNoise drops running header/footer artifacts during
	// normalization: chapter labels, bare page numbers, instructor notes.
	StripNoise bool

	// HeadingPattern overrides the built-in structural regex. Empty selects
	// heading.DefaultPattern. A pattern that does not compile fails the
	// conversion before any page is touched.
	HeadingPattern string

	// UseLayoutSignals adds blank-line isolation, font-size dominance, and
	// bold dominance to the structural regex when classifying headings.
	UseLayoutSignals bool

	// Heading tunes the layout-signal constants. Zero value uses defaults.
	Heading heading.Config

	// Frontmatter prepends a YAML metadata block to the output.
	Frontmatter bool

	// SourceName names the input file in frontmatter. Informational only.
	SourceName string
}

// Result is one finished conversion.
type Result struct {
	// Markdown is the assembled document.
	Markdown string
	// Title is the document title the output was assembled under.
	Title string
	// Sections are the detected sections in document order.
	Sections []section.Section
}

// Convert turns extracted pages into a single assembled Markdown document.
//
// Classification walks the raw page lines so that blank-line isolation sees
// the original neighborhood, while the classified line itself is the
// normalized form. Segmenter state spans page boundaries. A malformed
// heading pattern and a fully text-free source are both fatal; a document in
// which no line classifies as a heading is not, and assembles with an empty
// section list.
func Convert(pages []pagetext.Page, title string, opts Options) (*Result, error) {
	classifier, err := heading.NewClassifier(opts.HeadingPattern, opts.UseLayoutSignals, opts.Heading)
	if err != nil {
		return nil, err
	}
	if !hasText(pages) {
		return nil, ErrNoExtractableText
	}

	var seg section.Segmenter
	for _, page := range pages {
		lines := strings.Split(page.Text, "\n")
		var layout *pagetext.LayoutIndex
		if opts.UseLayoutSignals {
			layout = page.Layout.Index()
		}
		for i, raw := range lines {
			line := normalize.Line(raw, opts.StripNoise)
			if line == "" {
				continue
			}
			ctx := heading.Context{Layout: layout}
			if i > 0 {
				ctx.Prev, ctx.HasPrev = lines[i-1], true
			}
			if i < len(lines)-1 {
				ctx.Next, ctx.HasNext = lines[i+1], true
			}
			seg.Line(line, classifier.Classify(line, ctx))
		}
	}
	sections := seg.Finish()

	markdown := assemble.Render(title, sections)
	if opts.Frontmatter {
		fm, err := assemble.Frontmatter(assemble.Meta{
			Title:     title,
			Source:    opts.SourceName,
			Pages:     len(pages),
			Sections:  len(sections),
			Generated: time.Now().UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("render frontmatter: %w", err)
		}
		markdown = fm + markdown
	}

	return &Result{Markdown: markdown, Title: title, Sections: sections}, nil
}

func hasText(pages []pagetext.Page) bool {
	for _, p := range pages {
		if strings.TrimSpace(p.Text) != "" {
			return true
		}
	}
	return false
}
