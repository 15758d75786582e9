package extractor

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/dgallion1/mdweave/internal/pagetext"
)

// PDFSource handles PDF files. It reads positioned glyphs with the Go
// library first, then falls back to pdftotext if available. Only the
// library path yields layout; the fallback gives plain page text.
type PDFSource struct {
	FallbackPdftotext bool
}

func (s *PDFSource) Extract(r io.Reader, filename string) (*pagetext.Document, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "mdweave-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	doc, err := extractPDF(tmpPath)
	if err != nil && s.FallbackPdftotext {
		doc, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	if doc.Title == "" {
		doc.Title = Stem(filename)
	}
	doc.Quality = pagetext.Measure(doc.Pages)
	if n, err := countImageStreams(tmpPath); err == nil && n > 0 {
		doc.Quality.HasImageStreams = true
	}
	return doc, nil
}

// extractPDF reads every page's positioned text. The decoder panics on some
// malformed files, so the whole walk runs under a recover.
func extractPDF(path string) (doc *pagetext.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf decode: %v", r)
		}
	}()

	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc = &pagetext.Document{Title: infoTitle(reader)}
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			doc.Pages = append(doc.Pages, pagetext.Page{Number: i})
			continue
		}
		doc.Pages = append(doc.Pages, extractPage(page, i))
	}
	return doc, nil
}

// extractPage flattens one page's glyph fragments into text lines plus the
// layout index feeds: characters and word groups keyed by vertical offset.
// PDF y grows upward, so offsets are measured from the page top to keep
// reading order.
func extractPage(page pdflib.Page, number int) pagetext.Page {
	texts := page.Content().Text
	if len(texts) == 0 {
		return pagetext.Page{Number: number}
	}
	height := pageHeight(page)

	layout := &pagetext.Layout{Chars: make([]pagetext.Char, 0, len(texts))}
	rows := make(map[int][]pdflib.Text)
	var rowOrder []int
	for _, t := range texts {
		top := height - t.Y
		layout.Chars = append(layout.Chars, pagetext.Char{
			Text: t.S,
			Top:  top,
			Size: t.FontSize,
			Font: t.Font,
		})
		key := int(top)
		if _, ok := rows[key]; !ok {
			rowOrder = append(rowOrder, key)
		}
		rows[key] = append(rows[key], t)
	}
	sort.Ints(rowOrder)

	lines := make([]string, 0, len(rowOrder))
	for _, top := range rowOrder {
		frags := rows[top]
		sort.Slice(frags, func(i, j int) bool { return frags[i].X < frags[j].X })
		words := rowWords(frags)
		for _, w := range words {
			layout.Words = append(layout.Words, pagetext.Word{Text: w, Top: float64(top)})
		}
		lines = append(lines, strings.Join(words, " "))
	}

	return pagetext.Page{Number: number, Text: strings.Join(lines, "\n"), Layout: layout}
}

// rowWords clusters x-sorted fragments of one row into words. A new word
// starts when the horizontal gap from the previous fragment's right edge
// exceeds a fraction of the font size.
func rowWords(frags []pdflib.Text) []string {
	var words []string
	var current strings.Builder
	var lastEnd float64

	flush := func() {
		w := strings.Join(strings.Fields(current.String()), " ")
		if w != "" {
			words = append(words, w)
		}
		current.Reset()
	}

	for i, t := range frags {
		if i > 0 && t.X-lastEnd > wordGap(t.FontSize) {
			flush()
		}
		current.WriteString(t.S)
		lastEnd = t.X + t.W
	}
	flush()
	return words
}

func wordGap(size float64) float64 {
	if size <= 0 {
		return 1
	}
	return size * 0.2
}

// pageHeight reads the page's MediaBox height. Inherited or missing boxes
// fall back to US Letter; only relative offsets matter downstream.
func pageHeight(page pdflib.Page) float64 {
	box := page.V.Key("MediaBox")
	if box.IsNull() || box.Len() < 4 {
		return 792
	}
	h := box.Index(3).Float64() - box.Index(1).Float64()
	if h <= 0 {
		return 792
	}
	return h
}

// infoTitle reads the document title from the PDF Info dictionary, if set.
func infoTitle(reader *pdflib.Reader) (title string) {
	defer func() { _ = recover() }()
	info := reader.Trailer().Key("Info")
	if info.IsNull() {
		return ""
	}
	t := info.Key("Title")
	if t.IsNull() {
		return ""
	}
	return strings.TrimSpace(t.Text())
}

// extractPdftotext shells out to pdftotext as a last resort. Page breaks
// come back as form feeds.
func extractPdftotext(path string) (*pagetext.Document, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	return &pagetext.Document{Pages: pagesFromText(string(out))}, nil
}

// countImageStreams counts image XObjects across the document. A PDF with
// images and no extractable text is almost certainly scanned, which turns
// the generic empty-document error into a useful diagnosis.
func countImageStreams(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("read pdf structure: %w", err)
	}
	if ctx.Optimize == nil {
		return 0, nil
	}

	count := 0
	for i := 1; i <= ctx.PageCount; i++ {
		count += len(pdfcpu.ImageObjNrs(ctx, i))
	}
	return count, nil
}
