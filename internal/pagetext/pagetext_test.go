package pagetext

import (
	"strings"
	"testing"
)

func TestDocument_Text(t *testing.T) {
	doc := &Document{
		Pages: []Page{
			{Number: 1, Text: "first page"},
			{Number: 2, Text: "   "},
			{Number: 3, Text: "third page"},
		},
	}

	got := doc.Text()
	expected := "first page\nthird page"
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestDocument_TextEmpty(t *testing.T) {
	doc := &Document{Pages: []Page{{Number: 1, Text: "\n\t "}}}
	if got := doc.Text(); got != "" {
		t.Errorf("expected empty text, got %q", got)
	}
}

func TestLayoutIndex_Lookups(t *testing.T) {
	layout := &Layout{
		Chars: []Char{
			{Text: "T", Top: 100.2, Size: 18, Font: "Helvetica-Bold"},
			{Text: "i", Top: 100.7, Size: 18, Font: "Helvetica-Bold"},
			{Text: "b", Top: 140.1, Size: 11, Font: "Helvetica"},
		},
		Words: []Word{
			{Text: "Section", Top: 100.2},
			{Text: "Title", Top: 100.7},
			{Text: "body", Top: 140.1},
		},
	}

	ix := layout.Index()
	if got := ix.MaxSize(); got != 18 {
		t.Errorf("expected max size 18, got %v", got)
	}

	top, ok := ix.TopFor("Section Title")
	if !ok {
		t.Fatal("expected a word group for the heading line")
	}
	if top != 100 {
		t.Errorf("expected top 100, got %d", top)
	}
	if chars := ix.CharsAt(top); len(chars) != 2 {
		t.Errorf("expected 2 chars at top %d, got %d", top, len(chars))
	}

	if _, ok := ix.TopFor("no such line"); ok {
		t.Error("expected no group for an unknown line")
	}
}

func TestLayoutIndex_NilSafe(t *testing.T) {
	var layout *Layout
	ix := layout.Index()
	if ix != nil {
		t.Fatalf("expected nil index from nil layout, got %+v", ix)
	}
	if got := ix.MaxSize(); got != 0 {
		t.Errorf("expected max size 0, got %v", got)
	}
	if _, ok := ix.TopFor("anything"); ok {
		t.Error("expected nil index to fail lookups")
	}
	if chars := ix.CharsAt(0); chars != nil {
		t.Errorf("expected nil chars, got %v", chars)
	}
}

func TestMeasure_CleanText(t *testing.T) {
	pages := []Page{
		{Number: 1, Text: "Introduction\nThis page has ordinary words on it."},
		{Number: 2, Text: "More readable content follows here."},
	}

	q := Measure(pages)
	if q.PageCount != 2 {
		t.Errorf("expected 2 pages, got %d", q.PageCount)
	}
	if q.CharsPerPage <= 0 {
		t.Errorf("expected positive chars per page, got %v", q.CharsPerPage)
	}
	if q.PrintableRatio < 0.99 {
		t.Errorf("expected printable ratio near 1, got %v", q.PrintableRatio)
	}
	if q.WordlikeRatio < 0.8 {
		t.Errorf("expected wordlike ratio above 0.8, got %v", q.WordlikeRatio)
	}
	if q.LooksScanned() {
		t.Error("clean text should not look scanned")
	}
}

func TestMeasure_GarbageGlyphs(t *testing.T) {
	soup := strings.Repeat("�", 50)
	q := Measure([]Page{{Number: 1, Text: soup}})
	if q.PrintableRatio > 0.1 {
		t.Errorf("expected near-zero printable ratio, got %v", q.PrintableRatio)
	}
}

func TestExtractionQuality_LooksScanned(t *testing.T) {
	q := ExtractionQuality{HasImageStreams: true, CharsPerPage: 0}
	if !q.LooksScanned() {
		t.Error("image streams with no text should look scanned")
	}

	q.CharsPerPage = 800
	if q.LooksScanned() {
		t.Error("image streams with plenty of text should not look scanned")
	}

	q = ExtractionQuality{HasImageStreams: false, CharsPerPage: 0}
	if q.LooksScanned() {
		t.Error("no image streams should never look scanned")
	}
}
