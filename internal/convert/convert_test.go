package convert

import (
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/mdweave/internal/pagetext"
)

func TestConvert_SectionsInPageOrder(t *testing.T) {
	pages := []pagetext.Page{
		{Number: 1, Text: "Introduction\nFirst page text."},
		{Number: 2, Text: "Methods\nSecond page text."},
	}
	res, err := Convert(pages, "Guide", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(res.Sections))
	}
	if res.Sections[0].Title != "Introduction" || res.Sections[1].Title != "Methods" {
		t.Errorf("expected sections in page order, got %q then %q",
			res.Sections[0].Title, res.Sections[1].Title)
	}
	if !strings.HasPrefix(res.Markdown, "# Guide\n") {
		t.Errorf("expected document title heading, got %q", res.Markdown[:20])
	}
}

func TestConvert_SectionSpansPages(t *testing.T) {
	pages := []pagetext.Page{
		{Number: 1, Text: "Overview\ncarries over"},
		{Number: 2, Text: "and continues here"},
	}
	res, err := Convert(pages, "Doc", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(res.Sections))
	}
	if res.Sections[0].Body != "carries over\nand continues here" {
		t.Errorf("expected body to span pages, got %q", res.Sections[0].Body)
	}
}

func TestConvert_NoHeadingsIsNotAnError(t *testing.T) {
	pages := []pagetext.Page{
		{Number: 1, Text: "just some lowercase prose\nwithout any headings"},
	}
	res, err := Convert(pages, "Flat", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Sections) != 0 {
		t.Fatalf("expected 0 sections, got %d", len(res.Sections))
	}
	if !strings.Contains(res.Markdown, "## Contents") {
		t.Errorf("expected contents block even with no sections, got %q", res.Markdown)
	}
}

func TestConvert_NoExtractableText(t *testing.T) {
	pages := []pagetext.Page{
		{Number: 1, Text: ""},
		{Number: 2, Text: "   \n\t\n"},
	}
	_, err := Convert(pages, "Scan", Options{})
	if !errors.Is(err, ErrNoExtractableText) {
		t.Fatalf("expected ErrNoExtractableText, got %v", err)
	}
}

func TestConvert_MalformedPatternReportedFirst(t *testing.T) {
	// Pattern compilation fails before pages are examined, so the pattern
	// error wins even when the document is also empty.
	_, err := Convert(nil, "Doc", Options{HeadingPattern: "["})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if errors.Is(err, ErrNoExtractableText) {
		t.Fatalf("expected pattern error, got %v", err)
	}
	if !strings.Contains(err.Error(), "compile heading pattern") {
		t.Errorf("expected compile error, got %v", err)
	}
}

func TestConvert_StripNoise(t *testing.T) {
	pages := []pagetext.Page{
		{Number: 1, Text: "Introduction\nChapter 3 - Extras\nPage 42\nreal content kept."},
	}

	res, err := Convert(pages, "Doc", Options{StripNoise: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(res.Sections))
	}
	if res.Sections[0].Body != "real content kept." {
		t.Errorf("expected noise stripped, got body %q", res.Sections[0].Body)
	}

	res, err = Convert(pages, "Doc", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(res.Sections[0].Body, "Page 42") {
		t.Errorf("expected noise kept when stripping is off, got body %q", res.Sections[0].Body)
	}
}

func TestConvert_CustomHeadingPattern(t *testing.T) {
	pages := []pagetext.Page{
		{Number: 1, Text: "Chapter 1: Basics\nbody text"},
	}

	// The built-in pattern rejects digits and colons.
	res, err := Convert(pages, "Doc", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Sections) != 0 {
		t.Fatalf("expected no sections under default pattern, got %d", len(res.Sections))
	}

	res, err = Convert(pages, "Doc", Options{HeadingPattern: `^[A-Z][\w\s:-]{3,60}$`})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Sections) != 1 || res.Sections[0].Title != "Chapter 1: Basics" {
		t.Fatalf("expected custom pattern to match, got %+v", res.Sections)
	}
}

func TestConvert_BlankIsolationHeading(t *testing.T) {
	pages := []pagetext.Page{
		{Number: 1, Text: "intro para\n\nquiet heading\n\ntext after"},
	}

	res, err := Convert(pages, "Doc", Options{UseLayoutSignals: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(res.Sections))
	}
	if res.Sections[0].Title != "quiet heading" {
		t.Errorf("expected isolated line promoted, got %q", res.Sections[0].Title)
	}
	if res.Sections[0].Body != "text after" {
		t.Errorf("expected body %q, got %q", "text after", res.Sections[0].Body)
	}

	// Without layout signals the same line stays body text.
	res, err = Convert(pages, "Doc", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Sections) != 0 {
		t.Fatalf("expected no sections without layout signals, got %d", len(res.Sections))
	}
}

func TestConvert_FontSizeHeadingFromLayout(t *testing.T) {
	layout := &pagetext.Layout{
		Chars: []pagetext.Char{
			{Text: "b", Top: 50, Size: 24, Font: "Helvetica"},
			{Text: "i", Top: 50, Size: 24, Font: "Helvetica"},
			{Text: "g", Top: 50, Size: 24, Font: "Helvetica"},
			{Text: "x", Top: 100, Size: 10, Font: "Helvetica"},
		},
		Words: []pagetext.Word{
			{Text: "big", Top: 50},
		},
	}
	pages := []pagetext.Page{
		{Number: 1, Text: "big\nsmall body line", Layout: layout},
	}

	res, err := Convert(pages, "Doc", Options{UseLayoutSignals: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(res.Sections))
	}
	if res.Sections[0].Title != "big" {
		t.Errorf("expected font-size dominant line promoted, got %q", res.Sections[0].Title)
	}
}

func TestConvert_DuplicateHeadingsGetUniqueAnchors(t *testing.T) {
	pages := []pagetext.Page{
		{Number: 1, Text: "Setup\nfirst\nSetup\nsecond"},
	}
	res, err := Convert(pages, "Doc", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(res.Sections))
	}
	if !strings.Contains(res.Markdown, "(#setup)") || !strings.Contains(res.Markdown, "(#setup-2)") {
		t.Errorf("expected deduplicated anchors in TOC, got %q", res.Markdown)
	}
}

func TestConvert_Deterministic(t *testing.T) {
	pages := []pagetext.Page{
		{Number: 1, Text: "Alpha\none\nBeta\ntwo"},
	}
	a, err := Convert(pages, "Doc", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Convert(pages, "Doc", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Markdown != b.Markdown {
		t.Error("expected identical output for identical input")
	}
}

func TestConvert_Frontmatter(t *testing.T) {
	pages := []pagetext.Page{
		{Number: 1, Text: "Intro\nbody"},
	}
	res, err := Convert(pages, "Doc", Options{Frontmatter: true, SourceName: "doc.pdf"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(res.Markdown, "---\n") {
		t.Errorf("expected frontmatter fence, got %q", res.Markdown[:10])
	}
	if !strings.Contains(res.Markdown, "source: doc.pdf") {
		t.Errorf("expected source in frontmatter, got %q", res.Markdown)
	}
	if !strings.Contains(res.Markdown, "\n# Doc\n") {
		t.Errorf("expected document body after frontmatter, got %q", res.Markdown)
	}
}
