package section

import "testing"

func TestSegmenter_SplitsOnHeadings(t *testing.T) {
	var seg Segmenter
	seg.Line("Introduction", true)
	seg.Line("First line.", false)
	seg.Line("Second line.", false)
	seg.Line("Methods", true)
	seg.Line("Third line.", false)

	sections := seg.Finish()
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].Title != "Introduction" {
		t.Errorf("expected title %q, got %q", "Introduction", sections[0].Title)
	}
	if sections[0].Body != "First line.\nSecond line." {
		t.Errorf("expected body %q, got %q", "First line.\nSecond line.", sections[0].Body)
	}
	if sections[1].Title != "Methods" {
		t.Errorf("expected title %q, got %q", "Methods", sections[1].Title)
	}
	if sections[1].Body != "Third line." {
		t.Errorf("expected body %q, got %q", "Third line.", sections[1].Body)
	}
}

func TestSegmenter_DropsContentBeforeFirstHeading(t *testing.T) {
	var seg Segmenter
	seg.Line("cover page text", false)
	seg.Line("more preamble", false)
	seg.Line("Overview", true)
	seg.Line("body", false)

	sections := seg.Finish()
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Body != "body" {
		t.Errorf("expected body %q, got %q", "body", sections[0].Body)
	}
}

func TestSegmenter_ClosesTrailingSection(t *testing.T) {
	var seg Segmenter
	seg.Line("Summary", true)
	seg.Line("last words", false)

	sections := seg.Finish()
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Title != "Summary" {
		t.Errorf("expected title %q, got %q", "Summary", sections[0].Title)
	}
	if sections[0].Body != "last words" {
		t.Errorf("expected body %q, got %q", "last words", sections[0].Body)
	}
}

func TestSegmenter_NoHeadings(t *testing.T) {
	var seg Segmenter
	seg.Line("just text", false)
	seg.Line("more text", false)

	if sections := seg.Finish(); len(sections) != 0 {
		t.Fatalf("expected no sections, got %d", len(sections))
	}
}

func TestSegmenter_EmptyBodySection(t *testing.T) {
	var seg Segmenter
	seg.Line("Alpha", true)
	seg.Line("Beta", true)
	seg.Line("text", false)

	sections := seg.Finish()
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].Body != "" {
		t.Errorf("expected empty body, got %q", sections[0].Body)
	}
}

func TestSegmenter_AnchorFromTitle(t *testing.T) {
	var seg Segmenter
	seg.Line("Getting Started", true)

	sections := seg.Finish()
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Anchor != "getting-started" {
		t.Errorf("expected anchor %q, got %q", "getting-started", sections[0].Anchor)
	}
}

func TestSegmenter_EmptyStream(t *testing.T) {
	var seg Segmenter
	if sections := seg.Finish(); sections != nil {
		t.Fatalf("expected nil sections, got %v", sections)
	}
}
