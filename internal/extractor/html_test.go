package extractor

import (
	"strings"
	"testing"

	"github.com/dgallion1/mdweave/internal/convert"
)

func TestHTMLSource_HeadingsAndBody(t *testing.T) {
	input := `<html><head><title>Site Docs</title></head><body>
<nav>menu junk</nav>
<h1>Welcome</h1>
<p>First para.</p>
<p>Second para.</p>
<h2>Details</h2>
<p>More.</p>
<script>var x = 1;</script>
</body></html>`

	s := &HTMLSource{}
	doc, err := s.Extract(strings.NewReader(input), "site.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "Site Docs" {
		t.Errorf("expected title %q, got %q", "Site Docs", doc.Title)
	}

	page := doc.Pages[0]
	want := "Welcome\nFirst para.\nSecond para.\nDetails\nMore."
	if page.Text != want {
		t.Errorf("expected text %q, got %q", want, page.Text)
	}
	if strings.Contains(page.Text, "menu junk") || strings.Contains(page.Text, "var x") {
		t.Errorf("expected chrome and script dropped, got %q", page.Text)
	}

	ix := page.Layout.Index()
	if top, ok := ix.TopFor("Welcome"); !ok || top != 0 {
		t.Errorf("expected Welcome on line 0, got %d (found=%v)", top, ok)
	}
	if top, ok := ix.TopFor("Details"); !ok || top != 3 {
		t.Errorf("expected Details on line 3, got %d (found=%v)", top, ok)
	}
}

func TestHTMLSource_TitleFallsBackToFilename(t *testing.T) {
	s := &HTMLSource{}
	doc, err := s.Extract(strings.NewReader("<p>no title here</p>"), "page.htm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "page" {
		t.Errorf("expected title %q, got %q", "page", doc.Title)
	}
}

func TestHTMLSource_NestedHeadingMarkup(t *testing.T) {
	input := `<body><h2>Getting <em>Started</em></h2><p>body</p></body>`
	s := &HTMLSource{}
	doc, err := s.Extract(strings.NewReader(input), "n.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	page := doc.Pages[0]
	if !strings.HasPrefix(page.Text, "Getting Started\n") {
		t.Errorf("expected inline markup flattened, got %q", page.Text)
	}
	if _, ok := page.Layout.Index().TopFor("Getting Started"); !ok {
		t.Error("expected word group for flattened heading")
	}
}

func TestHTMLSource_MalformedInputStillParses(t *testing.T) {
	// x/net/html repairs rather than rejects; truncated markup should not
	// error out.
	s := &HTMLSource{}
	doc, err := s.Extract(strings.NewReader("<h1>Broken<p>text"), "b.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(doc.Pages[0].Text, "Broken") {
		t.Errorf("expected heading text retained, got %q", doc.Pages[0].Text)
	}
}

func TestHTMLSource_HeadingsDriveSections(t *testing.T) {
	// Lowercase titles fail the structural pattern, so only the synthetic
	// layout carried by the h1 elements can open these sections.
	input := `<html><body>
<h1>getting started</h1>
<p>install the binary.</p>
<h1>configuration</h1>
<p>edit the config file.</p>
</body></html>`

	s := &HTMLSource{}
	doc, err := s.Extract(strings.NewReader(input), "guide.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := convert.Convert(doc.Pages, "Guide", convert.Options{UseLayoutSignals: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(res.Sections))
	}
	if res.Sections[0].Title != "getting started" || res.Sections[1].Title != "configuration" {
		t.Errorf("expected one section per h1, got %q and %q",
			res.Sections[0].Title, res.Sections[1].Title)
	}
	if res.Sections[0].Body != "install the binary." {
		t.Errorf("expected paragraph body, got %q", res.Sections[0].Body)
	}
	if res.Sections[0].Anchor != "getting-started" {
		t.Errorf("expected anchor %q, got %q", "getting-started", res.Sections[0].Anchor)
	}
}
