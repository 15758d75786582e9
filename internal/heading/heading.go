// Package heading decides whether a line of extracted text starts a new
// section. Classification combines a structural regex with layout signals
// (blank isolation, font-size dominance, bold dominance) in a permissive
// logical OR: any one true signal makes the line a heading.
package heading

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dgallion1/mdweave/internal/pagetext"
)

// DefaultPattern matches the shape of a free-standing section title: an
// uppercase start, a short run of letters/spaces/hyphens, optionally chained
// with further dash-separated clauses of the same shape.
const DefaultPattern = `^[A-Z][a-zA-Z\s-]{1,50}(?:\s*[-–—]\s*[A-Z][a-zA-Z\s-]{1,50})*$`

// Config holds the empirical constants behind the layout signals. These are
// tunings, not invariants.
type Config struct {
	// DominanceThreshold is the fraction of a line's characters that must
	// share the page's maximum size (or a bold font) for the size/bold
	// signals to fire.
	DominanceThreshold float64
	// BoldMarkers are lowercase substrings of a font name that indicate a
	// bold weight.
	BoldMarkers []string
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		DominanceThreshold: 0.7,
		BoldMarkers:        []string{"bold", "black", "heavy", "semibold", "demibold"},
	}
}

// Context carries what classification may look at besides the line itself:
// the raw neighboring lines on the same page, and the page's layout index.
// A missing neighbor (first or last line of a page) never counts as blank.
type Context struct {
	Prev, Next       string
	HasPrev, HasNext bool
	Layout           *pagetext.LayoutIndex
}

// Classifier applies the heading decision policy. Compile once per
// conversion; it is read-only afterwards.
type Classifier struct {
	pattern   *regexp.Regexp
	useLayout bool
	cfg       Config
}

// NewClassifier compiles pattern (empty selects DefaultPattern). useLayout
// enables the three layout signals; the structural regex always applies.
// A pattern that does not compile is fatal, reported before any page is
// touched.
func NewClassifier(pattern string, useLayout bool, cfg Config) (*Classifier, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile heading pattern: %w", err)
	}
	if cfg.DominanceThreshold <= 0 {
		cfg.DominanceThreshold = DefaultConfig().DominanceThreshold
	}
	if len(cfg.BoldMarkers) == 0 {
		cfg.BoldMarkers = DefaultConfig().BoldMarkers
	}
	return &Classifier{pattern: re, useLayout: useLayout, cfg: cfg}, nil
}

// Classify reports whether line is a section heading. Signals are evaluated
// in order and the first true one wins: structural regex, blank isolation,
// font-size dominance, bold dominance. A line with no matching word group on
// the page simply fails the glyph signals; that is policy, not an error.
func (c *Classifier) Classify(line string, ctx Context) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if c.matchesPattern(line) {
		return true
	}
	if !c.useLayout {
		return false
	}
	if c.isolated(ctx) {
		return true
	}
	top, ok := ctx.Layout.TopFor(line)
	if !ok {
		return false
	}
	chars := ctx.Layout.CharsAt(top)
	if len(chars) == 0 {
		return false
	}
	maxSize := ctx.Layout.MaxSize()
	large, bold := 0, 0
	for _, ch := range chars {
		if ch.Size == maxSize {
			large++
		}
		if c.boldFont(ch.Font) {
			bold++
		}
	}
	n := float64(len(chars))
	if float64(large)/n > c.cfg.DominanceThreshold {
		return true
	}
	return float64(bold)/n > c.cfg.DominanceThreshold
}

// matchesPattern anchors the match at the start of the line but not the end,
// so custom patterns behave like the usual match-from-beginning semantics
// they were written against.
func (c *Classifier) matchesPattern(line string) bool {
	loc := c.pattern.FindStringIndex(line)
	return loc != nil && loc[0] == 0
}

func (c *Classifier) isolated(ctx Context) bool {
	return ctx.HasPrev && ctx.HasNext &&
		strings.TrimSpace(ctx.Prev) == "" && strings.TrimSpace(ctx.Next) == ""
}

func (c *Classifier) boldFont(name string) bool {
	name = strings.ToLower(name)
	for _, m := range c.cfg.BoldMarkers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}
