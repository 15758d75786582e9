package pagetext

import (
	"strings"
	"unicode"
)

// ExtractionQuality summarizes how much usable text an extraction produced.
// HasImageStreams is filled in by format probes that can tell (PDF).
type ExtractionQuality struct {
	PageCount       int     `json:"page_count"`
	CharsPerPage    float64 `json:"chars_per_page"`
	PrintableRatio  float64 `json:"printable_ratio"`
	WordlikeRatio   float64 `json:"wordlike_ratio"`
	HasImageStreams bool    `json:"has_image_streams"`
}

// LooksScanned reports whether the source is probably an image-only scan:
// image streams present but essentially no extractable text.
func (q ExtractionQuality) LooksScanned() bool {
	return q.HasImageStreams && q.CharsPerPage < 1
}

// Measure computes quality metrics over the extracted pages.
func Measure(pages []Page) ExtractionQuality {
	q := ExtractionQuality{PageCount: len(pages)}
	var all strings.Builder
	total := 0
	for _, p := range pages {
		total += len([]rune(p.Text))
		all.WriteString(p.Text)
		all.WriteByte('\n')
	}
	if q.PageCount > 0 {
		q.CharsPerPage = float64(total) / float64(q.PageCount)
	}
	text := all.String()
	q.PrintableRatio = printableRatio(text)
	q.WordlikeRatio = wordlikeRatio(text)
	return q
}

// printableRatio returns the fraction of printable runes, counting Private
// Use Area glyphs, U+FFFD, and stray control characters as garbage.
func printableRatio(text string) float64 {
	if len(text) == 0 {
		return 1.0
	}
	total, printable := 0, 0
	for _, r := range text {
		total++
		if garbageRune(r) {
			continue
		}
		if unicode.IsPrint(r) || r == '\n' || r == '\r' || r == '\t' {
			printable++
		}
	}
	if total == 0 {
		return 1.0
	}
	return float64(printable) / float64(total)
}

func garbageRune(r rune) bool {
	if r >= 0xE000 && r <= 0xF8FF {
		return true
	}
	if r == 0xFFFD {
		return true
	}
	return r < 0x0020 && r != '\n' && r != '\r' && r != '\t'
}

// wordlikeRatio returns the fraction of whitespace-split tokens with a
// plausible word length. Glyph-soup extractions score low here.
func wordlikeRatio(text string) float64 {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0
	}
	wordlike := 0
	for _, f := range fields {
		if n := len([]rune(f)); n >= 2 && n <= 15 {
			wordlike++
		}
	}
	return float64(wordlike) / float64(len(fields))
}
