// Package outpath names output files so repeated conversions of the same
// document never clobber earlier results.
package outpath

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Ext is the output file extension.
const Ext = ".md"

// Unique returns a path under dir that exists reports free. Candidates are
// "{stem} ({letter}_{Mon_DD}).md" for letters a through z; a day that
// produces more than 26 conversions of one stem falls back to
// "{stem} ({HHMMSS}_{Mon_DD}).md".
func Unique(dir, stem string, now time.Time, exists func(string) bool) string {
	date := now.Format("Jan_02")
	for letter := 'a'; letter <= 'z'; letter++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%c_%s)%s", stem, letter, date, Ext))
		if !exists(candidate) {
			return candidate
		}
	}
	return filepath.Join(dir, fmt.Sprintf("%s (%s_%s)%s", stem, now.Format("150405"), date, Ext))
}

// UniquePath is Unique against the real filesystem and clock.
func UniquePath(dir, stem string) string {
	return Unique(dir, stem, time.Now(), func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	})
}
