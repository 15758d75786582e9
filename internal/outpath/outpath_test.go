package outpath

import (
	"path/filepath"
	"testing"
	"time"
)

var mar14 = time.Date(2026, time.March, 14, 9, 30, 5, 0, time.UTC)

func existing(paths ...string) func(string) bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	return func(p string) bool { return set[p] }
}

func TestUnique_FirstLetter(t *testing.T) {
	got := Unique("/out", "guide", mar14, existing())
	want := filepath.Join("/out", "guide (a_Mar_14).md")
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestUnique_SkipsTakenLetters(t *testing.T) {
	got := Unique("/out", "guide", mar14, existing(
		filepath.Join("/out", "guide (a_Mar_14).md"),
		filepath.Join("/out", "guide (b_Mar_14).md"),
	))
	want := filepath.Join("/out", "guide (c_Mar_14).md")
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestUnique_TimestampFallback(t *testing.T) {
	var taken []string
	for letter := 'a'; letter <= 'z'; letter++ {
		taken = append(taken, filepath.Join("/out", "guide ("+string(letter)+"_Mar_14).md"))
	}
	got := Unique("/out", "guide", mar14, existing(taken...))
	want := filepath.Join("/out", "guide (093005_Mar_14).md")
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestUnique_ZeroPaddedDay(t *testing.T) {
	jan3 := time.Date(2026, time.January, 3, 0, 0, 0, 0, time.UTC)
	got := Unique("/out", "doc", jan3, existing())
	want := filepath.Join("/out", "doc (a_Jan_03).md")
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
