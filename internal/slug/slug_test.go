package slug

import "testing"

func TestMake_Basic(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Introduction", "introduction"},
		{"Getting Started", "getting-started"},
		{"Setup", "setup"},
		{"API Reference (v2)", "api-reference-v2"},
		{"What's New?", "whats-new"},
		{"Config: Advanced", "config-advanced"},
	}
	for _, c := range cases {
		if got := Make(c.in); got != c.want {
			t.Errorf("Make(%q): expected %q, got %q", c.in, c.want, got)
		}
	}
}

func TestMake_ValidSlugUnchanged(t *testing.T) {
	// A string that is already a valid slug must pass through untouched.
	for _, s := range []string{"introduction", "getting-started", "a-b-c", "setup-2"} {
		if got := Make(s); got != s {
			t.Errorf("Make(%q): expected it unchanged, got %q", s, got)
		}
	}
}

func TestMake_HyphenatedTitle(t *testing.T) {
	// Spaces around an existing hyphen each become their own hyphen;
	// runs are not collapsed.
	if got := Make("Alpha - Beta"); got != "alpha---beta" {
		t.Errorf("expected %q, got %q", "alpha---beta", got)
	}
}

func TestMake_UnicodeLetters(t *testing.T) {
	if got := Make("Résumé Tips"); got != "résumé-tips" {
		t.Errorf("expected %q, got %q", "résumé-tips", got)
	}
}

func TestMake_Empty(t *testing.T) {
	if got := Make(""); got != "" {
		t.Errorf("expected empty slug, got %q", got)
	}
}
