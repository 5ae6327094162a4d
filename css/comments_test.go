package css_test

import (
	"testing"

	"themecheck/css"
)

func TestStripComments(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no comments", ":root { --bg: #000; }", ":root { --bg: #000; }"},
		{"commented declaration", ":root { /* --old: #fff; */ --bg: #000; }", ":root {   --bg: #000; }"},
		{"comment in value", ":root { --bg: #000/* dark */; }", ":root { --bg: #000 ; }"},
		{"string keeps marker", `:root { --quote: "/* not a comment */"; }`, `:root { --quote: "/* not a comment */"; }`},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := css.StripComments(tt.in); got != tt.want {
				t.Errorf("StripComments(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStripComments_ScannerSkipsCommentedProperties(t *testing.T) {
	src := ":root { /* --old: #fff; */ --bg: #000; }"

	if !css.ParseProperties(css.ExtractRoot(src, ":root")).Has("--old") {
		t.Fatal("scanner is expected to see declarations inside comments")
	}
	props := css.ParseProperties(css.ExtractRoot(css.StripComments(src), ":root"))
	if props.Has("--old") || props.Value("--bg") != "#000" {
		t.Errorf("unexpected properties %v", props.Names())
	}
}
