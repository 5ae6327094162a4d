package css_test

import (
	"reflect"
	"testing"

	"themecheck/css"
)

func TestParseProperties(t *testing.T) {
	block := `
    --bg: #0E0E10;
    --surface :  #17171A ;
    --font-body: "Roboto", system-ui, sans-serif;
    --shadow: 0 1px 2px rgba(0, 0, 0, 0.4);
    color: var(--text);
    --accent: var(--brand)`

	props := css.ParseProperties(block)

	wantNames := []string{"--bg", "--surface", "--font-body", "--shadow", "--accent"}
	if got := props.Names(); !reflect.DeepEqual(got, wantNames) {
		t.Errorf("Names() = %v, want %v", got, wantNames)
	}

	tests := map[string]string{
		"--bg":        "#0E0E10",
		"--surface":   "#17171A",
		"--font-body": `"Roboto", system-ui, sans-serif`,
		"--shadow":    "0 1px 2px rgba(0, 0, 0, 0.4)",
		"--accent":    "var(--brand)",
	}
	for name, want := range tests {
		got, ok := props.Get(name)
		if !ok {
			t.Errorf("%s missing", name)
			continue
		}
		if got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
	if props.Has("color") {
		t.Error("regular property must not be collected")
	}
}

func TestParseProperties_Empty(t *testing.T) {
	for _, block := range []string{"", "   \n\t", "color: red;"} {
		props := css.ParseProperties(block)
		if props.Len() != 0 {
			t.Errorf("ParseProperties(%q) returned %d properties", block, props.Len())
		}
	}
}

func TestParseProperties_EscapedSemicolon(t *testing.T) {
	props := css.ParseProperties(`--sep: "a\;b"; --next: 1;`)
	if got := props.Value("--sep"); got != `"a\;b"` {
		t.Errorf("--sep = %q", got)
	}
	if got := props.Value("--next"); got != "1" {
		t.Errorf("--next = %q", got)
	}
}

func TestParseProperties_Duplicate(t *testing.T) {
	props := css.ParseProperties(`--bg: #111; --text: #EEE; --bg: #222;`)
	if got := props.Value("--bg"); got != "#222" {
		t.Errorf("--bg = %q, want last declaration", got)
	}
	if got := props.Names(); !reflect.DeepEqual(got, []string{"--bg", "--text"}) {
		t.Errorf("Names() = %v", got)
	}
}

func TestPropertyMap_Equal(t *testing.T) {
	a := css.ParseProperties(`--bg: #000; --text: #FFF;`)
	b := css.ParseProperties(`--text: #FFF; --bg: #000;`)
	c := css.ParseProperties(`--bg: #000; --text: #EEE;`)

	if !a.Equal(b) {
		t.Error("maps differing only in order must be equal")
	}
	if a.Equal(c) {
		t.Error("maps with different values must not be equal")
	}

	var zero css.PropertyMap
	zero.Set("--bg", "#000")
	if zero.Value("--bg") != "#000" {
		t.Error("zero PropertyMap must be usable")
	}
}
