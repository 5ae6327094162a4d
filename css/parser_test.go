package css_test

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"themecheck/css"
)

func TestParser_RootAndSchemes(t *testing.T) {
	p := css.NewParser(zaptest.NewLogger(t))
	sheet := p.Parse([]byte(sampleSheet), "sample.css")

	root := sheet.RootProperties(":root")
	if got := root.Value("--bg"); got != "#0E0E10" {
		t.Errorf("root --bg = %q", got)
	}

	schemes := sheet.Schemes()
	if len(schemes) != 2 || schemes[0] != "dark" || schemes[1] != "light" {
		t.Fatalf("Schemes() = %v, want [dark light]", schemes)
	}

	light := sheet.SchemeProperties("light", ":root")
	if got := light.Value("--bg"); got != "#FAFAFA" {
		t.Errorf("light --bg = %q", got)
	}
	if got := light.Value("--text"); got != "#1A1A1A" {
		t.Errorf("light --text = %q", got)
	}
}

func TestParser_AgreesWithScanner(t *testing.T) {
	p := css.NewParser(nil)
	sheet := p.Parse([]byte(sampleSheet))

	scanned := css.ParseProperties(css.ExtractConditioned(sampleSheet, "(prefers-color-scheme: dark)", ":root"))
	parsed := sheet.SchemeProperties("dark", ":root")
	if !scanned.Equal(parsed) {
		t.Errorf("scanner %v and parser %v disagree", scanned.Names(), parsed.Names())
	}
}

func TestParser_MediaQuery(t *testing.T) {
	p := css.NewParser(nil)
	sheet := p.Parse([]byte(`@media screen and (prefers-color-scheme: dark) and (min-width: 40em) { a { color: red; } }`))

	blocks := sheet.MediaBlocks()
	if len(blocks) != 1 {
		t.Fatalf("expected 1 media block, got %d", len(blocks))
	}
	mq := blocks[0].Query
	if mq.Type != "screen" {
		t.Errorf("Type = %q, want screen", mq.Type)
	}
	if mq.ColorScheme() != "dark" {
		t.Errorf("ColorScheme() = %q, want dark", mq.ColorScheme())
	}
	if v, ok := mq.Feature("min-width"); !ok || v != "40em" {
		t.Errorf("min-width = %q, %v", v, ok)
	}
	if len(blocks[0].Rules) != 1 || blocks[0].Rules[0].Declarations["color"] != "red" {
		t.Errorf("unexpected rules %+v", blocks[0].Rules)
	}
}

func TestParser_GroupedSelectors(t *testing.T) {
	p := css.NewParser(nil)
	sheet := p.Parse([]byte(`h1, h2 { margin: 0; }`))

	if len(sheet.RulesBySelector("h1")) != 1 || len(sheet.RulesBySelector("h2")) != 1 {
		t.Errorf("expected one rule per grouped selector, got %d items", len(sheet.Items))
	}
}

func TestParser_SkipsOtherAtRules(t *testing.T) {
	p := css.NewParser(nil)
	sheet := p.Parse([]byte(`@supports (display: grid) { .g { display: grid; } } :root { --bg: #000; }`))

	if got := sheet.RootProperties(":root").Value("--bg"); got != "#000" {
		t.Errorf("--bg = %q", got)
	}
	if len(sheet.Warnings) == 0 {
		t.Error("expected a warning for skipped @supports block")
	}
}

func TestStylesheet_String(t *testing.T) {
	p := css.NewParser(nil)
	sheet := p.Parse([]byte(`@media (prefers-color-scheme: light) { :root { --bg: #FAFAFA; } }`))

	out := sheet.String()
	for _, want := range []string{"@media (prefers-color-scheme: light) {", "  :root {", "    --bg: #FAFAFA;"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMediaQuery_String(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"(prefers-color-scheme: light)", "(prefers-color-scheme: light)"},
		{"(prefers-color-scheme:dark)", "(prefers-color-scheme: dark)"},
		{"screen and (min-width: 40em)", "screen and (min-width: 40em)"},
		{"not print and (color)", "not print and (color)"},
		{"print", "print"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			sheet := css.NewParser(nil).Parse([]byte("@media " + tt.in + " { a { color: red; } }"))
			blocks := sheet.MediaBlocks()
			if len(blocks) != 1 {
				t.Fatalf("expected 1 media block, got %d", len(blocks))
			}
			if got := blocks[0].Query.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStylesheet_NormalizedIsScannable(t *testing.T) {
	sheet := css.NewParser(nil).Parse([]byte(sampleSheet))
	out := sheet.String()

	for _, cond := range []string{"(prefers-color-scheme: dark)", "(prefers-color-scheme: light)"} {
		scanned := css.ParseProperties(css.ExtractConditioned(out, cond, ":root"))
		if scanned.Len() == 0 {
			t.Errorf("%s block not found in normalized output:\n%s", cond, out)
		}
	}
}
