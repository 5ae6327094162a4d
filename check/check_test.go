package check

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
)

func loadInputs(t *testing.T) Inputs {
	t.Helper()

	css, err := os.ReadFile(filepath.Join("testdata", "styles.css"))
	if err != nil {
		t.Fatalf("Failed to read stylesheet: %v", err)
	}
	html, err := os.ReadFile(filepath.Join("testdata", "index.html"))
	if err != nil {
		t.Fatalf("Failed to read markup: %v", err)
	}
	return Inputs{Stylesheet: string(css), Markup: string(html), MarkupDir: "testdata"}
}

func find(t *testing.T, results Results, id string) Result {
	t.Helper()
	for _, r := range results {
		if r.ID() == id {
			return r
		}
	}
	t.Fatalf("Check %q not found in results", id)
	return Result{}
}

const brokenSheet = `:root {
  --bg: #0E0E10; --surface: #17171A; --border: #2A2A30; --accent: #FFFFFF;
  --text: #EDEDED; --text-dim: #A1A1AA; --text-meta: #8A8A93;
}
@media (prefers-color-scheme: dark) {
  :root {
    --bg: #0E0E10; --surface: #17171A; --border: #2A2A30; --accent: #E8B15D;
    --text: #EDEDED; --text-dim: #A1A1AA; --text-meta: #8A8A93;
  }
}
@media (prefers-color-scheme: light) {
  :root {
    --bg: #FAFAFA; --surface: #FFFFFF; --accent: #9A5B00;
    --text: #1A1A1A; --text-dim: #52525B; --text-meta: #9A9AA0;
  }
}
`

func TestSuite_SiteStylesheetPasses(t *testing.T) {
	opts := DefaultOptions()
	opts.Expect = []string{"Roboto"}
	opts.Forbid = []string{"DM Serif Display"}

	results, err := NewSuite(opts, zaptest.NewLogger(t)).Run(context.Background(), loadInputs(t))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, r := range results {
		if !r.Passed {
			t.Errorf("Check %s failed: %s", r.ID(), r.Message)
		}
	}
	if !results.OK() {
		t.Fatal("Expected all checks to pass")
	}

	// 3 completeness, 1 equivalence, 9 contrast, 3 tokenizer, 1 link, 1 expect, 1 forbid
	if results.Total() != 19 {
		t.Errorf("Total() = %d, want 19", results.Total())
	}
	want := []string{GroupThemes, GroupEquiv, GroupContrast, GroupTokenizer, GroupFonts}
	if got := results.Groups(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Groups() = %v, want %v", got, want)
	}
}

func TestSuite_ContrastPerThemeAndText(t *testing.T) {
	results, err := NewSuite(DefaultOptions(), nil).Run(context.Background(), loadInputs(t))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	contrast := results.Group(GroupContrast)
	if len(contrast) != 9 {
		t.Fatalf("Expected 9 contrast checks, got %d", len(contrast))
	}
	for _, theme := range []string{"fallback", "dark", "light"} {
		for _, fg := range []string{"--text", "--text-dim", "--text-meta"} {
			r := find(t, results, "contrast/"+theme+" "+fg+" on --bg")
			if !r.Passed {
				t.Errorf("%s: %s", r.ID(), r.Message)
			}
		}
	}

	r := find(t, results, "contrast/light --text-meta on --bg")
	if !strings.HasPrefix(r.Message, "5.06:1") {
		t.Errorf("Unexpected message %q", r.Message)
	}
}

func TestSuite_Failures(t *testing.T) {
	opts := DefaultOptions()
	results, err := NewSuite(opts, zaptest.NewLogger(t)).Run(context.Background(), Inputs{Stylesheet: brokenSheet})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if results.OK() {
		t.Fatal("Expected failures")
	}

	tests := []struct {
		id     string
		passed bool
		msg    string
	}{
		{"themes/fallback complete", true, ""},
		{"themes/dark complete", true, ""},
		{"themes/light complete", false, "--border"},
		{"equivalence/fallback matches dark", false, `--accent: "#FFFFFF", want "#E8B15D"`},
		{"contrast/light --text-meta on --bg", false, "below 4.5:1, try #"},
		{"contrast/light --text on --bg", true, "AAA"},
		{"tokenizer/light tokenizer agrees", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			r := find(t, results, tt.id)
			if r.Passed != tt.passed {
				t.Errorf("Passed = %v, want %v (%s)", r.Passed, tt.passed, r.Message)
			}
			if !strings.Contains(r.Message, tt.msg) {
				t.Errorf("Message = %q, want it to contain %q", r.Message, tt.msg)
			}
		})
	}

	for _, r := range results.Group(GroupFonts) {
		t.Errorf("Unexpected font check without markup: %s", r.ID())
	}
}

func TestSuite_SuggestionDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.Suggest = false

	results, err := NewSuite(opts, nil).Run(context.Background(), Inputs{Stylesheet: brokenSheet})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	r := find(t, results, "contrast/light --text-meta on --bg")
	if strings.Contains(r.Message, "try") {
		t.Errorf("Unexpected suggestion in %q", r.Message)
	}
}

func TestSuite_MissingBlocks(t *testing.T) {
	results, err := NewSuite(DefaultOptions(), nil).Run(context.Background(), Inputs{Stylesheet: `body { color: red; }`})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	r := find(t, results, "themes/light complete")
	if r.Passed || r.Message != "block @media (prefers-color-scheme: light) :root not found" {
		t.Errorf("Unexpected result %+v", r)
	}
	r = find(t, results, "themes/fallback complete")
	if r.Passed || r.Message != "block :root not found" {
		t.Errorf("Unexpected result %+v", r)
	}
	r = find(t, results, "equivalence/fallback matches dark")
	if r.Passed {
		t.Error("Equivalence must fail without blocks")
	}
	if n := len(results.Group(GroupContrast)); n != 0 {
		t.Errorf("Expected no contrast checks for absent themes, got %d", n)
	}
}

func TestSuite_InvalidColour(t *testing.T) {
	sheet := strings.Replace(brokenSheet, "--text: #1A1A1A", "--text: var(--ink)", 1)

	results, err := NewSuite(DefaultOptions(), nil).Run(context.Background(), Inputs{Stylesheet: sheet})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	r := find(t, results, "contrast/light --text on --bg")
	if r.Passed || !strings.Contains(r.Message, "unable to evaluate") {
		t.Errorf("Unexpected result %+v", r)
	}
}

func TestSuite_ReferenceDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.Reference = ""
	opts.CrossCheck = false

	results, err := NewSuite(opts, nil).Run(context.Background(), Inputs{Stylesheet: brokenSheet})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if n := len(results.Group(GroupEquiv)); n != 0 {
		t.Errorf("Expected no equivalence checks, got %d", n)
	}
	if n := len(results.Group(GroupTokenizer)); n != 0 {
		t.Errorf("Expected no tokenizer checks, got %d", n)
	}
}

func TestSuite_UnknownReference(t *testing.T) {
	opts := DefaultOptions()
	opts.Reference = "sepia"

	results, err := NewSuite(opts, nil).Run(context.Background(), Inputs{Stylesheet: brokenSheet})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	r := find(t, results, "equivalence/fallback matches sepia")
	if r.Passed || !strings.Contains(r.Message, "not configured") {
		t.Errorf("Unexpected result %+v", r)
	}
}

func TestSuite_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSuite(DefaultOptions(), nil).Run(ctx, loadInputs(t))
	if err == nil {
		t.Error("Expected error for canceled context")
	}
}

func TestResults_Counters(t *testing.T) {
	results := Results{
		{Group: "a", Name: "1", Passed: true},
		{Group: "b", Name: "2"},
		{Group: "a", Name: "3", Passed: true},
	}

	if results.Total() != 3 || results.Passed() != 2 || results.Failed() != 1 || results.OK() {
		t.Errorf("Unexpected counters: total=%d passed=%d failed=%d", results.Total(), results.Passed(), results.Failed())
	}
	if got := results.Group("a"); len(got) != 2 {
		t.Errorf("Group(a) = %v", got)
	}
	if !(Results{}).OK() {
		t.Error("Empty results must be OK")
	}
}

func TestSuite_CommentedPropertyAgrees(t *testing.T) {
	sheet := strings.Replace(loadInputs(t).Stylesheet, ":root {", ":root {\n  /* --old: #fff; */", 1)

	results, err := NewSuite(DefaultOptions(), zaptest.NewLogger(t)).Run(context.Background(), Inputs{Stylesheet: sheet})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	r := find(t, results, "tokenizer/fallback tokenizer agrees")
	if !r.Passed {
		t.Errorf("Unexpected result %+v", r)
	}
	if !results.OK() {
		for _, r := range results {
			if !r.Passed {
				t.Errorf("Check %s failed: %s", r.ID(), r.Message)
			}
		}
	}
}
