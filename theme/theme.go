// Package theme assembles named custom property sets out of a stylesheet and
// checks them for completeness, equivalence and contrast.
package theme

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"themecheck/color"
	"themecheck/css"
)

// Well known theme names.
const (
	Fallback = "fallback"
	Dark     = "dark"
	Light    = "light"
)

// Required lists custom properties every theme of the site must declare.
var Required = []string{"--bg", "--surface", "--border", "--accent", "--text", "--text-dim", "--text-meta"}

// TextProperties are foregrounds checked against the background.
var TextProperties = []string{"--text", "--text-dim", "--text-meta"}

// Layout describes where themes live in the stylesheet.
type Layout struct {
	Selector string   // selector holding custom properties, ":root"
	Schemes  []string // prefers-color-scheme values, "dark", "light"
}

// DefaultLayout is the layout of the portfolio stylesheet.
func DefaultLayout() Layout {
	return Layout{Selector: ":root", Schemes: []string{Dark, Light}}
}

// Condition returns the literal media condition for scheme.
func Condition(scheme string) string {
	return "(prefers-color-scheme: " + scheme + ")"
}

// Theme is a named set of custom properties.
type Theme struct {
	Name       string
	Condition  string // empty for the fallback theme
	Found      bool   // false when the block is absent from the stylesheet
	Properties css.PropertyMap
}

// DisplayName returns capitalized theme name for reports.
func (t Theme) DisplayName() string {
	return cases.Title(language.English).String(t.Name)
}

// Set keeps themes in the order they were loaded: fallback first, then
// schemes in layout order.
type Set []Theme

// Get returns the theme with the given name.
func (s Set) Get(name string) (Theme, bool) {
	for _, t := range s {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// Names returns theme names in set order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for _, t := range s {
		names = append(names, t.Name)
	}
	return names
}

// Load extracts the fallback theme and one theme per scheme from stylesheet.
// Absent blocks produce themes with Found unset and no properties.
func Load(stylesheet string, layout Layout) Set {
	set := make(Set, 0, len(layout.Schemes)+1)

	span, ok := css.RootSpan(stylesheet, layout.Selector)
	fallback := Theme{Name: Fallback, Found: ok, Properties: css.NewPropertyMap()}
	if ok {
		fallback.Properties = css.ParseProperties(span.Text(stylesheet))
	}
	set = append(set, fallback)

	for _, scheme := range layout.Schemes {
		cond := Condition(scheme)
		span, ok := css.ConditionedSpan(stylesheet, cond, layout.Selector)
		t := Theme{Name: scheme, Condition: cond, Found: ok, Properties: css.NewPropertyMap()}
		if ok {
			t.Properties = css.ParseProperties(span.Text(stylesheet))
		}
		set = append(set, t)
	}
	return set
}

// FromStylesheet builds the same set from a tokenizer level stylesheet.
func FromStylesheet(sheet *css.Stylesheet, layout Layout) Set {
	set := make(Set, 0, len(layout.Schemes)+1)

	root := sheet.RootProperties(layout.Selector)
	set = append(set, Theme{Name: Fallback, Found: len(sheet.RulesBySelector(layout.Selector)) > 0, Properties: root})

	for _, scheme := range layout.Schemes {
		found := len(sheet.SchemeRules(scheme, layout.Selector)) > 0
		props := sheet.SchemeProperties(scheme, layout.Selector)
		set = append(set, Theme{Name: scheme, Condition: Condition(scheme), Found: found, Properties: props})
	}
	return set
}

// Missing returns required names which are absent from t or declared empty.
func Missing(t Theme, required []string) []string {
	var missing []string
	for _, name := range required {
		if v, ok := t.Properties.Get(name); !ok || v == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// Complete reports whether t declares every required name with a value.
func Complete(t Theme, required []string) bool {
	return len(Missing(t, required)) == 0
}

// Mismatch is a property whose value differs between two themes.
type Mismatch struct {
	Name  string
	Want  string // value in the reference theme
	Got   string // value in the checked theme
	Found bool   // property declared in the checked theme
}

func (m Mismatch) String() string {
	if !m.Found {
		return fmt.Sprintf("%s: missing, want %q", m.Name, m.Want)
	}
	return fmt.Sprintf("%s: %q, want %q", m.Name, m.Got, m.Want)
}

// Mismatches compares got against want for every key using exact string
// equality.
func Mismatches(want, got Theme, keys []string) []Mismatch {
	var diff []Mismatch
	for _, name := range keys {
		w := want.Properties.Value(name)
		g, ok := got.Properties.Get(name)
		if !ok || g != w {
			diff = append(diff, Mismatch{Name: name, Want: w, Got: g, Found: ok})
		}
	}
	return diff
}

// Equivalent reports whether both themes agree on every key.
func Equivalent(a, b Theme, keys []string) bool {
	return len(Mismatches(a, b, keys)) == 0
}

// Pair is a foreground/background combination evaluated for contrast.
type Pair struct {
	Theme      string
	Foreground string // property name
	Background string // property name
	FG, BG     string // declared values
	Ratio      float64
	Err        error
}

// Passes reports whether the pair reaches minimum.
func (p Pair) Passes(minimum float64) bool {
	return p.Err == nil && p.Ratio >= minimum
}

// Contrast evaluates every foreground property of t against background.
// Values which are not hex colours produce pairs with Err set.
func Contrast(t Theme, background string, foregrounds []string) []Pair {
	pairs := make([]Pair, 0, len(foregrounds))
	for _, fg := range foregrounds {
		p := Pair{
			Theme:      t.Name,
			Foreground: fg,
			Background: background,
			FG:         t.Properties.Value(fg),
			BG:         t.Properties.Value(background),
		}
		p.Ratio, p.Err = color.ContrastHex(p.FG, p.BG)
		pairs = append(pairs, p)
	}
	return pairs
}
