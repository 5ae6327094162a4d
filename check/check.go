// Package check runs the named theme checks over a site's stylesheet and
// markup and reports pass/fail per check.
package check

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"go.uber.org/zap"

	"themecheck/color"
	"themecheck/config"
	"themecheck/css"
	"themecheck/markup"
	"themecheck/theme"
)

// Check groups.
const (
	GroupThemes    = "themes"
	GroupEquiv     = "equivalence"
	GroupContrast  = "contrast"
	GroupTokenizer = "tokenizer"
	GroupFonts     = "fonts"
	GroupIcons     = "icons"
)

// Result is outcome of a single named check.
type Result struct {
	Group   string
	Name    string
	Passed  bool
	Message string
}

// ID returns unique check identifier, "contrast/dark --text on --bg".
func (r Result) ID() string {
	return r.Group + "/" + r.Name
}

func pass(group, name, format string, args ...any) Result {
	return Result{Group: group, Name: name, Passed: true, Message: fmt.Sprintf(format, args...)}
}

func fail(group, name, format string, args ...any) Result {
	return Result{Group: group, Name: name, Message: fmt.Sprintf(format, args...)}
}

// Results are kept in execution order.
type Results []Result

func (rs Results) Total() int {
	return len(rs)
}

func (rs Results) Passed() int {
	n := 0
	for _, r := range rs {
		if r.Passed {
			n++
		}
	}
	return n
}

func (rs Results) Failed() int {
	return rs.Total() - rs.Passed()
}

// OK reports whether every check passed. Empty results are OK.
func (rs Results) OK() bool {
	return rs.Failed() == 0
}

// Groups returns groups present in results in execution order.
func (rs Results) Groups() []string {
	var groups []string
	seen := make(map[string]bool)
	for _, r := range rs {
		if !seen[r.Group] {
			seen[r.Group] = true
			groups = append(groups, r.Group)
		}
	}
	return groups
}

// Group returns results of a single group.
func (rs Results) Group(group string) Results {
	var out Results
	for _, r := range rs {
		if r.Group == group {
			out = append(out, r)
		}
	}
	return out
}

// Options select and parametrize checks.
type Options struct {
	Layout     theme.Layout
	Reference  string // theme fallback must mirror, empty skips equivalence
	Required   []string
	CrossCheck bool

	Background string
	Foreground []string
	Minimum    float64
	Suggest    bool

	FontDomain string
	Expect     []string
	Forbid     []string

	Icons bool
}

// DefaultOptions mirror default configuration.
func DefaultOptions() Options {
	return Options{
		Layout:     theme.DefaultLayout(),
		Reference:  theme.Dark,
		Required:   theme.Required,
		CrossCheck: true,
		Background: "--bg",
		Foreground: theme.TextProperties,
		Minimum:    color.MinContrastAA,
		Suggest:    true,
		FontDomain: markup.DefaultFontDomain,
	}
}

// OptionsFromConfig builds options out of loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Layout:     theme.Layout{Selector: cfg.Themes.Selector, Schemes: cfg.Themes.Schemes},
		Reference:  cfg.Themes.Reference,
		Required:   cfg.Themes.Required,
		CrossCheck: cfg.Themes.CrossCheck,
		Background: cfg.Contrast.Background,
		Foreground: cfg.Contrast.Foreground,
		Minimum:    cfg.Contrast.Minimum,
		Suggest:    cfg.Contrast.Suggest,
		FontDomain: cfg.Fonts.Domain,
		Expect:     cfg.Fonts.Expect,
		Forbid:     cfg.Fonts.Forbid,
		Icons:      cfg.Icons.Check,
	}
}

// Inputs are texts checks are run against.
type Inputs struct {
	Stylesheet string
	Markup     string // empty skips font and icon checks
	MarkupDir  string // base directory for icon references
}

// Suite runs checks. Not safe for concurrent use.
type Suite struct {
	opts   Options
	log    *zap.Logger
	parser *css.Parser
}

func NewSuite(opts Options, log *zap.Logger) *Suite {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("check")
	return &Suite{opts: opts, log: log, parser: css.NewParser(log)}
}

// Run executes all enabled checks. Check failures are reported in results,
// returned error is only set when ctx is done.
func (s *Suite) Run(ctx context.Context, in Inputs) (Results, error) {
	var results Results

	set := theme.Load(in.Stylesheet, s.opts.Layout)
	s.log.Debug("Themes loaded", zap.Strings("names", set.Names()))

	results = append(results, s.completeness(set)...)
	results = append(results, s.equivalence(set)...)
	results = append(results, s.contrast(set)...)
	if err := ctx.Err(); err != nil {
		return results, err
	}

	if s.opts.CrossCheck {
		// tokenizer drops comments, scanner reads declarations inside them
		scanned := theme.Load(css.StripComments(in.Stylesheet), s.opts.Layout)
		sheet := s.parser.Parse([]byte(in.Stylesheet), "stylesheet")
		results = append(results, s.tokenizer(scanned, theme.FromStylesheet(sheet, s.opts.Layout))...)
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}

	if in.Markup == "" {
		s.log.Debug("No markup, skipping font and icon checks")
		return results, nil
	}
	results = append(results, s.fonts(in.Markup)...)
	if s.opts.Icons {
		results = append(results, s.icons(in.Markup, in.MarkupDir)...)
	}
	return results, ctx.Err()
}

func (s *Suite) completeness(set theme.Set) Results {
	results := make(Results, 0, len(set))
	for _, t := range set {
		name := t.Name + " complete"
		if !t.Found {
			results = append(results, fail(GroupThemes, name, "block %s not found", blockName(t, s.opts.Layout.Selector)))
			continue
		}
		if missing := theme.Missing(t, s.opts.Required); len(missing) > 0 {
			results = append(results, fail(GroupThemes, name, "missing or empty: %s", strings.Join(missing, ", ")))
			continue
		}
		results = append(results, pass(GroupThemes, name, "%d required of %d declared", len(s.opts.Required), t.Properties.Len()))
	}
	return results
}

func (s *Suite) equivalence(set theme.Set) Results {
	if s.opts.Reference == "" {
		return nil
	}
	name := theme.Fallback + " matches " + s.opts.Reference

	fallback, _ := set.Get(theme.Fallback)
	ref, ok := set.Get(s.opts.Reference)
	if !ok {
		return Results{fail(GroupEquiv, name, "theme %q is not configured", s.opts.Reference)}
	}
	if !ref.Found || !fallback.Found {
		return Results{fail(GroupEquiv, name, "nothing to compare, theme block not found")}
	}

	diff := theme.Mismatches(ref, fallback, s.opts.Required)
	if len(diff) > 0 {
		msgs := make([]string, 0, len(diff))
		for _, m := range diff {
			msgs = append(msgs, m.String())
		}
		return Results{fail(GroupEquiv, name, "%s", strings.Join(msgs, "; "))}
	}
	return Results{pass(GroupEquiv, name, "%d properties equal", len(s.opts.Required))}
}

func (s *Suite) contrast(set theme.Set) Results {
	var results Results
	for _, t := range set {
		if !t.Found {
			continue
		}
		for _, p := range theme.Contrast(t, s.opts.Background, s.opts.Foreground) {
			results = append(results, s.contrastResult(p))
		}
	}
	return results
}

func (s *Suite) contrastResult(p theme.Pair) Result {
	name := p.Theme + " " + p.Foreground + " on " + p.Background
	if p.Err != nil {
		return fail(GroupContrast, name, "unable to evaluate %q on %q: %v", p.FG, p.BG, p.Err)
	}
	if p.Passes(s.opts.Minimum) {
		return pass(GroupContrast, name, "%.2f:1 (%s)", p.Ratio, color.GradeOf(p.Ratio))
	}

	msg := fmt.Sprintf("%.2f:1 below %.1f:1", p.Ratio, s.opts.Minimum)
	if s.opts.Suggest {
		// both values parsed already
		fg, bg := color.MustParseHex(p.FG), color.MustParseHex(p.BG)
		if c, ok := color.Suggest(fg, bg, s.opts.Minimum); ok {
			msg += fmt.Sprintf(", try %s (%.2f:1)", c.Hex(), color.ContrastRatio(c, bg))
		}
	}
	return fail(GroupContrast, name, "%s", msg)
}

func (s *Suite) tokenizer(scanned, tokenized theme.Set) Results {
	results := make(Results, 0, len(scanned))
	for _, a := range scanned {
		name := a.Name + " tokenizer agrees"
		b, _ := tokenized.Get(a.Name)
		if a.Properties.Equal(b.Properties) {
			results = append(results, pass(GroupTokenizer, name, "%d properties", a.Properties.Len()))
			continue
		}
		results = append(results, fail(GroupTokenizer, name, "differs on %s", strings.Join(differences(a, b), ", ")))
	}
	return results
}

// differences returns names declared differently in a and b in natural order.
func differences(a, b theme.Theme) []string {
	seen := make(map[string]bool)
	var names []string
	for _, t := range []theme.Theme{a, b} {
		for _, name := range t.Properties.Names() {
			if seen[name] {
				continue
			}
			seen[name] = true
			va, oka := a.Properties.Get(name)
			vb, okb := b.Properties.Get(name)
			if oka != okb || va != vb {
				names = append(names, name)
			}
		}
	}
	sort.Sort(natural.StringSlice(names))
	return names
}

func blockName(t theme.Theme, selector string) string {
	if t.Condition == "" {
		return selector
	}
	return css.MediaTag(t.Condition) + " " + selector
}
