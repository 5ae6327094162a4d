package check

import (
	"bytes"
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/charmbracelet/lipgloss"
	sprig "github.com/go-task/slim-sprig/v3"

	"themecheck/color"
	"themecheck/config"
)

// Printer writes human readable results.
type Printer struct {
	out    io.Writer
	styled bool

	pass, fail, group, dim lipgloss.Style
}

// NewPrinter creates printer for out, styled output is produced only when
// colors is set.
func NewPrinter(out io.Writer, colors bool) *Printer {
	p := &Printer{out: out, styled: colors}
	if !colors {
		return p
	}
	r := lipgloss.NewRenderer(out)
	p.pass = r.NewStyle().Bold(true).Foreground(lipgloss.Color("#A0F077"))
	p.fail = r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF4D4D"))
	p.group = r.NewStyle().Underline(true)
	p.dim = r.NewStyle().Foreground(lipgloss.Color("240"))
	return p
}

func (p *Printer) render(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

// Results prints results grouped, one line per check.
func (p *Printer) Results(results Results) error {
	for _, group := range results.Groups() {
		if _, err := fmt.Fprintln(p.out, p.render(p.group, group)); err != nil {
			return err
		}
		for _, r := range results.Group(group) {
			mark := p.render(p.pass, "PASS")
			if !r.Passed {
				mark = p.render(p.fail, "FAIL")
			}
			if _, err := fmt.Fprintf(p.out, "  %s %s %s\n", mark, r.Name, p.render(p.dim, r.Message)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Line prints a single line as is.
func (p *Printer) Line(text string) error {
	_, err := fmt.Fprintln(p.out, text)
	return err
}

// Swatch renders text in fg on bg.
func (p *Printer) Swatch(fg, bg color.Color, text string) string {
	if !p.styled {
		return text
	}
	return p.pass.UnsetBold().
		Foreground(lipgloss.Color(fg.Hex())).
		Background(lipgloss.Color(bg.Hex())).
		Padding(0, 1).
		Render(text)
}

// Verdict renders pass/fail mark.
func (p *Printer) Verdict(ok bool) string {
	if ok {
		return p.render(p.pass, "PASS")
	}
	return p.render(p.fail, "FAIL")
}

// SummaryValues is a struct that holds variables we make available for
// summary template expansion.
type SummaryValues struct {
	Total    int
	Passed   int
	Failed   int
	OK       bool
	Elapsed  time.Duration
	Failures []string
	RunID    string
}

// Summary expands summary template.
func Summary(field string, results Results, elapsed time.Duration, runID string) (string, error) {
	tmpl, err := template.New(string(config.SummaryTemplateFieldName)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", config.SummaryTemplateFieldName, err)
	}

	values := SummaryValues{
		Total:   results.Total(),
		Passed:  results.Passed(),
		Failed:  results.Failed(),
		OK:      results.OK(),
		Elapsed: elapsed.Round(time.Microsecond),
		RunID:   runID,
	}
	for _, r := range results {
		if !r.Passed {
			values.Failures = append(values.Failures, r.ID())
		}
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
