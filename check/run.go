package check

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"themecheck/archive"
	"themecheck/color"
	"themecheck/config"
	"themecheck/css"
	"themecheck/history"
	"themecheck/state"
	"themecheck/theme"
)

// Run is the "check" command: runs the whole suite and fails when any check
// fails.
func Run(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Logger().Named("check")

	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many sources", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		src = env.Cfg.Sources.Stylesheet
	}
	stylesheet, err := readSource(src)
	if err != nil {
		return fmt.Errorf("unable to read stylesheet: %w", err)
	}
	storeInput(env.Rpt, src, stylesheet)

	in := Inputs{Stylesheet: stylesheet}

	page, explicit := cmd.Args().Get(1), true
	if len(page) == 0 {
		page, explicit = env.Cfg.Sources.Markup, false
	}
	if len(page) > 0 {
		data, err := readSource(page)
		switch {
		case err == nil:
			in.Markup, in.MarkupDir = data, filepath.Dir(page)
			storeInput(env.Rpt, page, data)
		case !explicit && errors.Is(err, os.ErrNotExist):
			log.Warn("Markup not found, skipping font and icon checks", zap.String("file", page))
		default:
			return fmt.Errorf("unable to read markup: %w", err)
		}
	}

	opts := OptionsFromConfig(env.Cfg)
	if cmd.IsSet("min") {
		opts.Minimum = cmd.Float("min")
	}

	log.Info("Checking starting", zap.String("stylesheet", src), zap.String("markup", page), zap.Float64("minimum", opts.Minimum))
	start := time.Now()

	results, err := NewSuite(opts, log).Run(ctx, in)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	log.Info("Checking completed", zap.Duration("elapsed", elapsed), zap.Int("passed", results.Passed()), zap.Int("failed", results.Failed()))

	for _, r := range results {
		if !r.Passed {
			log.Debug("Check failed", zap.String("check", r.ID()), zap.String("message", r.Message))
		}
	}

	p := NewPrinter(os.Stdout, !env.NoColor && config.EnableColorOutput(os.Stdout))
	if err := p.Results(results); err != nil {
		return fmt.Errorf("unable to print results: %w", err)
	}
	summary, err := Summary(env.Cfg.Output.SummaryTemplate, results, elapsed, env.RunID.String())
	if err != nil {
		return fmt.Errorf("unable to expand summary: %w", err)
	}
	if err := p.Line(summary); err != nil {
		return fmt.Errorf("unable to print results: %w", err)
	}

	if env.Rpt != nil {
		storeResults(env.Rpt, results, elapsed, stylesheet, log)
	}

	junit := cmd.String("junit")
	if len(junit) == 0 {
		junit = env.Cfg.Output.JUnit
	}
	if len(junit) > 0 {
		if err := writeJUnitFile(junit, results, elapsed); err != nil {
			return err
		}
		log.Debug("JUnit report written", zap.String("file", junit))
	}

	db := cmd.String("history")
	if len(db) == 0 {
		db = env.Cfg.History.Destination
	}
	if len(db) > 0 {
		run := history.Run{
			ID:         env.RunID.String(),
			Started:    start,
			Elapsed:    elapsed,
			Stylesheet: src,
			Total:      results.Total(),
			Failed:     results.Failed(),
		}
		if err := record(db, env.Cfg.History.Keep, run, results, log); err != nil {
			// history is auxiliary, verdict stands
			log.Warn("Unable to record run history", zap.String("db", db), zap.Error(err))
		}
	}

	if !results.OK() {
		return fmt.Errorf("%d of %d checks failed", results.Failed(), results.Total())
	}
	return nil
}

// Contrast is the "contrast" command: evaluates a single colour pair.
func Contrast(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Logger().Named("contrast")

	if cmd.Args().Len() != 2 {
		return errors.New("foreground and background colours are required")
	}
	fg, err := color.ParseHex(cmd.Args().Get(0))
	if err != nil {
		return err
	}
	bg, err := color.ParseHex(cmd.Args().Get(1))
	if err != nil {
		return err
	}

	minimum := env.Cfg.Contrast.Minimum
	if cmd.IsSet("min") {
		minimum = cmd.Float("min")
	}

	ratio := color.ContrastRatio(fg, bg)
	log.Debug("Contrast evaluated", zap.Stringer("fg", fg), zap.Stringer("bg", bg), zap.Float64("ratio", ratio))

	p := NewPrinter(os.Stdout, !env.NoColor && config.EnableColorOutput(os.Stdout))
	line := fmt.Sprintf("%s %s %.2f:1 %s", p.Verdict(ratio >= minimum), p.Swatch(fg, bg, fg.Hex()+" on "+bg.Hex()), ratio, color.GradeOf(ratio))
	if err := p.Line(line); err != nil {
		return err
	}
	if ratio >= minimum {
		return nil
	}

	if c, ok := color.Suggest(fg, bg, minimum); ok {
		if err := p.Line(fmt.Sprintf("try %s %.2f:1", p.Swatch(c, bg, c.Hex()), color.ContrastRatio(c, bg))); err != nil {
			return err
		}
	}
	return fmt.Errorf("contrast %.2f:1 is below %.1f:1", ratio, minimum)
}

// Dump is the "dump" command: prints themes found in the stylesheet or
// normalized stylesheet.
func Dump(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Logger().Named("dump")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		src = env.Cfg.Sources.Stylesheet
	}
	stylesheet, err := readSource(src)
	if err != nil {
		return fmt.Errorf("unable to read stylesheet: %w", err)
	}

	layout := theme.Layout{Selector: env.Cfg.Themes.Selector, Schemes: env.Cfg.Themes.Schemes}

	switch {
	case cmd.Bool("normalized"):
		sheet := css.NewParser(log).Parse([]byte(stylesheet), src)
		for _, w := range sheet.Warnings {
			log.Warn("Stylesheet", zap.String("warning", w))
		}
		_, err = sheet.WriteTo(os.Stdout)
	case cmd.Bool("tokenizer"):
		sheet := css.NewParser(log).Parse([]byte(stylesheet), src)
		_, err = fmt.Fprint(os.Stdout, theme.Dump(theme.FromStylesheet(sheet, layout), layout.Selector))
	default:
		_, err = fmt.Fprint(os.Stdout, theme.Dump(theme.Load(stylesheet, layout), layout.Selector))
	}
	if err != nil {
		return fmt.Errorf("unable to write dump: %w", err)
	}
	return nil
}

func readSource(path string) (string, error) {
	data, err := archive.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// reportName makes archive entry name out of a file path.
func reportName(dir, path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return dir + "/" + slug.Make(strings.TrimSuffix(base, ext)) + strings.ToLower(ext)
}

// storeInput puts source into report. Files inside archives cannot be
// reached by path when report is finalized, their content is stored instead.
func storeInput(rpt *config.Report, path, content string) {
	if rpt == nil {
		return
	}
	name := reportName("input", path)
	if _, tail, err := archive.Split(path); err == nil && len(tail) > 0 {
		rpt.StoreData(name, []byte(content))
		return
	}
	rpt.Store(name, path)
}

func storeResults(rpt *config.Report, results Results, elapsed time.Duration, stylesheet string, log *zap.Logger) {
	text := new(bytes.Buffer)
	if err := NewPrinter(text, false).Results(results); err == nil {
		rpt.StoreData("results.txt", text.Bytes())
	}

	xml := new(bytes.Buffer)
	if err := WriteJUnit(xml, results, elapsed); err == nil {
		rpt.StoreData("results.xml", xml.Bytes())
	}

	sheet := css.NewParser(log).Parse([]byte(stylesheet), "stylesheet")
	rpt.StoreData("normalized.css", []byte(sheet.String()))
}

func writeJUnitFile(path string, results Results, elapsed time.Duration) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("unable to create junit directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create junit report: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	return WriteJUnit(f, results, elapsed)
}

// Entries converts results for history.
func (rs Results) Entries() []history.Entry {
	entries := make([]history.Entry, 0, len(rs))
	for _, r := range rs {
		entries = append(entries, history.Entry{Group: r.Group, Name: r.Name, Passed: r.Passed, Message: r.Message})
	}
	return entries
}

func record(path string, keep int, run history.Run, results Results, log *zap.Logger) (err error) {
	store, err := history.Open(path, log)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, store.Close())
	}()

	if err = store.Record(run, results.Entries()); err != nil {
		return err
	}
	return store.Prune(keep)
}
