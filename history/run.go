package history

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss/table"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"themecheck/state"
)

// List is the "history" command: prints recent runs, or results of a single
// run when its id is given.
func List(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Logger().Named("history")

	db := cmd.String("history")
	if len(db) == 0 {
		db = env.Cfg.History.Destination
	}
	if len(db) == 0 {
		return errors.New("history database is not configured")
	}
	if _, err := os.Stat(db); err != nil {
		return fmt.Errorf("unable to open history: %w", err)
	}

	store, err := Open(db, log)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, store.Close())
	}()

	if id := cmd.Args().Get(0); len(id) > 0 {
		entries, err := store.Results(id)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return fmt.Errorf("run %s not found", id)
		}
		_, err = fmt.Fprintln(os.Stdout, ResultsTable(entries))
		return err
	}

	runs, err := store.Recent(int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	log.Debug("Runs read", zap.Int("count", len(runs)))
	_, err = fmt.Fprintln(os.Stdout, RunsTable(runs))
	return err
}

// RunsTable renders runs as a table.
func RunsTable(runs []Run) string {
	t := table.New().Headers("RUN", "STARTED", "ELAPSED", "STYLESHEET", "PASSED", "FAILED")
	for _, r := range runs {
		t.Row(r.ID, r.Started.Format(time.DateTime), r.Elapsed.Round(time.Millisecond).String(), r.Stylesheet,
			strconv.Itoa(r.Total-r.Failed), strconv.Itoa(r.Failed))
	}
	return t.String()
}

// ResultsTable renders entries of a single run as a table.
func ResultsTable(entries []Entry) string {
	t := table.New().Headers("", "GROUP", "CHECK", "MESSAGE")
	for _, e := range entries {
		mark := "PASS"
		if !e.Passed {
			mark = "FAIL"
		}
		t.Row(mark, e.Group, e.Name, e.Message)
	}
	return t.String()
}
