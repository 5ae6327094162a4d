// Package history keeps results of previous check runs in SQLite database.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	started    INTEGER NOT NULL,
	elapsed    INTEGER NOT NULL,
	stylesheet TEXT NOT NULL,
	total      INTEGER NOT NULL,
	failed     INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
	run_id  TEXT NOT NULL,
	seq     INTEGER NOT NULL,
	grp     TEXT NOT NULL,
	name    TEXT NOT NULL,
	passed  INTEGER NOT NULL,
	message TEXT NOT NULL,
	PRIMARY KEY (run_id, seq)
);
CREATE INDEX IF NOT EXISTS runs_started ON runs(started);
`

// Run is a single recorded suite execution.
type Run struct {
	ID         string
	Started    time.Time
	Elapsed    time.Duration
	Stylesheet string
	Total      int
	Failed     int
}

// Entry is a recorded check outcome.
type Entry struct {
	Group   string
	Name    string
	Passed  bool
	Message string
}

// Store wraps single database connection. Not safe for concurrent use.
type Store struct {
	conn *sqlite.Conn
	log  *zap.Logger
}

// Open opens (creating if necessary) history database at path.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("unable to create history directory: %w", err)
	}

	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate, sqlite.OpenWAL)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("prepare history schema: %w", err)
	}
	return &Store{conn: conn, log: log.Named("history")}, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

// Record stores run with its entries atomically.
func (s *Store) Record(run Run, entries []Entry) (err error) {
	defer sqlitex.Save(s.conn)(&err)

	err = sqlitex.Execute(s.conn,
		`INSERT INTO runs (id, started, elapsed, stylesheet, total, failed) VALUES (?, ?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{Args: []any{run.ID, run.Started.UnixMilli(), int64(run.Elapsed), run.Stylesheet, run.Total, run.Failed}})
	if err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}

	for i, e := range entries {
		err = sqlitex.Execute(s.conn,
			`INSERT INTO results (run_id, seq, grp, name, passed, message) VALUES (?, ?, ?, ?, ?, ?)`,
			&sqlitex.ExecOptions{Args: []any{run.ID, i, e.Group, e.Name, boolInt(e.Passed), e.Message}})
		if err != nil {
			return fmt.Errorf("record result %s/%s: %w", e.Group, e.Name, err)
		}
	}
	s.log.Debug("Run recorded", zap.String("id", run.ID), zap.Int("results", len(entries)))
	return nil
}

// Prune removes all but keep most recent runs. Zero keep retains everything.
func (s *Store) Prune(keep int) (err error) {
	if keep <= 0 {
		return nil
	}
	defer sqlitex.Save(s.conn)(&err)

	const recent = `SELECT id FROM runs ORDER BY started DESC, rowid DESC LIMIT ?`
	if err = sqlitex.Execute(s.conn, `DELETE FROM results WHERE run_id NOT IN (`+recent+`)`,
		&sqlitex.ExecOptions{Args: []any{keep}}); err != nil {
		return fmt.Errorf("prune results: %w", err)
	}
	if err = sqlitex.Execute(s.conn, `DELETE FROM runs WHERE id NOT IN (`+recent+`)`,
		&sqlitex.ExecOptions{Args: []any{keep}}); err != nil {
		return fmt.Errorf("prune runs: %w", err)
	}
	if n := s.conn.Changes(); n > 0 {
		s.log.Debug("Old runs removed", zap.Int("count", n))
	}
	return nil
}

// Recent returns up to limit most recent runs, newest first.
func (s *Store) Recent(limit int) ([]Run, error) {
	var runs []Run
	err := sqlitex.Execute(s.conn,
		`SELECT id, started, elapsed, stylesheet, total, failed FROM runs ORDER BY started DESC, rowid DESC LIMIT ?`,
		&sqlitex.ExecOptions{
			Args: []any{limit},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				runs = append(runs, Run{
					ID:         stmt.ColumnText(0),
					Started:    time.UnixMilli(stmt.ColumnInt64(1)),
					Elapsed:    time.Duration(stmt.ColumnInt64(2)),
					Stylesheet: stmt.ColumnText(3),
					Total:      stmt.ColumnInt(4),
					Failed:     stmt.ColumnInt(5),
				})
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("read runs: %w", err)
	}
	return runs, nil
}

// Results returns entries of a run in recorded order.
func (s *Store) Results(runID string) ([]Entry, error) {
	var entries []Entry
	err := sqlitex.Execute(s.conn,
		`SELECT grp, name, passed, message FROM results WHERE run_id = ? ORDER BY seq`,
		&sqlitex.ExecOptions{
			Args: []any{runID},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				entries = append(entries, Entry{
					Group:   stmt.ColumnText(0),
					Name:    stmt.ColumnText(1),
					Passed:  stmt.ColumnInt64(2) != 0,
					Message: stmt.ColumnText(3),
				})
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("read results of %s: %w", runID, err)
	}
	return entries, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
