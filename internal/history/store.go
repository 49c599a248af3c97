package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/ucma/internal/model"
)

// FileName is the database file created inside the history directory.
const FileName = "ucma.db"

var (
	// ErrRunNotFound is returned when no run matches the requested id.
	ErrRunNotFound = errors.New("run not found")

	// ErrAmbiguousRun is returned when an id prefix matches more than one run.
	ErrAmbiguousRun = errors.New("run id prefix is ambiguous")
)

// DefaultDir returns the default history directory ($XDG_DATA_HOME/ucma).
func DefaultDir() string {
	return filepath.Join(xdg.DataHome, "ucma")
}

// Store records runs and their per-item outcomes in SQLite.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if needed.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default store options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the store in dir.
// With CreateIfNotExists false a missing database is an error.
func Open(dir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("history database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check history path: %w", err)
		}
	} else if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	mode := "rw"
	if opts.CreateIfNotExists {
		mode = "rwc"
	}
	db, err := sql.Open("sqlite", dbPath+"?mode="+mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// SQLite has a single writer; concurrent items share this connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		duration_ns INTEGER NOT NULL DEFAULT 0,
		extractor TEXT NOT NULL,
		analyzer TEXT NOT NULL,
		reporter TEXT NOT NULL,
		items INTEGER NOT NULL,
		failed INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	CREATE TABLE IF NOT EXISTS outcomes (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		item TEXT NOT NULL,
		status TEXT NOT NULL,
		stage TEXT,
		error TEXT,
		started_at TEXT,
		duration_ns INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (run_id, position)
	);
	`
	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Run summarizes one batch.
type Run struct {
	// ID is a UUID assigned by Record when empty.
	ID string

	// StartedAt is when the batch started.
	StartedAt time.Time

	// Duration is the wall time of the batch.
	Duration time.Duration

	// Extractor, Analyzer and Reporter are the resolved descriptors.
	Extractor string
	Analyzer  string
	Reporter  string

	// Items is the number of refs in the batch.
	Items int

	// Failed is the number of refs that failed.
	Failed int
}

// Record stores the run and its outcomes in one transaction. Items and
// Failed are taken from outcomes. It returns the run id.
func (s *Store) Record(ctx context.Context, run *Run, outcomes []model.Outcome) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	run.Items = len(outcomes)
	run.Failed = model.CountFailed(outcomes)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (id, started_at, duration_ns, extractor, analyzer, reporter, items, failed)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		formatTimestamp(run.StartedAt),
		int64(run.Duration),
		run.Extractor,
		run.Analyzer,
		run.Reporter,
		run.Items,
		run.Failed,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO outcomes (run_id, position, item, status, stage, error, started_at, duration_ns)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare outcome insert: %w", err)
	}
	defer stmt.Close()

	for i, o := range outcomes {
		if _, err := stmt.ExecContext(ctx,
			run.ID,
			i,
			o.Item,
			o.Status.String(),
			o.Stage,
			o.Error,
			formatTimestamp(o.Started),
			int64(o.Duration),
		); err != nil {
			return "", fmt.Errorf("failed to insert outcome %q: %w", o.Item, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return run.ID, nil
}

// ListRuns returns the most recent runs, newest first. A limit of zero or
// less returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
	SELECT id, started_at, duration_ns, extractor, analyzer, reporter, items, failed
	FROM runs
	ORDER BY started_at DESC, rowid DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// FindRun returns the run whose id starts with prefix.
func (s *Store) FindRun(ctx context.Context, prefix string) (*Run, error) {
	if prefix == "" {
		return nil, ErrRunNotFound
	}

	rows, err := s.db.QueryContext(ctx, `
	SELECT id, started_at, duration_ns, extractor, analyzer, reporter, items, failed
	FROM runs
	WHERE substr(id, 1, ?) = ?
	LIMIT 2
	`, len(prefix), prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to find run: %w", err)
	}
	defer rows.Close()

	var found []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, prefix)
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousRun, prefix)
	}
}

// Outcomes returns the outcomes of a run in the order the refs were given.
func (s *Store) Outcomes(ctx context.Context, runID string) ([]model.Outcome, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT item, status, stage, error, started_at, duration_ns
	FROM outcomes
	WHERE run_id = ?
	ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []model.Outcome
	for rows.Next() {
		var (
			o        model.Outcome
			status   string
			stage    sql.NullString
			errText  sql.NullString
			started  sql.NullString
			duration int64
		)
		if err := rows.Scan(&o.Item, &status, &stage, &errText, &started, &duration); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		if o.Status, err = model.ParseStatus(status); err != nil {
			return nil, fmt.Errorf("outcome %q: %w", o.Item, err)
		}
		o.Stage = stage.String
		o.Error = errText.String
		o.Started = parseTimestamp(started.String)
		o.Duration = time.Duration(duration)
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

// Prune deletes all but the newest keep runs and returns how many were removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	const keepSet = `SELECT id FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM outcomes WHERE run_id NOT IN (`+keepSet+`)`, keep); err != nil {
		return 0, fmt.Errorf("failed to prune outcomes: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id NOT IN (`+keepSet+`)`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit prune: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(rows rowScanner) (*Run, error) {
	var (
		run      Run
		started  string
		duration int64
	)
	if err := rows.Scan(
		&run.ID,
		&started,
		&duration,
		&run.Extractor,
		&run.Analyzer,
		&run.Reporter,
		&run.Items,
		&run.Failed,
	); err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	run.StartedAt = parseTimestamp(started)
	run.Duration = time.Duration(duration)
	return &run, nil
}

// timestampLayout sorts lexically in chronological order for UTC times.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}

// timestampFormats are tried in order when reading timestamps back.
var timestampFormats = []string{
	timestampLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

// parseTimestamp returns the zero time when no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
