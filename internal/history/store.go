package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/restoreplan/internal/model"
)

// DBFileName is the name of the history database inside its directory.
const DBFileName = "restoreplan.db"

// Store provides SQLite-based storage for run history.
type Store struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a Store in dbDir.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("history database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file; mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:     db,
		dbPath: dbPath,
	}

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

// createTables creates the database schema if it doesn't exist.
func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		input_path TEXT NOT NULL,
		input_digest TEXT NOT NULL,
		total_links INTEGER NOT NULL,
		unique_targets INTEGER NOT NULL,
		counts_by_family TEXT NOT NULL,
		entries TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_input_path ON runs(input_path);
	CREATE INDEX IF NOT EXISTS idx_runs_digest ON runs(input_digest);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// RunMetadata contains summary information about a stored run.
// It is used for listing history without loading the entries.
type RunMetadata struct {
	// ID is the unique identifier of the run in the database.
	ID int64 `json:"id"`

	// Timestamp is when the run's report was generated.
	Timestamp time.Time `json:"timestamp"`

	// InputPath is the export path the run processed.
	InputPath string `json:"inputPath"`

	// InputDigest is the hex SHA3-256 digest of the export bytes.
	InputDigest string `json:"inputDigest"`

	// TotalLinks is the run's total404Links.
	TotalLinks int `json:"totalLinks"`

	// UniqueTargets is the run's unique404Targets.
	UniqueTargets int `json:"uniqueTargets"`

	// CountsByFamily is the run's links per family.
	CountsByFamily model.TagCounts `json:"countsByFamily"`
}

// Entry is the compact form of a classified target kept in history.
type Entry struct {
	URL       string       `json:"url"`
	LinkCount int          `json:"linkCount"`
	Family    model.Family `json:"family"`
	Action    model.Action `json:"action"`
}

// Run is a stored planner run.
type Run struct {
	RunMetadata

	// Entries are the run's targets in report order.
	Entries []Entry `json:"entries"`
}

// NewRun builds the history record of a finished report.
func NewRun(report *model.RestoreReport, digest string) *Run {
	entries := make([]Entry, 0, len(report.RestoreSet))
	for _, e := range report.RestoreSet {
		entries = append(entries, Entry{
			URL:       e.URL,
			LinkCount: e.LinkCount,
			Family:    e.Family,
			Action:    e.Action,
		})
	}

	return &Run{
		RunMetadata: RunMetadata{
			Timestamp:      report.GeneratedAt,
			InputPath:      report.InputFile,
			InputDigest:    digest,
			TotalLinks:     report.Totals.Total404Links,
			UniqueTargets:  report.Totals.Unique404Targets,
			CountsByFamily: report.CountsByFamily,
		},
		Entries: entries,
	}
}

// SaveRun stores run and returns its new ID. run.ID is updated as well.
func (s *Store) SaveRun(ctx context.Context, run *Run) (int64, error) {
	countsJSON, err := json.Marshal(run.CountsByFamily)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize family counts: %w", err)
	}
	entries := run.Entries
	if entries == nil {
		entries = []Entry{}
	}
	entriesJSON, err := json.Marshal(entries)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize entries: %w", err)
	}

	query := `
	INSERT INTO runs (timestamp, input_path, input_digest, total_links, unique_targets, counts_by_family, entries)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		run.Timestamp.UTC().Format(time.RFC3339Nano),
		run.InputPath,
		run.InputDigest,
		run.TotalLinks,
		run.UniqueTargets,
		string(countsJSON),
		string(entriesJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}
	run.ID = id
	return id, nil
}

// ListRuns returns run metadata, newest first. An empty inputPath lists
// runs of every input; limit <= 0 means no limit.
func (s *Store) ListRuns(ctx context.Context, inputPath string, limit int) ([]RunMetadata, error) {
	query, args := runQuery("id, timestamp, input_path, input_digest, total_links, unique_targets, counts_by_family", inputPath, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var timestamp, countsJSON string

		if err := rows.Scan(&meta.ID, &timestamp, &meta.InputPath, &meta.InputDigest,
			&meta.TotalLinks, &meta.UniqueTargets, &countsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)
		if err := json.Unmarshal([]byte(countsJSON), &meta.CountsByFamily); err != nil {
			meta.CountsByFamily = model.TagCounts{}
		}
		results = append(results, meta)
	}

	return results, rows.Err()
}

// LatestRuns returns up to n complete runs, newest first. An empty
// inputPath considers runs of every input.
func (s *Store) LatestRuns(ctx context.Context, inputPath string, n int) ([]*Run, error) {
	if n <= 0 {
		return nil, nil
	}
	query, args := runQuery("id, timestamp, input_path, input_digest, total_links, unique_targets, counts_by_family, entries", inputPath, n)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest runs: %w", err)
	}
	defer rows.Close()

	var results []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, run)
	}

	return results, rows.Err()
}

// GetRun retrieves a run by its database ID.
// It returns nil without an error when no such run exists.
func (s *Store) GetRun(ctx context.Context, id int64) (*Run, error) {
	query := `
	SELECT id, timestamp, input_path, input_digest, total_links, unique_targets, counts_by_family, entries
	FROM runs
	WHERE id = ?
	`

	run, err := scanRun(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRun reads one complete run row.
func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var timestamp, countsJSON, entriesJSON string

	err := row.Scan(&run.ID, &timestamp, &run.InputPath, &run.InputDigest,
		&run.TotalLinks, &run.UniqueTargets, &countsJSON, &entriesJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run.Timestamp = parseTimestamp(timestamp)
	if err := json.Unmarshal([]byte(countsJSON), &run.CountsByFamily); err != nil {
		return nil, fmt.Errorf("failed to parse family counts of run %d: %w", run.ID, err)
	}
	if err := json.Unmarshal([]byte(entriesJSON), &run.Entries); err != nil {
		return nil, fmt.Errorf("failed to parse entries of run %d: %w", run.ID, err)
	}

	return &run, nil
}

// runQuery builds a newest-first SELECT over runs.
func runQuery(columns, inputPath string, limit int) (string, []any) {
	query := "SELECT " + columns + " FROM runs WHERE 1=1"
	args := make([]any, 0, 2)

	if inputPath != "" {
		query += " AND input_path = ?"
		args = append(args, inputPath)
	}

	query += " ORDER BY id DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	return query, args
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
