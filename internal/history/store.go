// Package history keeps a record of past export runs in a SQLite database
// under the project state directory.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"astdump/internal/report"
)

// DBName is the history database file inside the state directory.
const DBName = "history.db"

// Run is one recorded export run.
type Run struct {
	ID               string
	Name             string
	ParseMode        string
	OutputFormat     string
	ParsedFiles      int
	ParsedMethods    int
	ParseFailedFiles int
	DurationMs       int64
	ErrorMessage     string
	RecordedAt       time.Time
}

// FromOutput builds a Run from a report snapshot.
func FromOutput(out report.Output) Run {
	run := Run{
		Name:             out.Name,
		ParseMode:        out.ParseMode,
		OutputFormat:     out.OutputFormat,
		ParsedFiles:      out.ParsedFiles,
		ParseFailedFiles: out.ParseFailedFiles,
		DurationMs:       out.DurationMs,
		ErrorMessage:     out.ErrorMessage,
	}
	if out.ParsedMethods != nil {
		run.ParsedMethods = *out.ParsedMethods
	}
	return run
}

// Store persists runs.
type Store struct {
	conn   *sql.DB
	logger *slog.Logger
	dbPath string
}

// ErrNoHistory is returned by OpenExisting when no run was ever recorded.
var ErrNoHistory = errors.New("no run history")

// Open opens or creates the history database in stateDir.
func Open(stateDir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return open(filepath.Join(stateDir, DBName), logger)
}

// OpenExisting opens the history database without creating it or stateDir.
// It returns ErrNoHistory when the database does not exist.
func OpenExisting(stateDir string, logger *slog.Logger) (*Store, error) {
	dbPath := filepath.Join(stateDir, DBName)
	if _, err := os.Stat(dbPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoHistory
		}
		return nil, fmt.Errorf("failed to stat history database: %w", err)
	}
	return open(dbPath, logger)
}

func open(dbPath string, logger *slog.Logger) (*Store, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	store := &Store{conn: conn, logger: logger, dbPath: dbPath}
	if err := store.initializeSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return store, nil
}

func (s *Store) initializeSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			parse_mode TEXT NOT NULL,
			output_format TEXT NOT NULL,
			parsed_files INTEGER NOT NULL,
			parsed_methods INTEGER NOT NULL DEFAULT 0,
			parse_failed_files INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			error TEXT,
			recorded_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_recorded_at ON runs(recorded_at DESC);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// Record inserts a run. ID and RecordedAt are filled in when empty.
func (s *Store) Record(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.RecordedAt.IsZero() {
		run.RecordedAt = time.Now().UTC()
	}

	_, err := s.conn.Exec(`
		INSERT INTO runs (id, name, parse_mode, output_format, parsed_files, parsed_methods,
			parse_failed_files, duration_ms, error, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Name,
		run.ParseMode,
		run.OutputFormat,
		run.ParsedFiles,
		run.ParsedMethods,
		run.ParseFailedFiles,
		run.DurationMs,
		nullString(run.ErrorMessage),
		run.RecordedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	s.logger.Debug("Recorded run", "id", run.ID, "name", run.Name)
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.conn.Query(`
		SELECT id, name, parse_mode, output_format, parsed_files, parsed_methods,
			parse_failed_files, duration_ms, error, recorded_at
		FROM runs
		ORDER BY recorded_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var run Run
		var errMsg sql.NullString
		var recordedAt string
		if err := rows.Scan(
			&run.ID,
			&run.Name,
			&run.ParseMode,
			&run.OutputFormat,
			&run.ParsedFiles,
			&run.ParsedMethods,
			&run.ParseFailedFiles,
			&run.DurationMs,
			&errMsg,
			&recordedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.ErrorMessage = errMsg.String
		if run.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt); err != nil {
			return nil, fmt.Errorf("invalid recorded_at %q: %w", recordedAt, err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return runs, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
