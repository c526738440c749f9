// Package report aggregates the counters and failures of one export run and
// persists them as a JSON document.
package report

import (
	"bytes"
	"encoding/json"
	"io"
	"sync"
	"time"

	"astdump/internal/config"
	aerrors "astdump/internal/errors"
	"astdump/internal/fsutil"
)

// nameLayout formats the run start time into the run name.
const nameLayout = "2006-01-02_15-04-05"

// Failure is one file that could not be fully exported.
type Failure struct {
	Filename     string
	ErrorMessage string
}

// Log is the single shared aggregate of a run. All methods are safe for
// concurrent use.
type Log struct {
	mu sync.Mutex

	name        string
	mode        config.ParseMode
	projectPath string
	format      config.Format

	parsedFiles      int
	parsedMethods    int
	parseFailedFiles int
	errorMessage     string
	failures         []Failure

	started    time.Time
	durationMs int64
}

// New creates the run log. The run name is derived from startedAt once and never changes.
func New(cfg config.Config, startedAt time.Time) *Log {
	return &Log{
		name:        "log_" + startedAt.Format(nameLayout),
		mode:        cfg.Mode,
		projectPath: cfg.ProjectRoot,
		format:      cfg.Format,
		failures:    []Failure{},
	}
}

// Name returns the run name, e.g. log_2024-05-01_09-30-00.
func (l *Log) Name() string {
	return l.name
}

// StartTimer marks the beginning of the processing phase.
func (l *Log) StartTimer() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.started = time.Now()
}

// StopTimer records the elapsed processing time in milliseconds.
func (l *Log) StopTimer() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started.IsZero() {
		return
	}
	if ms := time.Since(l.started).Milliseconds(); ms > 0 {
		l.durationMs = ms
	}
}

// RecordSuccess counts one exported file and the declarations written for it.
func (l *Log) RecordSuccess(declarations int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.parsedFiles++
	l.parsedMethods += declarations
}

// RecordFailure counts one failed file and appends its failure record.
func (l *Log) RecordFailure(filename string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.parseFailedFiles++
	l.failures = append(l.failures, Failure{Filename: filename, ErrorMessage: err.Error()})
}

// SetError records the fatal error that ended the run early.
func (l *Log) SetError(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errorMessage = err.Error()
}

// Counts returns the current counters.
func (l *Log) Counts() (parsedFiles, parsedMethods, failedFiles int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.parsedFiles, l.parsedMethods, l.parseFailedFiles
}

// Snapshot copies the persisted fields into an Output.
func (l *Log) Snapshot() Output {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := Output{
		Name:             l.name,
		ParseMode:        string(l.mode),
		ProjectPath:      l.projectPath,
		OutputFormat:     string(l.format),
		ParsedFiles:      l.parsedFiles,
		ParseFailedFiles: l.parseFailedFiles,
		ErrorMessage:     l.errorMessage,
		DurationMs:       l.durationMs,
		Failures:         make([]FailureOutput, len(l.failures)),
	}
	if l.mode == config.ModeMethod {
		methods := l.parsedMethods
		out.ParsedMethods = &methods
	}
	for i, f := range l.failures {
		out.Failures[i] = FailureOutput(f)
	}
	return out
}

// Write persists the report as indented JSON at path. The file is replaced
// atomically; failures are REPORT_WRITE_ERROR.
func (l *Log) Write(path string) error {
	data, err := l.Snapshot().Marshal()
	if err != nil {
		return aerrors.New(aerrors.ReportWriteError, "cannot encode report", err)
	}

	err = fsutil.WriteAtomic(path, 0644, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return aerrors.New(aerrors.ReportWriteError, "cannot write report", err).WithPath(path)
	}
	return nil
}

// Marshal encodes the output as 2-space indented JSON with a trailing newline.
func (o Output) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
