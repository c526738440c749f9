package history

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"astdump/internal/report"
	"astdump/internal/slogutil"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), ".astdump"), slogutil.NewDiscardLogger())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openStore(t)
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	for i, name := range []string{"log_a", "log_b", "log_c"} {
		run := &Run{
			Name:         name,
			ParseMode:    "method",
			OutputFormat: "yaml",
			ParsedFiles:  i,
			RecordedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.Record(run); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		if run.ID == "" {
			t.Error("Record() should assign an ID")
		}
	}

	runs, err := store.Recent(2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Recent(2) returned %d runs", len(runs))
	}
	if runs[0].Name != "log_c" || runs[1].Name != "log_b" {
		t.Errorf("Recent() order = %s, %s; want log_c, log_b", runs[0].Name, runs[1].Name)
	}
	if !runs[0].RecordedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("RecordedAt = %v", runs[0].RecordedAt)
	}
}

func TestRecent_Empty(t *testing.T) {
	runs, err := openStore(t).Recent(0)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("Recent() on empty store = %d runs", len(runs))
	}
}

func TestFromOutput(t *testing.T) {
	methods := 4
	run := FromOutput(report.Output{
		Name:             "log_2024-05-01_09-30-00",
		ParseMode:        "method",
		OutputFormat:     "xml",
		ParsedFiles:      2,
		ParsedMethods:    &methods,
		ParseFailedFiles: 1,
		ErrorMessage:     "interrupted",
		DurationMs:       12,
	})

	if run.ParsedMethods != 4 || run.ParsedFiles != 2 || run.ParseFailedFiles != 1 {
		t.Errorf("counters = %+v", run)
	}
	if run.ErrorMessage != "interrupted" {
		t.Errorf("ErrorMessage = %q", run.ErrorMessage)
	}

	store := openStore(t)
	if err := store.Record(&run); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	runs, err := store.Recent(1)
	if err != nil || len(runs) != 1 {
		t.Fatalf("Recent() = %v, %v", runs, err)
	}
	if runs[0].ErrorMessage != "interrupted" || runs[0].OutputFormat != "xml" {
		t.Errorf("round trip = %+v", runs[0])
	}
}

func TestOpen_ReopensExisting(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".astdump")
	logger := slogutil.NewDiscardLogger()

	first, err := Open(dir, logger)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := first.Record(&Run{Name: "log_a", ParseMode: "file", OutputFormat: "yaml"}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	_ = first.Close()

	second, err := Open(dir, logger)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer func() { _ = second.Close() }()

	runs, err := second.Recent(10)
	if err != nil || len(runs) != 1 {
		t.Fatalf("Recent() after reopen = %v, %v", runs, err)
	}
	if second.Path() != filepath.Join(dir, DBName) {
		t.Errorf("Path() = %s", second.Path())
	}
}

func TestOpenExisting(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".astdump")
	logger := slogutil.NewDiscardLogger()

	if _, err := OpenExisting(dir, logger); !errors.Is(err, ErrNoHistory) {
		t.Fatalf("OpenExisting() on a fresh project error = %v, want ErrNoHistory", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("OpenExisting() must not create the state directory: %v", err)
	}

	store, err := Open(dir, logger)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Record(&Run{Name: "log_a", ParseMode: "file", OutputFormat: "yaml"}); err != nil {
		t.Fatal(err)
	}
	_ = store.Close()

	existing, err := OpenExisting(dir, logger)
	if err != nil {
		t.Fatalf("OpenExisting() error = %v", err)
	}
	defer func() { _ = existing.Close() }()
	runs, err := existing.Recent(5)
	if err != nil || len(runs) != 1 {
		t.Errorf("Recent() = %v, %v", runs, err)
	}
}
