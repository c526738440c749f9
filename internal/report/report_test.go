package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astdump/internal/config"
	aerrors "astdump/internal/errors"
)

var startedAt = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func testConfig(mode config.ParseMode) config.Config {
	return config.Config{ProjectRoot: "/work/proj", Format: config.FormatYAML, Mode: mode, Workers: 1}
}

func TestNew_Name(t *testing.T) {
	l := New(testConfig(config.ModeFile), startedAt)
	assert.Equal(t, "log_2024-05-01_09-30-00", l.Name())

	out := l.Snapshot()
	assert.Equal(t, "file", out.ParseMode)
	assert.Equal(t, "/work/proj", out.ProjectPath)
	assert.Equal(t, "yaml", out.OutputFormat)
	assert.NotNil(t, out.Failures)
	assert.Empty(t, out.Failures)
}

func TestLog_Counters(t *testing.T) {
	l := New(testConfig(config.ModeMethod), startedAt)
	l.RecordSuccess(1)
	l.RecordSuccess(0)
	l.RecordFailure("source/C.java", errors.New("syntax error at line 3, column 1"))

	files, methods, failed := l.Counts()
	assert.Equal(t, 2, files)
	assert.Equal(t, 1, methods)
	assert.Equal(t, 1, failed)

	out := l.Snapshot()
	require.NotNil(t, out.ParsedMethods)
	assert.Equal(t, 1, *out.ParsedMethods)
	require.Len(t, out.Failures, 1)
	assert.Equal(t, "source/C.java", out.Failures[0].Filename)
	assert.Equal(t, "syntax error at line 3, column 1", out.Failures[0].ErrorMessage)
}

func TestLog_ConcurrentRecording(t *testing.T) {
	l := New(testConfig(config.ModeMethod), startedAt)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%5 == 0 {
				l.RecordFailure("source/F.java", errors.New("bad"))
				return
			}
			l.RecordSuccess(2)
		}(i)
	}
	wg.Wait()

	out := l.Snapshot()
	assert.Equal(t, 40, out.ParsedFiles)
	assert.Equal(t, 80, *out.ParsedMethods)
	assert.Equal(t, 10, out.ParseFailedFiles)
	assert.Len(t, out.Failures, out.ParseFailedFiles)
}

func TestLog_Timer(t *testing.T) {
	l := New(testConfig(config.ModeFile), startedAt)
	l.StopTimer()
	assert.Zero(t, l.Snapshot().DurationMs, "stop without start")

	l.StartTimer()
	time.Sleep(5 * time.Millisecond)
	l.StopTimer()
	assert.GreaterOrEqual(t, l.Snapshot().DurationMs, int64(5))
}

func TestOutput_JSONShape(t *testing.T) {
	t.Run("file mode omits parsed_methods and empty error", func(t *testing.T) {
		l := New(testConfig(config.ModeFile), startedAt)
		l.RecordSuccess(3)

		data, err := l.Snapshot().Marshal()
		require.NoError(t, err)

		var m map[string]any
		require.NoError(t, json.Unmarshal(data, &m))
		assert.NotContains(t, m, "parsed_methods")
		assert.NotContains(t, m, "error_message")
		assert.Equal(t, []any{}, m["failures"])
		assert.True(t, strings.HasSuffix(string(data), "\n"))
		assert.Contains(t, string(data), "\n  \"name\": ")
	})

	t.Run("method mode keeps zero parsed_methods", func(t *testing.T) {
		l := New(testConfig(config.ModeMethod), startedAt)

		data, err := l.Snapshot().Marshal()
		require.NoError(t, err)
		assert.Contains(t, string(data), `"parsed_methods": 0`)
	})

	t.Run("fatal error is kept", func(t *testing.T) {
		l := New(testConfig(config.ModeFile), startedAt)
		l.SetError(aerrors.New(aerrors.TraversalError, "source directory not found", nil))

		data, err := l.Snapshot().Marshal()
		require.NoError(t, err)
		assert.Contains(t, string(data), `"error_message": "[TRAVERSAL_ERROR] source directory not found"`)
	})
}

func TestLog_Write(t *testing.T) {
	dir := t.TempDir()
	l := New(testConfig(config.ModeMethod), startedAt)
	l.RecordSuccess(1)
	l.RecordFailure("source/C.java", errors.New("bad"))

	path := filepath.Join(dir, l.Name()+".json")
	require.NoError(t, l.Write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, Validate(data))

	var out Output
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, l.Snapshot(), out)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestLog_WriteFailure(t *testing.T) {
	l := New(testConfig(config.ModeFile), startedAt)
	err := l.Write(filepath.Join(t.TempDir(), "missing", "log.json"))
	require.Error(t, err)
	assert.True(t, aerrors.IsCode(err, aerrors.ReportWriteError))
}

func TestValidate(t *testing.T) {
	valid := func(mode config.ParseMode) []byte {
		data, err := New(testConfig(mode), startedAt).Snapshot().Marshal()
		require.NoError(t, err)
		return data
	}

	assert.NoError(t, Validate(valid(config.ModeFile)))
	assert.NoError(t, Validate(valid(config.ModeMethod)))

	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"missing failures", `{"name":"log_2024-05-01_09-30-00","parse_mode":"file","project_path":".","output_format":"yaml","parsed_files":0,"parse_failed_files":0,"duration_ms":0}`},
		{"bad name", `{"name":"run","parse_mode":"file","project_path":".","output_format":"yaml","parsed_files":0,"parse_failed_files":0,"duration_ms":0,"failures":[]}`},
		{"methods in file mode", `{"name":"log_2024-05-01_09-30-00","parse_mode":"file","project_path":".","output_format":"yaml","parsed_files":0,"parsed_methods":0,"parse_failed_files":0,"duration_ms":0,"failures":[]}`},
		{"methods missing in method mode", `{"name":"log_2024-05-01_09-30-00","parse_mode":"method","project_path":".","output_format":"yaml","parsed_files":0,"parse_failed_files":0,"duration_ms":0,"failures":[]}`},
		{"unknown format", `{"name":"log_2024-05-01_09-30-00","parse_mode":"file","project_path":".","output_format":"json","parsed_files":0,"parse_failed_files":0,"duration_ms":0,"failures":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, Validate([]byte(tt.data)))
		})
	}
}

func TestPrintSummary(t *testing.T) {
	l := New(testConfig(config.ModeMethod), startedAt)
	for i := 0; i < 1200; i++ {
		l.RecordSuccess(1)
	}
	l.RecordFailure("source/C.java", errors.New("bad"))

	var buf bytes.Buffer
	l.PrintSummary(&buf)
	out := buf.String()

	assert.Contains(t, out, "[Summary] log_2024-05-01_09-30-00")
	assert.Contains(t, out, "parsed 1,200 java files")
	assert.Contains(t, out, "failed 1 java files")
	assert.Contains(t, out, "parsed 1,200 java methods")
	assert.NotContains(t, out, "aborted")
}

func TestPrintSummary_FileModeAndAbort(t *testing.T) {
	l := New(testConfig(config.ModeFile), startedAt)
	l.SetError(errors.New("interrupted"))

	var buf bytes.Buffer
	l.PrintSummary(&buf)
	out := buf.String()

	assert.NotContains(t, out, "java methods")
	assert.Contains(t, out, "aborted: interrupted")
}
