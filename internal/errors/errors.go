// Package errors defines the error taxonomy shared by every stage of an export run.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ConfigError indicates an invalid or missing required setting (fatal)
	ConfigError ErrorCode = "CONFIG_ERROR"
	// TraversalError indicates the source root could not be enumerated (fatal)
	TraversalError ErrorCode = "TRAVERSAL_ERROR"
	// ParseError indicates a source file could not be parsed (per-file)
	ParseError ErrorCode = "PARSE_ERROR"
	// ExportIOError indicates an artifact could not be written (per-file)
	ExportIOError ErrorCode = "EXPORT_IO_ERROR"
	// ReportWriteError indicates the run report could not be persisted (logged only)
	ReportWriteError ErrorCode = "REPORT_WRITE_ERROR"
	// Interrupted indicates the run was cancelled before the walk completed
	Interrupted ErrorCode = "INTERRUPTED"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// Exit codes returned by the astdump CLI.
const (
	ExitSuccess        = 0
	ExitFailure        = 1
	ExitConfigError    = 2
	ExitTraversalError = 3
)

// Error is an astdump error with a stable code and optional file path.
type Error struct {
	Code    ErrorCode
	Message string
	Path    string // Source file or directory the error refers to, if any
	cause   error
}

// New creates a new Error.
func New(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Newf creates a new Error without a cause, formatting the message.
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithPath attaches the path the error refers to.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, msg, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, msg)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// CodeOf returns the code of the first *Error in err's chain, or InternalError.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return InternalError
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	switch CodeOf(err) {
	case ConfigError:
		return ExitConfigError
	case TraversalError:
		return ExitTraversalError
	default:
		return ExitFailure
	}
}

// Hints maps fatal error codes to operator-facing suggestions
var Hints = map[ErrorCode][]string{
	ConfigError: {
		"set ASTDUMP_OUTPUT_FORMAT (or --format) to yaml or xml",
		"run 'astdump config' to print the effective configuration",
	},
	TraversalError: {
		"check that <project root>/source exists and is readable",
		"set ASTDUMP_PROJECT_ROOT (or --project) to the project directory",
	},
}

// GetHints returns suggestions for an error code
func GetHints(code ErrorCode) []string {
	if hints, ok := Hints[code]; ok {
		return hints
	}
	return nil
}
