package report

// Output is the persisted form of a run log. It holds exactly the fields that
// are written to the report file.
type Output struct {
	Name             string          `json:"name"`
	ParseMode        string          `json:"parse_mode"`
	ProjectPath      string          `json:"project_path"`
	OutputFormat     string          `json:"output_format"`
	ParsedFiles      int             `json:"parsed_files"`
	ParsedMethods    *int            `json:"parsed_methods,omitempty"` // method mode only
	ParseFailedFiles int             `json:"parse_failed_files"`
	ErrorMessage     string          `json:"error_message,omitempty"`
	DurationMs       int64           `json:"duration_ms"`
	Failures         []FailureOutput `json:"failures"`
}

// FailureOutput is the persisted form of a Failure.
type FailureOutput struct {
	Filename     string `json:"filename"`
	ErrorMessage string `json:"error_message"`
}
