package report

import (
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"astdump/internal/config"
)

const rule = "------------------------------------------------------------------------"

// PrintSummary writes the human-readable end-of-run summary.
func (l *Log) PrintSummary(w io.Writer) {
	out := l.Snapshot()
	p := message.NewPrinter(language.English)

	p.Fprintln(w, rule)
	p.Fprintln(w, "[Summary]", out.Name)
	p.Fprintf(w, "parsed %d java files\n", out.ParsedFiles)
	p.Fprintf(w, "failed %d java files\n", out.ParseFailedFiles)
	if out.ParseMode == string(config.ModeMethod) && out.ParsedMethods != nil {
		p.Fprintf(w, "parsed %d java methods\n", *out.ParsedMethods)
	}
	p.Fprintf(w, "took %d ms\n", out.DurationMs)
	if out.ErrorMessage != "" {
		p.Fprintf(w, "aborted: %s\n", strings.TrimSpace(out.ErrorMessage))
	}
	p.Fprintln(w, rule)
}
