package export

import (
	"context"
	"io"

	"astdump/internal/config"
	"astdump/internal/walker"
)

// UnitExporter writes the whole syntax tree of a file as one document.
type UnitExporter struct {
	cfg     config.Config
	parser  Parser
	printer Printer
}

// NewUnitExporter creates a whole-file exporter.
func NewUnitExporter(cfg config.Config, parser Parser, printer Printer) *UnitExporter {
	return &UnitExporter{cfg: cfg, parser: parser, printer: printer}
}

// Export parses file and writes <out>/<rel>.<format>.
func (e *UnitExporter) Export(ctx context.Context, file walker.File) (Result, error) {
	unit, err := parseFile(ctx, e.parser, file)
	if err != nil {
		return Result{}, err
	}

	dest := artifactPath(e.cfg, file)
	err = writeAtomic(dest, func(w io.Writer) error {
		return e.printer.Render(w, unit, e.cfg.Format)
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Artifact: dest}, nil
}
