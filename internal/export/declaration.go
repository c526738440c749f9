package export

import (
	"context"
	"io"

	"astdump/internal/ast"
	"astdump/internal/config"
	"astdump/internal/walker"
)

// DeclarationExporter writes every method declaration of a file, each rendered
// on its own and followed by a separator, into one artifact. A file without
// declarations still produces an (empty) artifact.
type DeclarationExporter struct {
	cfg     config.Config
	parser  Parser
	printer Printer
}

// NewDeclarationExporter creates a per-declaration exporter.
func NewDeclarationExporter(cfg config.Config, parser Parser, printer Printer) *DeclarationExporter {
	return &DeclarationExporter{cfg: cfg, parser: parser, printer: printer}
}

// Export parses file and streams its declarations to <out>/<rel>.<format>.
func (e *DeclarationExporter) Export(ctx context.Context, file walker.File) (Result, error) {
	unit, err := parseFile(ctx, e.parser, file)
	if err != nil {
		return Result{}, err
	}

	dest := artifactPath(e.cfg, file)
	count := 0
	err = writeAtomic(dest, func(w io.Writer) error {
		for decl := range ast.Callables(unit, e.cfg.IncludeConstructors) {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := e.printer.Render(w, decl, e.cfg.Format); err != nil {
				return err
			}
			if _, err := io.WriteString(w, separator); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Artifact: dest, Declarations: count}, nil
}
