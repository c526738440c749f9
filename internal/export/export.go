// Package export turns one source file into one artifact, either as a whole
// compilation unit or as the sequence of its method declarations.
package export

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"astdump/internal/ast"
	"astdump/internal/config"
	aerrors "astdump/internal/errors"
	"astdump/internal/fsutil"
	"astdump/internal/paths"
	"astdump/internal/walker"
)

// Parser turns source text into a syntax tree.
type Parser interface {
	Parse(ctx context.Context, path string, source []byte) (*ast.Node, error)
}

// Printer renders a node and its subtree.
type Printer interface {
	Render(w io.Writer, n *ast.Node, format config.Format) error
}

// Result describes one successfully exported file.
type Result struct {
	// Artifact is the path the output was written to.
	Artifact string
	// Declarations is the number of declarations written (method mode only).
	Declarations int
}

// Exporter exports a single source file. On error nothing is written.
type Exporter interface {
	Export(ctx context.Context, file walker.File) (Result, error)
}

// separator follows every declaration in a method-mode artifact.
const separator = "\n"

// New returns the exporter for the configured parse mode.
func New(cfg config.Config, parser Parser, printer Printer) Exporter {
	if cfg.Mode == config.ModeMethod {
		return NewDeclarationExporter(cfg, parser, printer)
	}
	return NewUnitExporter(cfg, parser, printer)
}

func artifactPath(cfg config.Config, file walker.File) string {
	return paths.ArtifactPath(cfg.OutputDir(), file.Rel, string(cfg.Format))
}

func parseFile(ctx context.Context, parser Parser, file walker.File) (*ast.Node, error) {
	source, err := os.ReadFile(file.Path)
	if err != nil {
		return nil, aerrors.New(aerrors.ParseError, "cannot read source file", err)
	}
	return parser.Parse(ctx, file.Path, source)
}

// writeAtomic creates dest's directory and writes the artifact through
// fsutil.WriteAtomic, so a failed or panicking render leaves nothing behind.
func writeAtomic(dest string, render func(w io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return aerrors.New(aerrors.ExportIOError, "cannot create output directory", err)
	}
	err := fsutil.WriteAtomic(dest, 0644, func(w io.Writer) error {
		if err := render(w); err != nil {
			return asExportError("cannot render artifact", err)
		}
		return nil
	})
	if err != nil {
		return asExportError("cannot write artifact", err)
	}
	return nil
}

// asExportError keeps coded errors and context errors as they are.
func asExportError(message string, err error) error {
	var coded *aerrors.Error
	if errors.As(err, &coded) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return aerrors.New(aerrors.ExportIOError, message, err)
}
