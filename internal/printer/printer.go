// Package printer renders syntax trees as YAML or XML documents.
//
// Rendering is deterministic: the same tree always produces the same bytes. Each
// call renders exactly one node and its subtree as one self-contained document.
package printer

import (
	"fmt"
	"io"

	"astdump/internal/ast"
	"astdump/internal/config"
)

// Printer renders nodes. The zero value is ready to use.
type Printer struct{}

// New creates a Printer.
func New() *Printer {
	return &Printer{}
}

// Render writes n and its subtree to w in the given format.
func (p *Printer) Render(w io.Writer, n *ast.Node, format config.Format) error {
	switch format {
	case config.FormatYAML:
		return renderYAML(w, n)
	case config.FormatXML:
		return renderXML(w, n)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// label returns the key a node is rendered under, e.g. "name(Type=identifier)".
func label(role string, n *ast.Node) string {
	return role + "(Type=" + n.Type + ")"
}

const (
	rootRole  = "root"
	childRole = "child"
	listRole  = "children"
)
