//go:build !cgo

package parser

import (
	"context"
	"errors"

	"astdump/internal/ast"
	aerrors "astdump/internal/errors"
)

// ErrNoCGO is returned for every parse when the binary was built without cgo.
var ErrNoCGO = errors.New("java parsing requires CGO (tree-sitter)")

// Parser is a stub for non-CGO builds.
type Parser struct{}

// New creates a stub parser.
func New() *Parser {
	return &Parser{}
}

// Parse always fails with a PARSE_ERROR wrapping ErrNoCGO.
func (p *Parser) Parse(ctx context.Context, path string, source []byte) (*ast.Node, error) {
	return nil, aerrors.New(aerrors.ParseError, "parser unavailable", ErrNoCGO)
}
