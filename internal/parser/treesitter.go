//go:build cgo

package parser

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"astdump/internal/ast"
	aerrors "astdump/internal/errors"
)

// Parser wraps tree-sitter's Java grammar. It is safe for concurrent use; every
// call gets its own tree-sitter parser.
type Parser struct {
	lang *sitter.Language
}

// New creates a Java parser.
func New() *Parser {
	return &Parser{lang: java.GetLanguage()}
}

// Parse parses one source file. Input that contains syntax errors yields a
// PARSE_ERROR naming the first offending location.
func (p *Parser) Parse(ctx context.Context, path string, source []byte) (*ast.Node, error) {
	tsParser := sitter.NewParser()
	defer tsParser.Close()
	tsParser.SetLanguage(p.lang)

	tree, err := tsParser.ParseCtx(ctx, nil, source)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, aerrors.New(aerrors.ParseError, fmt.Sprintf("tree-sitter failed on %s", path), err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxError(root, source)
	}

	return convert(root, "", source), nil
}

// convert copies the named nodes of a tree-sitter subtree into an ast tree.
func convert(n *sitter.Node, field string, source []byte) *ast.Node {
	node := &ast.Node{
		Type:  n.Type(),
		Field: field,
		Line:  int(n.StartPoint().Row) + 1,
	}

	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		child := n.Child(i)
		if child == nil || !child.IsNamed() {
			continue
		}
		node.Children = append(node.Children, convert(child, n.FieldNameForChild(i), source))
	}

	if node.IsLeaf() {
		// Sources in legacy encodings reach here byte-for-byte.
		node.Value = strings.ToValidUTF8(n.Content(source), "\uFFFD")
	}
	node.Kind = kindOf(node)
	return node
}

// syntaxError describes the first ERROR or missing node in document order.
func syntaxError(root *sitter.Node, source []byte) error {
	bad := firstError(root)
	if bad == nil {
		return aerrors.Newf(aerrors.ParseError, "syntax error")
	}

	pos := bad.StartPoint()
	line, col := int(pos.Row)+1, int(pos.Column)+1
	if bad.IsMissing() {
		return aerrors.Newf(aerrors.ParseError, "missing %s at line %d, column %d", bad.Type(), line, col)
	}
	return aerrors.Newf(aerrors.ParseError, "syntax error at line %d, column %d near %q",
		line, col, snippet(bad.Content(source)))
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if bad := firstError(child); bad != nil {
			return bad
		}
	}
	return nil
}
