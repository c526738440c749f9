// Package parser converts Java source into astdump's syntax tree using tree-sitter.
package parser

import (
	"astdump/internal/ast"
)

// kindOf classifies a converted node by its grammar type.
func kindOf(n *ast.Node) ast.Kind {
	switch n.Type {
	case "program":
		return ast.KindUnit
	case "ERROR":
		return ast.KindError
	case "method_declaration":
		return ast.KindMethod
	case "constructor_declaration", "compact_constructor_declaration":
		return ast.KindConstructor
	case "class_declaration", "interface_declaration", "enum_declaration",
		"record_declaration", "annotation_type_declaration":
		return ast.KindTypeDecl
	}
	if n.IsLeaf() {
		return ast.KindToken
	}
	return ast.KindSyntax
}

// snippet shortens source text for error messages.
func snippet(s string) string {
	const limit = 40
	r := []rune(s)
	if len(r) > limit {
		return string(r[:limit]) + "..."
	}
	return s
}
