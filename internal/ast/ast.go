// Package ast holds the tagged-variant syntax tree exported by astdump.
//
// Trees are produced by internal/parser and rendered by internal/printer. A tree is
// owned by the exporter processing its source file and is discarded after export.
package ast

import "fmt"

// Kind tags the variant of a Node.
type Kind int

const (
	// KindUnit is the root of one source file.
	KindUnit Kind = iota
	// KindTypeDecl is a class, interface, enum, record or annotation type declaration.
	KindTypeDecl
	// KindMethod is a method declaration.
	KindMethod
	// KindConstructor is a constructor declaration.
	KindConstructor
	// KindSyntax is any other named node with named children.
	KindSyntax
	// KindToken is a named node without named children; Value holds its source text.
	KindToken
	// KindError marks a region the parser could not recognize.
	KindError
)

var kindNames = [...]string{
	KindUnit:        "unit",
	KindTypeDecl:    "type_decl",
	KindMethod:      "method",
	KindConstructor: "constructor",
	KindSyntax:      "syntax",
	KindToken:       "token",
	KindError:       "error",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Node is one node of the tree.
type Node struct {
	Kind Kind
	// Type is the grammar node type, e.g. "method_declaration".
	Type string
	// Field is the role this node plays in its parent ("name", "body"), or "".
	Field string
	// Value is the source text of a KindToken node.
	Value string
	// Line is the 1-based line the node starts on.
	Line     int
	Children []*Node
}

// IsLeaf reports whether the node renders as a scalar.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Child returns the first child playing the given field role, or nil.
func (n *Node) Child(field string) *Node {
	for _, c := range n.Children {
		if c.Field == field {
			return c
		}
	}
	return nil
}

// Name returns the text of the node's "name" field, or "".
func (n *Node) Name() string {
	if c := n.Child("name"); c != nil {
		return c.Value
	}
	return ""
}
