package ast

import (
	"fmt"
	"iter"
)

// Callables yields every method declaration under root in pre-order, at any depth,
// including declarations nested in local or anonymous classes. Constructors are
// yielded too when includeConstructors is set.
func Callables(root *Node, includeConstructors bool) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		walk(root, includeConstructors, yield)
	}
}

// CountCallables returns the number of nodes Callables would yield.
func CountCallables(root *Node, includeConstructors bool) int {
	n := 0
	for range Callables(root, includeConstructors) {
		n++
	}
	return n
}

func walk(n *Node, includeConstructors bool, yield func(*Node) bool) bool {
	if n == nil {
		return true
	}

	switch n.Kind {
	case KindMethod:
		if !yield(n) {
			return false
		}
	case KindConstructor:
		if includeConstructors && !yield(n) {
			return false
		}
	case KindUnit, KindTypeDecl, KindSyntax, KindToken, KindError:
	default:
		panic(fmt.Sprintf("ast: unhandled node kind %v", n.Kind))
	}

	for _, c := range n.Children {
		if !walk(c, includeConstructors, yield) {
			return false
		}
	}
	return true
}
