//go:build cgo

package parser

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"astdump/internal/ast"
	aerrors "astdump/internal/errors"
)

const validSource = `package demo;

public class Greeter {
    private final String name;

    public Greeter(String name) {
        this.name = name;
    }

    public String greet() {
        return "hello " + name;
    }

    void schedule() {
        Runnable r = new Runnable() {
            public void run() {}
        };
    }
}
`

func TestParse_Valid(t *testing.T) {
	unit, err := New().Parse(context.Background(), "Greeter.java", []byte(validSource))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if unit.Kind != ast.KindUnit {
		t.Errorf("root kind = %v, want unit", unit.Kind)
	}
	if unit.Type != "program" {
		t.Errorf("root type = %q, want program", unit.Type)
	}

	var names []string
	for n := range ast.Callables(unit, false) {
		names = append(names, n.Name())
	}
	if strings.Join(names, ",") != "greet,schedule,run" {
		t.Errorf("methods = %v, want [greet schedule run]", names)
	}

	if got := ast.CountCallables(unit, true); got != 4 {
		t.Errorf("CountCallables(with constructors) = %d, want 4", got)
	}
}

func TestParse_FieldsAndTokens(t *testing.T) {
	unit, err := New().Parse(context.Background(), "A.java", []byte("class A { int f() { return 1; } }"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var m *ast.Node
	for n := range ast.Callables(unit, false) {
		m = n
	}
	if m == nil {
		t.Fatal("no method found")
	}

	name := m.Child("name")
	if name == nil || name.Kind != ast.KindToken || name.Value != "f" {
		t.Errorf("name child = %+v, want token f", name)
	}
	if typ := m.Child("type"); typ == nil || typ.Value != "int" {
		t.Errorf("type child = %+v, want int", typ)
	}
	if m.Line != 1 {
		t.Errorf("Line = %d, want 1", m.Line)
	}
}

func TestParse_Empty(t *testing.T) {
	unit, err := New().Parse(context.Background(), "Empty.java", nil)
	if err != nil {
		t.Fatalf("empty source should parse: %v", err)
	}
	if ast.CountCallables(unit, true) != 0 {
		t.Error("empty source should have no declarations")
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"unbalanced braces", "class C { void m() { "},
		{"garbage", "class C { void m() { int = ; } }"},
		{"not java", "<<< this is not java >>>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Parse(context.Background(), "C.java", []byte(tt.source))
			if err == nil {
				t.Fatal("expected parse error")
			}
			if !aerrors.IsCode(err, aerrors.ParseError) {
				t.Errorf("error code = %v, want PARSE_ERROR", aerrors.CodeOf(err))
			}
			if !strings.Contains(err.Error(), "line ") {
				t.Errorf("error %q should name a line", err.Error())
			}
		})
	}
}

func TestParse_InvalidUTF8BecomesReplacementChar(t *testing.T) {
	// "caf\xe9" is Latin-1 for "café".
	source := []byte("class C {\n  String s = \"caf\xe9\";\n}\n")

	unit, err := New().Parse(context.Background(), "C.java", source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	found := false
	var visit func(n *ast.Node)
	visit = func(n *ast.Node) {
		if n.IsLeaf() {
			if !utf8.ValidString(n.Value) {
				t.Errorf("%s value %q is not valid UTF-8", n.Type, n.Value)
			}
			if strings.Contains(n.Value, "caf�") {
				found = true
			}
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(unit)
	if !found {
		t.Error("string literal should keep its text with U+FFFD for the invalid byte")
	}
}
