package testutil

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"astdump/internal/ast"
	"astdump/internal/config"
	aerrors "astdump/internal/errors"
)

// FakeParser understands a tiny line-oriented language so tests can describe
// trees without cgo:
//
//	!<message>      the whole file fails to parse with <message>
//	panic           Parse panics
//	method <name>   a method declaration
//	ctor <name>     a constructor declaration
//	nested <name>   a method declared inside the previous method
//
// Every other line is ignored.
type FakeParser struct {
	Calls atomic.Int64
}

// Parse implements export.Parser.
func (p *FakeParser) Parse(ctx context.Context, path string, source []byte) (*ast.Node, error) {
	p.Calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := string(source)
	if msg, ok := strings.CutPrefix(text, "!"); ok {
		return nil, aerrors.Newf(aerrors.ParseError, "%s", strings.TrimSpace(msg))
	}

	body := &ast.Node{Kind: ast.KindSyntax, Type: "class_body", Field: "body"}
	class := &ast.Node{
		Kind: ast.KindTypeDecl,
		Type: "class_declaration",
		Children: []*ast.Node{
			{Kind: ast.KindToken, Type: "identifier", Field: "name", Value: "Fixture"},
			body,
		},
	}

	var last *ast.Node
	scanner := bufio.NewScanner(strings.NewReader(text))
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "panic" {
			panic("fake parser panic in " + path)
		}
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "method":
			last = declaration(ast.KindMethod, "method_declaration", fields[1], line)
			body.Children = append(body.Children, last)
		case "ctor":
			body.Children = append(body.Children, declaration(ast.KindConstructor, "constructor_declaration", fields[1], line))
		case "nested":
			if last == nil {
				return nil, aerrors.Newf(aerrors.ParseError, "nested without method at line %d", line)
			}
			last.Children = append(last.Children, declaration(ast.KindMethod, "method_declaration", fields[1], line))
		}
	}

	return &ast.Node{Kind: ast.KindUnit, Type: "program", Line: 1, Children: []*ast.Node{class}}, nil
}

func declaration(kind ast.Kind, typ, name string, line int) *ast.Node {
	return &ast.Node{
		Kind: kind,
		Type: typ,
		Line: line,
		Children: []*ast.Node{
			{Kind: ast.KindToken, Type: "identifier", Field: "name", Value: name, Line: line},
		},
	}
}

// FakePrinter renders "<type> <name>" lines. It fails for nodes named FailOn and
// panics for nodes named PanicOn, after writing some output in both cases.
type FakePrinter struct {
	FailOn  string
	PanicOn string
}

// Render implements export.Printer.
func (p *FakePrinter) Render(w io.Writer, n *ast.Node, format config.Format) error {
	if p.PanicOn != "" && n.Name() == p.PanicOn {
		_, _ = io.WriteString(w, "partial")
		panic("fake printer panic on " + n.Name())
	}
	if p.FailOn != "" && n.Name() == p.FailOn {
		// Emit something first so a partial write would be observable.
		_, _ = io.WriteString(w, "partial")
		return fmt.Errorf("render %s: injected failure", n.Name())
	}
	_, err := fmt.Fprintf(w, "%s %s %s", format, n.Type, n.Name())
	return err
}
