package printer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Declaration identifies one rendered node in a YAML artifact.
type Declaration struct {
	Type string
	Name string
}

// ReadDeclarations decodes a YAML artifact as a multi-document stream and
// returns the type and name of each document's root node. Name is empty when
// the root has no unique name field.
func ReadDeclarations(r io.Reader) ([]Declaration, error) {
	dec := yaml.NewDecoder(r)
	var decls []Declaration
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return decls, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode document %d: %w", len(decls)+1, err)
		}
		if len(doc.Content) == 0 {
			continue
		}

		top := doc.Content[0]
		if top.Kind != yaml.MappingNode || len(top.Content) != 2 {
			return nil, fmt.Errorf("document %d: expected a single %s(Type=...) key", len(decls)+1, rootRole)
		}
		typ, ok := parseLabel(rootRole, top.Content[0].Value)
		if !ok {
			return nil, fmt.Errorf("document %d: unexpected key %q", len(decls)+1, top.Content[0].Value)
		}
		decls = append(decls, Declaration{Type: typ, Name: nameOf(top.Content[1])})
	}
}

func nameOf(body *yaml.Node) string {
	if body.Kind != yaml.MappingNode {
		return ""
	}
	for i := 0; i+1 < len(body.Content); i += 2 {
		if _, ok := parseLabel("name", body.Content[i].Value); ok && body.Content[i+1].Kind == yaml.ScalarNode {
			return body.Content[i+1].Value
		}
	}
	return ""
}

// parseLabel is the inverse of label.
func parseLabel(role, key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, role+"(Type=")
	if !ok {
		return "", false
	}
	return strings.CutSuffix(rest, ")")
}
