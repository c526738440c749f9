package printer

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"astdump/internal/ast"
)

// renderYAML writes one "---" ... "..." framed document, so rendered nodes can be
// concatenated into a multi-document stream.
func renderYAML(w io.Writer, n *ast.Node) error {
	doc := &yaml.Node{
		Kind:    yaml.MappingNode,
		Content: []*yaml.Node{keyNode(label(rootRole, n)), valueNode(n)},
	}

	if _, err := io.WriteString(w, "---\n"); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	_, err := io.WriteString(w, "...\n")
	return err
}

func keyNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// valueNode renders a leaf as its source text and an inner node as a mapping.
// Children with a unique field role become "<field>(Type=<type>)" entries; unnamed
// children and repeated roles are collected in a sequence under the role name.
func valueNode(n *ast.Node) *yaml.Node {
	if n.IsLeaf() {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n.Value}
	}

	counts := make(map[string]int, len(n.Children))
	for _, c := range n.Children {
		counts[c.Field]++
	}

	m := &yaml.Node{Kind: yaml.MappingNode}
	seqs := make(map[string]*yaml.Node)
	for _, c := range n.Children {
		if c.Field != "" && counts[c.Field] == 1 {
			m.Content = append(m.Content, keyNode(label(c.Field, c)), valueNode(c))
			continue
		}

		key, role := c.Field, c.Field
		if key == "" {
			key, role = listRole, childRole
		}
		seq, ok := seqs[key]
		if !ok {
			seq = &yaml.Node{Kind: yaml.SequenceNode}
			seqs[key] = seq
			m.Content = append(m.Content, keyNode(key), seq)
		}
		seq.Content = append(seq.Content, &yaml.Node{
			Kind:    yaml.MappingNode,
			Content: []*yaml.Node{keyNode(label(role, c)), valueNode(c)},
		})
	}
	return m
}
