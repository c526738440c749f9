package printer

import (
	"encoding/xml"
	"fmt"
	"io"

	"astdump/internal/ast"
)

// renderXML writes n as a <root type="..."> element followed by a newline.
// Children become elements named after their field role, or <child>.
func renderXML(w io.Writer, n *ast.Node) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := writeElement(enc, rootRole, n); err != nil {
		return fmt.Errorf("encode xml: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return fmt.Errorf("encode xml: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func writeElement(enc *xml.Encoder, role string, n *ast.Node) error {
	start := xml.StartElement{
		Name: xml.Name{Local: role},
		Attr: []xml.Attr{{Name: xml.Name{Local: "type"}, Value: n.Type}},
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	if n.IsLeaf() {
		if n.Value != "" {
			if err := enc.EncodeToken(xml.CharData(n.Value)); err != nil {
				return err
			}
		}
	} else {
		for _, c := range n.Children {
			childRoleName := c.Field
			if childRoleName == "" {
				childRoleName = childRole
			}
			if err := writeElement(enc, childRoleName, c); err != nil {
				return err
			}
		}
	}

	return enc.EncodeToken(start.End())
}
