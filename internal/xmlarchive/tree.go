package xmlarchive

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Document literals. RootElement doubles as the schema identifier the
// validator checks the root tag against.
const (
	Version     = "1.0"
	Format      = "boardio"
	RootElement = "boardio-export"
)

// element is one node of the parsed document tree: tag name, attributes,
// child elements and accumulated character data.
type element struct {
	name     string
	attrs    map[string]string
	children []*element
	text     string
}

// attr returns an attribute value and whether it was present.
func (e *element) attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// child returns the first child element with the given tag name.
func (e *element) child(name string) *element {
	for _, c := range e.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// childCount counts direct children with the given tag name.
func (e *element) childCount(name string) int {
	n := 0
	for _, c := range e.children {
		if c.name == name {
			n++
		}
	}
	return n
}

// childText returns the text content of the first matching child.
func (e *element) childText(name string) string {
	if c := e.child(name); c != nil {
		return c.text
	}
	return ""
}

// parse builds the element tree for a raw document. Malformed XML (unclosed
// tags and the like) surfaces as an error here rather than a panic further
// down; entity references are resolved by the decoder.
func parse(data []byte) (*element, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Strict = true

	var root *element
	var stack []*element
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse document: %w", err)
		}
		switch tok := token.(type) {
		case xml.StartElement:
			node := &element{name: tok.Name.Local, attrs: map[string]string{}}
			for _, a := range tok.Attr {
				node.attrs[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("parse document: multiple root elements")
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text += string(tok)
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("parse document: no root element")
	}

	dropLayoutText(root)
	return root, nil
}

// dropLayoutText clears the indentation whitespace the exporter emits
// around child elements. Leaf text is kept verbatim; container elements
// carry no meaningful text of their own in this schema. Childless
// containers keep only non-blank text so an empty pretty-printed section
// reads as empty.
func dropLayoutText(e *element) {
	if len(e.children) > 0 {
		e.text = ""
	} else if strings.TrimSpace(e.text) == "" && strings.Contains(e.text, "\n") {
		e.text = ""
	}
	for _, c := range e.children {
		dropLayoutText(c)
	}
}
