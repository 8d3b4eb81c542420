// Package dom provides a small ordered element tree for XML documents.
//
// The tree keeps every element, text run, comment and processing
// instruction in document order, which the standard library's struct
// unmarshaling does not preserve across differently named siblings.
//
// # Parsing
//
//	doc, err := dom.Parse(data)
//	if err != nil {
//	    return err
//	}
//	doc.Normalize()
//
// [Parse] honors a leading byte order mark and the encoding named in the
// XML declaration.
//
// # Queries
//
// Elements and attributes are addressed by qualified name, the name as it was
// written including any prefix. Namespace declarations are not resolved, so
// <r:variable> is never matched by "variable". [Element.ElementsByTagName]
// walks the subtree in document order and includes the element itself,
// mirroring the DOM method of the same name.
package dom

import (
	"encoding/xml"
	"strings"
)

// NodeType identifies the kind of a tree node.
type NodeType int

const (
	// ElementNode is an element with attributes and children.
	ElementNode NodeType = iota
	// TextNode is character data, including CDATA sections.
	TextNode
	// CommentNode is an XML comment.
	CommentNode
	// ProcInstNode is a processing instruction other than the XML declaration.
	ProcInstNode
)

// String returns the string representation of the node type.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	case ProcInstNode:
		return "procinst"
	default:
		return "unknown"
	}
}

// Node is implemented by every tree node.
type Node interface {
	Type() NodeType
	// TextContent returns the concatenated character data of the node and
	// its descendants. Comments and processing instructions contribute nothing.
	TextContent() string
}

// Attr is an element attribute keyed by qualified name.
type Attr struct {
	Name  string
	Value string
}

// Element is an element node.
type Element struct {
	Name     string // Local name
	Prefix   string // Namespace prefix as written, empty when unprefixed
	Attrs    []Attr
	children []Node
}

// Text is a run of character data.
type Text struct {
	Data string
}

// Comment is an XML comment.
type Comment struct {
	Data string
}

// ProcInst is a processing instruction.
type ProcInst struct {
	Target string
	Inst   string
}

// Type implements Node.
func (e *Element) Type() NodeType { return ElementNode }

// Type implements Node.
func (t *Text) Type() NodeType { return TextNode }

// Type implements Node.
func (c *Comment) Type() NodeType { return CommentNode }

// Type implements Node.
func (p *ProcInst) Type() NodeType { return ProcInstNode }

// TextContent implements Node.
func (t *Text) TextContent() string { return t.Data }

// TextContent implements Node.
func (c *Comment) TextContent() string { return "" }

// TextContent implements Node.
func (p *ProcInst) TextContent() string { return "" }

// TextContent implements Node.
func (e *Element) TextContent() string {
	if len(e.children) == 1 {
		// Leaf value elements are the common case.
		if t, ok := e.children[0].(*Text); ok {
			return t.Data
		}
	}

	var sb strings.Builder
	e.appendText(&sb)
	return sb.String()
}

func (e *Element) appendText(sb *strings.Builder) {
	for _, child := range e.children {
		switch c := child.(type) {
		case *Text:
			sb.WriteString(c.Data)
		case *Element:
			c.appendText(sb)
		}
	}
}

// NewElement creates an element from a raw decoder start token, whose
// Name.Space carries the prefix rather than a resolved namespace.
func NewElement(start xml.StartElement) *Element {
	el := &Element{
		Name:   start.Name.Local,
		Prefix: start.Name.Space,
	}
	if len(start.Attr) > 0 {
		el.Attrs = make([]Attr, 0, len(start.Attr))
		for _, a := range start.Attr {
			el.Attrs = append(el.Attrs, Attr{Name: qualify(a.Name), Value: a.Value})
		}
	}
	return el
}

// QName returns the element name as written, prefix included.
func (e *Element) QName() string {
	if e.Prefix == "" {
		return e.Name
	}
	return e.Prefix + ":" + e.Name
}

func qualify(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// Append adds a child node.
func (e *Element) Append(n Node) {
	e.children = append(e.children, n)
}

// Attr returns the value of the first attribute with the given qualified name.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Children returns all child nodes in document order.
func (e *Element) Children() []Node {
	return e.children
}

// ChildElements returns the element children in document order.
func (e *Element) ChildElements() []*Element {
	var out []*Element
	for _, child := range e.children {
		if el, ok := child.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// ElementsByTagName returns every element in the subtree rooted at e,
// e included, whose qualified name is tag. Results are in document order.
func (e *Element) ElementsByTagName(tag string) []*Element {
	var out []*Element
	e.collect(tag, &out)
	return out
}

func (e *Element) collect(tag string, out *[]*Element) {
	if e.QName() == tag {
		*out = append(*out, e)
	}
	for _, child := range e.children {
		if el, ok := child.(*Element); ok {
			el.collect(tag, out)
		}
	}
}

// hasElementChild reports whether any child is an element.
func (e *Element) hasElementChild() bool {
	for _, child := range e.children {
		if child.Type() == ElementNode {
			return true
		}
	}
	return false
}
