package dom

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Document is a parsed XML document.
type Document struct {
	// Root is the document element.
	Root *Element
	// Misc holds comments and processing instructions outside the root.
	Misc []Node
}

// ElementsByTagName returns every element named tag in document order.
func (d *Document) ElementsByTagName(tag string) []*Element {
	if d == nil || d.Root == nil {
		return nil
	}
	return d.Root.ElementsByTagName(tag)
}

// Parse builds a Document from raw bytes.
func Parse(data []byte) (*Document, error) {
	return ParseReader(bytes.NewReader(data))
}

// ParseReader builds a Document from r.
func ParseReader(r io.Reader) (*Document, error) {
	// A byte order mark selects UTF-8 or UTF-16 and is removed; without one
	// the input is passed through untouched.
	in := transform.NewReader(r, unicode.BOMOverride(transform.Nop))

	dec := xml.NewDecoder(in)
	dec.CharsetReader = charsetReader

	doc := &Document{}
	var stack []*Element

	// RawToken keeps prefixes as written, so nesting is checked here.
	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			if len(stack) > 0 {
				return nil, fmt.Errorf("unexpected EOF: <%s> is not closed", stack[len(stack)-1].QName())
			}
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := NewElement(t)
			if len(stack) == 0 {
				if doc.Root != nil {
					return nil, fmt.Errorf("multiple root elements: <%s> follows <%s> at offset %d",
						el.QName(), doc.Root.QName(), dec.InputOffset())
				}
				doc.Root = el
			} else {
				stack[len(stack)-1].Append(el)
			}
			stack = append(stack, el)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unexpected end element </%s> at offset %d", qualify(t.Name), dec.InputOffset())
			}
			if top := stack[len(stack)-1]; top.Prefix != t.Name.Space || top.Name != t.Name.Local {
				return nil, fmt.Errorf("element <%s> closed by </%s> at offset %d", top.QName(), qualify(t.Name), dec.InputOffset())
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				if len(bytes.TrimSpace(t)) > 0 {
					return nil, fmt.Errorf("character data outside root element at offset %d", dec.InputOffset())
				}
				continue
			}
			stack[len(stack)-1].Append(&Text{Data: string(t)})

		case xml.Comment:
			c := &Comment{Data: string(t)}
			if len(stack) == 0 {
				doc.Misc = append(doc.Misc, c)
			} else {
				stack[len(stack)-1].Append(c)
			}

		case xml.ProcInst:
			if t.Target == "xml" {
				continue
			}
			p := &ProcInst{Target: t.Target, Inst: string(t.Inst)}
			if len(stack) == 0 {
				doc.Misc = append(doc.Misc, p)
			} else {
				stack[len(stack)-1].Append(p)
			}
		}
	}

	if doc.Root == nil {
		return nil, errors.New("no root element")
	}

	return doc, nil
}

// charsetReader transcodes documents whose declaration names a non-UTF-8
// encoding. UTF-16 input only reaches the decoder after BOMOverride has
// already converted it, so those labels pass through.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "utf-16", "utf-16le", "utf-16be", "utf16":
		return input, nil
	}
	r, err := charset.NewReaderLabel(label, input)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", label, err)
	}
	return r, nil
}

// Normalize puts the tree into canonical form: adjacent text nodes are
// merged, empty text nodes are removed, and whitespace-only text between
// element siblings is dropped. Text inside leaf elements is kept verbatim.
func (d *Document) Normalize() {
	if d == nil || d.Root == nil {
		return
	}
	d.Root.Normalize()
}

// Normalize applies document normalization to the subtree rooted at e.
func (e *Element) Normalize() {
	if len(e.children) == 0 {
		return
	}

	mixed := e.hasElementChild()
	out := e.children[:0]
	var pending *Text

	flush := func() {
		if pending == nil {
			return
		}
		if pending.Data != "" && !(mixed && strings.TrimSpace(pending.Data) == "") {
			out = append(out, pending)
		}
		pending = nil
	}

	for _, child := range e.children {
		switch c := child.(type) {
		case *Text:
			if pending == nil {
				pending = &Text{Data: c.Data}
			} else {
				pending.Data += c.Data
			}
		case *Element:
			flush()
			c.Normalize()
			out = append(out, c)
		default:
			flush()
			out = append(out, c)
		}
	}
	flush()

	// Clear the tail so dropped nodes are not retained by the backing array.
	for i := len(out); i < len(e.children); i++ {
		e.children[i] = nil
	}
	e.children = out
}
