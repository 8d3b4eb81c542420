package rcaller

import (
	"strconv"
	"strings"

	"github.com/jbytecode/RCaller/dom"
	"github.com/jbytecode/RCaller/model"
)

// buildIndex collects every variable element in document order. Elements
// without a name attribute cannot be addressed and are skipped. The index
// keeps the first variable for each name.
func buildIndex(doc *dom.Document) ([]*model.Variable, map[string]*model.Variable) {
	elements := doc.ElementsByTagName(variableTag)

	vars := make([]*model.Variable, 0, len(elements))
	index := make(map[string]*model.Variable, len(elements))

	for _, el := range elements {
		name, ok := el.Attr("name")
		if !ok {
			continue
		}
		typ, _ := el.Attr("type")
		rows, cols := parseDimensions(el)

		v := &model.Variable{
			Name: name,
			Type: typ,
			Rows: rows,
			Cols: cols,
		}

		children := el.ChildElements()
		v.Values = make([]string, len(children))
		for i, child := range children {
			v.Values[i] = child.TextContent()
		}

		vars = append(vars, v)
		if _, exists := index[name]; !exists {
			index[name] = v
		}
	}

	return vars, index
}

// parseDimensions reads the n and m attributes. Missing or unusable values
// yield (0, 0) rather than an error.
func parseDimensions(el *dom.Element) (rows, cols int) {
	sn, okN := el.Attr("n")
	sm, okM := el.Attr("m")
	if !okN || !okM {
		return 0, 0
	}

	n, errN := strconv.Atoi(strings.TrimSpace(sn))
	m, errM := strconv.Atoi(strings.TrimSpace(sm))
	if errN != nil || errM != nil || n < 0 || m < 0 {
		return 0, 0
	}
	return n, m
}

// lookup returns the first variable named name.
func (p *Parser) lookup(name string) (*model.Variable, error) {
	if p.doc == nil {
		return nil, ErrNotLoaded
	}
	return p.index[name], nil
}

// Names returns every variable name in document order. Duplicates are kept.
func (p *Parser) Names() ([]string, error) {
	if p.doc == nil {
		return nil, ErrNotLoaded
	}
	names := make([]string, len(p.vars))
	for i, v := range p.vars {
		names[i] = v.Name
	}
	return names, nil
}

// Type returns the declared type tag of a variable. ok is false when no
// variable has that name.
func (p *Parser) Type(name string) (typ string, ok bool, err error) {
	v, err := p.lookup(name)
	if err != nil || v == nil {
		return "", false, err
	}
	return v.Type, true, nil
}

// Dimensions returns the declared row and column counts of a variable, or
// (0, 0) when the variable is absent or declares no usable shape.
func (p *Parser) Dimensions(name string) (rows, cols int, err error) {
	v, err := p.lookup(name)
	if err != nil || v == nil {
		return 0, 0, err
	}
	return v.Rows, v.Cols, nil
}

// ValueTokens returns the text of each element child of a variable, in
// document order. ok is false when no variable has that name.
func (p *Parser) ValueTokens(name string) (tokens []string, ok bool, err error) {
	v, err := p.lookup(name)
	if err != nil || v == nil {
		return nil, false, err
	}
	tokens = make([]string, len(v.Values))
	copy(tokens, v.Values)
	return tokens, true, nil
}

// Variable returns a copy of the first variable named name.
func (p *Parser) Variable(name string) (model.Variable, bool, error) {
	v, err := p.lookup(name)
	if err != nil || v == nil {
		return model.Variable{}, false, err
	}
	return v.Clone(), true, nil
}

// Variables returns copies of all variables in document order.
func (p *Parser) Variables() ([]model.Variable, error) {
	if p.doc == nil {
		return nil, ErrNotLoaded
	}
	out := make([]model.Variable, len(p.vars))
	for i, v := range p.vars {
		out[i] = v.Clone()
	}
	return out, nil
}

// tokens is the entry point for every typed decoder: absence becomes an error.
func (p *Parser) tokens(name string) ([]string, error) {
	v, err := p.lookup(name)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, &VariableError{Name: name}
	}
	return v.Values, nil
}
