package model

// Variable is a named result value read from a result document.
type Variable struct {
	Name   string   // Identifier, unique by convention
	Type   string   // Declared type tag, opaque to the parser
	Rows   int      // Declared row count (n), 0 when absent
	Cols   int      // Declared column count (m), 0 when absent
	Values []string // Value tokens in document order
}

// Len returns the number of value tokens.
func (v Variable) Len() int {
	return len(v.Values)
}

// HasDimensions reports whether the variable declared a shape.
func (v Variable) HasDimensions() bool {
	return v.Rows > 0 || v.Cols > 0
}

// IsMatrix reports whether the declared shape matches the token count.
func (v Variable) IsMatrix() bool {
	return v.HasDimensions() && v.Rows*v.Cols == len(v.Values)
}

// Position maps a flat token index to its column-major row and column.
// It returns (-1, -1) when the variable has no rows or k is out of range.
func (v Variable) Position(k int) (row, col int) {
	if v.Rows <= 0 || k < 0 || k >= v.Rows*v.Cols {
		return -1, -1
	}
	return k % v.Rows, k / v.Rows
}

// Clone returns a deep copy of the variable.
func (v Variable) Clone() Variable {
	if v.Values != nil {
		v.Values = append([]string(nil), v.Values...)
	}
	return v
}
