package rcaller

import (
	"math"

	"github.com/jbytecode/RCaller/model"
)

// Matrix decodes a variable as a matrix using its declared n x m shape.
func (p *Parser) Matrix(name string) ([][]float64, error) {
	v, err := p.lookup(name)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, &VariableError{Name: name}
	}
	return p.MatrixOf(name, v.Rows, v.Cols)
}

// MatrixOf decodes a variable as a rows x cols matrix. Tokens are read
// column-major: token k is stored at [k % rows][k / rows]. The token count
// must equal rows*cols; the shape is checked before any token is converted.
func (p *Parser) MatrixOf(name string, rows, cols int) ([][]float64, error) {
	tokens, err := p.tokens(name)
	if err != nil {
		return nil, err
	}
	if !shapeFits(rows, cols, len(tokens)) {
		return nil, &DimensionError{Variable: name, Rows: rows, Cols: cols, Count: len(tokens)}
	}

	flat, err := convertTokens(name, tokens, model.KindFloat64, p.parseFloat64)
	if err != nil {
		return nil, err
	}

	return reshapeColumnMajor(flat, rows, cols), nil
}

// shapeFits reports whether a rows x cols matrix holds exactly count values.
func shapeFits(rows, cols, count int) bool {
	if rows < 0 || cols < 0 {
		return false
	}
	if rows == 0 || cols == 0 {
		return count == 0
	}
	if rows > math.MaxInt/cols {
		return false
	}
	return rows*cols == count
}

// reshapeColumnMajor lays flat out as rows x cols, column by column. The
// rows share one backing array.
func reshapeColumnMajor(flat []float64, rows, cols int) [][]float64 {
	result := make([][]float64, rows)
	backing := make([]float64, rows*cols)
	for r := range result {
		result[r] = backing[r*cols : (r+1)*cols : (r+1)*cols]
	}

	for k, v := range flat {
		result[k%rows][k/rows] = v
	}
	return result
}
