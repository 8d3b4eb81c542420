// Package model provides the value types produced by the result parser.
//
// A [Variable] is one named result emitted by the computation engine: its
// declared type tag, declared dimensions and the ordered value tokens exactly
// as they appeared in the document. Typed views of the tokens are produced
// by the parser's decoders, which report the target type as a [Kind].
//
// # Dimensions
//
// Matrix-shaped variables carry row and column counts. Their tokens are
// flattened column-major, so the token at flat index k belongs to row
// k % Rows and column k / Rows:
//
//	v := model.Variable{Name: "m", Rows: 2, Cols: 3, Values: tokens}
//	row, col := v.Position(4) // 0, 2
package model
