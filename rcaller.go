// Package rcaller reads the XML result documents written by an R session and
// converts the variables they contain into typed Go values.
//
// Basic usage:
//
//	p, err := rcaller.Open("/tmp/Routput8231.xml")
//	if err != nil {
//	    // handle error
//	}
//	means, err := p.Float64s("means")
//	cov, err := p.Matrix("cov") // uses the declared n x m shape
//
// A result document holds zero or more variable elements:
//
//	<root>
//	  <variable name="cov" type="numeric" n="2" m="2">
//	    <v>1</v><v>0.5</v><v>0.5</v><v>2</v>
//	  </variable>
//	</root>
//
// Matrix values are flattened column-major, the native layout of the
// producing engine: the k-th value lands at row k % n, column k / n.
//
// A [Parser] holds at most one document. Reloading replaces it, and a failed
// load leaves the parser unloaded rather than serving the previous document.
// Parsers are not safe for concurrent use.
package rcaller

import "github.com/jbytecode/RCaller/source"

// Open reads and parses the result document at path.
//
// Example:
//
//	p, err := rcaller.Open("result.xml", rcaller.WithNAAsNaN())
func Open(path string, opts ...Option) (*Parser, error) {
	p := New(opts...)
	if err := p.Load(source.File(path)); err != nil {
		return nil, err
	}
	return p, nil
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	x := rcaller.Must(p.Float64s("x"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
