package rcaller

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/jbytecode/RCaller/model"
)

// naToken is R's missing value marker.
const naToken = "NA"

// decodeAll converts every token of a variable, stopping at the first token
// conv rejects. No partial result is returned on failure.
func decodeAll[T any](p *Parser, name string, kind model.Kind, conv func(string) (T, error)) ([]T, error) {
	tokens, err := p.tokens(name)
	if err != nil {
		return nil, err
	}
	return convertTokens(name, tokens, kind, conv)
}

func convertTokens[T any](name string, tokens []string, kind model.Kind, conv func(string) (T, error)) ([]T, error) {
	out := make([]T, len(tokens))
	for i, tok := range tokens {
		v, err := conv(tok)
		if err != nil {
			return nil, &ConversionError{
				Variable: name,
				Index:    i,
				Token:    tok,
				Kind:     kind,
				Err:      err,
			}
		}
		out[i] = v
	}
	return out, nil
}

// Strings returns the value tokens of a variable unchanged.
func (p *Parser) Strings(name string) ([]string, error) {
	return decodeAll(p, name, model.KindString, func(s string) (string, error) {
		return s, nil
	})
}

// Float64s decodes a variable as double-precision floats.
func (p *Parser) Float64s(name string) ([]float64, error) {
	return decodeAll(p, name, model.KindFloat64, p.parseFloat64)
}

// Float32s decodes a variable as single-precision floats.
func (p *Parser) Float32s(name string) ([]float32, error) {
	return decodeAll(p, name, model.KindFloat32, func(s string) (float32, error) {
		f, err := p.parseFloat(s, 32)
		return float32(f), err
	})
}

// Int32s decodes a variable as 32-bit integers.
func (p *Parser) Int32s(name string) ([]int32, error) {
	return decodeAll(p, name, model.KindInt32, func(s string) (int32, error) {
		i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
		return int32(i), err
	})
}

// Int64s decodes a variable as 64-bit integers.
func (p *Parser) Int64s(name string) ([]int64, error) {
	return decodeAll(p, name, model.KindInt64, func(s string) (int64, error) {
		return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	})
}

// Bools decodes a variable as booleans. Only "true" and "false" are accepted,
// compared without regard to ASCII case, so R's TRUE and FALSE decode too.
func (p *Parser) Bools(name string) ([]bool, error) {
	return decodeAll(p, name, model.KindBool, parseBool)
}

func (p *Parser) parseFloat64(s string) (float64, error) {
	return p.parseFloat(s, 64)
}

// parseFloat accepts the spellings strconv does, including Inf and NaN.
// Magnitudes beyond the type's range decode to signed infinity.
func (p *Parser) parseFloat(s string, bitSize int) (float64, error) {
	s = strings.TrimSpace(s)
	if p.opts.naAsNaN && s == naToken {
		return math.NaN(), nil
	}

	f, err := strconv.ParseFloat(s, bitSize)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, err
	}
	return f, nil
}

func parseBool(s string) (bool, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.EqualFold(s, "true"):
		return true, nil
	case strings.EqualFold(s, "false"):
		return false, nil
	default:
		return false, &strconv.NumError{Func: "parseBool", Num: s, Err: strconv.ErrSyntax}
	}
}
