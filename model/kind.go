package model

// Kind identifies the primitive type a token is decoded into.
type Kind int

const (
	// KindString is the identity conversion.
	KindString Kind = iota
	// KindFloat64 is a double-precision float.
	KindFloat64
	// KindFloat32 is a single-precision float.
	KindFloat32
	// KindInt32 is a 32-bit signed integer.
	KindInt32
	// KindInt64 is a 64-bit signed integer.
	KindInt64
	// KindBool is a boolean.
	KindBool
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindFloat64:
		return "float64"
	case KindFloat32:
		return "float32"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}
