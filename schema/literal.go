package schema

import (
	"math"
	"math/bits"
	"strconv"
	"strings"
)

// LiteralKind discriminates NumericLiteral variants.
type LiteralKind uint8

const (
	LiteralBool LiteralKind = iota
	LiteralUint
	LiteralInt
	LiteralFloat
)

// NumericLiteral is a schema constant: a define value, an enum member value
// or an array size. Integers remember the base they were declared in so the
// generated C keeps the author's radix.
type NumericLiteral struct {
	Kind  LiteralKind
	Bool  bool
	Uint  uint64
	Int   int64
	Float float64

	// Base is 2, 10 or 16; zero means decimal.
	Base int
}

// UintLiteral builds a decimal unsigned literal.
func UintLiteral(v uint64) NumericLiteral {
	return NumericLiteral{Kind: LiteralUint, Uint: v, Base: 10}
}

// IsZero reports whether the literal is the zero of its kind: false, 0 or 0.0.
func (n NumericLiteral) IsZero() bool {
	switch n.Kind {
	case LiteralBool:
		return !n.Bool
	case LiteralUint:
		return n.Uint == 0
	case LiteralInt:
		return n.Int == 0
	case LiteralFloat:
		return n.Float == 0
	default:
		return false
	}
}

// CValue renders the literal as C source text. Booleans render as 1/0 so the
// output is valid below C99; integers keep their declared base.
func (n NumericLiteral) CValue() string {
	switch n.Kind {
	case LiteralBool:
		if n.Bool {
			return "1"
		}
		return "0"
	case LiteralUint:
		switch n.Base {
		case 16:
			return "0x" + strings.ToUpper(strconv.FormatUint(n.Uint, 16))
		case 2:
			return "0b" + strconv.FormatUint(n.Uint, 2)
		default:
			return strconv.FormatUint(n.Uint, 10)
		}
	case LiteralInt:
		return strconv.FormatInt(n.Int, 10)
	case LiteralFloat:
		return strconv.FormatFloat(n.Float, 'g', -1, 64)
	default:
		return "0"
	}
}

// RequiredByteWidth classifies the minimum storage width of the literal's
// value as 1, 2, 4 or 8 bytes from its leading zero bytes. Negative integers
// classify by magnitude; floats by their IEEE-754 bit pattern; booleans
// always fit one byte.
func (n NumericLiteral) RequiredByteWidth() uint64 {
	if n.Kind == LiteralBool {
		return 1
	}

	var pattern uint64
	switch n.Kind {
	case LiteralUint:
		pattern = n.Uint
	case LiteralInt:
		pattern = uint64(n.Int)
		if n.Int < 0 {
			pattern = -pattern
		}
	case LiteralFloat:
		pattern = math.Float64bits(n.Float)
	}

	switch leadingZeroBytes := uint64(bits.LeadingZeros64(pattern)) / 8; {
	case leadingZeroBytes <= 3:
		return 8
	case leadingZeroBytes <= 5:
		return 4
	case leadingZeroBytes == 6:
		return 2
	default:
		return 1
	}
}
