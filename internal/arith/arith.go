// Package arith implements arithmetic and comparison over wire cell values
// with one explicit rule set: both operands are coerced to exact decimals
// when possible, otherwise comparisons fall back to raw string ordering and
// arithmetic yields an Error-tagged value.
//
// Coercion rules (canonical, applied everywhere):
//   - Blank counts as zero in numeric contexts and "" in string contexts.
//   - Logical counts as 1/0 in numeric contexts.
//   - Text participates numerically only if the whole payload parses as a
//     decimal literal.
package arith

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vk/cellscript/internal/wire"
)

// Op is a binary arithmetic operator.
type Op int

const (
	Add Op = iota
	Sub
	Mul
	Div
	Mod
	Pow
)

func (o Op) String() string {
	switch o {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Mod:
		return "%"
	case Pow:
		return "^"
	default:
		return "?"
	}
}

// ParseOp maps an operator token to its Op.
func ParseOp(tok string) (Op, bool) {
	for _, o := range []Op{Add, Sub, Mul, Div, Mod, Pow} {
		if o.String() == tok {
			return o, true
		}
	}
	return 0, false
}

// Apply evaluates a <op> b. Non-numeric operands produce an Error-tagged
// value naming the operator; division or modulus by zero likewise.
func Apply(a, b wire.CellValue, op Op) wire.CellValue {
	da, aok := toDecimal(a)
	db, bok := toDecimal(b)
	if !aok || !bok {
		return wire.CellValue{Payload: "cannot apply '" + op.String() + "' to non-numeric value", Tag: wire.TagError}
	}

	var out decimal.Decimal
	switch op {
	case Add:
		out = da.Add(db)
	case Sub:
		out = da.Sub(db)
	case Mul:
		out = da.Mul(db)
	case Div:
		if db.IsZero() {
			return wire.CellValue{Payload: "division by zero", Tag: wire.TagError}
		}
		out = da.Div(db)
	case Mod:
		if db.IsZero() {
			return wire.CellValue{Payload: "modulus by zero", Tag: wire.TagError}
		}
		out = da.Mod(db)
	case Pow:
		out = da.Pow(db)
	default:
		return wire.CellValue{Payload: "unknown operator", Tag: wire.TagError}
	}
	return wire.CellValue{Payload: out.String(), Tag: wire.TagNumber}
}

// Compare orders a against b: -1, 0 or 1. Decimal comparison when both
// operands coerce; raw string comparison otherwise.
func Compare(a, b wire.CellValue) int {
	da, aok := toDecimal(a)
	db, bok := toDecimal(b)
	if aok && bok {
		return da.Cmp(db)
	}
	return strings.Compare(text(a), text(b))
}

// Equal reports whether a and b compare as equal.
func Equal(a, b wire.CellValue) bool { return Compare(a, b) == 0 }

// toDecimal coerces a cell value into an exact decimal.
func toDecimal(cv wire.CellValue) (decimal.Decimal, bool) {
	switch cv.Tag {
	case wire.TagBlank:
		return decimal.Zero, true
	case wire.TagLogical:
		if strings.EqualFold(cv.Payload, "true") {
			return decimal.NewFromInt(1), true
		}
		return decimal.Zero, true
	case wire.TagNumber, wire.TagText:
		d, err := decimal.NewFromString(strings.TrimSpace(cv.Payload))
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}

// text is the string-context coercion: Blank is "".
func text(cv wire.CellValue) string {
	if cv.Tag == wire.TagBlank {
		return ""
	}
	return cv.Payload
}
