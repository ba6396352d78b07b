package arith_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/cellscript/internal/arith"
	"github.com/vk/cellscript/internal/wire"
)

func num(s string) wire.CellValue  { return wire.CellValue{Payload: s, Tag: wire.TagNumber} }
func text(s string) wire.CellValue { return wire.CellValue{Payload: s, Tag: wire.TagText} }

func TestApply_Decimal(t *testing.T) {
	cases := []struct {
		name string
		a, b wire.CellValue
		op   arith.Op
		want wire.CellValue
	}{
		{"add", num("1.1"), num("2.2"), arith.Add, num("3.3")},
		{"sub", num("5"), num("7"), arith.Sub, num("-2")},
		{"mul", num("0.1"), num("3"), arith.Mul, num("0.3")},
		{"div", num("1"), num("4"), arith.Div, num("0.25")},
		{"mod", num("7"), num("3"), arith.Mod, num("1")},
		{"pow", num("2"), num("10"), arith.Pow, num("1024")},
		{"numeric text coerces", text("4"), num("2"), arith.Mul, num("8")},
		{"blank is zero", wire.Blank, num("3"), arith.Add, num("3")},
		{"logical is one", wire.CellValue{Payload: "True", Tag: wire.TagLogical}, num("2"), arith.Add, num("3")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, arith.Apply(tc.a, tc.b, tc.op))
		})
	}
}

func TestApply_Errors(t *testing.T) {
	got := arith.Apply(text("abc"), num("1"), arith.Add)
	require.Equal(t, wire.TagError, got.Tag)

	got = arith.Apply(num("1"), num("0"), arith.Div)
	require.Equal(t, wire.TagError, got.Tag)
	require.Equal(t, "division by zero", got.Payload)

	got = arith.Apply(num("1"), wire.Blank, arith.Mod)
	require.Equal(t, wire.TagError, got.Tag)
}

func TestCompare(t *testing.T) {
	require.Zero(t, arith.Compare(num("1.50"), num("1.5")))
	require.Equal(t, -1, arith.Compare(num("2"), num("10")))
	require.Equal(t, 1, arith.Compare(num("10"), wire.Blank))

	// Non-numeric operands fall back to raw string comparison.
	require.Equal(t, -1, arith.Compare(text("10x"), text("2x")))
	require.True(t, arith.Equal(text("abc"), text("abc")))
	require.True(t, arith.Equal(wire.Blank, text("")))
}

func TestParseOp(t *testing.T) {
	for _, want := range []arith.Op{arith.Add, arith.Sub, arith.Mul, arith.Div, arith.Mod, arith.Pow} {
		got, ok := arith.ParseOp(want.String())
		require.True(t, ok)
		require.Equal(t, want, got)
	}
	_, ok := arith.ParseOp("&")
	require.False(t, ok)
}
