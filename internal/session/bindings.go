package session

import (
	"context"
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/cellscript/internal/arith"
	"github.com/vk/cellscript/internal/codec"
	"github.com/vk/cellscript/internal/fetch"
	"github.com/vk/cellscript/internal/figure"
	"github.com/vk/cellscript/internal/wire"
)

// bindings builds the host functions installed into one evaluation. The
// cell-read names are also the rewriter's reserved accessors; display feeds
// the figure gate; op and cmp give snippets host-side cell arithmetic, so
// fetched values with non-native tags stay operable.
func (s *Session) bindings(fetcher *fetch.Fetcher, gate *figure.Gate) map[string]Binding {
	b := make(map[string]Binding, 9)

	rangeRead := func(call Call) (cty.Value, error) {
		r, sheet, firstRowHeader, err := rangeArgs(call.Args)
		if err != nil {
			return cty.NilVal, err
		}
		ctx, cancel := context.WithTimeout(call.Ctx, s.opts.FetchTimeout)
		defer cancel()
		return fetcher.Fetch(ctx, r, sheet, firstRowHeader)
	}
	cellRead := func(call Call) (cty.Value, error) {
		c, err := cellArgs(call.Args)
		if err != nil {
			return cty.NilVal, err
		}
		ctx, cancel := context.WithTimeout(call.Ctx, s.opts.FetchTimeout)
		defer cancel()
		return fetcher.Fetch(ctx, wire.Range{P0: c, P1: c}, c.Sheet, false)
	}

	b["getCells"] = rangeRead
	b["cells"] = rangeRead
	b["getCell"] = cellRead
	b["cell"] = cellRead
	b["c"] = cellRead

	b["op"] = func(call Call) (cty.Value, error) {
		if len(call.Args) != 3 {
			return cty.NilVal, fmt.Errorf("op expects (a, b, operator), got %d arguments", len(call.Args))
		}
		tok := call.Args[2]
		if tok.IsNull() || tok.Type() != cty.String {
			return cty.NilVal, fmt.Errorf("operator must be a string")
		}
		o, ok := arith.ParseOp(tok.AsString())
		if !ok {
			return cty.NilVal, fmt.Errorf("unknown operator %q", tok.AsString())
		}
		res := arith.Apply(codec.ToWire(call.Args[0]), codec.ToWire(call.Args[1]), o)
		return codec.FromWire(res), nil
	}
	b["cmp"] = func(call Call) (cty.Value, error) {
		if len(call.Args) != 2 {
			return cty.NilVal, fmt.Errorf("cmp expects (a, b), got %d arguments", len(call.Args))
		}
		c := arith.Compare(codec.ToWire(call.Args[0]), codec.ToWire(call.Args[1]))
		return cty.NumberIntVal(int64(c)), nil
	}

	b["display"] = func(call Call) (cty.Value, error) {
		if len(call.Args) != 1 {
			return cty.NilVal, fmt.Errorf("display expects exactly one figure, got %d arguments", len(call.Args))
		}
		if err := gate.Set(call.Args[0], call.Stack); err != nil {
			return cty.NilVal, err
		}
		return cty.NullVal(cty.DynamicPseudoType), nil
	}

	return b
}

// rangeArgs decodes (p0, p1, sheet?, first_row_header?).
func rangeArgs(args []cty.Value) (wire.Range, string, bool, error) {
	if len(args) < 2 || len(args) > 4 {
		return wire.Range{}, "", false, fmt.Errorf("range read expects (p0, p1, sheet?, first_row_header?), got %d arguments", len(args))
	}
	p0, err := pointArg(args[0])
	if err != nil {
		return wire.Range{}, "", false, fmt.Errorf("p0: %w", err)
	}
	p1, err := pointArg(args[1])
	if err != nil {
		return wire.Range{}, "", false, fmt.Errorf("p1: %w", err)
	}
	sheet := ""
	if len(args) >= 3 && !args[2].IsNull() {
		if args[2].Type() != cty.String {
			return wire.Range{}, "", false, fmt.Errorf("sheet must be a string")
		}
		sheet = args[2].AsString()
	}
	firstRowHeader := false
	if len(args) == 4 && !args[3].IsNull() {
		if args[3].Type() != cty.Bool {
			return wire.Range{}, "", false, fmt.Errorf("first_row_header must be a bool")
		}
		firstRowHeader = args[3].True()
	}
	p0.Sheet, p1.Sheet = sheet, sheet
	return wire.Range{P0: p0, P1: p1}, sheet, firstRowHeader, nil
}

// cellArgs decodes (x, y, sheet?).
func cellArgs(args []cty.Value) (wire.Coordinate, error) {
	if len(args) < 2 || len(args) > 3 {
		return wire.Coordinate{}, fmt.Errorf("cell read expects (x, y, sheet?), got %d arguments", len(args))
	}
	x, err := intArg(args[0])
	if err != nil {
		return wire.Coordinate{}, fmt.Errorf("x: %w", err)
	}
	y, err := intArg(args[1])
	if err != nil {
		return wire.Coordinate{}, fmt.Errorf("y: %w", err)
	}
	c := wire.Coordinate{X: x, Y: y}
	if len(args) == 3 && !args[2].IsNull() {
		if args[2].Type() != cty.String {
			return wire.Coordinate{}, fmt.Errorf("sheet must be a string")
		}
		c.Sheet = args[2].AsString()
	}
	return c, nil
}

// pointArg decodes a two-element (x, y) sequence.
func pointArg(v cty.Value) (wire.Coordinate, error) {
	if v.IsNull() || !(v.Type().IsTupleType() || v.Type().IsListType()) {
		return wire.Coordinate{}, fmt.Errorf("expected an (x, y) pair")
	}
	elems := v.AsValueSlice()
	if len(elems) != 2 {
		return wire.Coordinate{}, fmt.Errorf("expected an (x, y) pair, got %d elements", len(elems))
	}
	x, err := intArg(elems[0])
	if err != nil {
		return wire.Coordinate{}, err
	}
	y, err := intArg(elems[1])
	if err != nil {
		return wire.Coordinate{}, err
	}
	return wire.Coordinate{X: x, Y: y}, nil
}

func intArg(v cty.Value) (int, error) {
	if v.IsNull() || v.Type() != cty.Number {
		return 0, fmt.Errorf("expected an integer")
	}
	i, acc := v.AsBigFloat().Int64()
	if acc != big.Exact {
		return 0, fmt.Errorf("expected an integer, got %s", v.AsBigFloat().String())
	}
	return int(i), nil
}
