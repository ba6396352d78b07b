// Package shape inspects a snippet's final value and produces the
// grid-facing fragment of the result envelope: a scalar, a rectangular
// array, or a rendered chart.
package shape

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/cellscript/internal/chart"
	"github.com/vk/cellscript/internal/codec"
	"github.com/vk/cellscript/internal/fetch"
	"github.com/vk/cellscript/internal/wire"
)

// Shaped is the output-bearing fragment of an execution result. Exactly one
// of OutputValue and ArrayOutput is set.
type Shaped struct {
	OutputValue *wire.CellValue
	ArrayOutput [][]wire.CellValue
	OutputType  string
	OutputSize  *wire.Size
	HasHeaders  bool
	ChartImage  string
	ChartHTML   string
}

// Shape classifies v and encodes it. Decision order: figure, table,
// sequence of sequences, flat sequence, scalar. Every leaf passes through
// the codec; ragged 2D results are padded with Blank so the grid always
// receives a rectangle. Empty sequences degrade to a single Blank scalar.
func Shape(v cty.Value) (*Shaped, error) {
	// Classification ignores marks, but the scalar path encodes the original
	// value: marks carry wire tags the codec must see.
	inspect := v
	if v != cty.NilVal {
		inspect, _ = v.Unmark()
	}

	switch {
	case chart.IsFigure(inspect):
		return shapeFigure(chart.FromValue(inspect))
	case fetch.IsTable(inspect):
		return shapeTable(fetch.FromValue(inspect)), nil
	case isSequence(inspect):
		return shapeSequence(inspect), nil
	}

	cv := codec.ToWire(v)
	return &Shaped{OutputValue: &cv, OutputType: codec.TypeName(v)}, nil
}

func isSequence(v cty.Value) bool {
	if v == cty.NilVal || v.IsNull() {
		return false
	}
	ty := v.Type()
	return ty.IsListType() || ty.IsTupleType() || ty.IsSetType()
}

func shapeFigure(fig *chart.Figure) (*Shaped, error) {
	dataURL, embed, err := chart.Render(fig)
	if err != nil {
		return nil, err
	}
	html := wire.CellValue{Payload: embed, Tag: wire.TagHTML}
	return &Shaped{
		OutputValue: &html,
		OutputType:  "Chart",
		ChartImage:  dataURL,
		ChartHTML:   embed,
	}, nil
}

func shapeTable(t *fetch.Table) *Shaped {
	if t.Height() == 0 && !t.HasHeaders {
		blank := wire.Blank
		return &Shaped{OutputValue: &blank, OutputType: "Table"}
	}

	var rows [][]wire.CellValue
	if t.HasHeaders {
		// Non-default column labels become the first output row.
		head := make([]wire.CellValue, t.Width())
		for i, label := range t.Columns {
			head[i] = wire.Text(label)
		}
		rows = append(rows, head)
	}
	for _, row := range t.Rows {
		out := make([]wire.CellValue, len(row))
		for i, cell := range row {
			out[i] = codec.ToWire(cell)
		}
		rows = append(rows, out)
	}
	rows = padRectangular(rows)

	return &Shaped{
		ArrayOutput: rows,
		OutputType:  "Table",
		OutputSize:  &wire.Size{W: len(rows[0]), H: len(rows)},
		HasHeaders:  t.HasHeaders,
	}
}

func shapeSequence(v cty.Value) *Shaped {
	elems := v.AsValueSlice()
	if len(elems) == 0 {
		blank := wire.Blank
		return &Shaped{OutputValue: &blank, OutputType: codec.TypeName(v)}
	}

	twoDee := false
	for _, e := range elems {
		if isSequence(e) {
			twoDee = true
			break
		}
	}
	if !twoDee {
		rows := make([][]wire.CellValue, len(elems))
		for i, e := range elems {
			rows[i] = []wire.CellValue{codec.ToWire(e)}
		}
		return &Shaped{
			ArrayOutput: rows,
			OutputType:  codec.TypeName(v),
			OutputSize:  &wire.Size{W: 1, H: len(rows)},
		}
	}

	rows := make([][]wire.CellValue, 0, len(elems))
	for _, e := range elems {
		if isSequence(e) {
			inner := e.AsValueSlice()
			row := make([]wire.CellValue, len(inner))
			for i, cell := range inner {
				row[i] = codec.ToWire(cell)
			}
			rows = append(rows, row)
			continue
		}
		// A scalar row in a 2D value occupies one cell.
		rows = append(rows, []wire.CellValue{codec.ToWire(e)})
	}
	rows = padRectangular(rows)

	// A sequence of only-empty sequences degrades to a single Blank scalar.
	if len(rows[0]) == 0 {
		blank := wire.Blank
		return &Shaped{OutputValue: &blank, OutputType: codec.TypeName(v)}
	}

	return &Shaped{
		ArrayOutput: rows,
		OutputType:  codec.TypeName(v),
		OutputSize:  &wire.Size{W: len(rows[0]), H: len(rows)},
	}
}

// padRectangular pads short rows with Blank up to the longest row. The host
// grid cannot accept ragged arrays, so this is a correctness requirement.
func padRectangular(rows [][]wire.CellValue) [][]wire.CellValue {
	max := 0
	for _, r := range rows {
		if len(r) > max {
			max = len(r)
		}
	}
	for i, r := range rows {
		for len(r) < max {
			r = append(r, wire.Blank)
		}
		rows[i] = r
	}
	return rows
}
