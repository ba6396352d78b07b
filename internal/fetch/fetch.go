// Package fetch turns coordinate rectangles into dense, ordered tabular
// values, recording every touched coordinate for the host's dependency
// tracking.
package fetch

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/cellscript/internal/codec"
	"github.com/vk/cellscript/internal/ctxlog"
	"github.com/vk/cellscript/internal/wire"
)

// Fetcher resolves range reads against one grid source for one evaluation.
type Fetcher struct {
	source Source
	log    *wire.AccessLog
}

// NewFetcher builds a Fetcher appending every read to log.
func NewFetcher(source Source, log *wire.AccessLog) *Fetcher {
	return &Fetcher{source: source, log: log}
}

// Fetch requests r from the grid engine and returns either a scalar (for
// single-cell ranges) or a dense Table capsule. Every coordinate of the
// range is logged, populated or not; coordinates absent from the response
// come back Blank. Host failures propagate unwrapped.
func (f *Fetcher) Fetch(ctx context.Context, r wire.Range, sheet string, firstRowHeader bool) (cty.Value, error) {
	if !r.Valid() {
		return cty.NilVal, fmt.Errorf("invalid cell range: %d x %d", r.Width(), r.Height())
	}

	f.log.TouchRange(r, sheet)

	logger := ctxlog.FromContext(ctx)
	logger.Debug("fetching cell range",
		"x0", r.P0.X, "y0", r.P0.Y, "x1", r.P1.X, "y1", r.P1.Y, "sheet", sheet)

	data, err := f.source.FetchCellRange(ctx, r, sheet)
	if err != nil {
		return cty.NilVal, err
	}

	if r.Single() {
		return singleCell(data), nil
	}

	grid := denseFill(r, data)

	table := &Table{Columns: defaultColumns(r.Width()), Rows: grid}
	switch {
	case data.HasHeaders:
		// The response already identifies its first row as labels.
		promoteHeader(table)
	case firstRowHeader && len(grid) > 1:
		promoteHeader(table)
	}
	return TableVal(table), nil
}

// singleCell resolves the distinguished 1x1 shortcut: the scalar value, or
// null when the cell is unpopulated.
func singleCell(data *RangeData) cty.Value {
	for _, c := range data.Cells {
		return codec.FromWire(wire.CellValue{Payload: c.Value, Tag: c.Tag})
	}
	return cty.NullVal(cty.DynamicPseudoType)
}

// denseFill builds the full Width x Height grid for r, Blank where the
// response has nothing.
func denseFill(r wire.Range, data *RangeData) [][]cty.Value {
	w, h := r.Width(), r.Height()
	grid := make([][]cty.Value, h)
	for y := range grid {
		row := make([]cty.Value, w)
		for x := range row {
			row[x] = cty.NullVal(cty.DynamicPseudoType)
		}
		grid[y] = row
	}
	for _, c := range data.Cells {
		x, y := c.X-r.P0.X, c.Y-r.P0.Y
		if x < 0 || x >= w || y < 0 || y >= h {
			continue // out-of-range cells in the response are ignored
		}
		grid[y][x] = codec.FromWire(wire.CellValue{Payload: c.Value, Tag: c.Tag})
	}
	return grid
}

// promoteHeader moves the table's first row into the column labels.
func promoteHeader(t *Table) {
	if len(t.Rows) == 0 {
		return
	}
	head := t.Rows[0]
	for i, v := range head {
		if i >= len(t.Columns) {
			break
		}
		t.Columns[i] = codec.ToWire(v).Payload
	}
	t.Rows = t.Rows[1:]
	t.HasHeaders = true
}
