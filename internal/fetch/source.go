package fetch

import (
	"context"

	"github.com/vk/cellscript/internal/wire"
)

// CellData is one populated cell of a range response.
type CellData struct {
	X     int      `json:"x"`
	Y     int      `json:"y"`
	Value string   `json:"v"`
	Tag   wire.Tag `json:"t"`
}

// RangeData is the grid engine's answer for one rectangle. Cells may be
// sparse: anything inside the requested range that is absent is blank.
// HasHeaders marks responses whose first row is known to be column labels
// (for example a named table), which overrides positional header defaults.
type RangeData struct {
	Cells      []CellData `json:"cells"`
	HasHeaders bool       `json:"has_headers"`
}

// Source is the host grid engine's cell-read surface.
type Source interface {
	FetchCellRange(ctx context.Context, r wire.Range, sheet string) (*RangeData, error)
}

// FastChannel is optionally implemented by Sources whose reads execute in
// place over shared memory; reads through such a source need no suspension
// rewriting.
type FastChannel interface {
	HasFastChannel() bool
}

// SourceFunc adapts an in-process fetch function to Source. In-process
// sources are synchronous, so a SourceFunc reports a fast channel.
type SourceFunc func(ctx context.Context, r wire.Range, sheet string) (*RangeData, error)

// FetchCellRange implements Source.
func (f SourceFunc) FetchCellRange(ctx context.Context, r wire.Range, sheet string) (*RangeData, error) {
	return f(ctx, r, sheet)
}

// HasFastChannel implements FastChannel.
func (f SourceFunc) HasFastChannel() bool { return true }
