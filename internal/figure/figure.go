// Package figure enforces the one-displayed-chart-per-cell invariant. A Gate
// is created fresh for each evaluation and owned by it exclusively; nothing
// about displayed figures is shared process-wide.
package figure

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/cellscript/internal/diag"
)

// ConflictError reports a second display call in one cell, naming both the
// original and the offending source line.
type ConflictError struct {
	FirstLine int
	Line      int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf(
		"cannot produce multiple figures from a single cell: first produced on line %d, then on line %d",
		e.FirstLine, e.Line)
}

// Gate holds at most one displayed figure per evaluation.
type Gate struct {
	boundary diag.Boundary
	result   cty.Value
	line     int
	set      bool
}

// NewGate builds a Gate resolving display lines with the given user-code
// boundary.
func NewGate(boundary diag.Boundary) *Gate {
	return &Gate{boundary: boundary, result: cty.NilVal}
}

// Set records fig as the cell's displayed figure. The display line is the
// innermost user frame of the calling stack (0 when the stack shape is
// unrecognizable). A second call fails with a *ConflictError carrying both
// lines.
func (g *Gate) Set(fig cty.Value, stack []diag.Frame) error {
	line := 0
	if frames := diag.UserFrames(stack, g.boundary); len(frames) > 0 {
		line = frames[0].Line
	}
	if g.set {
		return &ConflictError{FirstLine: g.line, Line: line}
	}
	g.result = fig
	g.line = line
	g.set = true
	return nil
}

// Displayed reports whether a figure has been recorded.
func (g *Gate) Displayed() bool { return g.set }

// Result returns the recorded figure, or cty.NilVal.
func (g *Gate) Result() cty.Value { return g.result }

// Line returns the source line of the recorded display call.
func (g *Gate) Line() int { return g.line }
