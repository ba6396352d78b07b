// Package model defines the evaluation result envelope returned to the host
// and the error taxonomy surfaced inside it.
package model

import (
	"fmt"

	"github.com/vk/cellscript/internal/diag"
	"github.com/vk/cellscript/internal/wire"
)

// Error kinds surfaced to the host. None are retried automatically; retry is
// host policy.
const (
	KindSyntaxError         = "SyntaxError"
	KindRuntimeError        = "RuntimeError"
	KindFigureConflictError = "FigureConflictError"
	KindResultConflictError = "ResultConflictError"
)

// EvalError is the error fragment of a failed result.
type EvalError struct {
	Kind       string `json:"kind"`
	Detail     string `json:"detail"`
	LineNumber int    `json:"line_number"`
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%s on line %d: %s", e.Kind, e.LineNumber, e.Detail)
}

// Result is one evaluation's complete answer, serialized to the host as the
// evaluation's return value.
type Result struct {
	OutputValue   *wire.CellValue    `json:"output_value"`
	ArrayOutput   [][]wire.CellValue `json:"array_output"`
	OutputType    string             `json:"output_type"`
	OutputSize    *wire.Size         `json:"output_size"`
	HasHeaders    bool               `json:"has_headers"`
	ChartImage    string             `json:"chart_image,omitempty"`
	CellsAccessed []wire.Coordinate  `json:"cells_accessed"`
	StdOut        string             `json:"std_out"`
	StdErr        string             `json:"std_err"`
	Success       bool               `json:"success"`
	Err           *EvalError         `json:"error,omitempty"`
}

// SyntaxError reports a snippet that failed to parse; the line comes
// straight from the parser.
type SyntaxError struct {
	Line   int
	Detail string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error on line %d: %s", e.Line, e.Detail)
}

// RuntimeError reports an exception raised while the snippet ran, carrying
// the interpreter's traceback (innermost-first).
type RuntimeError struct {
	Detail string
	Trace  []diag.Frame
}

func (e *RuntimeError) Error() string { return e.Detail }
