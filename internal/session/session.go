// Package session composes one formula-cell evaluation: rewrite the snippet
// for the probed channel capability, install host bindings backed by the
// range fetcher and figure gate, invoke the external interpreter, then shape
// the outcome or diagnose the failure.
package session

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/cellscript/internal/chart"
	"github.com/vk/cellscript/internal/config"
	"github.com/vk/cellscript/internal/ctxlog"
	"github.com/vk/cellscript/internal/diag"
	"github.com/vk/cellscript/internal/fetch"
	"github.com/vk/cellscript/internal/figure"
	"github.com/vk/cellscript/internal/model"
	"github.com/vk/cellscript/internal/rewrite"
	"github.com/vk/cellscript/internal/shape"
	"github.com/vk/cellscript/internal/wire"
)

// Call is one host-binding invocation from inside the interpreter. Stack is
// the interpreter's call stack at the moment of the call, innermost-first.
type Call struct {
	Ctx   context.Context
	Args  []cty.Value
	Stack []diag.Frame
}

// Binding is one host function exposed to the snippet. Errors returned here
// propagate through the interpreter as runtime failures with their chain
// intact.
type Binding func(call Call) (cty.Value, error)

// Outcome is what the interpreter produced. Interpreters return a non-nil
// Outcome alongside an error when any output was captured before the
// failure, so partial stdout survives.
type Outcome struct {
	Value  cty.Value
	Stdout string
	Stderr string
}

// Interpreter is the external sandboxed runtime executing snippets. It
// reports snippet parse failures as *model.SyntaxError and raised exceptions
// as *model.RuntimeError (wrapping is fine); binding errors must be
// propagated with their chain intact.
type Interpreter interface {
	Run(ctx context.Context, source string, bindings map[string]Binding) (*Outcome, error)
}

// Session evaluates snippets against one interpreter and one grid source.
// The session itself is stateless across runs; everything an evaluation owns
// (access log, figure gate, fetcher) is created inside Run.
type Session struct {
	interp Interpreter
	source fetch.Source
	opts   *config.Options
}

// New builds a Session. Nil opts means config.Default().
func New(interp Interpreter, source fetch.Source, opts *config.Options) *Session {
	if opts == nil {
		opts = config.Default()
	}
	return &Session{interp: interp, source: source, opts: opts}
}

// Run evaluates one snippet and always returns a Result; failures are
// reported inside it, never as a Go error.
func (s *Session) Run(ctx context.Context, snippet string) *model.Result {
	logger := ctxlog.FromContext(ctx)

	// Probe the channel capability once, before rewriting: it selects the
	// rewrite direction for the whole evaluation.
	fast := false
	if fc, ok := s.source.(fetch.FastChannel); ok {
		fast = fc.HasFastChannel()
	}

	rw := rewrite.New(s.opts.Accessors, rewrite.WithMarker(s.opts.Marker))
	var code string
	if fast {
		code = rw.Desuspend(snippet)
	} else {
		code = rw.Suspend(snippet)
	}
	logger.Debug("snippet rewritten", "fast_channel", fast, "bytes", len(code))

	accessLog := &wire.AccessLog{}
	fetcher := fetch.NewFetcher(s.source, accessLog)
	gate := figure.NewGate(s.boundary())

	outcome, err := s.interp.Run(ctx, code, s.bindings(fetcher, gate))

	result := &model.Result{CellsAccessed: accessLog.Coordinates()}
	if outcome != nil {
		result.StdOut = outcome.Stdout
		result.StdErr = outcome.Stderr
	}

	if err != nil {
		result.Err = diagnose(err)
		logger.Debug("evaluation failed",
			"kind", result.Err.Kind, "line", result.Err.LineNumber)
		return result
	}

	value := outcome.Value

	// A cell that displayed a figure cannot also return a value.
	if gate.Displayed() {
		if value != cty.NilVal && !value.IsNull() {
			result.Err = &model.EvalError{
				Kind:       model.KindResultConflictError,
				Detail:     conflictDetail(gate.Line()),
				LineNumber: diag.LastLine(snippet),
			}
			return result
		}
		value = gate.Result()
	}

	shaped, err := shape.Shape(s.applyChartDefaults(value))
	if err != nil {
		result.Err = &model.EvalError{
			Kind:       model.KindRuntimeError,
			Detail:     err.Error(),
			LineNumber: diag.LastLine(snippet),
		}
		return result
	}

	result.Success = true
	result.OutputValue = shaped.OutputValue
	result.ArrayOutput = shaped.ArrayOutput
	result.OutputType = shaped.OutputType
	result.OutputSize = shaped.OutputSize
	result.HasHeaders = shaped.HasHeaders
	result.ChartImage = shaped.ChartImage
	return result
}

func (s *Session) boundary() diag.Boundary {
	return diag.Boundary{
		EntryFunction: s.opts.EntryFunction,
		SnippetFile:   s.opts.SnippetFile,
	}
}

// applyChartDefaults fills the session's raster size into figures that do
// not specify their own.
func (s *Session) applyChartDefaults(v cty.Value) cty.Value {
	if !chart.IsFigure(v) {
		return v
	}
	fig := *chart.FromValue(v)
	if fig.Width <= 0 {
		fig.Width = s.opts.ChartWidth
	}
	if fig.Height <= 0 {
		fig.Height = s.opts.ChartHeight
	}
	return chart.FigureVal(&fig)
}
