package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/cellscript/internal/chart"
	"github.com/vk/cellscript/internal/diag"
	"github.com/vk/cellscript/internal/fetch"
	"github.com/vk/cellscript/internal/model"
	"github.com/vk/cellscript/internal/wire"
)

// scriptFunc adapts a function to Interpreter.
type scriptFunc func(ctx context.Context, source string, bindings map[string]Binding) (*Outcome, error)

func (f scriptFunc) Run(ctx context.Context, source string, bindings map[string]Binding) (*Outcome, error) {
	return f(ctx, source, bindings)
}

// slowSource is a grid source without a fast channel, forcing the
// suspending rewrite direction.
type slowSource struct {
	data *fetch.RangeData
}

func (s *slowSource) FetchCellRange(ctx context.Context, r wire.Range, sheet string) (*fetch.RangeData, error) {
	return s.data, nil
}

func emptySource() *slowSource {
	return &slowSource{data: &fetch.RangeData{}}
}

// snippetStack fabricates an interpreter stack whose innermost frame sits on
// the given snippet line, below the default entry frame.
func snippetStack(line int) []diag.Frame {
	return []diag.Frame{
		{File: "<cell>", Function: "<module>", Line: line},
		{File: "runtime/host.go", Function: "runSnippet", Line: 41},
	}
}

func testFigure() cty.Value {
	return chart.FigureVal(&chart.Figure{
		Title:  "t",
		Series: []chart.Series{{Name: "s", X: []float64{1, 2, 3}, Y: []float64{4, 5, 6}}},
	})
}

func TestRun_ScalarSuccess(t *testing.T) {
	interp := scriptFunc(func(ctx context.Context, source string, b map[string]Binding) (*Outcome, error) {
		return &Outcome{Value: cty.NumberIntVal(5), Stdout: "hi\n"}, nil
	})
	s := New(interp, emptySource(), nil)

	res := s.Run(context.Background(), "5")

	require.True(t, res.Success)
	require.Nil(t, res.Err)
	require.Equal(t, &wire.CellValue{Payload: "5", Tag: wire.TagNumber}, res.OutputValue)
	require.Equal(t, "Int", res.OutputType)
	require.Equal(t, "hi\n", res.StdOut)
	require.Empty(t, res.CellsAccessed)
}

func TestRun_RewriteDirectionFollowsChannel(t *testing.T) {
	var got string
	interp := scriptFunc(func(ctx context.Context, source string, b map[string]Binding) (*Outcome, error) {
		got = source
		return &Outcome{Value: cty.NullVal(cty.DynamicPseudoType)}, nil
	})

	slow := New(interp, emptySource(), nil)
	slow.Run(context.Background(), "x = cells(0, 0)")
	require.Equal(t, "x = (suspend cells(0, 0))", got)

	fastSrc := fetch.SourceFunc(func(ctx context.Context, r wire.Range, sheet string) (*fetch.RangeData, error) {
		return &fetch.RangeData{}, nil
	})
	fast := New(interp, fastSrc, nil)
	fast.Run(context.Background(), "x = (suspend cells(0, 0))")
	require.Equal(t, "x = cells(0, 0)", got)
}

func TestRun_SingleCellBinding(t *testing.T) {
	src := &slowSource{data: &fetch.RangeData{
		Cells: []fetch.CellData{{X: 1, Y: 2, Value: "42", Tag: wire.TagNumber}},
	}}
	interp := scriptFunc(func(ctx context.Context, source string, b map[string]Binding) (*Outcome, error) {
		v, err := b["c"](Call{Ctx: ctx, Args: []cty.Value{cty.NumberIntVal(1), cty.NumberIntVal(2)}})
		if err != nil {
			return nil, err
		}
		return &Outcome{Value: v}, nil
	})
	s := New(interp, src, nil)

	res := s.Run(context.Background(), "c(1, 2)")

	require.True(t, res.Success)
	require.Equal(t, &wire.CellValue{Payload: "42", Tag: wire.TagNumber}, res.OutputValue)
	require.Equal(t, []wire.Coordinate{{X: 1, Y: 2}}, res.CellsAccessed)
}

func TestRun_RangeBindingLogsColumnMajor(t *testing.T) {
	src := &slowSource{data: &fetch.RangeData{
		Cells: []fetch.CellData{
			{X: 0, Y: 0, Value: "1", Tag: wire.TagNumber},
			{X: 1, Y: 1, Value: "4", Tag: wire.TagNumber},
		},
	}}
	interp := scriptFunc(func(ctx context.Context, source string, b map[string]Binding) (*Outcome, error) {
		p0 := cty.TupleVal([]cty.Value{cty.NumberIntVal(0), cty.NumberIntVal(0)})
		p1 := cty.TupleVal([]cty.Value{cty.NumberIntVal(1), cty.NumberIntVal(1)})
		v, err := b["getCells"](Call{Ctx: ctx, Args: []cty.Value{p0, p1}})
		if err != nil {
			return nil, err
		}
		return &Outcome{Value: v}, nil
	})
	s := New(interp, src, nil)

	res := s.Run(context.Background(), "getCells((0, 0), (1, 1))")

	require.True(t, res.Success)
	require.Len(t, res.ArrayOutput, 2)
	require.Len(t, res.ArrayOutput[0], 2)
	require.Equal(t, []wire.Coordinate{
		{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 0}, {X: 1, Y: 1},
	}, res.CellsAccessed)
}

func TestRun_DisplayedFigureBecomesResult(t *testing.T) {
	interp := scriptFunc(func(ctx context.Context, source string, b map[string]Binding) (*Outcome, error) {
		if _, err := b["display"](Call{Ctx: ctx, Args: []cty.Value{testFigure()}, Stack: snippetStack(2)}); err != nil {
			return nil, err
		}
		return &Outcome{Value: cty.NullVal(cty.DynamicPseudoType)}, nil
	})
	s := New(interp, emptySource(), nil)

	res := s.Run(context.Background(), "fig = make_figure()\ndisplay(fig)")

	require.True(t, res.Success)
	require.Equal(t, "Chart", res.OutputType)
	require.NotEmpty(t, res.ChartImage)
	require.Equal(t, wire.TagHTML, res.OutputValue.Tag)
}

func TestRun_ResultConflict(t *testing.T) {
	interp := scriptFunc(func(ctx context.Context, source string, b map[string]Binding) (*Outcome, error) {
		if _, err := b["display"](Call{Ctx: ctx, Args: []cty.Value{testFigure()}, Stack: snippetStack(1)}); err != nil {
			return nil, err
		}
		return &Outcome{Value: cty.NumberIntVal(5)}, nil
	})
	s := New(interp, emptySource(), nil)

	res := s.Run(context.Background(), "display(fig)\n5")

	require.False(t, res.Success)
	require.NotNil(t, res.Err)
	require.Equal(t, model.KindResultConflictError, res.Err.Kind)
	require.Equal(t, 2, res.Err.LineNumber)
	require.Contains(t, res.Err.Detail, "line 1")
}

func TestRun_FigureConflict(t *testing.T) {
	interp := scriptFunc(func(ctx context.Context, source string, b map[string]Binding) (*Outcome, error) {
		if _, err := b["display"](Call{Ctx: ctx, Args: []cty.Value{testFigure()}, Stack: snippetStack(2)}); err != nil {
			return nil, err
		}
		_, err := b["display"](Call{Ctx: ctx, Args: []cty.Value{testFigure()}, Stack: snippetStack(8)})
		return nil, fmt.Errorf("host call failed: %w", err)
	})
	s := New(interp, emptySource(), nil)

	res := s.Run(context.Background(), "display(a)\n\ndisplay(b)")

	require.False(t, res.Success)
	require.Equal(t, model.KindFigureConflictError, res.Err.Kind)
	require.Equal(t, 8, res.Err.LineNumber)
	require.Contains(t, res.Err.Detail, "line 2")
}

func TestRun_SyntaxError(t *testing.T) {
	interp := scriptFunc(func(ctx context.Context, source string, b map[string]Binding) (*Outcome, error) {
		return nil, &model.SyntaxError{Line: 3, Detail: "unexpected token"}
	})
	s := New(interp, emptySource(), nil)

	res := s.Run(context.Background(), "def f(:\n  pass\nf(")

	require.False(t, res.Success)
	require.Equal(t, model.KindSyntaxError, res.Err.Kind)
	require.Equal(t, 3, res.Err.LineNumber)
	require.Equal(t, "unexpected token", res.Err.Detail)
}

func TestRun_RuntimeErrorKeepsPartialOutput(t *testing.T) {
	interp := scriptFunc(func(ctx context.Context, source string, b map[string]Binding) (*Outcome, error) {
		return &Outcome{Stdout: "before the crash\n"}, &model.RuntimeError{
			Detail: "division by zero",
			Trace:  []diag.Frame{{File: "<cell>", Function: "<module>", Line: 7}},
		}
	})
	s := New(interp, emptySource(), nil)

	res := s.Run(context.Background(), "print('before the crash')\n1 / 0")

	require.False(t, res.Success)
	require.Equal(t, model.KindRuntimeError, res.Err.Kind)
	require.Equal(t, 7, res.Err.LineNumber)
	require.Equal(t, "division by zero", res.Err.Detail)
	require.Equal(t, "before the crash\n", res.StdOut)
}

func TestRun_ArithmeticBindings(t *testing.T) {
	interp := scriptFunc(func(ctx context.Context, source string, b map[string]Binding) (*Outcome, error) {
		// A fetched blank cell participates in arithmetic as zero.
		blank, err := b["c"](Call{Ctx: ctx, Args: []cty.Value{cty.Zero, cty.Zero}})
		if err != nil {
			return nil, err
		}
		sum, err := b["op"](Call{Ctx: ctx, Args: []cty.Value{blank, cty.NumberIntVal(2), cty.StringVal("+")}})
		if err != nil {
			return nil, err
		}
		return &Outcome{Value: sum}, nil
	})
	s := New(interp, emptySource(), nil)

	res := s.Run(context.Background(), "op(c(0, 0), 2, '+')")

	require.True(t, res.Success)
	require.Equal(t, &wire.CellValue{Payload: "2", Tag: wire.TagNumber}, res.OutputValue)
}

func TestRun_ComparisonBinding(t *testing.T) {
	var got cty.Value
	interp := scriptFunc(func(ctx context.Context, source string, b map[string]Binding) (*Outcome, error) {
		v, err := b["cmp"](Call{Ctx: ctx, Args: []cty.Value{cty.StringVal("10"), cty.NumberIntVal(9)}})
		if err != nil {
			return nil, err
		}
		got = v
		return &Outcome{Value: v}, nil
	})
	s := New(interp, emptySource(), nil)

	res := s.Run(context.Background(), "cmp('10', 9)")

	require.True(t, res.Success)
	// Decimal ordering, not lexicographic: "10" > 9.
	require.True(t, got.RawEquals(cty.NumberIntVal(1)))
}

func TestRun_OperatorErrors(t *testing.T) {
	interp := scriptFunc(func(ctx context.Context, source string, b map[string]Binding) (*Outcome, error) {
		if _, err := b["op"](Call{Ctx: ctx, Args: []cty.Value{cty.Zero, cty.Zero, cty.StringVal("&")}}); err == nil {
			return nil, &model.RuntimeError{Detail: "unknown operator accepted"}
		}
		div, err := b["op"](Call{Ctx: ctx, Args: []cty.Value{cty.NumberIntVal(1), cty.Zero, cty.StringVal("/")}})
		if err != nil {
			return nil, err
		}
		return &Outcome{Value: div}, nil
	})
	s := New(interp, emptySource(), nil)

	res := s.Run(context.Background(), "op(1, 0, '/')")

	require.True(t, res.Success)
	// Division by zero comes back as an Error-tagged cell, not a Go error.
	require.Equal(t, wire.TagError, res.OutputValue.Tag)
	require.Equal(t, "division by zero", res.OutputValue.Payload)
}

func TestRun_BindingArgValidation(t *testing.T) {
	var bindErr error
	interp := scriptFunc(func(ctx context.Context, source string, b map[string]Binding) (*Outcome, error) {
		_, bindErr = b["c"](Call{Ctx: ctx, Args: []cty.Value{cty.StringVal("x")}})
		return nil, &model.RuntimeError{Detail: bindErr.Error()}
	})
	s := New(interp, emptySource(), nil)

	res := s.Run(context.Background(), "c('x')")

	require.False(t, res.Success)
	require.Error(t, bindErr)
	require.Equal(t, model.KindRuntimeError, res.Err.Kind)
}
