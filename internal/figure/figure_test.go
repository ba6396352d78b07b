package figure_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/cellscript/internal/diag"
	"github.com/vk/cellscript/internal/figure"
)

var boundary = diag.Boundary{EntryFunction: "runSnippet", SnippetFile: "<cell>"}

func stackAtLine(line int) []diag.Frame {
	return []diag.Frame{
		{File: "host/bindings.go", Function: "display", Line: 1},
		{File: "<cell>", Function: "<module>", Line: line},
		{File: "host/eval.go", Function: "runSnippet", Line: 50},
	}
}

func TestGate_SingleFigure(t *testing.T) {
	g := figure.NewGate(boundary)
	require.False(t, g.Displayed())

	fig := cty.StringVal("figure-1")
	require.NoError(t, g.Set(fig, stackAtLine(3)))
	require.True(t, g.Displayed())
	require.True(t, g.Result().RawEquals(fig))
	require.Equal(t, 3, g.Line())
}

func TestGate_SecondFigureConflicts(t *testing.T) {
	g := figure.NewGate(boundary)
	require.NoError(t, g.Set(cty.StringVal("first"), stackAtLine(2)))

	err := g.Set(cty.StringVal("second"), stackAtLine(8))
	require.Error(t, err)

	var conflict *figure.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, 2, conflict.FirstLine)
	require.Equal(t, 8, conflict.Line)

	// The first figure stays recorded.
	require.True(t, g.Result().RawEquals(cty.StringVal("first")))
	require.Equal(t, 2, g.Line())
}

func TestGate_UnrecognizableStack(t *testing.T) {
	g := figure.NewGate(boundary)
	require.NoError(t, g.Set(cty.StringVal("fig"), nil))
	require.Equal(t, 0, g.Line())
}
