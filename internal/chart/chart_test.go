package chart_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/cellscript/internal/chart"
)

func sampleFigure() *chart.Figure {
	return &chart.Figure{
		Title: "growth",
		Series: []chart.Series{
			{Name: "s1", X: []float64{1, 2, 3, 4}, Y: []float64{1, 4, 9, 16}},
		},
	}
}

func TestRender_DataURLAndEmbed(t *testing.T) {
	dataURL, embed, err := chart.Render(sampleFigure())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(dataURL, "data:image/png;base64,"))
	require.Greater(t, len(dataURL), len("data:image/png;base64,"))
	require.True(t, strings.HasPrefix(embed, `<img alt="growth"`))
	require.Contains(t, embed, dataURL)
}

func TestRender_CustomSize(t *testing.T) {
	fig := sampleFigure()
	fig.Width, fig.Height = 200, 150
	dataURL, _, err := chart.Render(fig)
	require.NoError(t, err)
	require.NotEmpty(t, dataURL)
}

func TestFigureCapsule(t *testing.T) {
	fig := sampleFigure()
	v := chart.FigureVal(fig)
	require.True(t, chart.IsFigure(v))
	require.Same(t, fig, chart.FromValue(v))
}
