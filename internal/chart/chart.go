// Package chart carries the figure objects a snippet can display and
// renders them for the grid: a static PNG raster as a base64 data URL, plus
// an embeddable HTML form for the html output path.
package chart

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html"
	"reflect"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/zclconf/go-cty/cty"
)

// Default raster size when the figure does not specify one.
const (
	DefaultWidth  = 700
	DefaultHeight = 450
)

// Series is one plotted line of a figure.
type Series struct {
	Name string
	X    []float64
	Y    []float64
}

// Figure is a displayable chart. Zero Width/Height render at the defaults.
type Figure struct {
	Title  string
	Width  int
	Height int
	Series []Series
}

// FigureType carries a *Figure between the display binding and the shaper.
var FigureType = cty.CapsuleWithOps("figure", reflect.TypeOf(Figure{}), &cty.CapsuleOps{
	RawEquals: func(a, b interface{}) bool {
		return reflect.DeepEqual(a.(*Figure), b.(*Figure))
	},
})

// FigureVal wraps fig as a capsule value.
func FigureVal(fig *Figure) cty.Value { return cty.CapsuleVal(FigureType, fig) }

// IsFigure reports whether v carries a figure.
func IsFigure(v cty.Value) bool {
	return v != cty.NilVal && !v.IsNull() && v.Type().Equals(FigureType)
}

// FromValue unwraps the figure carried by v.
func FromValue(v cty.Value) *Figure {
	return v.EncapsulatedValue().(*Figure)
}

// Render rasterizes fig to a PNG and returns it as a data URL together with
// the embeddable HTML form.
func Render(fig *Figure) (dataURL, embed string, err error) {
	w, h := fig.Width, fig.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}

	graph := gochart.Chart{
		Title:  fig.Title,
		Width:  w,
		Height: h,
	}
	for _, s := range fig.Series {
		graph.Series = append(graph.Series, gochart.ContinuousSeries{
			Name:    s.Name,
			XValues: s.X,
			YValues: s.Y,
		})
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return "", "", fmt.Errorf("failed to render figure: %w", err)
	}

	dataURL = "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	embed = fmt.Sprintf(`<img alt="%s" src="%s"/>`, html.EscapeString(fig.Title), dataURL)
	return dataURL, embed, nil
}
