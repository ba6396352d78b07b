// Package config holds the evaluator's tunable options and loads them from
// HCL. Every option has a canonical default; a config file only overrides.
package config

import (
	"time"

	"github.com/vk/cellscript/internal/chart"
)

// Options configures one evaluator instance. Instances are cheap; hosts
// typically build one per interpreter capability profile.
type Options struct {
	// Accessors are the reserved host-crossing function names the source
	// rewriter recognizes.
	Accessors []string

	// Marker is the suspension keyword inserted before accessor calls.
	Marker string

	// SnippetFile is the pseudo-filename the interpreter assigns to snippet
	// frames; EntryFunction is the host frame that begins executing the
	// snippet. Together they form the user-code boundary for diagnostics.
	SnippetFile   string
	EntryFunction string

	// ChartWidth and ChartHeight are the raster size for figures that do
	// not specify their own.
	ChartWidth  int
	ChartHeight int

	// FetchTimeout bounds one remote cell-range read.
	FetchTimeout time.Duration
}

// Default returns the canonical options.
func Default() *Options {
	return &Options{
		Accessors:     []string{"cells", "cell", "c", "getCells", "getCell"},
		Marker:        "suspend",
		SnippetFile:   "<cell>",
		EntryFunction: "runSnippet",
		ChartWidth:    chart.DefaultWidth,
		ChartHeight:   chart.DefaultHeight,
		FetchTimeout:  30 * time.Second,
	}
}
