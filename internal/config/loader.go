package config

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/cellscript/internal/ctxlog"
)

// fileRoot decodes the top-level blocks of an evaluator config file.
// Anything outside the evaluator block is a decode diagnostic, not silently
// ignored.
type fileRoot struct {
	Evaluator *evaluatorBlock `hcl:"evaluator,block"`
}

type evaluatorBlock struct {
	Accessors     []string    `hcl:"accessors,optional"`
	Marker        string      `hcl:"marker,optional"`
	SnippetFile   string      `hcl:"snippet_file,optional"`
	EntryFunction string      `hcl:"entry_function,optional"`
	FetchTimeout  string      `hcl:"fetch_timeout,optional"`
	Chart         *chartBlock `hcl:"chart,block"`
}

type chartBlock struct {
	Width  int `hcl:"width,optional"`
	Height int `hcl:"height,optional"`
}

// Load parses the HCL file at path and overlays it onto the defaults.
func Load(ctx context.Context, path string) (*Options, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("loading evaluator config", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, diags)
	}

	opts := Default()
	if root.Evaluator == nil {
		return opts, nil
	}

	b := root.Evaluator
	if len(b.Accessors) > 0 {
		opts.Accessors = b.Accessors
	}
	if b.Marker != "" {
		opts.Marker = b.Marker
	}
	if b.SnippetFile != "" {
		opts.SnippetFile = b.SnippetFile
	}
	if b.EntryFunction != "" {
		opts.EntryFunction = b.EntryFunction
	}
	if b.FetchTimeout != "" {
		d, err := time.ParseDuration(b.FetchTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid fetch_timeout %q: %w", b.FetchTimeout, err)
		}
		opts.FetchTimeout = d
	}
	if b.Chart != nil {
		if b.Chart.Width > 0 {
			opts.ChartWidth = b.Chart.Width
		}
		if b.Chart.Height > 0 {
			opts.ChartHeight = b.Chart.Height
		}
	}

	logger.Debug("evaluator config loaded",
		"accessors", len(opts.Accessors), "marker", opts.Marker)
	return opts, nil
}
