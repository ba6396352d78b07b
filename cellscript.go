// Package cellscript runs short user-authored scripts as spreadsheet
// formula cells: it rewrites snippet source so host-crossing cell reads
// suspend correctly, marshals cell data between the grid engine's tagged
// wire form and native script values, shapes whatever the snippet returns
// into a grid-compatible result envelope, and reports failures at the
// source line the user cares about.
//
// The package is a facade over the internal evaluation packages. A host
// harness supplies the two external collaborators — a sandboxed Interpreter
// and a grid Source — and invokes Session.Run once per formula cell.
package cellscript

import (
	"context"

	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/cellscript/internal/config"
	"github.com/vk/cellscript/internal/ctxlog"
	"github.com/vk/cellscript/internal/diag"
	"github.com/vk/cellscript/internal/fetch"
	"github.com/vk/cellscript/internal/gridsock"
	"github.com/vk/cellscript/internal/model"
	"github.com/vk/cellscript/internal/session"
	"github.com/vk/cellscript/internal/wire"
)

// Evaluation surface.
type (
	Session     = session.Session
	Interpreter = session.Interpreter
	Binding     = session.Binding
	Call        = session.Call
	Outcome     = session.Outcome
)

// Result envelope and error taxonomy.
type (
	Result       = model.Result
	EvalError    = model.EvalError
	SyntaxError  = model.SyntaxError
	RuntimeError = model.RuntimeError
)

// Error kinds carried in EvalError.Kind.
const (
	KindSyntaxError         = model.KindSyntaxError
	KindRuntimeError        = model.KindRuntimeError
	KindFigureConflictError = model.KindFigureConflictError
	KindResultConflictError = model.KindResultConflictError
)

// Grid source surface.
type (
	Source      = fetch.Source
	FastChannel = fetch.FastChannel
	SourceFunc  = fetch.SourceFunc
	RangeData   = fetch.RangeData
	CellData    = fetch.CellData
)

// Wire data model shared with the grid engine.
type (
	CellValue  = wire.CellValue
	Tag        = wire.Tag
	Coordinate = wire.Coordinate
	Range      = wire.Range
	Frame      = diag.Frame
)

// Options tunes one evaluator; see DefaultOptions for the canonical values.
type Options = config.Options

// New builds an evaluation session over an interpreter and a grid source.
// Nil opts means DefaultOptions().
func New(interp Interpreter, source Source, opts *Options) *Session {
	return session.New(interp, source, opts)
}

// DefaultOptions returns the canonical evaluator options.
func DefaultOptions() *Options { return config.Default() }

// LoadOptions parses an HCL config file and overlays it onto the defaults.
func LoadOptions(ctx context.Context, path string) (*Options, error) {
	return config.Load(ctx, path)
}

// GridSocket is a Source reading cell ranges from a remote grid engine over
// socket.io.
type GridSocket = gridsock.Client

// GridSocketOption adjusts a GridSocket.
type GridSocketOption = gridsock.Option

// NewGridSocket wraps a connected socket.io client as a grid Source.
func NewGridSocket(sock *socket.Socket, opts ...GridSocketOption) *GridSocket {
	return gridsock.NewClient(sock, opts...)
}

// Socket transport options.
var (
	WithEvents        = gridsock.WithEvents
	WithSocketTimeout = gridsock.WithTimeout
)

// WithLogger attaches a structured logger to ctx; the evaluation packages
// log through it.
var WithLogger = ctxlog.WithLogger
