// Package gridsock reads cell ranges from a remote grid engine over a
// socket.io connection. A socket-backed source is never a fast channel:
// every read crosses the wire, so snippets fetched through it run with
// suspension markers in place.
package gridsock

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/cellscript/internal/ctxlog"
	"github.com/vk/cellscript/internal/fetch"
	"github.com/vk/cellscript/internal/wire"
)

const (
	// DefaultRequestEvent carries range requests to the grid engine.
	DefaultRequestEvent = "get-cells"
	// DefaultResponseEvent carries its answers back.
	DefaultResponseEvent = "cells-data"
	// DefaultTimeout bounds one round trip when the context carries no
	// earlier deadline.
	DefaultTimeout = 30 * time.Second
)

// rangeRequest is the wire form of one range read.
type rangeRequest struct {
	X0    int    `json:"x0"`
	Y0    int    `json:"y0"`
	X1    int    `json:"x1"`
	Y1    int    `json:"y1"`
	Sheet string `json:"sheet,omitempty"`
}

type opResult struct {
	data *fetch.RangeData
	err  error
}

// emitter is the slice of the socket.io client the transport touches.
type emitter interface {
	Connected() bool
	ID() string
	Once(event string, fn func(...any))
	RemoveListener(event string, fn func(...any))
	Emit(event string, payload any) error
}

// socketEmitter adapts *socket.Socket to emitter.
type socketEmitter struct {
	s *socket.Socket
}

func (e socketEmitter) Connected() bool { return e.s.Connected() }
func (e socketEmitter) ID() string      { return string(e.s.Id()) }

func (e socketEmitter) Once(event string, fn func(...any)) {
	e.s.Once(types.EventName(event), fn)
}

func (e socketEmitter) RemoveListener(event string, fn func(...any)) {
	e.s.RemoveListener(types.EventName(event), fn)
}

func (e socketEmitter) Emit(event string, payload any) error {
	return e.s.Emit(event, payload)
}

// Option adjusts a Client.
type Option func(*Client)

// WithEvents overrides the request/response event names.
func WithEvents(request, response string) Option {
	return func(c *Client) {
		c.requestEvent = request
		c.responseEvent = response
	}
}

// WithTimeout overrides the per-read round-trip bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// Client is a fetch.Source backed by a connected socket.io client.
type Client struct {
	conn          emitter
	requestEvent  string
	responseEvent string
	timeout       time.Duration
}

// NewClient wraps sock. The caller owns the connection lifecycle; reads
// against a disconnected socket fail immediately.
func NewClient(sock *socket.Socket, opts ...Option) *Client {
	c := &Client{
		requestEvent:  DefaultRequestEvent,
		responseEvent: DefaultResponseEvent,
		timeout:       DefaultTimeout,
	}
	if sock != nil {
		c.conn = socketEmitter{s: sock}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasFastChannel implements fetch.FastChannel.
func (c *Client) HasFastChannel() bool { return false }

// FetchCellRange implements fetch.Source: it emits one range request and
// waits for the matching response event or the deadline. On the abandon
// paths the response handler is removed, so a late answer cannot be
// misattributed to the next read on the same socket.
func (c *Client) FetchCellRange(ctx context.Context, r wire.Range, sheet string) (*fetch.RangeData, error) {
	logger := ctxlog.FromContext(ctx)

	if c.conn == nil || !c.conn.Connected() {
		return nil, fmt.Errorf("grid socket is not connected")
	}
	logger = logger.With("sid", c.conn.ID())

	done := make(chan opResult, 1)
	opCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	handler := func(data ...any) {
		if len(data) == 0 {
			done <- opResult{err: fmt.Errorf("empty %q event", c.responseEvent)}
			return
		}
		rd, err := decodeRangeData(data[0])
		done <- opResult{data: rd, err: err}
	}
	c.conn.Once(c.responseEvent, handler)

	req := rangeRequest{X0: r.P0.X, Y0: r.P0.Y, X1: r.P1.X, Y1: r.P1.Y, Sheet: sheet}
	logger.Debug("emitting range request",
		"event", c.requestEvent, "x0", req.X0, "y0", req.Y0, "x1", req.X1, "y1", req.Y1)
	if err := c.conn.Emit(c.requestEvent, req); err != nil {
		c.conn.RemoveListener(c.responseEvent, handler)
		return nil, fmt.Errorf("failed to emit %q: %w", c.requestEvent, err)
	}

	select {
	case <-opCtx.Done():
		c.conn.RemoveListener(c.responseEvent, handler)
		return nil, fmt.Errorf("timed out after %v waiting for event %q", c.timeout, c.responseEvent)
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		logger.Debug("range response received", "cells", len(res.data.Cells))
		return res.data, nil
	}
}

// decodeRangeData converts the loosely typed event payload the socket.io
// client delivers (maps, slices, float64 numbers) into a RangeData. A JSON
// round trip keeps the decoding rules identical to the wire format.
func decodeRangeData(data any) (*fetch.RangeData, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode range response: %w", err)
	}
	var rd fetch.RangeData
	if err := json.Unmarshal(raw, &rd); err != nil {
		return nil, fmt.Errorf("failed to decode range response: %w", err)
	}
	return &rd, nil
}
