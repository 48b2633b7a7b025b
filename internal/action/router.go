// Package action routes platform-initiated actions to the application.
// Requests are validated against the latest snapshot and queued; the
// application consumes them on its own goroutine.
package action

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/mj1618/a11y-bridge/internal/logger"
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/registry"
	"github.com/mj1618/a11y-bridge/internal/text"
	"github.com/mj1618/a11y-bridge/internal/tree"
)

// DefaultQueueSize is the request queue capacity used when none is set.
const DefaultQueueSize = 64

// Router validates and queues action requests.
type Router struct {
	store *tree.Store
	reg   *registry.Registry
	log   *slog.Logger

	mu     sync.RWMutex // held for reading while sending, for writing to close
	queue  chan model.ActionRequest
	closed bool
	size   int

	enqueued atomic.Uint64
	dropped  atomic.Uint64
	handled  atomic.Uint64
	panicked atomic.Uint64
}

// Option configures a Router.
type Option func(*Router)

// WithQueueSize sets the request queue capacity.
func WithQueueSize(size int) Option {
	return func(r *Router) {
		if size > 0 {
			r.size = size
		}
	}
}

// WithLogger sets the logger for dropped requests and handler panics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) { r.log = l }
}

// New returns a router reading nodes from store and handles from reg.
func New(store *tree.Store, reg *registry.Registry, opts ...Option) *Router {
	r := &Router{store: store, reg: reg, log: logger.L, size: DefaultQueueSize}
	for _, opt := range opts {
		opt(r)
	}
	r.queue = make(chan model.ActionRequest, r.size)
	return r
}

// Request validates an action on the node behind h and queues it. It
// never blocks; a full queue yields ErrQueueFull.
func (r *Router) Request(h registry.Handle, a model.Action, data model.ActionData) (model.ActionRequest, error) {
	id, done, err := r.reg.Acquire(h)
	if err != nil {
		return model.ActionRequest{}, err
	}
	defer done()

	n, ok := r.store.Current().Node(id)
	if !ok {
		return model.ActionRequest{}, fmt.Errorf("%w: handle %d", ErrStaleObject, h)
	}
	if !model.Supports(n, a) {
		return model.ActionRequest{}, &UnsupportedActionError{Action: a, Target: id, Role: n.Role}
	}
	data, err = validate(n, a, data)
	if err != nil {
		return model.ActionRequest{}, err
	}

	req := model.ActionRequest{ID: uuid.New(), Action: a, Target: id, Data: data}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return model.ActionRequest{}, ErrRouterClosed
	}
	select {
	case r.queue <- req:
		r.enqueued.Add(1)
		return req, nil
	default:
		r.dropped.Add(1)
		r.log.Warn("action dropped", "action", a, "node", id, "queue", r.size)
		return model.ActionRequest{}, ErrQueueFull
	}
}

// validate checks the argument an action needs and clamps text offsets.
func validate(n *model.Node, a model.Action, data model.ActionData) (model.ActionData, error) {
	switch a {
	case model.ActionSetValue:
		if data.Value == nil {
			return data, fmt.Errorf("%w: %s needs a value", ErrInvalidActionData, a)
		}
	case model.ActionSetNumericValue:
		if data.NumericValue == nil {
			return data, fmt.Errorf("%w: %s needs a numeric value", ErrInvalidActionData, a)
		}
		if v := *data.NumericValue; math.IsNaN(v) || math.IsInf(v, 0) {
			return data, fmt.Errorf("%w: %s value %v is not finite", ErrInvalidActionData, a, v)
		}
	case model.ActionSetTextSelection:
		if data.TextSelection == nil {
			return data, fmt.Errorf("%w: %s needs a selection", ErrInvalidActionData, a)
		}
		length := text.ForNode(n).Len()
		sel := *data.TextSelection
		sel.Anchor = max(0, min(sel.Anchor, length))
		sel.Focus = max(0, min(sel.Focus, length))
		data.TextSelection = &sel
	case model.ActionScrollIntoView:
		if t := data.ScrollTarget; t != nil && (t.X1 < t.X0 || t.Y1 < t.Y0) {
			return data, fmt.Errorf("%w: inverted scroll target", ErrInvalidActionData)
		}
	}
	return data, nil
}

// Requests returns the queue for callers that consume it directly. It is
// closed by Close.
func (r *Router) Requests() <-chan model.ActionRequest { return r.queue }

// Run delivers queued requests to h until ctx is done or the router is
// closed and drained. Handler panics are logged and do not stop Run.
func (r *Router) Run(ctx context.Context, h model.ActionHandler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req, ok := <-r.queue:
			if !ok {
				return nil
			}
			r.deliver(h, req)
		}
	}
}

func (r *Router) deliver(h model.ActionHandler, req model.ActionRequest) {
	defer func() {
		if v := recover(); v != nil {
			r.panicked.Add(1)
			r.log.Error("action handler panic", "action", req.Action, "node", req.Target,
				"request", req.ID, "panic", v, "stack", string(debug.Stack()))
		}
	}()
	h.DoAction(req)
	r.handled.Add(1)
}

// Close stops accepting requests. Queued requests remain readable.
func (r *Router) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
}

// Stats counts requests by outcome.
type Stats struct {
	Enqueued uint64 `yaml:"enqueued" json:"enqueued"`
	Dropped  uint64 `yaml:"dropped"  json:"dropped"`
	Handled  uint64 `yaml:"handled"  json:"handled"`
	Panicked uint64 `yaml:"panicked" json:"panicked"`
	Pending  int    `yaml:"pending"  json:"pending"`
}

// Stats returns a point-in-time summary.
func (r *Router) Stats() Stats {
	return Stats{
		Enqueued: r.enqueued.Load(),
		Dropped:  r.dropped.Load(),
		Handled:  r.handled.Load(),
		Panicked: r.panicked.Load(),
		Pending:  len(r.queue),
	}
}
