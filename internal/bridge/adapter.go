// Package bridge wires the tree store, identity registry, projector,
// action router and event emitter into one adapter per native window.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mj1618/a11y-bridge/internal/action"
	"github.com/mj1618/a11y-bridge/internal/events"
	"github.com/mj1618/a11y-bridge/internal/logger"
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/platform"
	"github.com/mj1618/a11y-bridge/internal/projector"
	"github.com/mj1618/a11y-bridge/internal/registry"
	"github.com/mj1618/a11y-bridge/internal/tree"
)

// ErrNoContext is returned by New when the platform was not initialized.
var ErrNoContext = errors.New("platform not initialized")

// Adapter bridges one abstract tree to one native platform.
type Adapter struct {
	mu        sync.Mutex // serializes updates so the registry sees snapshots in order
	ctx       *platform.Context
	store     *tree.Store
	reg       *registry.Registry
	proj      *projector.Projector
	router    *action.Router
	emitter   *events.Emitter
	notifier  platform.Notifier
	log       *slog.Logger
	focused   bool
	queueSize int
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger shared by the adapter's components.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) { a.log = l }
}

// WithActionQueueSize sets the capacity of the action queue.
func WithActionQueueSize(n int) Option {
	return func(a *Adapter) { a.queueSize = n }
}

// New builds an adapter for an initialized platform, applies the initial
// tree and raises no notifications for it.
func New(ctx *platform.Context, initial model.TreeUpdate, notifier platform.Notifier, opts ...Option) (*Adapter, error) {
	if ctx == nil {
		return nil, ErrNoContext
	}
	if notifier == nil {
		return nil, fmt.Errorf("new adapter: nil notifier")
	}
	a := &Adapter{
		ctx:       ctx,
		notifier:  notifier,
		log:       logger.L,
		focused:   true,
		queueSize: action.DefaultQueueSize,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.With("platform", ctx.Platform().Name())
	a.store = tree.NewStore(tree.WithLogger(a.log))
	a.reg = registry.New(registry.WithLogger(a.log))
	a.proj = projector.New(a.store, a.reg, ctx)
	a.router = action.New(a.store, a.reg, action.WithQueueSize(a.queueSize), action.WithLogger(a.log))
	a.emitter = events.NewEmitter(events.RaiserFunc(a.raise), events.WithLogger(a.log))

	snap, _, err := a.store.Apply(initial)
	if err != nil {
		return nil, fmt.Errorf("initial tree: %w", err)
	}
	a.reg.Prune(snap)
	return a, nil
}

// raise translates one notification and hands the native events to the
// notifier. Every native event is attempted; failures are joined.
func (a *Adapter) raise(snap *tree.Snapshot, n events.Notification) error {
	evs := a.ctx.Platform().Translate(n, a.proj.Resolver(snap))
	var errs []error
	for _, ev := range evs {
		if err := a.notifier.Notify(ev); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ev.Name, err))
		}
	}
	return errors.Join(errs...)
}

// UpdateQueued applies u and returns its notifications without raising
// them, so the caller can raise them after releasing its own locks. On
// error the tree is unchanged and nothing is queued.
func (a *Adapter) UpdateQueued(u model.TreeUpdate) (*events.Queue, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	prev := a.store.Current()
	snap, diff, err := a.store.Apply(u)
	if err != nil {
		return nil, err
	}
	notes := events.Compute(prev, snap, diff)
	if !a.focused {
		notes = withoutFocus(notes)
	}
	a.reg.Prune(snap)
	a.log.Debug("tree updated", "version", snap.Version(), "nodes", snap.Len(),
		"added", len(diff.Added), "removed", len(diff.Removed), "changed", len(diff.Changed),
		"notifications", len(notes))
	return a.emitter.Queue(snap, notes), nil
}

// Update applies u and raises its notifications.
func (a *Adapter) Update(u model.TreeUpdate) (events.Report, error) {
	q, err := a.UpdateQueued(u)
	if err != nil {
		return events.Report{}, err
	}
	return q.Raise(), nil
}

func withoutFocus(notes []events.Notification) []events.Notification {
	out := notes[:0:0]
	for _, n := range notes {
		if n.Kind != events.KindFocusChanged {
			out = append(out, n)
		}
	}
	return out
}

// SetWindowFocused records whether the host window has keyboard focus.
// Focus events are withheld while it does not; regaining focus reports
// the current focus.
func (a *Adapter) SetWindowFocused(focused bool) events.Report {
	a.mu.Lock()
	was := a.focused
	a.focused = focused
	snap := a.store.Current()
	a.mu.Unlock()

	if !focused || was || snap.Focus().IsZero() {
		return events.Report{}
	}
	return a.emitter.Emit(snap, []events.Notification{{Kind: events.KindFocusChanged, Target: snap.Focus()}})
}

// SetWindow updates the window geometry used for coordinates.
func (a *Adapter) SetWindow(w model.Window) error {
	ctx, err := a.proj.Context().WithWindow(w)
	if err != nil {
		return err
	}
	a.proj.SetContext(ctx)
	return nil
}

// Snapshot returns the current snapshot.
func (a *Adapter) Snapshot() *tree.Snapshot { return a.store.Current() }

// Platform returns the platform this adapter projects to.
func (a *Adapter) Platform() platform.Platform { return a.ctx.Platform() }

// Projector returns the query engine for platform callbacks.
func (a *Adapter) Projector() *projector.Projector { return a.proj }

// Registry returns the handle registry, for Retain and Release.
func (a *Adapter) Registry() *registry.Registry { return a.reg }

// Request routes a platform-initiated action.
func (a *Adapter) Request(h registry.Handle, act model.Action, data model.ActionData) (model.ActionRequest, error) {
	return a.router.Request(h, act, data)
}

// Actions returns the queue of validated action requests.
func (a *Adapter) Actions() <-chan model.ActionRequest { return a.router.Requests() }

// RunActions delivers action requests to h until ctx is done or the
// adapter is closed.
func (a *Adapter) RunActions(ctx context.Context, h model.ActionHandler) error {
	return a.router.Run(ctx, h)
}

// Close stops accepting actions.
func (a *Adapter) Close() { a.router.Close() }

// Stats summarizes the adapter's components.
type Stats struct {
	Platform      string         `yaml:"platform"      json:"platform"`
	Version       uint64         `yaml:"version"       json:"version"`
	Nodes         int            `yaml:"nodes"         json:"nodes"`
	Handles       registry.Stats `yaml:"handles"       json:"handles"`
	Actions       action.Stats   `yaml:"actions"       json:"actions"`
	Notifications uint64         `yaml:"notifications" json:"notifications"`
	Failed        uint64         `yaml:"failed"        json:"failed"`
}

// Stats returns a point-in-time summary.
func (a *Adapter) Stats() Stats {
	snap := a.store.Current()
	sent, failed := a.emitter.Totals()
	return Stats{
		Platform:      a.ctx.Platform().Name(),
		Version:       snap.Version(),
		Nodes:         snap.Len(),
		Handles:       a.reg.Stats(),
		Actions:       a.router.Stats(),
		Notifications: sent,
		Failed:        failed,
	}
}
