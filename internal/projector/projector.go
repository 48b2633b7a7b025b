// Package projector answers platform queries against the latest
// snapshot. Every query names its node by handle; the handle is pinned in
// the registry for the duration of the call.
package projector

import (
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/image/math/f64"

	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/platform"
	"github.com/mj1618/a11y-bridge/internal/registry"
	"github.com/mj1618/a11y-bridge/internal/text"
	"github.com/mj1618/a11y-bridge/internal/tree"
)

var (
	// ErrStaleObject is returned when a handle no longer names a node of
	// the latest snapshot.
	ErrStaleObject = registry.ErrStaleObject

	// ErrIndexOutOfRange is returned by ChildAt for a bad child index.
	ErrIndexOutOfRange = errors.New("child index out of range")

	// ErrNoSuchProperty is returned by Property for a name the platform
	// does not expose on the node.
	ErrNoSuchProperty = errors.New("no such property")
)

// Projector is the synchronous query engine behind a platform adapter.
// It is safe for concurrent use.
type Projector struct {
	store *tree.Store
	reg   *registry.Registry
	ctx   atomic.Pointer[platform.Context]
}

// New returns a projector over store and reg for an initialized platform.
func New(store *tree.Store, reg *registry.Registry, ctx *platform.Context) *Projector {
	p := &Projector{store: store, reg: reg}
	p.ctx.Store(ctx)
	return p
}

// Context returns the platform context in use.
func (p *Projector) Context() *platform.Context { return p.ctx.Load() }

// SetContext swaps the platform context, e.g. after the window moved.
func (p *Projector) SetContext(ctx *platform.Context) { p.ctx.Store(ctx) }

func (p *Projector) native() platform.Platform { return p.ctx.Load().Platform() }

// target is a resolved, pinned node.
type target struct {
	snap *tree.Snapshot
	id   model.NodeID
	node *model.Node
	done func()
}

func (p *Projector) resolve(h registry.Handle) (target, error) {
	id, done, err := p.reg.Acquire(h)
	if err != nil {
		return target{}, err
	}
	snap := p.store.Current()
	n, ok := snap.Node(id)
	if !ok {
		done()
		return target{}, fmt.Errorf("%w: handle %d", ErrStaleObject, h)
	}
	return target{snap: snap, id: id, node: n, done: done}, nil
}

func (p *Projector) handle(snap *tree.Snapshot, id model.NodeID) (registry.Handle, error) {
	return p.reg.HandleFor(snap, id)
}

// Root returns the handle of the root node.
func (p *Projector) Root() (registry.Handle, error) {
	snap := p.store.Current()
	return p.handle(snap, snap.Root())
}

// Focus returns the handle of the focused node. ok is false when nothing
// has focus.
func (p *Projector) Focus() (h registry.Handle, ok bool, err error) {
	snap := p.store.Current()
	if snap.Focus().IsZero() {
		return 0, false, nil
	}
	h, err = p.handle(snap, snap.Focus())
	return h, err == nil, err
}

// Node returns the abstract node and its identifier behind h.
func (p *Projector) Node(h registry.Handle) (model.NodeID, *model.Node, error) {
	t, err := p.resolve(h)
	if err != nil {
		return model.NodeID{}, nil, err
	}
	defer t.done()
	return t.id, t.node, nil
}

// Role returns the native role of h.
func (p *Projector) Role(h registry.Handle) (platform.NativeRole, error) {
	t, err := p.resolve(h)
	if err != nil {
		return platform.NativeRole{}, err
	}
	defer t.done()
	return p.native().Role(t.node), nil
}

// View returns the platform-facing view of h.
func (p *Projector) View(h registry.Handle) (platform.NodeView, error) {
	t, err := p.resolve(h)
	if err != nil {
		return platform.NodeView{}, err
	}
	defer t.done()
	return p.view(t, h)
}

func (p *Projector) view(t target, h registry.Handle) (platform.NodeView, error) {
	coords := p.ctx.Load().Coordinates()
	v := platform.NodeView{
		ID:         t.id,
		Handle:     h,
		Node:       t.node,
		Index:      t.snap.IndexInParent(t.id),
		ChildCount: len(t.node.Children),
		Focused:    t.snap.Focus() == t.id,
		Bounds:     deviceBounds(coords, t.snap, t.id, t.node),
		Coords:     coords,
	}
	if parent, ok := t.snap.Parent(t.id); ok {
		ph, err := p.handle(t.snap, parent)
		if err != nil {
			return platform.NodeView{}, err
		}
		v.Parent = ph
	}
	return v, nil
}

// Properties returns every native property of h.
func (p *Projector) Properties(h registry.Handle) ([]platform.NativeProperty, error) {
	v, err := p.View(h)
	if err != nil {
		return nil, err
	}
	return p.native().Properties(v), nil
}

// Property returns one native property of h by name.
func (p *Projector) Property(h registry.Handle, name string) (platform.NativeProperty, error) {
	props, err := p.Properties(h)
	if err != nil {
		return platform.NativeProperty{}, err
	}
	for _, prop := range props {
		if prop.Name == name {
			return prop, nil
		}
	}
	return platform.NativeProperty{}, fmt.Errorf("%w: %q on handle %d", ErrNoSuchProperty, name, h)
}

// Parent returns the parent of h, or zero for the root.
func (p *Projector) Parent(h registry.Handle) (registry.Handle, error) {
	t, err := p.resolve(h)
	if err != nil {
		return 0, err
	}
	defer t.done()
	parent, ok := t.snap.Parent(t.id)
	if !ok {
		return 0, nil
	}
	return p.handle(t.snap, parent)
}

// ChildCount returns the number of children of h.
func (p *Projector) ChildCount(h registry.Handle) (int, error) {
	t, err := p.resolve(h)
	if err != nil {
		return 0, err
	}
	defer t.done()
	return len(t.node.Children), nil
}

// ChildAt returns the child of h at index i.
func (p *Projector) ChildAt(h registry.Handle, i int) (registry.Handle, error) {
	t, err := p.resolve(h)
	if err != nil {
		return 0, err
	}
	defer t.done()
	if i < 0 || i >= len(t.node.Children) {
		return 0, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(t.node.Children))
	}
	return p.handle(t.snap, t.node.Children[i])
}

// Children returns the handles of all children of h in order.
func (p *Projector) Children(h registry.Handle) ([]registry.Handle, error) {
	t, err := p.resolve(h)
	if err != nil {
		return nil, err
	}
	defer t.done()
	out := make([]registry.Handle, 0, len(t.node.Children))
	for _, c := range t.node.Children {
		ch, err := p.handle(t.snap, c)
		if err != nil {
			return nil, err
		}
		out = append(out, ch)
	}
	return out, nil
}

// Bounds returns the device rectangle of h, or nil when the node declares
// no bounds.
func (p *Projector) Bounds(h registry.Handle) (*platform.DeviceRect, error) {
	t, err := p.resolve(h)
	if err != nil {
		return nil, err
	}
	defer t.done()
	return deviceBounds(p.ctx.Load().Coordinates(), t.snap, t.id, t.node), nil
}

func deviceBounds(c platform.Coordinates, snap *tree.Snapshot, id model.NodeID, n *model.Node) *platform.DeviceRect {
	if n.Bounds == nil {
		return nil
	}
	d := c.ToDevice(model.TransformRect(toRoot(snap, id), *n.Bounds))
	return &d
}

// toRoot returns the transform from id's own space to root logical
// space, composing every transform from the node up to the root.
func toRoot(snap *tree.Snapshot, id model.NodeID) f64.Aff3 {
	m := model.Identity
	for cur, ok := id, true; ok; cur, ok = snap.Parent(cur) {
		if n, found := snap.Node(cur); found && n.Transform != nil {
			m = model.Mul(*n.Transform, m)
		}
	}
	return m
}

// HitTest returns the deepest descendant of h, in paint order, whose
// bounds contain the device point. It returns h itself when no
// descendant matches. Hidden subtrees are skipped.
func (p *Projector) HitTest(h registry.Handle, pt platform.DevicePoint) (registry.Handle, error) {
	t, err := p.resolve(h)
	if err != nil {
		return 0, err
	}
	defer t.done()

	logical := p.ctx.Load().Coordinates().FromDevice(pt)
	// Bring the point into the space of h's parent.
	if parent, ok := t.snap.Parent(t.id); ok {
		inv, ok := model.Invert(toRoot(t.snap, parent))
		if !ok {
			return h, nil
		}
		logical = model.Apply(inv, logical)
	}
	if hit, ok := hitTest(t.snap, t.id, logical); ok && hit != t.id {
		return p.handle(t.snap, hit)
	}
	return h, nil
}

// hitTest searches the subtree at id for pt, given in the space of id's
// parent.
func hitTest(snap *tree.Snapshot, id model.NodeID, pt model.Point) (model.NodeID, bool) {
	n, ok := snap.Node(id)
	if !ok || n.Hidden {
		return model.NodeID{}, false
	}
	if n.Transform != nil {
		inv, ok := model.Invert(*n.Transform)
		if !ok {
			return model.NodeID{}, false
		}
		pt = model.Apply(inv, pt)
	}
	for i := len(n.Children) - 1; i >= 0; i-- {
		if hit, ok := hitTest(snap, n.Children[i], pt); ok {
			return hit, true
		}
	}
	if n.Bounds != nil && n.Bounds.Contains(pt) {
		return id, true
	}
	return model.NodeID{}, false
}

// TextRange is a span of a node's text in platform offsets.
type TextRange struct {
	Start int    `yaml:"start" json:"start"`
	End   int    `yaml:"end"   json:"end"`
	Text  string `yaml:"text"  json:"text"`
}

func (p *Projector) text(h registry.Handle) (*text.Boundaries, text.Encoding, func(), error) {
	t, err := p.resolve(h)
	if err != nil {
		return nil, 0, nil, err
	}
	return text.ForNode(t.node), p.native().Encoding(), t.done, nil
}

// TextLength returns the length of h's text in platform offsets.
func (p *Projector) TextLength(h registry.Handle) (int, error) {
	b, enc, done, err := p.text(h)
	if err != nil {
		return 0, err
	}
	defer done()
	return b.ToOffset(b.Len(), enc), nil
}

// TextRangeAt returns the unit enclosing offset. Offsets are clamped.
func (p *Projector) TextRangeAt(h registry.Handle, offset int, unit text.Unit) (TextRange, error) {
	b, enc, done, err := p.text(h)
	if err != nil {
		return TextRange{}, err
	}
	defer done()
	start, end := b.RangeAt(b.FromOffset(offset, enc), unit)
	return TextRange{
		Start: b.ToOffset(start, enc),
		End:   b.ToOffset(end, enc),
		Text:  b.Text(start, end),
	}, nil
}

// MoveText moves offset by count units and returns the new offset with
// the number of units actually moved.
func (p *Projector) MoveText(h registry.Handle, offset int, unit text.Unit, count int) (int, int, error) {
	b, enc, done, err := p.text(h)
	if err != nil {
		return 0, 0, err
	}
	defer done()
	pos, moved := b.Move(b.FromOffset(offset, enc), unit, count)
	return b.ToOffset(pos, enc), moved, nil
}

// Resolver returns a platform.Resolver bound to snap, for translating
// notifications computed against it.
func (p *Projector) Resolver(snap *tree.Snapshot) platform.Resolver {
	return resolver{reg: p.reg, snap: snap}
}

type resolver struct {
	reg  *registry.Registry
	snap *tree.Snapshot
}

func (r resolver) Snapshot() *tree.Snapshot { return r.snap }

// Handle allocates handles for nodes of the snapshot and falls back to
// the last issued handle for nodes that were just removed.
func (r resolver) Handle(id model.NodeID) registry.Handle {
	if id.IsZero() {
		return 0
	}
	if r.snap.Contains(id) {
		if h, err := r.reg.HandleFor(r.snap, id); err == nil {
			return h
		}
	}
	h, _ := r.reg.Peek(id)
	return h
}
