package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/RoaringBitmap/roaring"
	"github.com/mj1618/a11y-bridge/internal/logger"
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/tree"
)

// Handle is the stable identity handed to the platform for one node.
// Handles are never reused; zero is never issued.
type Handle uint32

// Sentinel errors for the registry.
var (
	// ErrStaleObject is returned for handles or identifiers that are no
	// longer part of the latest snapshot.
	ErrStaleObject = errors.New("stale object")

	// ErrNotRetained is returned by Release for a handle with no references.
	ErrNotRetained = errors.New("handle not retained")
)

type entry struct {
	handle   Handle
	id       model.NodeID
	lastSeen atomic.Uint64 // version of the latest snapshot containing id
	invalid  atomic.Bool
	refs     atomic.Int32 // references held by the platform
	inflight atomic.Int32 // projector calls in progress
}

type liveSet struct {
	version uint64
	handles *roaring.Bitmap
}

// Registry maps node identifiers to platform handles and back.
//
// Lookups go through lock-free maps. Each Prune builds the set of live
// handles for the new snapshot and publishes it with a single atomic
// swap. An entry is invalidated as soon as its node leaves the tree and
// is released once the node has been absent from two consecutive
// snapshots, provided the platform holds no reference and no call is in
// flight.
type Registry struct {
	next     atomic.Uint32
	byID     sync.Map // model.NodeID -> *entry
	byHandle sync.Map // Handle -> *entry
	live     atomic.Pointer[liveSet]
	released atomic.Uint64
	log      *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for release events.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// New returns an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{log: logger.L}
	for _, opt := range opts {
		opt(r)
	}
	r.live.Store(&liveSet{handles: roaring.New()})
	return r
}

// HandleFor returns the handle for id, allocating one on first use. id
// must be part of snap, which should be the latest snapshot.
func (r *Registry) HandleFor(snap *tree.Snapshot, id model.NodeID) (Handle, error) {
	if !snap.Contains(id) {
		return 0, fmt.Errorf("%w: node %s", ErrStaleObject, id)
	}
	for {
		v, found := r.byID.Load(id)
		if found {
			e := v.(*entry)
			if !e.invalid.Load() {
				return e.handle, nil
			}
			ne := r.newEntry(id, snap.Version())
			if r.byID.CompareAndSwap(id, e, ne) {
				return ne.handle, nil
			}
			r.byHandle.Delete(ne.handle)
			continue
		}
		ne := r.newEntry(id, snap.Version())
		if _, loaded := r.byID.LoadOrStore(id, ne); !loaded {
			return ne.handle, nil
		}
		r.byHandle.Delete(ne.handle)
	}
}

// newEntry allocates a handle and indexes it by handle only; the caller
// publishes it by id.
func (r *Registry) newEntry(id model.NodeID, version uint64) *entry {
	e := &entry{handle: Handle(r.next.Add(1)), id: id}
	e.lastSeen.Store(version)
	r.byHandle.Store(e.handle, e)
	return e
}

// Peek returns the most recent handle issued for id without allocating.
// It also finds invalidated handles that have not been released yet, so
// removal notifications can name the node that went away.
func (r *Registry) Peek(id model.NodeID) (Handle, bool) {
	v, ok := r.byID.Load(id)
	if !ok {
		return 0, false
	}
	return v.(*entry).handle, true
}

// IdentifierFor returns the node identifier behind h.
func (r *Registry) IdentifierFor(h Handle) (model.NodeID, error) {
	e, err := r.lookup(h)
	if err != nil {
		return model.NodeID{}, err
	}
	return e.id, nil
}

// Acquire resolves h and pins its entry until the returned function is
// called. Pinned entries are never released.
func (r *Registry) Acquire(h Handle) (model.NodeID, func(), error) {
	v, ok := r.byHandle.Load(h)
	if !ok {
		return model.NodeID{}, nil, fmt.Errorf("%w: handle %d", ErrStaleObject, h)
	}
	e := v.(*entry)
	e.inflight.Add(1)
	if e.invalid.Load() {
		e.inflight.Add(-1)
		return model.NodeID{}, nil, fmt.Errorf("%w: handle %d", ErrStaleObject, h)
	}
	return e.id, func() { e.inflight.Add(-1) }, nil
}

// Retain records a platform-held reference to h.
func (r *Registry) Retain(h Handle) error {
	v, ok := r.byHandle.Load(h)
	if !ok {
		return fmt.Errorf("%w: handle %d", ErrStaleObject, h)
	}
	v.(*entry).refs.Add(1)
	return nil
}

// Release drops a platform-held reference to h. Invalidated handles may
// still be released until the registry frees them.
func (r *Registry) Release(h Handle) error {
	v, ok := r.byHandle.Load(h)
	if !ok {
		return fmt.Errorf("%w: handle %d", ErrStaleObject, h)
	}
	e := v.(*entry)
	for {
		n := e.refs.Load()
		if n <= 0 {
			return fmt.Errorf("%w: handle %d", ErrNotRetained, h)
		}
		if e.refs.CompareAndSwap(n, n-1) {
			return nil
		}
	}
}

// IsLive reports whether h currently resolves to a node. Handles
// confirmed by the last Prune are answered from the published live set;
// only handles issued since then fall back to their entry.
func (r *Registry) IsLive(h Handle) bool {
	if r.live.Load().handles.Contains(uint32(h)) {
		return true
	}
	_, err := r.lookup(h)
	return err == nil
}

func (r *Registry) lookup(h Handle) (*entry, error) {
	v, ok := r.byHandle.Load(h)
	if !ok {
		return nil, fmt.Errorf("%w: handle %d", ErrStaleObject, h)
	}
	e := v.(*entry)
	if e.invalid.Load() {
		return nil, fmt.Errorf("%w: handle %d", ErrStaleObject, h)
	}
	return e, nil
}

// Prune reconciles the registry with snap, which must be the snapshot
// just made current. It returns the handles invalidated by this call.
func (r *Registry) Prune(snap *tree.Snapshot) []Handle {
	version := snap.Version()
	live := roaring.New()
	var invalidated []Handle

	r.byHandle.Range(func(k, v any) bool {
		e := v.(*entry)
		if !e.invalid.Load() && snap.Contains(e.id) {
			e.lastSeen.Store(version)
			live.Add(uint32(e.handle))
			return true
		}
		if e.invalid.CompareAndSwap(false, true) {
			invalidated = append(invalidated, e.handle)
		}
		if version >= e.lastSeen.Load()+2 && e.refs.Load() == 0 && e.inflight.Load() == 0 {
			r.byHandle.Delete(k)
			r.byID.CompareAndDelete(e.id, e)
			r.released.Add(1)
			r.log.Debug("handle released", "handle", e.handle, "node", e.id, "version", version)
		}
		return true
	})

	live.RunOptimize()
	r.live.Store(&liveSet{version: version, handles: live})
	return invalidated
}

// LiveHandles returns the handles confirmed live by the last Prune.
func (r *Registry) LiveHandles() []Handle {
	ls := r.live.Load()
	out := make([]Handle, 0, ls.handles.GetCardinality())
	it := ls.handles.Iterator()
	for it.HasNext() {
		out = append(out, Handle(it.Next()))
	}
	return out
}

// Stats describes the registry's bookkeeping.
type Stats struct {
	Version  uint64 `yaml:"version"  json:"version"`
	Live     uint64 `yaml:"live"     json:"live"`
	Tracked  int    `yaml:"tracked"  json:"tracked"`
	Released uint64 `yaml:"released" json:"released"`
}

// Stats returns a point-in-time summary.
func (r *Registry) Stats() Stats {
	ls := r.live.Load()
	tracked := 0
	r.byHandle.Range(func(_, _ any) bool {
		tracked++
		return true
	})
	return Stats{
		Version:  ls.version,
		Live:     ls.handles.GetCardinality(),
		Tracked:  tracked,
		Released: r.released.Load(),
	}
}
