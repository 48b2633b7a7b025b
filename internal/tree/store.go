package tree

import (
	"log/slog"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/mj1618/a11y-bridge/internal/logger"
	"github.com/mj1618/a11y-bridge/internal/model"
)

// Store holds the current snapshot. Readers call Current without locking;
// writers are serialized and publish each new snapshot with one atomic swap.
type Store struct {
	mu       sync.Mutex
	current  atomic.Pointer[Snapshot]
	previous atomic.Pointer[Snapshot]
	log      *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for rejected updates.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// NewStore returns a store holding an empty snapshot. The first update
// applied must name a root.
func NewStore(opts ...Option) *Store {
	s := &Store{log: logger.L}
	for _, opt := range opts {
		opt(s)
	}
	empty := &Snapshot{
		nodes:   map[model.NodeID]*model.Node{},
		parents: map[model.NodeID]model.NodeID{},
	}
	s.current.Store(empty)
	s.previous.Store(empty)
	return s
}

// Current returns the latest snapshot.
func (s *Store) Current() *Snapshot { return s.current.Load() }

// Previous returns the snapshot replaced by the last successful apply.
func (s *Store) Previous() *Snapshot { return s.previous.Load() }

// Apply validates u against the current snapshot and, if it yields a
// well-formed tree, makes the result current. On error the current
// snapshot is unchanged.
func (s *Store) Apply(u model.TreeUpdate) (*Snapshot, Diff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.current.Load()
	next, err := build(old, u)
	if err != nil {
		s.log.Warn("tree update rejected", "version", old.version, "error", err)
		return old, Diff{}, err
	}
	s.previous.Store(old)
	s.current.Store(next)
	return next, DiffSnapshots(old, next), nil
}

func build(old *Snapshot, u model.TreeUpdate) (*Snapshot, error) {
	nodes := maps.Clone(old.nodes)
	root := old.root
	if u.Tree != nil {
		root = u.Tree.Root
	}
	if root.IsZero() {
		return nil, malformed(ViolationMissingRoot, root, "no root declared")
	}

	upserted := make(map[model.NodeID]bool, len(u.Nodes))
	for _, nu := range u.Nodes {
		if nu.ID.IsZero() {
			return nil, malformed(ViolationZeroID, nu.ID, "upsert with zero id")
		}
		if nu.Node == nil {
			return nil, malformed(ViolationMissingNode, nu.ID, "upsert without node")
		}
		if upserted[nu.ID] {
			return nil, malformed(ViolationDuplicateID, nu.ID, "upserted twice in one update")
		}
		upserted[nu.ID] = true
		nodes[nu.ID] = nu.Node.Clone()
	}

	for _, p := range u.Patches {
		n, ok := nodes[p.ID]
		if !ok {
			return nil, malformed(ViolationUnknownPatch, p.ID, "")
		}
		nodes[p.ID] = p.Patch.Apply(n)
	}

	deleteNodes(old, nodes, u.Deleted, upserted)

	parents, err := validate(nodes, root)
	if err != nil {
		return nil, err
	}

	// Orphans are reported in batch order.
	for _, nu := range u.Nodes {
		if _, ok := nodes[nu.ID]; !ok || nu.ID == root {
			continue
		}
		if _, reachable := parents[nu.ID]; !reachable {
			return nil, malformed(ViolationOrphan, nu.ID, "")
		}
	}
	for id := range nodes {
		if _, reachable := parents[id]; !reachable && id != root {
			delete(nodes, id)
		}
	}

	focus := old.focus
	if u.Focus != nil {
		focus = *u.Focus
		if !focus.IsZero() && nodes[focus] == nil {
			return nil, malformed(ViolationMissingFocus, focus, "")
		}
	} else if nodes[focus] == nil {
		focus = model.NodeID{}
	}

	return &Snapshot{
		version: old.version + 1,
		root:    root,
		focus:   focus,
		nodes:   nodes,
		parents: parents,
	}, nil
}

// deleteNodes removes ids from nodes and detaches them from the child
// list of whichever node references them. Absent ids are ignored.
func deleteNodes(old *Snapshot, nodes map[model.NodeID]*model.Node, ids []model.NodeID, upserted map[model.NodeID]bool) {
	if len(ids) == 0 {
		return
	}
	deleted := make(map[model.NodeID]bool, len(ids))
	candidates := make(map[model.NodeID]bool)
	for _, id := range ids {
		if _, ok := nodes[id]; !ok {
			continue
		}
		delete(nodes, id)
		deleted[id] = true
		if p, ok := old.parents[id]; ok {
			candidates[p] = true
		}
	}
	for id := range upserted {
		candidates[id] = true
	}
	for id := range candidates {
		n, ok := nodes[id]
		if !ok {
			continue
		}
		if !slices.ContainsFunc(n.Children, func(c model.NodeID) bool { return deleted[c] }) {
			continue
		}
		c := n.Clone()
		c.Children = slices.DeleteFunc(c.Children, func(c model.NodeID) bool { return deleted[c] })
		nodes[id] = c
	}
}

// validate walks the tree from root and returns the parent of every
// reachable non-root node.
func validate(nodes map[model.NodeID]*model.Node, root model.NodeID) (map[model.NodeID]model.NodeID, error) {
	if _, ok := nodes[root]; !ok {
		return nil, malformed(ViolationMissingRoot, root, "root has no node")
	}
	parents := make(map[model.NodeID]model.NodeID, len(nodes))
	stack := []model.NodeID{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range nodes[id].Children {
			if _, ok := nodes[c]; !ok {
				return nil, malformed(ViolationDanglingChild, id, "child %s does not exist", c)
			}
			if c == root || isAncestor(parents, c, id) {
				return nil, malformed(ViolationCycle, c, "reached again from %s", id)
			}
			if p, seen := parents[c]; seen {
				if p == id {
					return nil, malformed(ViolationDuplicateID, c, "listed twice among children of %s", id)
				}
				return nil, malformed(ViolationMultipleParents, c, "children of both %s and %s", p, id)
			}
			parents[c] = id
			stack = append(stack, c)
		}
	}
	return parents, nil
}

func isAncestor(parents map[model.NodeID]model.NodeID, a, id model.NodeID) bool {
	for {
		if id == a {
			return true
		}
		p, ok := parents[id]
		if !ok {
			return false
		}
		id = p
	}
}
