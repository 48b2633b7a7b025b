package tree

import (
	"slices"

	"github.com/mj1618/a11y-bridge/internal/model"
)

// Snapshot is an immutable, validated view of the tree. Every node is
// reachable from the root through exactly one parent.
type Snapshot struct {
	version uint64
	root    model.NodeID
	focus   model.NodeID
	nodes   map[model.NodeID]*model.Node
	parents map[model.NodeID]model.NodeID
}

// Version increases by one with every successful apply.
func (s *Snapshot) Version() uint64 { return s.version }

// Root returns the root identifier.
func (s *Snapshot) Root() model.NodeID { return s.root }

// Focus returns the focused node, or the zero id when nothing has focus.
func (s *Snapshot) Focus() model.NodeID { return s.focus }

// Len returns the number of nodes.
func (s *Snapshot) Len() int { return len(s.nodes) }

// Node returns the node for id. The returned node must not be modified.
func (s *Snapshot) Node(id model.NodeID) (*model.Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Contains reports whether id is part of the snapshot.
func (s *Snapshot) Contains(id model.NodeID) bool {
	_, ok := s.nodes[id]
	return ok
}

// Parent returns the parent of id; ok is false for the root and for
// unknown ids.
func (s *Snapshot) Parent(id model.NodeID) (model.NodeID, bool) {
	p, ok := s.parents[id]
	return p, ok
}

// IndexInParent returns the position of id among its siblings, or -1.
func (s *Snapshot) IndexInParent(id model.NodeID) int {
	p, ok := s.parents[id]
	if !ok {
		return -1
	}
	return slices.Index(s.nodes[p].Children, id)
}

// IDs returns all identifiers in ascending order.
func (s *Snapshot) IDs() []model.NodeID {
	ids := make([]model.NodeID, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

// Walk visits nodes in pre-order starting at the root. Returning false
// from fn skips the node's subtree.
func (s *Snapshot) Walk(fn func(id model.NodeID, n *model.Node, depth int) bool) {
	if s.root.IsZero() {
		return
	}
	s.walk(s.root, 0, fn)
}

func (s *Snapshot) walk(id model.NodeID, depth int, fn func(model.NodeID, *model.Node, int) bool) {
	n := s.nodes[id]
	if !fn(id, n, depth) {
		return
	}
	for _, c := range n.Children {
		s.walk(c, depth+1, fn)
	}
}

// Ancestors returns the chain from id's parent up to the root.
func (s *Snapshot) Ancestors(id model.NodeID) []model.NodeID {
	var out []model.NodeID
	for {
		p, ok := s.parents[id]
		if !ok {
			return out
		}
		out = append(out, p)
		id = p
	}
}

// IsAncestor reports whether a is a strict ancestor of id.
func (s *Snapshot) IsAncestor(a, id model.NodeID) bool {
	for {
		p, ok := s.parents[id]
		if !ok {
			return false
		}
		if p == a {
			return true
		}
		id = p
	}
}

// LowestCommonAncestor returns the deepest node that is an ancestor of,
// or equal to, every id in ids. Unknown ids are ignored. ok is false when
// no known id is given.
func (s *Snapshot) LowestCommonAncestor(ids ...model.NodeID) (model.NodeID, bool) {
	var lca model.NodeID
	found := false
	for _, id := range ids {
		if !s.Contains(id) {
			continue
		}
		if !found {
			lca, found = id, true
			continue
		}
		for lca != id && !s.IsAncestor(lca, id) {
			p, ok := s.parents[lca]
			if !ok {
				break
			}
			lca = p
		}
	}
	return lca, found
}

// Equal reports whether two snapshots describe the same tree, ignoring
// their versions.
func (s *Snapshot) Equal(o *Snapshot) bool {
	if s.root != o.root || s.focus != o.focus || len(s.nodes) != len(o.nodes) {
		return false
	}
	for id, n := range s.nodes {
		on, ok := o.nodes[id]
		if !ok || !n.Equal(on) {
			return false
		}
	}
	return true
}

func sortIDs(ids []model.NodeID) {
	slices.SortFunc(ids, func(a, b model.NodeID) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
}
