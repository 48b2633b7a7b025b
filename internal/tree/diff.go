package tree

import (
	"github.com/mj1618/a11y-bridge/internal/model"
)

// ChangeType represents the kind of node change detected.
type ChangeType string

const (
	ChangeAdded   ChangeType = "added"
	ChangeRemoved ChangeType = "removed"
	ChangeChanged ChangeType = "changed"
)

// Change represents a single node change between two snapshots.
type Change struct {
	Type   ChangeType   `yaml:"type"             json:"type"`
	ID     model.NodeID `yaml:"id"               json:"id"`
	Role   model.Role   `yaml:"role"             json:"role"`
	Parent model.NodeID `yaml:"parent,omitempty" json:"parent,omitempty"` // For added/removed: parent where the node lives

	// SubtreeRoot is set on added and removed nodes whose parent was not
	// itself added or removed.
	SubtreeRoot bool `yaml:"subtree_root,omitempty" json:"subtree_root,omitempty"`

	Properties []model.Property             `yaml:"properties,omitempty" json:"properties,omitempty"` // For changed: sorted names
	Values     map[model.Property][2]string `yaml:"values,omitempty"     json:"values,omitempty"`     // For changed: old and new values

	Old *model.Node `yaml:"-" json:"-"`
	New *model.Node `yaml:"-" json:"-"`
}

// Has reports whether p is among the changed properties.
func (c Change) Has(p model.Property) bool {
	for _, q := range c.Properties {
		if q == p {
			return true
		}
	}
	return false
}

// Diff is the difference between two snapshots. Each list is sorted by
// node id, so the result does not depend on the order of the update that
// produced it.
type Diff struct {
	Added        []Change     `yaml:"added,omitempty"     json:"added,omitempty"`
	Removed      []Change     `yaml:"removed,omitempty"   json:"removed,omitempty"`
	Changed      []Change     `yaml:"changed,omitempty"   json:"changed,omitempty"`
	FocusChanged bool         `yaml:"focus_changed"       json:"focus_changed"`
	OldFocus     model.NodeID `yaml:"old_focus,omitempty" json:"old_focus,omitempty"`
	NewFocus     model.NodeID `yaml:"new_focus,omitempty" json:"new_focus,omitempty"`
	RootChanged  bool         `yaml:"root_changed,omitempty" json:"root_changed,omitempty"`
}

// Empty reports whether nothing changed.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0 && !d.FocusChanged && !d.RootChanged
}

// DiffSnapshots compares two snapshots and returns the changes.
// Nodes are matched by id.
func DiffSnapshots(prev, curr *Snapshot) Diff {
	d := Diff{
		FocusChanged: prev.focus != curr.focus,
		OldFocus:     prev.focus,
		NewFocus:     curr.focus,
		RootChanged:  prev.root != curr.root,
	}

	// Check for added and changed nodes
	for _, id := range curr.IDs() {
		n := curr.nodes[id]
		prevNode, existed := prev.nodes[id]
		if !existed {
			parent, hasParent := curr.parents[id]
			d.Added = append(d.Added, Change{
				Type:        ChangeAdded,
				ID:          id,
				Role:        n.Role,
				Parent:      parent,
				SubtreeRoot: !hasParent || prev.Contains(parent),
				New:         n,
			})
			continue
		}
		if prevNode == n {
			continue
		}
		props := model.ChangedProperties(prevNode, n)
		if len(props) == 0 {
			continue
		}
		values := make(map[model.Property][2]string, len(props))
		for _, p := range props {
			values[p] = [2]string{model.FormatProperty(prevNode, p), model.FormatProperty(n, p)}
		}
		d.Changed = append(d.Changed, Change{
			Type:       ChangeChanged,
			ID:         id,
			Role:       n.Role,
			Properties: props,
			Values:     values,
			Old:        prevNode,
			New:        n,
		})
	}

	// Check for removed nodes
	for _, id := range prev.IDs() {
		if curr.Contains(id) {
			continue
		}
		n := prev.nodes[id]
		parent, hasParent := prev.parents[id]
		d.Removed = append(d.Removed, Change{
			Type:        ChangeRemoved,
			ID:          id,
			Role:        n.Role,
			Parent:      parent,
			SubtreeRoot: !hasParent || curr.Contains(parent),
			Old:         n,
		})
	}

	return d
}
