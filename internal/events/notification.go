package events

import (
	"slices"

	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/tree"
)

// Kind identifies an abstract notification.
type Kind string

const (
	KindNodeRemoved     Kind = "node-removed"
	KindChildrenChanged Kind = "children-changed"
	KindPropertyChanged Kind = "property-changed"
	KindLiveRegion      Kind = "live-region-changed"
	KindFocusChanged    Kind = "focus-changed"
)

// Notification is a platform-independent change event. Target is the node
// the platform event is raised on.
type Notification struct {
	Kind   Kind         `yaml:"kind"   json:"kind"`
	Target model.NodeID `yaml:"target" json:"target"`

	// KindNodeRemoved: the removed subtree root and its former index.
	Node  model.NodeID `yaml:"node,omitempty"  json:"node,omitempty"`
	Index int          `yaml:"index,omitempty" json:"index,omitempty"`

	// KindChildrenChanged: roots of inserted subtrees.
	Inserted []model.NodeID `yaml:"inserted,omitempty" json:"inserted,omitempty"`

	// KindPropertyChanged
	Property model.Property `yaml:"property,omitempty"  json:"property,omitempty"`
	OldValue string         `yaml:"old_value,omitempty" json:"old_value,omitempty"`
	NewValue string         `yaml:"new_value,omitempty" json:"new_value,omitempty"`

	// KindLiveRegion
	Text       string     `yaml:"text,omitempty"       json:"text,omitempty"`
	Politeness model.Live `yaml:"politeness,omitempty" json:"politeness,omitempty"`

	// KindFocusChanged
	Previous model.NodeID `yaml:"previous,omitempty" json:"previous,omitempty"`
}

// Compute derives the notifications for the transition from prev to curr.
// They are ordered: structural changes, property changes, live-region
// announcements, then focus.
func Compute(prev, curr *tree.Snapshot, d tree.Diff) []Notification {
	var out []Notification
	out = append(out, structural(prev, curr, d)...)

	for _, c := range d.Changed {
		for _, p := range c.Properties {
			if p == model.PropChildren {
				continue
			}
			v := c.Values[p]
			out = append(out, Notification{
				Kind:     KindPropertyChanged,
				Target:   c.ID,
				Property: p,
				OldValue: v[0],
				NewValue: v[1],
			})
		}
	}

	out = append(out, announcements(d)...)

	if d.FocusChanged && !d.NewFocus.IsZero() {
		out = append(out, Notification{Kind: KindFocusChanged, Target: d.NewFocus, Previous: d.OldFocus})
	}
	return out
}

// structural reports each removed subtree on its former parent, then one
// children-changed event on the lowest common ancestor of every parent
// whose child list changed for reasons other than removal.
func structural(prev, curr *tree.Snapshot, d tree.Diff) []Notification {
	var out []Notification
	for _, c := range d.Removed {
		if !c.SubtreeRoot || c.Parent.IsZero() {
			continue
		}
		out = append(out, Notification{
			Kind:   KindNodeRemoved,
			Target: c.Parent,
			Node:   c.ID,
			Index:  prev.IndexInParent(c.ID),
		})
	}

	var parents, moved []model.NodeID
	if d.RootChanged {
		parents = append(parents, curr.Root())
	}
	for _, c := range d.Changed {
		if !c.Has(model.PropChildren) {
			continue
		}
		// A child that now lives under another parent was moved, not removed,
		// so both its old and its new parent count as changed.
		changed := false
		kept := slices.DeleteFunc(slices.Clone(c.Old.Children), func(id model.NodeID) bool {
			p, ok := curr.Parent(id)
			if ok && p != c.ID {
				changed = true
			}
			return !ok || p != c.ID
		})
		for _, id := range c.New.Children {
			if p, ok := prev.Parent(id); ok && p != c.ID {
				moved = append(moved, id)
				changed = true
			}
		}
		if changed || !slices.Equal(kept, c.New.Children) {
			parents = append(parents, c.ID)
		}
	}
	lca, ok := curr.LowestCommonAncestor(parents...)
	if !ok {
		return out
	}

	var inserted []model.NodeID
	for _, c := range d.Added {
		if c.SubtreeRoot {
			inserted = append(inserted, c.ID)
		}
	}
	inserted = append(inserted, moved...)
	return append(out, Notification{Kind: KindChildrenChanged, Target: lca, Inserted: inserted})
}

// announcements returns live-region events for added or changed nodes
// whose politeness is not off.
func announcements(d tree.Diff) []Notification {
	var out []Notification
	announce := func(id model.NodeID, n *model.Node) {
		if n.Live == model.LiveOff {
			return
		}
		text := liveText(n)
		if text == "" {
			return
		}
		out = append(out, Notification{Kind: KindLiveRegion, Target: id, Text: text, Politeness: n.Live})
	}
	for _, c := range d.Added {
		announce(c.ID, c.New)
	}
	for _, c := range d.Changed {
		if c.Has(model.PropName) || c.Has(model.PropValue) || c.Has(model.PropLive) {
			announce(c.ID, c.New)
		}
	}
	return out
}

func liveText(n *model.Node) string {
	if t := n.TextContent(); t != "" {
		return t
	}
	return n.Name
}
