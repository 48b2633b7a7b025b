package model

// TreeInfo carries tree-level attributes that change rarely.
type TreeInfo struct {
	Root NodeID `yaml:"root" json:"root"`
}

// NodeUpdate inserts or wholly replaces one node.
type NodeUpdate struct {
	ID   NodeID `yaml:"id"   json:"id"`
	Node *Node  `yaml:"node" json:"node"`
}

// PatchUpdate modifies selected properties of an existing node.
type PatchUpdate struct {
	ID    NodeID    `yaml:"id"    json:"id"`
	Patch NodePatch `yaml:"patch" json:"patch"`
}

// TreeUpdate is one batch of changes produced by the UI toolkit.
// Within a batch, upserts apply first, then patches, then deletions.
// A nil Focus keeps the previous focus; a zero Focus clears it.
type TreeUpdate struct {
	Nodes   []NodeUpdate  `yaml:"nodes,omitempty"   json:"nodes,omitempty"`
	Patches []PatchUpdate `yaml:"patches,omitempty" json:"patches,omitempty"`
	Deleted []NodeID      `yaml:"deleted,omitempty" json:"deleted,omitempty"`
	Tree    *TreeInfo     `yaml:"tree,omitempty"    json:"tree,omitempty"`
	Focus   *NodeID       `yaml:"focus,omitempty"   json:"focus,omitempty"`
}

// NodePatch lists property changes; nil fields are left untouched.
type NodePatch struct {
	Name          *string        `yaml:"name,omitempty"           json:"name,omitempty"`
	Description   *string        `yaml:"description,omitempty"    json:"description,omitempty"`
	Value         *string        `yaml:"value,omitempty"          json:"value,omitempty"`
	NumericValue  *float64       `yaml:"numeric_value,omitempty"  json:"numeric_value,omitempty"`
	Bounds        *Rect          `yaml:"bounds,omitempty"         json:"bounds,omitempty"`
	Live          *Live          `yaml:"live,omitempty"           json:"live,omitempty"`
	Checked       *Checked       `yaml:"checked,omitempty"        json:"checked,omitempty"`
	Expanded      *bool          `yaml:"expanded,omitempty"       json:"expanded,omitempty"`
	Selected      *bool          `yaml:"selected,omitempty"       json:"selected,omitempty"`
	Focusable     *bool          `yaml:"focusable,omitempty"      json:"focusable,omitempty"`
	Disabled      *bool          `yaml:"disabled,omitempty"       json:"disabled,omitempty"`
	ReadOnly      *bool          `yaml:"read_only,omitempty"      json:"read_only,omitempty"`
	Hidden        *bool          `yaml:"hidden,omitempty"         json:"hidden,omitempty"`
	TextSelection *TextSelection `yaml:"text_selection,omitempty" json:"text_selection,omitempty"`
}

// Apply returns a copy of n with the patch applied. n is not modified.
func (p NodePatch) Apply(n *Node) *Node {
	c := n.Clone()
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Value != nil {
		c.Value = *p.Value
	}
	if p.NumericValue != nil {
		c.NumericValue = clonePtr(p.NumericValue)
	}
	if p.Bounds != nil {
		c.Bounds = clonePtr(p.Bounds)
	}
	if p.Live != nil {
		c.Live = *p.Live
	}
	if p.Checked != nil {
		c.Checked = *p.Checked
	}
	if p.Expanded != nil {
		c.Expanded = clonePtr(p.Expanded)
	}
	if p.Selected != nil {
		c.Selected = clonePtr(p.Selected)
	}
	if p.Focusable != nil {
		c.Focusable = *p.Focusable
	}
	if p.Disabled != nil {
		c.Disabled = *p.Disabled
	}
	if p.ReadOnly != nil {
		c.ReadOnly = *p.ReadOnly
	}
	if p.Hidden != nil {
		c.Hidden = *p.Hidden
	}
	if p.TextSelection != nil {
		c.TextSelection = clonePtr(p.TextSelection)
	}
	return c
}
