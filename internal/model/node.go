package model

import (
	"fmt"
	"slices"

	"golang.org/x/image/math/f64"
)

// Live is the politeness setting of a live region.
type Live uint8

const (
	LiveOff Live = iota
	LivePolite
	LiveAssertive
)

var liveNames = [...]string{"off", "polite", "assertive"}

func (l Live) String() string {
	if int(l) < len(liveNames) {
		return liveNames[l]
	}
	return fmt.Sprintf("Live(%d)", uint8(l))
}

// MarshalText implements encoding.TextMarshaler.
func (l Live) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Live) UnmarshalText(b []byte) error {
	for i, name := range liveNames {
		if name == string(b) {
			*l = Live(i)
			return nil
		}
	}
	return fmt.Errorf("unknown live setting %q", b)
}

// Checked is the tri-state of check boxes, switches and toggle buttons.
type Checked string

const (
	CheckedFalse Checked = "false"
	CheckedTrue  Checked = "true"
	CheckedMixed Checked = "mixed"
)

// TextBoundaries carries toolkit-computed text segmentation. Character
// lengths are UTF-8 byte lengths of each character; word and line lengths
// are counted in characters. Any list may be empty, in which case
// boundaries are derived from the text itself.
type TextBoundaries struct {
	CharacterLengths []int `yaml:"character_lengths,omitempty" json:"character_lengths,omitempty"`
	WordLengths      []int `yaml:"word_lengths,omitempty"      json:"word_lengths,omitempty"`
	LineLengths      []int `yaml:"line_lengths,omitempty"      json:"line_lengths,omitempty"`
}

// TextSelection is a selection within a node's text, in character indices.
// Anchor and Focus are equal for a caret.
type TextSelection struct {
	Anchor int `yaml:"anchor" json:"anchor"`
	Focus  int `yaml:"focus"  json:"focus"`
}

// Node is one element of the abstract accessibility tree. Nodes are
// immutable once they are part of a snapshot.
type Node struct {
	Role        Role      `yaml:"role"                  json:"role"`
	Children    []NodeID  `yaml:"children,omitempty"    json:"children,omitempty"`
	Bounds      *Rect     `yaml:"bounds,omitempty"      json:"bounds,omitempty"`    // in the node's own coordinate space
	Transform   *f64.Aff3 `yaml:"transform,omitempty"   json:"transform,omitempty"` // node space to parent space
	Name        string    `yaml:"name,omitempty"        json:"name,omitempty"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	Value       string    `yaml:"value,omitempty"       json:"value,omitempty"`
	Placeholder string    `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`

	NumericValue    *float64 `yaml:"numeric_value,omitempty"     json:"numeric_value,omitempty"`
	MinNumericValue *float64 `yaml:"min_numeric_value,omitempty" json:"min_numeric_value,omitempty"`
	MaxNumericValue *float64 `yaml:"max_numeric_value,omitempty" json:"max_numeric_value,omitempty"`
	NumericStep     *float64 `yaml:"numeric_step,omitempty"      json:"numeric_step,omitempty"`

	Live     Live    `yaml:"live,omitempty"     json:"live,omitempty"`
	Checked  Checked `yaml:"checked,omitempty"  json:"checked,omitempty"`
	Expanded *bool   `yaml:"expanded,omitempty" json:"expanded,omitempty"`
	Selected *bool   `yaml:"selected,omitempty" json:"selected,omitempty"`

	Focusable bool `yaml:"focusable,omitempty" json:"focusable,omitempty"`
	Disabled  bool `yaml:"disabled,omitempty"  json:"disabled,omitempty"`
	ReadOnly  bool `yaml:"read_only,omitempty" json:"read_only,omitempty"`
	Hidden    bool `yaml:"hidden,omitempty"    json:"hidden,omitempty"`
	Editable  bool `yaml:"editable,omitempty"  json:"editable,omitempty"`
	Multiline bool `yaml:"multiline,omitempty" json:"multiline,omitempty"`

	Actions       ActionSet       `yaml:"actions,omitempty"        json:"actions,omitempty"`
	Text          *TextBoundaries `yaml:"text,omitempty"           json:"text,omitempty"`
	TextSelection *TextSelection  `yaml:"text_selection,omitempty" json:"text_selection,omitempty"`
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	c := *n
	c.Children = slices.Clone(n.Children)
	c.Bounds = clonePtr(n.Bounds)
	c.Transform = clonePtr(n.Transform)
	c.NumericValue = clonePtr(n.NumericValue)
	c.MinNumericValue = clonePtr(n.MinNumericValue)
	c.MaxNumericValue = clonePtr(n.MaxNumericValue)
	c.NumericStep = clonePtr(n.NumericStep)
	c.Expanded = clonePtr(n.Expanded)
	c.Selected = clonePtr(n.Selected)
	c.TextSelection = clonePtr(n.TextSelection)
	if n.Text != nil {
		c.Text = &TextBoundaries{
			CharacterLengths: slices.Clone(n.Text.CharacterLengths),
			WordLengths:      slices.Clone(n.Text.WordLengths),
			LineLengths:      slices.Clone(n.Text.LineLengths),
		}
	}
	return &c
}

// Equal reports whether two nodes carry identical properties and children.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	return slices.Equal(n.Children, o.Children) && len(ChangedProperties(n, o)) == 0
}

// TextContent returns the text exposed through text interfaces: the value
// for editable and value-bearing nodes, otherwise the name.
func (n *Node) TextContent() string {
	if n.Value != "" || n.Editable || n.Role.IsTextInput() {
		return n.Value
	}
	return n.Name
}

// HasText reports whether n exposes a text interface.
func (n *Node) HasText() bool {
	return n.Text != nil || n.Editable || n.Role.IsTextInput() || n.TextContent() != ""
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func ptrEqual[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
