package model

import (
	"fmt"
	"slices"
	"strconv"
)

// Property names a node attribute that can change between snapshots.
type Property string

const (
	PropRole          Property = "role"
	PropChildren      Property = "children"
	PropBounds        Property = "bounds"
	PropTransform     Property = "transform"
	PropName          Property = "name"
	PropDescription   Property = "description"
	PropValue         Property = "value"
	PropPlaceholder   Property = "placeholder"
	PropNumericValue  Property = "numeric_value"
	PropNumericRange  Property = "numeric_range"
	PropLive          Property = "live"
	PropChecked       Property = "checked"
	PropExpanded      Property = "expanded"
	PropSelected      Property = "selected"
	PropFocusable     Property = "focusable"
	PropDisabled      Property = "disabled"
	PropReadOnly      Property = "read_only"
	PropHidden        Property = "hidden"
	PropEditable      Property = "editable"
	PropMultiline     Property = "multiline"
	PropActions       Property = "actions"
	PropText          Property = "text"
	PropTextSelection Property = "text_selection"
)

// ChangedProperties returns the properties that differ between prev and
// curr, sorted by name. It returns nil when nothing changed.
func ChangedProperties(prev, curr *Node) []Property {
	var props []Property
	add := func(changed bool, p Property) {
		if changed {
			props = append(props, p)
		}
	}
	add(prev.Role != curr.Role, PropRole)
	add(!slices.Equal(prev.Children, curr.Children), PropChildren)
	add(!ptrEqual(prev.Bounds, curr.Bounds), PropBounds)
	add(!ptrEqual(prev.Transform, curr.Transform), PropTransform)
	add(prev.Name != curr.Name, PropName)
	add(prev.Description != curr.Description, PropDescription)
	add(prev.Value != curr.Value, PropValue)
	add(prev.Placeholder != curr.Placeholder, PropPlaceholder)
	add(!ptrEqual(prev.NumericValue, curr.NumericValue), PropNumericValue)
	add(!ptrEqual(prev.MinNumericValue, curr.MinNumericValue) ||
		!ptrEqual(prev.MaxNumericValue, curr.MaxNumericValue) ||
		!ptrEqual(prev.NumericStep, curr.NumericStep), PropNumericRange)
	add(prev.Live != curr.Live, PropLive)
	add(prev.Checked != curr.Checked, PropChecked)
	add(!ptrEqual(prev.Expanded, curr.Expanded), PropExpanded)
	add(!ptrEqual(prev.Selected, curr.Selected), PropSelected)
	add(prev.Focusable != curr.Focusable, PropFocusable)
	add(prev.Disabled != curr.Disabled, PropDisabled)
	add(prev.ReadOnly != curr.ReadOnly, PropReadOnly)
	add(prev.Hidden != curr.Hidden, PropHidden)
	add(prev.Editable != curr.Editable, PropEditable)
	add(prev.Multiline != curr.Multiline, PropMultiline)
	add(prev.Actions != curr.Actions, PropActions)
	add(!textEqual(prev.Text, curr.Text), PropText)
	add(!ptrEqual(prev.TextSelection, curr.TextSelection), PropTextSelection)

	if len(props) == 0 {
		return nil
	}
	slices.Sort(props)
	return props
}

// FormatProperty renders the value of p on n for diffs and logs.
func FormatProperty(n *Node, p Property) string {
	if n == nil {
		return ""
	}
	switch p {
	case PropRole:
		return n.Role.String()
	case PropChildren:
		return fmt.Sprintf("%v", n.Children)
	case PropBounds:
		return formatPtr(n.Bounds)
	case PropTransform:
		return formatPtr(n.Transform)
	case PropName:
		return n.Name
	case PropDescription:
		return n.Description
	case PropValue:
		return n.Value
	case PropPlaceholder:
		return n.Placeholder
	case PropNumericValue:
		return formatFloat(n.NumericValue)
	case PropNumericRange:
		return fmt.Sprintf("[%s, %s] step %s", formatFloat(n.MinNumericValue), formatFloat(n.MaxNumericValue), formatFloat(n.NumericStep))
	case PropLive:
		return n.Live.String()
	case PropChecked:
		return string(n.Checked)
	case PropExpanded:
		return formatPtr(n.Expanded)
	case PropSelected:
		return formatPtr(n.Selected)
	case PropFocusable:
		return strconv.FormatBool(n.Focusable)
	case PropDisabled:
		return strconv.FormatBool(n.Disabled)
	case PropReadOnly:
		return strconv.FormatBool(n.ReadOnly)
	case PropHidden:
		return strconv.FormatBool(n.Hidden)
	case PropEditable:
		return strconv.FormatBool(n.Editable)
	case PropMultiline:
		return strconv.FormatBool(n.Multiline)
	case PropActions:
		return n.Actions.String()
	case PropText:
		return formatPtr(n.Text)
	case PropTextSelection:
		return formatPtr(n.TextSelection)
	}
	return ""
}

func formatPtr[T any](p *T) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%v", *p)
}

func formatFloat(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'g', -1, 64)
}

func textEqual(a, b *TextBoundaries) bool {
	if a == nil || b == nil {
		return a == b
	}
	return slices.Equal(a.CharacterLengths, b.CharacterLengths) &&
		slices.Equal(a.WordLengths, b.WordLengths) &&
		slices.Equal(a.LineLengths, b.LineLengths)
}
