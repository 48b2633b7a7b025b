// Package atspi projects the abstract tree into the AT-SPI2 vocabulary
// used on Linux desktops: roles, state sets, interfaces, object paths
// and object signals.
package atspi

import (
	"fmt"
	"strconv"

	"github.com/mj1618/a11y-bridge/internal/events"
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/platform"
	"github.com/mj1618/a11y-bridge/internal/registry"
	"github.com/mj1618/a11y-bridge/internal/text"
)

// Name is the catalog name of this platform.
const Name = "atspi"

// Platform is the AT-SPI2 projection.
type Platform struct {
	toolkit string
	version string
}

// New returns an uninitialized AT-SPI platform.
func New() platform.Platform { return &Platform{} }

func (p *Platform) Name() string { return Name }

func (p *Platform) Init(opts platform.InitOptions) error {
	p.toolkit = opts.ToolkitName
	p.version = opts.ToolkitVersion
	return nil
}

// Encoding is code points: AT-SPI text offsets count characters of the
// UTF-8 string as Unicode scalar values.
func (p *Platform) Encoding() text.Encoding { return text.EncodingCodePoints }

var roles = map[model.Role]Role{
	model.RoleWindow:             RoleFrame,
	model.RoleGroup:              RolePanel,
	model.RoleGenericContainer:   RoleFiller,
	model.RoleButton:             RolePushButton,
	model.RoleToggleButton:       RoleToggleButton,
	model.RoleCheckBox:           RoleCheckBox,
	model.RoleRadioButton:        RoleRadioButton,
	model.RoleSwitch:             RoleSwitch,
	model.RoleLink:               RoleLink,
	model.RoleTextInput:          RoleEntry,
	model.RoleMultilineTextInput: RoleEntry,
	model.RoleSearchInput:        RoleEntry,
	model.RoleStaticText:         RoleStatic,
	model.RoleLabel:              RoleLabel,
	model.RoleParagraph:          RoleParagraph,
	model.RoleHeading:            RoleHeading,
	model.RoleImage:              RoleImage,
	model.RoleList:               RoleList,
	model.RoleListItem:           RoleListItem,
	model.RoleListBox:            RoleListBox,
	model.RoleListBoxOption:      RoleListItem,
	model.RoleTree:               RoleTree,
	model.RoleTreeItem:           RoleTreeItem,
	model.RoleTable:              RoleTable,
	model.RoleRow:                RoleTableRow,
	model.RoleCell:               RoleTableCell,
	model.RoleColumnHeader:       RoleColumnHeader,
	model.RoleRowHeader:          RoleRowHeader,
	model.RoleMenu:               RoleMenu,
	model.RoleMenuBar:            RoleMenuBar,
	model.RoleMenuItem:           RoleMenuItem,
	model.RoleTabList:            RolePageTabList,
	model.RoleTab:                RolePageTab,
	model.RoleTabPanel:           RolePanel,
	model.RoleToolbar:            RoleToolBar,
	model.RoleDialog:             RoleDialog,
	model.RoleAlert:              RoleNotification,
	model.RoleAlertDialog:        RoleAlert,
	model.RoleSlider:             RoleSlider,
	model.RoleSpinButton:         RoleSpinButton,
	model.RoleProgressIndicator:  RoleProgressBar,
	model.RoleScrollBar:          RoleScrollBar,
	model.RoleScrollView:         RoleScrollPane,
	model.RoleComboBox:           RoleComboBox,
	model.RoleDocument:           RoleDocumentFrame,
	model.RolePane:               RolePanel,
	model.RoleTooltip:            RoleToolTip,
	model.RoleStatus:             RoleStatusBar,
	model.RoleLog:                RoleLog,
	model.RoleTimer:              RoleTimer,
	model.RoleTitleBar:           RoleTitleBar,
	model.RoleSeparator:          RoleSeparator,
	model.RoleCanvas:             RoleCanvas,
	model.RoleApplication:        RoleApplication,
}

func (p *Platform) Role(n *model.Node) platform.NativeRole {
	r, ok := roles[n.Role]
	if !ok {
		r = RoleUnknown
	}
	return platform.NativeRole{Code: uint32(r), Name: r.String()}
}

// ObjectPath returns the D-Bus object path exporting h.
func ObjectPath(h registry.Handle) string {
	if h == 0 {
		return "/org/a11y/atspi/null"
	}
	return ObjectPathPrefix + strconv.FormatUint(uint64(h), 10)
}

// States computes the state set of a node.
func States(v platform.NodeView) StateSet {
	n := v.Node
	var s StateSet
	if !n.Disabled {
		s = s.With(StateEnabled).With(StateSensitive)
	}
	if !n.Hidden {
		s = s.With(StateShowing).With(StateVisible)
	}
	if n.Focusable {
		s = s.With(StateFocusable)
	}
	if v.Focused {
		s = s.With(StateFocused)
	}
	if n.Editable || n.Role.IsTextInput() {
		if !n.ReadOnly {
			s = s.With(StateEditable)
		}
		if n.Multiline || n.Role == model.RoleMultilineTextInput {
			s = s.With(StateMultiLine)
		} else {
			s = s.With(StateSingleLine)
		}
	}
	if n.ReadOnly {
		s = s.With(StateReadOnly)
	}
	switch n.Checked {
	case model.CheckedTrue:
		s = s.With(StateCheckable).With(StateChecked)
	case model.CheckedMixed:
		s = s.With(StateCheckable).With(StateIndeterminate)
	case model.CheckedFalse:
		s = s.With(StateCheckable)
	}
	if n.Expanded != nil {
		s = s.With(StateExpandable)
		if *n.Expanded {
			s = s.With(StateExpanded)
		} else {
			s = s.With(StateCollapsed)
		}
	}
	if n.Selected != nil {
		s = s.With(StateSelectable)
		if *n.Selected {
			s = s.With(StateSelected)
		}
	}
	return s
}

// Interfaces lists the AT-SPI interfaces a node implements.
func Interfaces(n *model.Node) []string {
	ifaces := []string{IfaceAccessible}
	if n.Bounds != nil {
		ifaces = append(ifaces, IfaceComponent)
	}
	for _, a := range []model.Action{model.ActionDefault, model.ActionFocus, model.ActionExpand, model.ActionCollapse, model.ActionShowContextMenu} {
		if model.Supports(n, a) {
			ifaces = append(ifaces, IfaceAction)
			break
		}
	}
	if n.HasText() {
		ifaces = append(ifaces, IfaceText)
		if (n.Editable || n.Role.IsTextInput()) && !n.ReadOnly {
			ifaces = append(ifaces, IfaceEditableText)
		}
	}
	if n.Role == model.RoleListBox || n.Role == model.RoleTabList || n.Role == model.RoleTree {
		ifaces = append(ifaces, IfaceSelection)
	}
	if n.NumericValue != nil {
		ifaces = append(ifaces, IfaceValue)
	}
	return ifaces
}

// Extents converts screen bounds to the origin requested by ct. parent
// is required for CoordParent and ignored otherwise.
func Extents(b platform.DeviceRect, c platform.Coordinates, parent *platform.DeviceRect, ct CoordType) (platform.DeviceRect, error) {
	switch ct {
	case CoordScreen:
		return b, nil
	case CoordWindow:
		b.X -= int(c.Origin.X)
		b.Y -= int(c.Origin.Y)
		return b, nil
	case CoordParent:
		if parent != nil {
			b.X -= parent.X
			b.Y -= parent.Y
		}
		return b, nil
	}
	return b, fmt.Errorf("unknown coordinate type %d", ct)
}

func prop(name string, v any) platform.NativeProperty {
	return platform.NativeProperty{Name: name, Value: v}
}

// Properties returns the Accessible properties and interface data of one
// exported object.
func (p *Platform) Properties(v platform.NodeView) []platform.NativeProperty {
	n := v.Node
	role := p.Role(n)
	states := States(v)
	props := []platform.NativeProperty{
		prop("Path", ObjectPath(v.Handle)),
		prop("Name", n.Name),
		prop("Description", n.Description),
		prop("Role", role.Code),
		prop("RoleName", role.Name),
		prop("Parent", ObjectPath(v.Parent)),
		prop("IndexInParent", v.Index),
		prop("ChildCount", v.ChildCount),
		prop("State", states.Words()),
		prop("StateNames", states.String()),
		prop("Interfaces", Interfaces(n)),
		prop("Attributes", p.attributes(v)),
	}
	if v.Bounds != nil {
		win, _ := Extents(*v.Bounds, v.Coords, nil, CoordWindow)
		props = append(props,
			prop("Extents", [4]int{v.Bounds.X, v.Bounds.Y, v.Bounds.Width, v.Bounds.Height}),
			prop("Extents.window", [4]int{win.X, win.Y, win.Width, win.Height}))
	}
	if n.NumericValue != nil {
		props = append(props, prop("Value.CurrentValue", *n.NumericValue))
		if n.MinNumericValue != nil {
			props = append(props, prop("Value.MinimumValue", *n.MinNumericValue))
		}
		if n.MaxNumericValue != nil {
			props = append(props, prop("Value.MaximumValue", *n.MaxNumericValue))
		}
		if n.NumericStep != nil {
			props = append(props, prop("Value.MinimumIncrement", *n.NumericStep))
		}
	}
	if n.HasText() {
		b := text.ForNode(n)
		props = append(props, prop("Text.CharacterCount", b.ToOffset(b.Len(), text.EncodingCodePoints)))
		if sel := n.TextSelection; sel != nil {
			props = append(props, prop("Text.CaretOffset", b.ToOffset(sel.Focus, text.EncodingCodePoints)))
		}
	}
	return props
}

func (p *Platform) attributes(v platform.NodeView) map[string]string {
	attrs := map[string]string{"id": v.ID.String()}
	if p.toolkit != "" {
		attrs["toolkit"] = p.toolkit
	}
	if p.version != "" {
		attrs["toolkit-version"] = p.version
	}
	if v.Node.Live != model.LiveOff {
		attrs["live"] = v.Node.Live.String()
		attrs["container-live"] = v.Node.Live.String()
	}
	if v.Node.Placeholder != "" {
		attrs["placeholder-text"] = v.Node.Placeholder
	}
	return attrs
}

func signal(name string, target registry.Handle) platform.NativeEvent {
	return platform.NativeEvent{Platform: Name, Name: name, Target: target}
}

func stateChanged(st State, on bool, target registry.Handle) platform.NativeEvent {
	ev := signal("object:state-changed:"+st.String(), target)
	ev.Detail = st.String()
	if on {
		ev.Detail1 = 1
	}
	return ev
}

// Translate maps an abstract notification to AT-SPI object signals.
func (p *Platform) Translate(n events.Notification, r platform.Resolver) []platform.NativeEvent {
	target := r.Handle(n.Target)
	if target == 0 {
		return nil
	}
	snap := r.Snapshot()
	switch n.Kind {
	case events.KindNodeRemoved:
		ev := signal("object:children-changed:remove", target)
		ev.Detail = "remove"
		ev.Detail1 = n.Index
		ev.Value = ObjectPath(r.Handle(n.Node))
		return []platform.NativeEvent{ev}

	case events.KindChildrenChanged:
		if len(n.Inserted) == 0 {
			return []platform.NativeEvent{signal("object:visible-data-changed", target)}
		}
		var out []platform.NativeEvent
		for _, id := range n.Inserted {
			parent, ok := snap.Parent(id)
			if !ok {
				continue
			}
			ev := signal("object:children-changed:add", r.Handle(parent))
			ev.Detail = "add"
			ev.Detail1 = snap.IndexInParent(id)
			ev.Value = ObjectPath(r.Handle(id))
			out = append(out, ev)
		}
		return out

	case events.KindPropertyChanged:
		node, ok := snap.Node(n.Target)
		if !ok {
			return nil
		}
		return p.propertyChanged(n, node, target)

	case events.KindLiveRegion:
		ev := signal("object:announcement", target)
		ev.Detail1 = politeness(n.Politeness)
		ev.Value = n.Text
		return []platform.NativeEvent{ev}

	case events.KindFocusChanged:
		var out []platform.NativeEvent
		if prev := r.Handle(n.Previous); prev != 0 && prev != target {
			out = append(out, stateChanged(StateFocused, false, prev))
		}
		return append(out, stateChanged(StateFocused, true, target))
	}
	return nil
}

func (p *Platform) propertyChanged(n events.Notification, node *model.Node, target registry.Handle) []platform.NativeEvent {
	propertyChange := func(name string, v any) []platform.NativeEvent {
		ev := signal("object:property-change:"+name, target)
		ev.Detail = name
		ev.Value = v
		return []platform.NativeEvent{ev}
	}
	switch n.Property {
	case model.PropName:
		return propertyChange("accessible-name", n.NewValue)
	case model.PropDescription:
		return propertyChange("accessible-description", n.NewValue)
	case model.PropRole:
		return propertyChange("accessible-role", p.Role(node).Code)
	case model.PropNumericValue:
		return propertyChange("accessible-value", n.NewValue)
	case model.PropValue:
		if node.HasText() {
			return textChanged(n.OldValue, n.NewValue, target)
		}
		return propertyChange("accessible-value", n.NewValue)
	case model.PropBounds, model.PropTransform:
		return []platform.NativeEvent{signal("object:bounds-changed", target)}
	case model.PropChecked:
		return []platform.NativeEvent{
			stateChanged(StateChecked, node.Checked == model.CheckedTrue, target),
			stateChanged(StateIndeterminate, node.Checked == model.CheckedMixed, target),
		}
	case model.PropExpanded:
		open := node.Expanded != nil && *node.Expanded
		return []platform.NativeEvent{stateChanged(StateExpanded, open, target)}
	case model.PropSelected:
		sel := node.Selected != nil && *node.Selected
		return []platform.NativeEvent{stateChanged(StateSelected, sel, target)}
	case model.PropFocusable:
		return []platform.NativeEvent{stateChanged(StateFocusable, node.Focusable, target)}
	case model.PropDisabled:
		return []platform.NativeEvent{
			stateChanged(StateEnabled, !node.Disabled, target),
			stateChanged(StateSensitive, !node.Disabled, target),
		}
	case model.PropReadOnly:
		return []platform.NativeEvent{stateChanged(StateReadOnly, node.ReadOnly, target)}
	case model.PropEditable:
		return []platform.NativeEvent{stateChanged(StateEditable, node.Editable && !node.ReadOnly, target)}
	case model.PropHidden:
		return []platform.NativeEvent{
			stateChanged(StateShowing, !node.Hidden, target),
			stateChanged(StateVisible, !node.Hidden, target),
		}
	case model.PropTextSelection:
		if node.TextSelection == nil {
			return nil
		}
		b := text.ForNode(node)
		caret := signal("object:text-caret-moved", target)
		caret.Detail1 = b.ToOffset(node.TextSelection.Focus, text.EncodingCodePoints)
		return []platform.NativeEvent{caret, signal("object:text-selection-changed", target)}
	}
	return nil
}

// textChanged reports a value edit as a delete of the replaced run
// followed by an insert of its replacement, in code point offsets.
func textChanged(before, after string, target registry.Handle) []platform.NativeEvent {
	o, n := []rune(before), []rune(after)
	start := 0
	for start < len(o) && start < len(n) && o[start] == n[start] {
		start++
	}
	oe, ne := len(o), len(n)
	for oe > start && ne > start && o[oe-1] == n[ne-1] {
		oe--
		ne--
	}
	var out []platform.NativeEvent
	if oe > start {
		ev := signal("object:text-changed:delete", target)
		ev.Detail = "delete"
		ev.Detail1, ev.Detail2 = start, oe-start
		ev.Value = string(o[start:oe])
		out = append(out, ev)
	}
	if ne > start {
		ev := signal("object:text-changed:insert", target)
		ev.Detail = "insert"
		ev.Detail1, ev.Detail2 = start, ne-start
		ev.Value = string(n[start:ne])
		out = append(out, ev)
	}
	return out
}

func politeness(l model.Live) int {
	switch l {
	case model.LivePolite:
		return livePolite
	case model.LiveAssertive:
		return liveAssertive
	}
	return liveNone
}
