// Package uia projects the abstract tree into the Windows UI Automation
// vocabulary: control types, property ids, pattern availability and
// automation events.
package uia

import (
	"github.com/mj1618/a11y-bridge/internal/events"
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/platform"
	"github.com/mj1618/a11y-bridge/internal/registry"
	"github.com/mj1618/a11y-bridge/internal/text"
)

// Name is the catalog name of this platform.
const Name = "uia"

// Platform is the UI Automation projection.
type Platform struct {
	frameworkID string
}

// New returns an uninitialized UIA platform.
func New() platform.Platform { return &Platform{} }

func (p *Platform) Name() string { return Name }

// Init records the toolkit name reported as the framework id.
func (p *Platform) Init(opts platform.InitOptions) error {
	p.frameworkID = opts.ToolkitName
	if p.frameworkID == "" {
		p.frameworkID = opts.AppName
	}
	return nil
}

// Encoding is UTF-16: UIA text ranges count code units.
func (p *Platform) Encoding() text.Encoding { return text.EncodingUTF16 }

type controlTypeInfo struct {
	id    ControlType
	local string
}

var controlTypes = map[model.Role]controlTypeInfo{
	model.RoleWindow:             {WindowControlType, "window"},
	model.RoleGroup:              {GroupControlType, "group"},
	model.RoleGenericContainer:   {GroupControlType, ""},
	model.RoleButton:             {ButtonControlType, "button"},
	model.RoleToggleButton:       {ButtonControlType, "toggle button"},
	model.RoleCheckBox:           {CheckBoxControlType, "check box"},
	model.RoleRadioButton:        {RadioButtonControlType, "radio button"},
	model.RoleSwitch:             {ButtonControlType, "switch"},
	model.RoleLink:               {HyperlinkControlType, "link"},
	model.RoleTextInput:          {EditControlType, "edit"},
	model.RoleMultilineTextInput: {EditControlType, "edit"},
	model.RoleSearchInput:        {EditControlType, "search box"},
	model.RoleStaticText:         {TextControlType, "text"},
	model.RoleLabel:              {TextControlType, "label"},
	model.RoleParagraph:          {TextControlType, "paragraph"},
	model.RoleHeading:            {TextControlType, "heading"},
	model.RoleImage:              {ImageControlType, "image"},
	model.RoleList:               {ListControlType, "list"},
	model.RoleListItem:           {ListItemControlType, "list item"},
	model.RoleListBox:            {ListControlType, "list box"},
	model.RoleListBoxOption:      {ListItemControlType, "option"},
	model.RoleTree:               {TreeControlType, "tree"},
	model.RoleTreeItem:           {TreeItemControlType, "tree item"},
	model.RoleTable:              {TableControlType, "table"},
	model.RoleRow:                {DataItemControlType, "row"},
	model.RoleCell:               {DataItemControlType, "cell"},
	model.RoleColumnHeader:       {HeaderItemControlType, "column header"},
	model.RoleRowHeader:          {HeaderItemControlType, "row header"},
	model.RoleMenu:               {MenuControlType, "menu"},
	model.RoleMenuBar:            {MenuBarControlType, "menu bar"},
	model.RoleMenuItem:           {MenuItemControlType, "menu item"},
	model.RoleTabList:            {TabControlType, "tab"},
	model.RoleTab:                {TabItemControlType, "tab item"},
	model.RoleTabPanel:           {PaneControlType, "tab panel"},
	model.RoleToolbar:            {ToolBarControlType, "tool bar"},
	model.RoleDialog:             {WindowControlType, "dialog"},
	model.RoleAlert:              {TextControlType, "alert"},
	model.RoleAlertDialog:        {WindowControlType, "alert dialog"},
	model.RoleSlider:             {SliderControlType, "slider"},
	model.RoleSpinButton:         {SpinnerControlType, "spinner"},
	model.RoleProgressIndicator:  {ProgressBarControlType, "progress bar"},
	model.RoleScrollBar:          {ScrollBarControlType, "scroll bar"},
	model.RoleScrollView:         {PaneControlType, "scroll view"},
	model.RoleComboBox:           {ComboBoxControlType, "combo box"},
	model.RoleDocument:           {DocumentControlType, "document"},
	model.RolePane:               {PaneControlType, "pane"},
	model.RoleTooltip:            {ToolTipControlType, "tool tip"},
	model.RoleStatus:             {StatusBarControlType, "status"},
	model.RoleLog:                {GroupControlType, "log"},
	model.RoleTimer:              {GroupControlType, "timer"},
	model.RoleTitleBar:           {TitleBarControlType, "title bar"},
	model.RoleSeparator:          {SeparatorControlType, "separator"},
	model.RoleCanvas:             {ImageControlType, "canvas"},
	model.RoleApplication:        {PaneControlType, "application"},
}

// Role maps a node to its control type.
func (p *Platform) Role(n *model.Node) platform.NativeRole {
	info, ok := controlTypes[n.Role]
	if !ok {
		return platform.NativeRole{Code: uint32(CustomControlType), Name: "custom"}
	}
	return platform.NativeRole{Code: uint32(info.id), Name: info.local}
}

// RuntimeID returns the provider runtime id for a handle.
func RuntimeID(h registry.Handle) []int32 {
	return []int32{appendRuntimeID, int32(h)}
}

func prop(id PropertyID, name string, v any) platform.NativeProperty {
	return platform.NativeProperty{ID: uint32(id), Name: name, Value: v}
}

// Properties returns the UIA properties of one element provider.
func (p *Platform) Properties(v platform.NodeView) []platform.NativeProperty {
	n := v.Node
	role := p.Role(n)
	props := []platform.NativeProperty{
		prop(RuntimeIDProperty, "RuntimeId", RuntimeID(v.Handle)),
		prop(ControlTypeProperty, "ControlType", role.Code),
		prop(LocalizedControlTypeProperty, "LocalizedControlType", role.Name),
		prop(NameProperty, "Name", n.Name),
		prop(AutomationIDProperty, "AutomationId", v.ID.String()),
		prop(FrameworkIDProperty, "FrameworkId", p.frameworkID),
		prop(IsEnabledProperty, "IsEnabled", !n.Disabled),
		prop(IsKeyboardFocusableProperty, "IsKeyboardFocusable", n.Focusable),
		prop(HasKeyboardFocusProperty, "HasKeyboardFocus", v.Focused),
		prop(IsOffscreenProperty, "IsOffscreen", n.Hidden),
		prop(IsControlElementProperty, "IsControlElement", n.Role != model.RoleGenericContainer),
		prop(IsContentElementProperty, "IsContentElement", n.Role != model.RoleGenericContainer),
		prop(LiveSettingProperty, "LiveSetting", liveSetting(n.Live)),
	}
	if n.Description != "" {
		props = append(props,
			prop(HelpTextProperty, "HelpText", n.Description),
			prop(FullDescriptionProperty, "FullDescription", n.Description))
	}
	if v.Bounds != nil {
		b := v.Bounds
		props = append(props, prop(BoundingRectangleProperty, "BoundingRectangle",
			[4]float64{float64(b.X), float64(b.Y), float64(b.Width), float64(b.Height)}))
	}

	props = append(props,
		prop(IsInvokePatternAvailable, "IsInvokePatternAvailable", supportsInvoke(n)),
		prop(IsValuePatternAvailable, "IsValuePatternAvailable", supportsValue(n)),
		prop(IsRangeValuePatternAvailable, "IsRangeValuePatternAvailable", n.NumericValue != nil),
		prop(IsTogglePatternAvailable, "IsTogglePatternAvailable", n.Checked != ""),
		prop(IsExpandCollapsePatternAvailable, "IsExpandCollapsePatternAvailable", n.Expanded != nil),
		prop(IsSelectionItemPatternAvailable, "IsSelectionItemPatternAvailable", n.Selected != nil),
		prop(IsTextPatternAvailable, "IsTextPatternAvailable", n.HasText()),
		prop(IsScrollItemPatternAvailable, "IsScrollItemPatternAvailable", true),
	)

	if supportsValue(n) {
		props = append(props,
			prop(ValueValueProperty, "Value.Value", n.Value),
			prop(ValueIsReadOnlyProperty, "Value.IsReadOnly", n.ReadOnly))
	}
	if n.NumericValue != nil {
		props = append(props,
			prop(RangeValueValueProperty, "RangeValue.Value", *n.NumericValue),
			prop(RangeValueIsReadOnlyProperty, "RangeValue.IsReadOnly", n.ReadOnly))
		if n.MinNumericValue != nil {
			props = append(props, prop(RangeValueMinimumProperty, "RangeValue.Minimum", *n.MinNumericValue))
		}
		if n.MaxNumericValue != nil {
			props = append(props, prop(RangeValueMaximumProperty, "RangeValue.Maximum", *n.MaxNumericValue))
		}
		if n.NumericStep != nil {
			props = append(props, prop(RangeValueSmallChangeProperty, "RangeValue.SmallChange", *n.NumericStep))
		}
	}
	if n.Checked != "" {
		props = append(props, prop(ToggleStateProperty, "Toggle.ToggleState", toggleState(n.Checked)))
	}
	if n.Expanded != nil {
		state := collapsed
		if *n.Expanded {
			state = expanded
		}
		props = append(props, prop(ExpandCollapseStateProperty, "ExpandCollapse.ExpandCollapseState", state))
	}
	if n.Selected != nil {
		props = append(props, prop(SelectionItemIsSelectedProperty, "SelectionItem.IsSelected", *n.Selected))
	}
	return props
}

func supportsInvoke(n *model.Node) bool {
	return n.Checked == "" && model.Supports(n, model.ActionDefault)
}

func supportsValue(n *model.Node) bool {
	return n.Editable || n.Role.IsTextInput() || (n.Value != "" && n.NumericValue == nil)
}

func toggleState(c model.Checked) int {
	switch c {
	case model.CheckedTrue:
		return toggleOn
	case model.CheckedMixed:
		return toggleIndeterminate
	}
	return toggleOff
}

func liveSetting(l model.Live) int {
	switch l {
	case model.LivePolite:
		return livePolite
	case model.LiveAssertive:
		return liveAssertive
	}
	return liveOff
}

// propertyEvents maps abstract properties to the UIA property whose
// change event reports them.
var propertyEvents = map[model.Property]PropertyID{
	model.PropRole:         ControlTypeProperty,
	model.PropBounds:       BoundingRectangleProperty,
	model.PropTransform:    BoundingRectangleProperty,
	model.PropName:         NameProperty,
	model.PropDescription:  FullDescriptionProperty,
	model.PropValue:        ValueValueProperty,
	model.PropNumericValue: RangeValueValueProperty,
	model.PropLive:         LiveSettingProperty,
	model.PropChecked:      ToggleStateProperty,
	model.PropExpanded:     ExpandCollapseStateProperty,
	model.PropSelected:     SelectionItemIsSelectedProperty,
	model.PropFocusable:    IsKeyboardFocusableProperty,
	model.PropDisabled:     IsEnabledProperty,
	model.PropReadOnly:     ValueIsReadOnlyProperty,
	model.PropHidden:       IsOffscreenProperty,
}

func event(id EventID, name string, target registry.Handle) platform.NativeEvent {
	return platform.NativeEvent{Platform: Name, Name: name, Code: uint32(id), Target: target}
}

// Translate maps an abstract notification to UIA events.
func (p *Platform) Translate(n events.Notification, r platform.Resolver) []platform.NativeEvent {
	target := r.Handle(n.Target)
	if target == 0 {
		return nil
	}
	switch n.Kind {
	case events.KindNodeRemoved:
		ev := event(StructureChangedEvent, "StructureChanged", target)
		ev.Detail = ChildRemoved.String()
		ev.Detail1 = int(ChildRemoved)
		ev.Value = RuntimeID(r.Handle(n.Node))
		return []platform.NativeEvent{ev}

	case events.KindChildrenChanged:
		ev := event(StructureChangedEvent, "StructureChanged", target)
		ev.Detail = ChildrenInvalidated.String()
		ev.Detail1 = int(ChildrenInvalidated)
		ev.Value = RuntimeID(target)
		return []platform.NativeEvent{ev}

	case events.KindPropertyChanged:
		var out []platform.NativeEvent
		// Text_TextChanged is raised ahead of the property event.
		if n.Property == model.PropValue {
			if node, ok := r.Snapshot().Node(n.Target); ok && node.HasText() {
				out = append(out, event(TextChangedEvent, "Text_TextChanged", target))
			}
		}
		if pid, ok := propertyEvents[n.Property]; ok {
			ev := event(AutomationPropertyChangedEvent, "AutomationPropertyChanged", target)
			ev.Detail = string(n.Property)
			ev.Detail1 = int(pid)
			ev.Value = n.NewValue
			out = append(out, ev)
		}
		if n.Property == model.PropTextSelection {
			out = append(out, event(TextSelectionChangedEvent, "Text_TextSelectionChanged", target))
		}
		return out

	case events.KindLiveRegion:
		ev := event(LiveRegionChangedEvent, "LiveRegionChanged", target)
		ev.Detail = n.Politeness.String()
		ev.Detail1 = liveSetting(n.Politeness)
		ev.Value = n.Text
		return []platform.NativeEvent{ev}

	case events.KindFocusChanged:
		return []platform.NativeEvent{event(AutomationFocusChangedEvent, "AutomationFocusChanged", target)}
	}
	return nil
}
