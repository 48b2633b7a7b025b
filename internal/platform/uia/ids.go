package uia

// ControlType is a UIA_*ControlTypeId value.
type ControlType uint32

const (
	ButtonControlType      ControlType = 50000
	CalendarControlType    ControlType = 50001
	CheckBoxControlType    ControlType = 50002
	ComboBoxControlType    ControlType = 50003
	EditControlType        ControlType = 50004
	HyperlinkControlType   ControlType = 50005
	ImageControlType       ControlType = 50006
	ListItemControlType    ControlType = 50007
	ListControlType        ControlType = 50008
	MenuControlType        ControlType = 50009
	MenuBarControlType     ControlType = 50010
	MenuItemControlType    ControlType = 50011
	ProgressBarControlType ControlType = 50012
	RadioButtonControlType ControlType = 50013
	ScrollBarControlType   ControlType = 50014
	SliderControlType      ControlType = 50015
	SpinnerControlType     ControlType = 50016
	StatusBarControlType   ControlType = 50017
	TabControlType         ControlType = 50018
	TabItemControlType     ControlType = 50019
	TextControlType        ControlType = 50020
	ToolBarControlType     ControlType = 50021
	ToolTipControlType     ControlType = 50022
	TreeControlType        ControlType = 50023
	TreeItemControlType    ControlType = 50024
	CustomControlType      ControlType = 50025
	GroupControlType       ControlType = 50026
	ThumbControlType       ControlType = 50027
	DataGridControlType    ControlType = 50028
	DataItemControlType    ControlType = 50029
	DocumentControlType    ControlType = 50030
	SplitButtonControlType ControlType = 50031
	WindowControlType      ControlType = 50032
	PaneControlType        ControlType = 50033
	HeaderControlType      ControlType = 50034
	HeaderItemControlType  ControlType = 50035
	TableControlType       ControlType = 50036
	TitleBarControlType    ControlType = 50037
	SeparatorControlType   ControlType = 50038
)

// PropertyID is a UIA_*PropertyId value.
type PropertyID uint32

const (
	RuntimeIDProperty                PropertyID = 30000
	BoundingRectangleProperty        PropertyID = 30001
	ControlTypeProperty              PropertyID = 30003
	LocalizedControlTypeProperty     PropertyID = 30004
	NameProperty                     PropertyID = 30005
	HasKeyboardFocusProperty         PropertyID = 30008
	IsKeyboardFocusableProperty      PropertyID = 30009
	IsEnabledProperty                PropertyID = 30010
	AutomationIDProperty             PropertyID = 30011
	HelpTextProperty                 PropertyID = 30013
	IsControlElementProperty         PropertyID = 30016
	IsContentElementProperty         PropertyID = 30017
	IsOffscreenProperty              PropertyID = 30022
	FrameworkIDProperty              PropertyID = 30024
	IsExpandCollapsePatternAvailable PropertyID = 30028
	IsInvokePatternAvailable         PropertyID = 30031
	IsRangeValuePatternAvailable     PropertyID = 30033
	IsScrollItemPatternAvailable     PropertyID = 30035
	IsSelectionItemPatternAvailable  PropertyID = 30036
	IsTextPatternAvailable           PropertyID = 30040
	IsTogglePatternAvailable         PropertyID = 30041
	IsValuePatternAvailable          PropertyID = 30043
	ValueValueProperty               PropertyID = 30045
	ValueIsReadOnlyProperty          PropertyID = 30046
	RangeValueValueProperty          PropertyID = 30047
	RangeValueIsReadOnlyProperty     PropertyID = 30048
	RangeValueMinimumProperty        PropertyID = 30049
	RangeValueMaximumProperty        PropertyID = 30050
	RangeValueSmallChangeProperty    PropertyID = 30052
	ExpandCollapseStateProperty      PropertyID = 30070
	SelectionItemIsSelectedProperty  PropertyID = 30079
	ToggleStateProperty              PropertyID = 30086
	LiveSettingProperty              PropertyID = 30135
	FullDescriptionProperty          PropertyID = 30159
)

// EventID is a UIA_*EventId value.
type EventID uint32

const (
	StructureChangedEvent          EventID = 20002
	AutomationPropertyChangedEvent EventID = 20004
	AutomationFocusChangedEvent    EventID = 20005
	TextSelectionChangedEvent      EventID = 20014
	TextChangedEvent               EventID = 20015
	LiveRegionChangedEvent         EventID = 20024
)

// StructureChangeType is the argument of a structure-changed event.
type StructureChangeType int

const (
	ChildAdded StructureChangeType = iota
	ChildRemoved
	ChildrenInvalidated
	ChildrenBulkAdded
	ChildrenBulkRemoved
	ChildrenReordered
)

var structureChangeNames = [...]string{
	"ChildAdded", "ChildRemoved", "ChildrenInvalidated",
	"ChildrenBulkAdded", "ChildrenBulkRemoved", "ChildrenReordered",
}

func (s StructureChangeType) String() string { return structureChangeNames[s] }

// appendRuntimeID is the UiaAppendRuntimeId marker that prefixes
// provider-assigned runtime ids.
const appendRuntimeID = 3

// Toggle, expand/collapse and live-setting values.
const (
	toggleOff           = 0
	toggleOn            = 1
	toggleIndeterminate = 2

	collapsed = 0
	expanded  = 1

	liveOff       = 0
	livePolite    = 1
	liveAssertive = 2
)
