package atspi

import "strings"

// Role is an AT-SPI role number.
type Role uint32

const (
	RoleInvalid       Role = 0
	RoleAlert         Role = 2
	RoleCanvas        Role = 6
	RoleCheckBox      Role = 7
	RoleColumnHeader  Role = 10
	RoleComboBox      Role = 11
	RoleDialog        Role = 16
	RoleFiller        Role = 20
	RoleFrame         Role = 23
	RoleImage         Role = 27
	RoleLabel         Role = 29
	RoleList          Role = 31
	RoleListItem      Role = 32
	RoleMenu          Role = 33
	RoleMenuBar       Role = 34
	RoleMenuItem      Role = 35
	RolePageTab       Role = 37
	RolePageTabList   Role = 38
	RolePanel         Role = 39
	RoleProgressBar   Role = 42
	RolePushButton    Role = 43
	RoleRadioButton   Role = 44
	RoleRowHeader     Role = 47
	RoleScrollBar     Role = 48
	RoleScrollPane    Role = 49
	RoleSeparator     Role = 50
	RoleSlider        Role = 51
	RoleSpinButton    Role = 52
	RoleStatusBar     Role = 54
	RoleTable         Role = 55
	RoleTableCell     Role = 56
	RoleToggleButton  Role = 62
	RoleToolBar       Role = 63
	RoleToolTip       Role = 64
	RoleTree          Role = 65
	RoleUnknown       Role = 67
	RoleWindow        Role = 69
	RoleParagraph     Role = 73
	RoleApplication   Role = 75
	RoleEntry         Role = 79
	RoleDocumentFrame Role = 82
	RoleHeading       Role = 83
	RoleLink          Role = 88
	RoleTableRow      Role = 90
	RoleTreeItem      Role = 91
	RoleListBox       Role = 98
	RoleNotification  Role = 101
	RoleTitleBar      Role = 104
	RoleLog           Role = 111
	RoleTimer         Role = 115
	RoleStatic        Role = 116
	RoleSwitch        Role = 130
)

var roleNames = map[Role]string{
	RoleInvalid:       "invalid",
	RoleAlert:         "alert",
	RoleCanvas:        "canvas",
	RoleCheckBox:      "check box",
	RoleColumnHeader:  "column header",
	RoleComboBox:      "combo box",
	RoleDialog:        "dialog",
	RoleFiller:        "filler",
	RoleFrame:         "frame",
	RoleImage:         "image",
	RoleLabel:         "label",
	RoleList:          "list",
	RoleListItem:      "list item",
	RoleMenu:          "menu",
	RoleMenuBar:       "menu bar",
	RoleMenuItem:      "menu item",
	RolePageTab:       "page tab",
	RolePageTabList:   "page tab list",
	RolePanel:         "panel",
	RoleProgressBar:   "progress bar",
	RolePushButton:    "push button",
	RoleRadioButton:   "radio button",
	RoleRowHeader:     "row header",
	RoleScrollBar:     "scroll bar",
	RoleScrollPane:    "scroll pane",
	RoleSeparator:     "separator",
	RoleSlider:        "slider",
	RoleSpinButton:    "spin button",
	RoleStatusBar:     "status bar",
	RoleTable:         "table",
	RoleTableCell:     "table cell",
	RoleToggleButton:  "toggle button",
	RoleToolBar:       "tool bar",
	RoleToolTip:       "tool tip",
	RoleTree:          "tree",
	RoleUnknown:       "unknown",
	RoleWindow:        "window",
	RoleParagraph:     "paragraph",
	RoleApplication:   "application",
	RoleEntry:         "entry",
	RoleDocumentFrame: "document frame",
	RoleHeading:       "heading",
	RoleLink:          "link",
	RoleTableRow:      "table row",
	RoleTreeItem:      "tree item",
	RoleListBox:       "list box",
	RoleNotification:  "notification",
	RoleTitleBar:      "title bar",
	RoleLog:           "log",
	RoleTimer:         "timer",
	RoleStatic:        "static",
	RoleSwitch:        "switch",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// State is a bit position in an AT-SPI state set.
type State uint32

const (
	StateActive        State = 1
	StateChecked       State = 4
	StateCollapsed     State = 5
	StateDefunct       State = 6
	StateEditable      State = 7
	StateEnabled       State = 8
	StateExpandable    State = 9
	StateExpanded      State = 10
	StateFocusable     State = 11
	StateFocused       State = 12
	StateMultiLine     State = 17
	StateSelectable    State = 22
	StateSelected      State = 23
	StateSensitive     State = 24
	StateShowing       State = 25
	StateSingleLine    State = 26
	StateVisible       State = 30
	StateIndeterminate State = 32
	StateCheckable     State = 41
	StateReadOnly      State = 43
)

var stateNames = map[State]string{
	StateActive:        "active",
	StateChecked:       "checked",
	StateCollapsed:     "collapsed",
	StateDefunct:       "defunct",
	StateEditable:      "editable",
	StateEnabled:       "enabled",
	StateExpandable:    "expandable",
	StateExpanded:      "expanded",
	StateFocusable:     "focusable",
	StateFocused:       "focused",
	StateMultiLine:     "multi-line",
	StateSelectable:    "selectable",
	StateSelected:      "selected",
	StateSensitive:     "sensitive",
	StateShowing:       "showing",
	StateSingleLine:    "single-line",
	StateVisible:       "visible",
	StateIndeterminate: "indeterminate",
	StateCheckable:     "checkable",
	StateReadOnly:      "read-only",
}

func (s State) String() string { return stateNames[s] }

// StateSet is the 64-bit state set sent on the bus as two uint32 words.
type StateSet uint64

func (s StateSet) Has(st State) bool { return s&(1<<st) != 0 }

func (s StateSet) With(st State) StateSet { return s | 1<<st }

// Words returns the low and high 32-bit halves.
func (s StateSet) Words() [2]uint32 { return [2]uint32{uint32(s), uint32(s >> 32)} }

// String lists the set states in bit order.
func (s StateSet) String() string {
	var names []string
	for i := State(0); i < 64; i++ {
		if s.Has(i) {
			if name, ok := stateNames[i]; ok {
				names = append(names, name)
			}
		}
	}
	return strings.Join(names, ",")
}

// CoordType selects the origin used by Component.GetExtents.
type CoordType uint32

const (
	CoordScreen CoordType = iota
	CoordWindow
	CoordParent
)

// Live politeness values used by the announcement signal.
const (
	liveNone      = 0
	livePolite    = 1
	liveAssertive = 2
)

// Interface names.
const (
	IfaceAccessible   = "org.a11y.atspi.Accessible"
	IfaceAction       = "org.a11y.atspi.Action"
	IfaceComponent    = "org.a11y.atspi.Component"
	IfaceEditableText = "org.a11y.atspi.EditableText"
	IfaceSelection    = "org.a11y.atspi.Selection"
	IfaceText         = "org.a11y.atspi.Text"
	IfaceValue        = "org.a11y.atspi.Value"
)

// ObjectPathPrefix is the D-Bus path under which nodes are exported.
const ObjectPathPrefix = "/org/a11y/atspi/accessible/"
