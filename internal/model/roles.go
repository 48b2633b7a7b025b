package model

import "fmt"

// Role is the abstract semantic role of a node.
type Role uint8

const (
	RoleUnknown Role = iota
	RoleWindow
	RoleGroup
	RoleGenericContainer
	RoleButton
	RoleToggleButton
	RoleCheckBox
	RoleRadioButton
	RoleSwitch
	RoleLink
	RoleTextInput
	RoleMultilineTextInput
	RoleSearchInput
	RoleStaticText
	RoleLabel
	RoleParagraph
	RoleHeading
	RoleImage
	RoleList
	RoleListItem
	RoleListBox
	RoleListBoxOption
	RoleTree
	RoleTreeItem
	RoleTable
	RoleRow
	RoleCell
	RoleColumnHeader
	RoleRowHeader
	RoleMenu
	RoleMenuBar
	RoleMenuItem
	RoleTabList
	RoleTab
	RoleTabPanel
	RoleToolbar
	RoleDialog
	RoleAlert
	RoleAlertDialog
	RoleSlider
	RoleSpinButton
	RoleProgressIndicator
	RoleScrollBar
	RoleScrollView
	RoleComboBox
	RoleDocument
	RolePane
	RoleTooltip
	RoleStatus
	RoleLog
	RoleTimer
	RoleTitleBar
	RoleSeparator
	RoleCanvas
	RoleApplication
)

// RoleNames maps roles to the names used in fixtures and output.
var RoleNames = map[Role]string{
	RoleUnknown:            "unknown",
	RoleWindow:             "window",
	RoleGroup:              "group",
	RoleGenericContainer:   "genericContainer",
	RoleButton:             "button",
	RoleToggleButton:       "toggleButton",
	RoleCheckBox:           "checkBox",
	RoleRadioButton:        "radioButton",
	RoleSwitch:             "switch",
	RoleLink:               "link",
	RoleTextInput:          "textInput",
	RoleMultilineTextInput: "multilineTextInput",
	RoleSearchInput:        "searchInput",
	RoleStaticText:         "staticText",
	RoleLabel:              "label",
	RoleParagraph:          "paragraph",
	RoleHeading:            "heading",
	RoleImage:              "image",
	RoleList:               "list",
	RoleListItem:           "listItem",
	RoleListBox:            "listBox",
	RoleListBoxOption:      "listBoxOption",
	RoleTree:               "tree",
	RoleTreeItem:           "treeItem",
	RoleTable:              "table",
	RoleRow:                "row",
	RoleCell:               "cell",
	RoleColumnHeader:       "columnHeader",
	RoleRowHeader:          "rowHeader",
	RoleMenu:               "menu",
	RoleMenuBar:            "menuBar",
	RoleMenuItem:           "menuItem",
	RoleTabList:            "tabList",
	RoleTab:                "tab",
	RoleTabPanel:           "tabPanel",
	RoleToolbar:            "toolbar",
	RoleDialog:             "dialog",
	RoleAlert:              "alert",
	RoleAlertDialog:        "alertDialog",
	RoleSlider:             "slider",
	RoleSpinButton:         "spinButton",
	RoleProgressIndicator:  "progressIndicator",
	RoleScrollBar:          "scrollBar",
	RoleScrollView:         "scrollView",
	RoleComboBox:           "comboBox",
	RoleDocument:           "document",
	RolePane:               "pane",
	RoleTooltip:            "tooltip",
	RoleStatus:             "status",
	RoleLog:                "log",
	RoleTimer:              "timer",
	RoleTitleBar:           "titleBar",
	RoleSeparator:          "separator",
	RoleCanvas:             "canvas",
	RoleApplication:        "application",
}

var roleByName = func() map[string]Role {
	m := make(map[string]Role, len(RoleNames))
	for r, name := range RoleNames {
		m[name] = r
	}
	return m
}()

func (r Role) String() string {
	if name, ok := RoleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

// ParseRole converts a role name to a Role.
func ParseRole(name string) (Role, error) {
	if r, ok := roleByName[name]; ok {
		return r, nil
	}
	return RoleUnknown, fmt.Errorf("unknown role %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MetaRoles maps meta-role names to the concrete roles they expand to.
var MetaRoles = map[string][]Role{
	"interactive": {
		RoleButton, RoleToggleButton, RoleCheckBox, RoleRadioButton, RoleSwitch,
		RoleLink, RoleTextInput, RoleMultilineTextInput, RoleSearchInput,
		RoleListBoxOption, RoleMenuItem, RoleTab, RoleSlider, RoleSpinButton,
		RoleComboBox, RoleTreeItem,
	},
	"text": {
		RoleStaticText, RoleLabel, RoleParagraph, RoleHeading,
		RoleTextInput, RoleMultilineTextInput, RoleSearchInput, RoleDocument,
	},
}

// ExpandRoles resolves role names and meta-role names into concrete roles.
// Duplicates are removed.
func ExpandRoles(names []string) ([]Role, error) {
	seen := make(map[Role]bool, len(names))
	var expanded []Role
	add := func(r Role) {
		if !seen[r] {
			seen[r] = true
			expanded = append(expanded, r)
		}
	}
	for _, n := range names {
		if concrete, ok := MetaRoles[n]; ok {
			for _, c := range concrete {
				add(c)
			}
			continue
		}
		r, err := ParseRole(n)
		if err != nil {
			return nil, err
		}
		add(r)
	}
	return expanded, nil
}

// IsTextInput reports whether nodes with this role accept typed text.
func (r Role) IsTextInput() bool {
	switch r {
	case RoleTextInput, RoleMultilineTextInput, RoleSearchInput, RoleComboBox:
		return true
	}
	return false
}

// IsRange reports whether nodes with this role carry a numeric value.
func (r Role) IsRange() bool {
	switch r {
	case RoleSlider, RoleSpinButton, RoleProgressIndicator, RoleScrollBar:
		return true
	}
	return false
}

// IsClickable reports whether nodes with this role have a default action.
func (r Role) IsClickable() bool {
	switch r {
	case RoleButton, RoleToggleButton, RoleCheckBox, RoleRadioButton, RoleSwitch,
		RoleLink, RoleListBoxOption, RoleMenuItem, RoleTab, RoleTreeItem, RoleComboBox:
		return true
	}
	return false
}
