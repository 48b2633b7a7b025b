package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Action is a request an assistive technology can make of a node.
type Action uint8

const (
	ActionFocus Action = iota
	ActionBlur
	ActionDefault
	ActionSetValue
	ActionSetNumericValue
	ActionIncrement
	ActionDecrement
	ActionExpand
	ActionCollapse
	ActionScrollIntoView
	ActionSetTextSelection
	ActionShowContextMenu
	actionCount
)

var actionNames = [actionCount]string{
	"focus", "blur", "default", "setValue", "setNumericValue", "increment",
	"decrement", "expand", "collapse", "scrollIntoView", "setTextSelection",
	"showContextMenu",
}

func (a Action) String() string {
	if a < actionCount {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", uint8(a))
}

// ParseAction converts an action name to an Action.
func ParseAction(name string) (Action, error) {
	for i, n := range actionNames {
		if strings.EqualFold(n, name) {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(b []byte) error {
	parsed, err := ParseAction(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ActionSet is a set of actions a node explicitly declares.
type ActionSet uint16

// NewActionSet returns a set containing actions.
func NewActionSet(actions ...Action) ActionSet {
	var s ActionSet
	for _, a := range actions {
		s = s.With(a)
	}
	return s
}

func (s ActionSet) Has(a Action) bool       { return s&(1<<a) != 0 }
func (s ActionSet) With(a Action) ActionSet { return s | 1<<a }

// Actions lists the members of s in declaration order.
func (s ActionSet) Actions() []Action {
	var out []Action
	for a := Action(0); a < actionCount; a++ {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s ActionSet) String() string {
	names := make([]string, 0, actionCount)
	for _, a := range s.Actions() {
		names = append(names, a.String())
	}
	return strings.Join(names, ",")
}

// MarshalText implements encoding.TextMarshaler.
func (s ActionSet) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText parses a comma-separated list of action names.
func (s *ActionSet) UnmarshalText(b []byte) error {
	var set ActionSet
	for _, part := range strings.Split(string(b), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		a, err := ParseAction(part)
		if err != nil {
			return err
		}
		set = set.With(a)
	}
	*s = set
	return nil
}

// ActionData carries the argument of an action, if it takes one.
type ActionData struct {
	Value         *string        `yaml:"value,omitempty"          json:"value,omitempty"`
	NumericValue  *float64       `yaml:"numeric_value,omitempty"  json:"numeric_value,omitempty"`
	ScrollTarget  *Rect          `yaml:"scroll_target,omitempty"  json:"scroll_target,omitempty"`
	TextSelection *TextSelection `yaml:"text_selection,omitempty" json:"text_selection,omitempty"`
}

// ActionRequest is an action routed from the platform to the application.
type ActionRequest struct {
	ID     uuid.UUID  `yaml:"id"     json:"id"`
	Action Action     `yaml:"action" json:"action"`
	Target NodeID     `yaml:"target" json:"target"`
	Data   ActionData `yaml:"data"   json:"data"`
}

// ActionHandler receives action requests on the application side.
// DoAction must not block the caller for long.
type ActionHandler interface {
	DoAction(req ActionRequest)
}

// ActionHandlerFunc adapts a function to ActionHandler.
type ActionHandlerFunc func(req ActionRequest)

func (f ActionHandlerFunc) DoAction(req ActionRequest) { f(req) }

// Supports reports whether n accepts action a given its role and state.
// Disabled nodes only accept scroll-into-view.
func Supports(n *Node, a Action) bool {
	if a == ActionScrollIntoView {
		return true
	}
	if n.Disabled {
		return false
	}
	if n.Actions.Has(a) {
		return true
	}
	switch a {
	case ActionFocus:
		return n.Focusable
	case ActionBlur:
		return n.Focusable
	case ActionDefault:
		return n.Role.IsClickable()
	case ActionSetValue:
		return (n.Editable || n.Role.IsTextInput()) && !n.ReadOnly
	case ActionSetNumericValue, ActionIncrement, ActionDecrement:
		return n.NumericValue != nil && !n.ReadOnly
	case ActionExpand, ActionCollapse:
		return n.Expanded != nil
	case ActionSetTextSelection:
		return n.HasText()
	}
	return false
}
