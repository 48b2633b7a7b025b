// Package headless is a platform projection with no native API behind
// it. It exposes abstract roles and properties verbatim and is used for
// replay, inspection and tests.
package headless

import (
	"sync"

	"github.com/mj1618/a11y-bridge/internal/events"
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/platform"
	"github.com/mj1618/a11y-bridge/internal/text"
)

// Name is the catalog name of this platform.
const Name = "headless"

// Platform is the headless projection.
type Platform struct {
	app string
}

// New returns an uninitialized headless platform.
func New() platform.Platform { return &Platform{} }

func (p *Platform) Name() string { return Name }

func (p *Platform) Init(opts platform.InitOptions) error {
	p.app = opts.AppName
	return nil
}

func (p *Platform) Encoding() text.Encoding { return text.EncodingCharacters }

func (p *Platform) Role(n *model.Node) platform.NativeRole {
	return platform.NativeRole{Code: uint32(n.Role), Name: n.Role.String()}
}

var exposed = []model.Property{
	model.PropName, model.PropDescription, model.PropValue, model.PropPlaceholder,
	model.PropNumericValue, model.PropNumericRange, model.PropLive, model.PropChecked,
	model.PropExpanded, model.PropSelected, model.PropFocusable, model.PropDisabled,
	model.PropReadOnly, model.PropHidden, model.PropEditable, model.PropMultiline,
	model.PropActions, model.PropTextSelection,
}

// Properties returns the role, position and every non-empty abstract
// property of the node, formatted as strings.
func (p *Platform) Properties(v platform.NodeView) []platform.NativeProperty {
	props := []platform.NativeProperty{
		{Name: "handle", Value: uint32(v.Handle)},
		{Name: "id", Value: v.ID.String()},
		{Name: "role", Value: v.Node.Role.String()},
		{Name: "parent", Value: uint32(v.Parent)},
		{Name: "index", Value: v.Index},
		{Name: "child_count", Value: v.ChildCount},
		{Name: "focused", Value: v.Focused},
	}
	if v.Bounds != nil {
		props = append(props, platform.NativeProperty{Name: "bounds", Value: *v.Bounds})
	}
	for _, prop := range exposed {
		s := model.FormatProperty(v.Node, prop)
		if s == "" || s == "false" || (prop == model.PropLive && s == model.LiveOff.String()) {
			continue
		}
		if prop == model.PropNumericRange && v.Node.MinNumericValue == nil && v.Node.MaxNumericValue == nil && v.Node.NumericStep == nil {
			continue
		}
		props = append(props, platform.NativeProperty{Name: string(prop), Value: s})
	}
	return props
}

// Translate emits one event per notification, named after its kind.
func (p *Platform) Translate(n events.Notification, r platform.Resolver) []platform.NativeEvent {
	target := r.Handle(n.Target)
	if target == 0 {
		return nil
	}
	ev := platform.NativeEvent{Platform: Name, Name: string(n.Kind), Target: target}
	switch n.Kind {
	case events.KindNodeRemoved:
		ev.Detail1 = n.Index
		ev.Value = uint32(r.Handle(n.Node))
	case events.KindChildrenChanged:
		ev.Detail1 = len(n.Inserted)
	case events.KindPropertyChanged:
		ev.Detail = string(n.Property)
		ev.Value = n.NewValue
	case events.KindLiveRegion:
		ev.Detail = n.Politeness.String()
		ev.Value = n.Text
	case events.KindFocusChanged:
		ev.Detail1 = int(r.Handle(n.Previous))
	}
	return []platform.NativeEvent{ev}
}

// Recorder is a Notifier that keeps every event it receives.
type Recorder struct {
	mu     sync.Mutex
	events []platform.NativeEvent
	fail   func(platform.NativeEvent) error
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// FailWith makes Notify return fn's result; events for which fn returns
// an error are not recorded.
func (r *Recorder) FailWith(fn func(platform.NativeEvent) error) {
	r.mu.Lock()
	r.fail = fn
	r.mu.Unlock()
}

func (r *Recorder) Notify(ev platform.NativeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		if err := r.fail(ev); err != nil {
			return err
		}
	}
	r.events = append(r.events, ev)
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []platform.NativeEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]platform.NativeEvent(nil), r.events...)
}

// Names returns the recorded event names in order.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.events))
	for i, ev := range r.events {
		names[i] = ev.Name
	}
	return names
}

// Drain returns the recorded events and clears the recorder.
func (r *Recorder) Drain() []platform.NativeEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	evs := r.events
	r.events = nil
	return evs
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
