package platform

import (
	"github.com/mj1618/a11y-bridge/internal/events"
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/registry"
	"github.com/mj1618/a11y-bridge/internal/text"
	"github.com/mj1618/a11y-bridge/internal/tree"
)

// Platform projects abstract nodes into one native accessibility API.
// There is one implementation per target; the application picks one by
// name through a Catalog.
type Platform interface {
	// Name returns the catalog name, e.g. "uia".
	Name() string

	// Init prepares platform tables for the given application. It is
	// called once by platform.Init before any other method.
	Init(opts InitOptions) error

	// Encoding is how the native text interfaces count offsets.
	Encoding() text.Encoding

	// Role maps an abstract node to its native role.
	Role(n *model.Node) NativeRole

	// Properties returns the native properties exposed for one node.
	Properties(v NodeView) []NativeProperty

	// Translate converts an abstract notification into native events.
	Translate(n events.Notification, r Resolver) []NativeEvent
}

// Notifier receives native events. It is implemented by the host and
// stands in for the OS event API.
type Notifier interface {
	Notify(ev NativeEvent) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ev NativeEvent) error

func (f NotifierFunc) Notify(ev NativeEvent) error { return f(ev) }

// Resolver gives translators access to handles and the snapshot the
// notification was computed against.
type Resolver interface {
	Snapshot() *tree.Snapshot
	// Handle returns the handle for id, including recently removed nodes
	// the platform may still reference. It returns 0 for unknown ids.
	Handle(id model.NodeID) registry.Handle
}

// NodeView is one node as seen by a platform translator.
type NodeView struct {
	ID         model.NodeID
	Handle     registry.Handle
	Node       *model.Node
	Parent     registry.Handle // zero for the root
	Index      int             // position among siblings, -1 for the root
	ChildCount int
	Focused    bool
	Bounds     *DeviceRect // nil when the node declares no bounds
	Coords     Coordinates // host window mapping at the time of the view
}

// NativeRole is a platform role constant with its native name.
type NativeRole struct {
	Code uint32 `yaml:"code" json:"code"`
	Name string `yaml:"name" json:"name"`
}

// NativeProperty is one property in a platform's vocabulary.
type NativeProperty struct {
	ID    uint32 `yaml:"id,omitempty" json:"id,omitempty"`
	Name  string `yaml:"name"         json:"name"`
	Value any    `yaml:"value"        json:"value"`
}

// NativeEvent is one event in a platform's vocabulary.
type NativeEvent struct {
	Platform string          `yaml:"platform"          json:"platform"`
	Name     string          `yaml:"name"              json:"name"`
	Code     uint32          `yaml:"code,omitempty"    json:"code,omitempty"`
	Target   registry.Handle `yaml:"target"            json:"target"`
	Detail   string          `yaml:"detail,omitempty"  json:"detail,omitempty"`
	Detail1  int             `yaml:"detail1,omitempty" json:"detail1,omitempty"`
	Detail2  int             `yaml:"detail2,omitempty" json:"detail2,omitempty"`
	Value    any             `yaml:"value,omitempty"   json:"value,omitempty"`
}
