package platform

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/mj1618/a11y-bridge/internal/model"
)

// ErrUnsupported is returned for platform names missing from a catalog.
var ErrUnsupported = errors.New("unsupported platform")

// Factory creates an uninitialized Platform.
type Factory func() Platform

// Catalog maps platform names to factories. Selection is by name only.
type Catalog map[string]Factory

// New creates the platform registered under name.
func (c Catalog) New(name string) (Platform, error) {
	f, ok := c[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupported, name, strings.Join(c.Names(), ", "))
	}
	return f(), nil
}

// Names lists the registered platform names in order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for n := range c {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// InitOptions identifies the application and its window.
type InitOptions struct {
	AppName        string
	ToolkitName    string
	ToolkitVersion string
	Window         model.Window
}

// Context is the result of explicit platform initialization. Adapters
// require one, so no platform state is created lazily behind the
// application's back.
type Context struct {
	platform Platform
	opts     InitOptions
	coords   Coordinates
}

// Init validates opts and initializes p.
func Init(p Platform, opts InitOptions) (*Context, error) {
	if p == nil {
		return nil, fmt.Errorf("init platform: nil platform")
	}
	scale := opts.Window.ScaleFactor
	if scale == 0 {
		scale = 1
	}
	if scale < 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("init platform %s: invalid scale factor %v", p.Name(), opts.Window.ScaleFactor)
	}
	opts.Window.ScaleFactor = scale
	if opts.AppName == "" {
		opts.AppName = "a11y-bridge"
	}
	if err := p.Init(opts); err != nil {
		return nil, fmt.Errorf("init platform %s: %w", p.Name(), err)
	}
	return &Context{
		platform: p,
		opts:     opts,
		coords:   Coordinates{Scale: scale, Origin: opts.Window.Origin},
	}, nil
}

// Platform returns the initialized platform.
func (c *Context) Platform() Platform { return c.platform }

// Options returns the options the platform was initialized with.
func (c *Context) Options() InitOptions { return c.opts }

// Coordinates returns the logical-to-device mapping of the host window.
func (c *Context) Coordinates() Coordinates { return c.coords }

// WithWindow returns a copy of c for a moved or rescaled window.
func (c *Context) WithWindow(w model.Window) (*Context, error) {
	if w.ScaleFactor <= 0 || math.IsNaN(w.ScaleFactor) || math.IsInf(w.ScaleFactor, 0) {
		return nil, fmt.Errorf("invalid scale factor %v", w.ScaleFactor)
	}
	next := *c
	next.opts.Window = w
	next.coords = Coordinates{Scale: w.ScaleFactor, Origin: w.Origin}
	return &next, nil
}
