package platform

import (
	"errors"
	"math"
	"testing"

	"github.com/mj1618/a11y-bridge/internal/events"
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlatform struct {
	name    string
	initErr error
	got     InitOptions
}

func (f *fakePlatform) Name() string                           { return f.name }
func (f *fakePlatform) Init(opts InitOptions) error            { f.got = opts; return f.initErr }
func (f *fakePlatform) Encoding() text.Encoding                { return text.EncodingBytes }
func (f *fakePlatform) Role(n *model.Node) NativeRole          { return NativeRole{Name: n.Role.String()} }
func (f *fakePlatform) Properties(v NodeView) []NativeProperty { return nil }
func (f *fakePlatform) Translate(n events.Notification, r Resolver) []NativeEvent {
	return nil
}

func TestCatalog(t *testing.T) {
	c := Catalog{
		"b": func() Platform { return &fakePlatform{name: "b"} },
		"a": func() Platform { return &fakePlatform{name: "a"} },
	}
	assert.Equal(t, []string{"a", "b"}, c.Names())

	p, err := c.New("B")
	require.NoError(t, err)
	assert.Equal(t, "b", p.Name())

	_, err = c.New("cocoa")
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Contains(t, err.Error(), "a, b")
}

func TestInit_Defaults(t *testing.T) {
	f := &fakePlatform{name: "fake"}
	ctx, err := Init(f, InitOptions{})
	require.NoError(t, err)
	assert.Equal(t, "a11y-bridge", f.got.AppName)
	assert.Equal(t, 1.0, f.got.Window.ScaleFactor)
	assert.Equal(t, 1.0, ctx.Coordinates().Scale)
	assert.Same(t, f, ctx.Platform())
}

func TestInit_InvalidScale(t *testing.T) {
	for _, s := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := Init(&fakePlatform{name: "fake"}, InitOptions{Window: model.Window{ScaleFactor: s}})
		assert.Error(t, err, "scale %v", s)
	}
}

func TestInit_Errors(t *testing.T) {
	_, err := Init(nil, InitOptions{})
	assert.Error(t, err)

	boom := errors.New("boom")
	_, err = Init(&fakePlatform{name: "fake", initErr: boom}, InitOptions{})
	assert.ErrorIs(t, err, boom)
}

func TestContext_WithWindow(t *testing.T) {
	ctx, err := Init(&fakePlatform{name: "fake"}, InitOptions{AppName: "demo"})
	require.NoError(t, err)

	moved, err := ctx.WithWindow(model.Window{ScaleFactor: 2, Origin: model.Point{X: 5, Y: 6}})
	require.NoError(t, err)
	assert.Equal(t, 2.0, moved.Coordinates().Scale)
	assert.Equal(t, "demo", moved.Options().AppName)
	assert.Equal(t, 1.0, ctx.Coordinates().Scale)

	_, err = ctx.WithWindow(model.Window{})
	assert.Error(t, err)
}
