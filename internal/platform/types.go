package platform

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mj1618/a11y-bridge/internal/model"
)

// DeviceRect is a rectangle in device pixels.
type DeviceRect struct {
	X      int `yaml:"x"      json:"x"`
	Y      int `yaml:"y"      json:"y"`
	Width  int `yaml:"width"  json:"width"`
	Height int `yaml:"height" json:"height"`
}

// DevicePoint is a point in device pixels.
type DevicePoint struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// ParseBBox parses a "x,y,w,h" string into a DeviceRect.
func ParseBBox(s string) (*DeviceRect, error) {
	vals, err := parseInts(s, 4)
	if err != nil {
		return nil, fmt.Errorf("invalid bbox %q: %w", s, err)
	}
	return &DeviceRect{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, nil
}

// ParsePoint parses a "x,y" string into a DevicePoint.
func ParsePoint(s string) (DevicePoint, error) {
	vals, err := parseInts(s, 2)
	if err != nil {
		return DevicePoint{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return DevicePoint{X: vals[0], Y: vals[1]}, nil
}

func parseInts(s string, n int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma-separated values", n)
	}
	vals := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

// Coordinates maps root-relative logical units to device pixels.
type Coordinates struct {
	Scale  float64
	Origin model.Point // client-area origin in device pixels
}

// ToDevice converts a rectangle in root logical units to device pixels.
// Edges are rounded independently so adjacent rectangles stay adjacent.
func (c Coordinates) ToDevice(r model.Rect) DeviceRect {
	x0 := math.Round(r.X0*c.Scale + c.Origin.X)
	y0 := math.Round(r.Y0*c.Scale + c.Origin.Y)
	x1 := math.Round(r.X1*c.Scale + c.Origin.X)
	y1 := math.Round(r.Y1*c.Scale + c.Origin.Y)
	return DeviceRect{X: int(x0), Y: int(y0), Width: int(x1 - x0), Height: int(y1 - y0)}
}

// FromDevice converts a device pixel to root logical units. The point is
// taken at the pixel's center.
func (c Coordinates) FromDevice(p DevicePoint) model.Point {
	return model.Point{
		X: (float64(p.X) + 0.5 - c.Origin.X) / c.Scale,
		Y: (float64(p.Y) + 0.5 - c.Origin.Y) / c.Scale,
	}
}

// RectFromDevice converts a device rectangle to root logical units. It is
// the inverse of ToDevice up to rounding.
func (c Coordinates) RectFromDevice(r DeviceRect) model.Rect {
	return model.Rect{
		X0: (float64(r.X) - c.Origin.X) / c.Scale,
		Y0: (float64(r.Y) - c.Origin.Y) / c.Scale,
		X1: (float64(r.X+r.Width) - c.Origin.X) / c.Scale,
		Y1: (float64(r.Y+r.Height) - c.Origin.Y) / c.Scale,
	}
}
