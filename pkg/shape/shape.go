// Package shape implements geometric prototypes whose clones copy their own
// geometry but share a single Theme: restyling a theme through any shape is
// visible through every shape cloned from the same prototype.
package shape

import (
	"fmt"
	"math"

	"protoreg/pkg/prototype"
)

// Theme is drawing style shared between a prototype and all of its clones.
type Theme struct {
	Name    string
	Stroke  int
	Opacity float64
}

// Point is a position on the canvas.
type Point struct {
	X int
	Y int
}

// Shape is implemented by every geometric prototype.
type Shape interface {
	prototype.Prototype[Shape]
	Area() float64
	Draw() string
	MoveTo(x, y int)
	Position() Point
	Theme() *Theme
	Equal(other Shape) bool
}

// Circle is a shape with a radius.
type Circle struct {
	Color  string
	At     Point
	Radius int

	theme *Theme
}

// NewCircle constructs a circle drawn with theme.
func NewCircle(color string, x, y, radius int, theme *Theme) *Circle {
	return &Circle{Color: color, At: Point{X: x, Y: y}, Radius: radius, theme: theme}
}

// Clone copies the geometry and colour; the theme pointer is shared.
func (c *Circle) Clone() Shape {
	cp := *c
	return &cp
}

// Area returns the circle area.
func (c *Circle) Area() float64 {
	return math.Pi * float64(c.Radius) * float64(c.Radius)
}

// Draw describes how the circle would be rendered.
func (c *Circle) Draw() string {
	return fmt.Sprintf("Drawing Circle at (%d,%d) with radius %d in %s%s", c.At.X, c.At.Y, c.Radius, c.Color, themeSuffix(c.theme))
}

// MoveTo repositions the circle.
func (c *Circle) MoveTo(x, y int) { c.At = Point{X: x, Y: y} }

// Position returns the circle centre.
func (c *Circle) Position() Point { return c.At }

// Theme returns the shared theme.
func (c *Circle) Theme() *Theme { return c.theme }

// SetTheme rebinds the circle to a different theme without affecting other
// shapes that share the old one.
func (c *Circle) SetTheme(t *Theme) { c.theme = t }

// Equal reports whether other is a circle with the same geometry, colour and
// theme identity.
func (c *Circle) Equal(other Shape) bool {
	o, ok := other.(*Circle)
	if !ok || o == nil {
		return false
	}
	return c.Color == o.Color && c.At == o.At && c.Radius == o.Radius && c.theme == o.theme
}

func (c *Circle) String() string {
	return fmt.Sprintf("Circle[color=%s, x=%d, y=%d, radius=%d]", c.Color, c.At.X, c.At.Y, c.Radius)
}

// Rectangle is a shape with width and height.
type Rectangle struct {
	Color  string
	At     Point
	Width  int
	Height int

	theme *Theme
}

// NewRectangle constructs a rectangle drawn with theme.
func NewRectangle(color string, x, y, width, height int, theme *Theme) *Rectangle {
	return &Rectangle{Color: color, At: Point{X: x, Y: y}, Width: width, Height: height, theme: theme}
}

// Clone copies the geometry and colour; the theme pointer is shared.
func (r *Rectangle) Clone() Shape {
	cp := *r
	return &cp
}

// Area returns the rectangle area.
func (r *Rectangle) Area() float64 {
	return float64(r.Width * r.Height)
}

// Draw describes how the rectangle would be rendered.
func (r *Rectangle) Draw() string {
	return fmt.Sprintf("Drawing Rectangle at (%d,%d) with size %dx%d in %s%s", r.At.X, r.At.Y, r.Width, r.Height, r.Color, themeSuffix(r.theme))
}

// MoveTo repositions the rectangle.
func (r *Rectangle) MoveTo(x, y int) { r.At = Point{X: x, Y: y} }

// Position returns the top-left corner.
func (r *Rectangle) Position() Point { return r.At }

// Theme returns the shared theme.
func (r *Rectangle) Theme() *Theme { return r.theme }

// SetTheme rebinds the rectangle to a different theme.
func (r *Rectangle) SetTheme(t *Theme) { r.theme = t }

// Equal reports whether other is a rectangle with the same geometry, colour
// and theme identity.
func (r *Rectangle) Equal(other Shape) bool {
	o, ok := other.(*Rectangle)
	if !ok || o == nil {
		return false
	}
	return r.Color == o.Color && r.At == o.At && r.Width == o.Width && r.Height == o.Height && r.theme == o.theme
}

func (r *Rectangle) String() string {
	return fmt.Sprintf("Rectangle[color=%s, x=%d, y=%d, width=%d, height=%d]", r.Color, r.At.X, r.At.Y, r.Width, r.Height)
}

func themeSuffix(t *Theme) string {
	if t == nil {
		return ""
	}
	return fmt.Sprintf(" (theme %s, stroke %d)", t.Name, t.Stroke)
}
