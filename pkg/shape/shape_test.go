package shape

import (
	"math"
	"testing"

	"protoreg/pkg/prototype"
)

func TestCloneIsDistinctAndEqual(t *testing.T) {
	theme := &Theme{Name: "default", Stroke: 1, Opacity: 1}
	shapes := []Shape{
		NewCircle("red", 10, 20, 15, theme),
		NewRectangle("blue", 5, 5, 30, 20, theme),
	}
	for _, s := range shapes {
		clone := s.Clone()
		if clone == s {
			t.Fatalf("expected clone to be a distinct instance")
		}
		if !clone.Equal(s) || !s.Equal(clone) {
			t.Fatalf("expected clone to equal original: %v vs %v", s, clone)
		}
		if clone.Draw() != s.Draw() {
			t.Fatalf("expected identical drawing, got %q vs %q", clone.Draw(), s.Draw())
		}
	}
}

func TestGeometryIsIndependent(t *testing.T) {
	theme := &Theme{Name: "default"}
	original := NewCircle("red", 10, 20, 15, theme)
	clone := original.Clone().(*Circle)

	clone.MoveTo(50, 60)
	clone.Radius = 3
	clone.Color = "green"

	if original.Position() != (Point{X: 10, Y: 20}) {
		t.Fatalf("expected original position untouched, got %+v", original.Position())
	}
	if original.Radius != 15 || original.Color != "red" {
		t.Fatalf("expected original geometry untouched, got %v", original)
	}
	if original.Equal(clone) {
		t.Fatalf("expected diverged clone to differ")
	}

	rect := NewRectangle("blue", 0, 0, 4, 5, theme)
	rc := rect.Clone()
	rc.MoveTo(9, 9)
	if rect.Position() != (Point{}) {
		t.Fatalf("expected rectangle position untouched")
	}
}

func TestThemeIsShared(t *testing.T) {
	theme := &Theme{Name: "light", Stroke: 1}
	circle := NewCircle("red", 0, 0, 1, theme)
	rect := NewRectangle("blue", 0, 0, 1, 1, theme)
	cc := circle.Clone()
	rc := rect.Clone()

	if cc.Theme() != circle.Theme() || rc.Theme() != rect.Theme() {
		t.Fatalf("expected clones to alias the theme")
	}

	cc.Theme().Name = "dark"
	if circle.Theme().Name != "dark" || rect.Theme().Name != "dark" {
		t.Fatalf("expected theme change through clone to be visible everywhere")
	}
	circle.Theme().Stroke = 3
	if cc.Theme().Stroke != 3 || rc.Theme().Stroke != 3 {
		t.Fatalf("expected theme change through original to be visible through clones")
	}

	own := &Theme{Name: "own"}
	cc.(*Circle).SetTheme(own)
	if circle.Theme() != theme {
		t.Fatalf("expected rebinding a clone's theme to leave the original bound")
	}
	if cc.Equal(circle) {
		t.Fatalf("expected different theme identity to break equality")
	}
}

func TestAreaDrawAndString(t *testing.T) {
	c := NewCircle("red", 10, 20, 2, nil)
	if got := c.Area(); math.Abs(got-4*math.Pi) > 1e-9 {
		t.Fatalf("unexpected circle area %v", got)
	}
	if got := c.Draw(); got != "Drawing Circle at (10,20) with radius 2 in red" {
		t.Fatalf("unexpected draw %q", got)
	}
	if got := c.String(); got != "Circle[color=red, x=10, y=20, radius=2]" {
		t.Fatalf("unexpected string %q", got)
	}

	r := NewRectangle("blue", 1, 2, 3, 4, &Theme{Name: "t", Stroke: 2})
	if r.Area() != 12 {
		t.Fatalf("unexpected rectangle area %v", r.Area())
	}
	if got := r.Draw(); got != "Drawing Rectangle at (1,2) with size 3x4 in blue (theme t, stroke 2)" {
		t.Fatalf("unexpected draw %q", got)
	}
	if got := r.String(); got != "Rectangle[color=blue, x=1, y=2, width=3, height=4]" {
		t.Fatalf("unexpected string %q", got)
	}
	if r.Equal(c) || c.Equal(r) {
		t.Fatalf("expected shapes of different kinds to differ")
	}
	var nilCircle *Circle
	if c.Equal(nilCircle) {
		t.Fatalf("expected nil circle to differ")
	}
}

func TestRegistryOfShapes(t *testing.T) {
	theme := &Theme{Name: "default"}
	reg := prototype.NewRegistry[Shape]()
	reg.Register("red-circle", NewCircle("red", 10, 20, 15, theme))
	reg.Register("blue-rectangle", NewRectangle("blue", 5, 5, 30, 20, theme))

	a, err := reg.Create("red-circle")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	b, err := reg.Create("red-circle")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a == b {
		t.Fatalf("expected two creates to return distinct instances")
	}
	a.MoveTo(100, 100)
	if b.Position() != (Point{X: 10, Y: 20}) {
		t.Fatalf("expected independent geometry, got %+v", b.Position())
	}
	a.Theme().Opacity = 0.5
	if b.Theme().Opacity != 0.5 || theme.Opacity != 0.5 {
		t.Fatalf("expected theme shared across registry clones")
	}

	if got := reg.Names(); len(got) != 2 || got[0] != "blue-rectangle" || got[1] != "red-circle" {
		t.Fatalf("unexpected names %v", got)
	}
	if _, err := reg.Create("triangle"); !prototype.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
