package layout

import "math"

// Vec2 is a position or offset in container-local units.
type Vec2 struct {
	X, Y float64
}

// Add returns v offset by o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

// Sub returns v minus o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

// Near reports whether both components of v and o differ by at most tol.
func (v Vec2) Near(o Vec2, tol float64) bool {
	return math.Abs(v.X-o.X) <= tol && math.Abs(v.Y-o.Y) <= tol
}

// Size is the width and height of an item or container.
type Size struct {
	W, H float64
}

// Main returns the extent of s along axis a.
func (s Size) Main(a Axis) float64 {
	if a == Vertical {
		return s.H
	}
	return s.W
}

// Cross returns the extent of s across axis a.
func (s Size) Cross(a Axis) float64 {
	if a == Vertical {
		return s.W
	}
	return s.H
}

// Rect is an axis-aligned rectangle: a top-left position plus a size.
type Rect struct {
	X, Y, W, H float64
}

// Pos returns the top-left corner of r.
func (r Rect) Pos() Vec2 { return Vec2{X: r.X, Y: r.Y} }

// Size returns the dimensions of r.
func (r Rect) Size() Size { return Size{W: r.W, H: r.H} }

// Right returns the right edge of r.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the bottom edge of r.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the midpoint of r.
func (r Rect) Center() Vec2 { return Vec2{X: r.X + r.W/2, Y: r.Y + r.H/2} }

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// mainOf and crossOf split a position into its axis components.
func mainOf(v Vec2, a Axis) float64 {
	if a == Vertical {
		return v.Y
	}
	return v.X
}

func crossOf(v Vec2, a Axis) float64 {
	if a == Vertical {
		return v.X
	}
	return v.Y
}

// compose builds a position from main and cross components.
func compose(a Axis, main, cross float64) Vec2 {
	if a == Vertical {
		return Vec2{X: cross, Y: main}
	}
	return Vec2{X: main, Y: cross}
}
